package database

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/config"
	"github.com/Cmooon-dev/gleaflet/internal/model"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectSqliteFile(t *testing.T) {
	m := NewManager(zerolog.Nop())
	path := filepath.Join(t.TempDir(), "journal.db")

	err := m.Connect(config.JournalConfig{Driver: "sqlite", Path: path})

	require.NoError(t, err)
	require.NotNil(t, m.DB)
	assert.False(t, m.ShouldSaveLocal)
	assert.Equal(t, path, m.SqliteFilePath)
	require.NoError(t, m.Setup())

	sess := model.Session{SceneName: "connect-file", EngineKind: "journal", StartedAt: time.Now()}
	require.NoError(t, m.DB.Create(&sess).Error)
	assert.NotZero(t, sess.ID)

	var got model.Session
	require.NoError(t, m.DB.Where("scene_name = ?", "connect-file").First(&got).Error)
	assert.Equal(t, "journal", got.EngineKind)
}

func TestConnectSqliteMemory(t *testing.T) {
	m := NewManager(zerolog.Nop())

	err := m.Connect(config.JournalConfig{Driver: "sqlite"})

	require.NoError(t, err)
	require.NotNil(t, m.DB)
	assert.True(t, m.ShouldSaveLocal)
	require.NoError(t, m.Setup())
}

func TestConnectPostgresFallsBackToSqlite(t *testing.T) {
	m := NewManager(zerolog.Nop())
	cfg := config.JournalConfig{
		Driver: "postgres",
		Postgres: config.PostgresConfig{
			Host:     "127.0.0.1",
			Port:     "1",
			Username: "gleaflet",
			Password: "gleaflet",
			Database: "gleaflet",
		},
	}

	err := m.Connect(cfg)

	require.NoError(t, err)
	assert.True(t, m.ShouldSaveLocal)
	assert.Equal(t, "sqlite", m.DB.Dialector.Name())
}

func TestSetupCreatesTables(t *testing.T) {
	m := NewManager(zerolog.Nop())
	require.NoError(t, m.Connect(config.JournalConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "schema.db")}))

	require.NoError(t, m.Setup())

	for _, table := range []string{"sessions", "map_records", "marker_records", "polyline_records", "operations"} {
		assert.True(t, m.DB.Migrator().HasTable(table), "expected table %s", table)
	}
}

func TestDumpMemoryToDisk(t *testing.T) {
	m := NewManager(zerolog.Nop())
	require.NoError(t, m.Connect(config.JournalConfig{Driver: "sqlite"}))
	m.SqliteFilePath = filepath.Join(t.TempDir(), "dump.db")
	require.NoError(t, m.Setup())

	sess := model.Session{SceneName: "dump-roundtrip", EngineKind: "journal", StartedAt: time.Now()}
	require.NoError(t, m.DB.Create(&sess).Error)

	require.NoError(t, m.DumpMemoryToDisk())

	reopened, err := GetSqliteDBStandalone(m.SqliteFilePath)
	require.NoError(t, err)
	var count int64
	require.NoError(t, reopened.Model(&model.Session{}).Where("scene_name = ?", "dump-roundtrip").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDumpMemoryToDiskNoPath(t *testing.T) {
	m := NewManager(zerolog.Nop())

	err := m.DumpMemoryToDisk()

	assert.ErrorContains(t, err, "sqlite file path not set")
}

func TestGetBackupDBPaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.db", "b.db", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	paths, err := GetBackupDBPaths(dir)

	require.NoError(t, err)
	assert.Equal(t, []string{dir + "/a.db", dir + "/b.db"}, paths)
}

func TestGetBackupDBPathsMissingDir(t *testing.T) {
	_, err := GetBackupDBPaths(filepath.Join(t.TempDir(), "nope"))

	assert.Error(t, err)
}
