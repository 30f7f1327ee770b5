// Package database opens and migrates the journal database. Postgres
// is the preferred backend; when it cannot be reached the journal is
// kept in SQLite so the run survives, in memory if no path is
// configured.
package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/config"
	"github.com/Cmooon-dev/gleaflet/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlitePragmas tune SQLite for journaling throughput over
// durability; a crashed run only loses what the next flush would
// have written anyway.
var sqlitePragmas = []string{
	"PRAGMA user_version = 1;",
	"PRAGMA journal_mode = MEMORY;",
	"PRAGMA synchronous = OFF;",
	"PRAGMA cache_size = -32000;",
	"PRAGMA temp_store = MEMORY;",
	"PRAGMA page_size = 32768;",
	"PRAGMA mmap_size = 30000000000;",
}

// Manager owns the journal database connection.
//
// ShouldSaveLocal is set when the journal ended up in memory instead
// of its configured backend; Close paths use it to decide whether
// DumpMemoryToDisk still owes the run a file.
type Manager struct {
	DB              *gorm.DB
	ShouldSaveLocal bool
	SqliteFilePath  string

	log zerolog.Logger
}

// NewManager creates a new database manager.
func NewManager(log zerolog.Logger) *Manager {
	return &Manager{log: log}
}

// Connect establishes the journal database connection for the
// configured driver. A failing Postgres connection falls back to
// in-memory SQLite so the run is not lost.
func (m *Manager) Connect(cfg config.JournalConfig) error {
	m.SqliteFilePath = cfg.Path

	if cfg.Driver == "postgres" {
		db, err := m.connectPostgres(cfg.Postgres)
		if err == nil {
			m.DB = db
			m.log.Info().Msg("Connected to Postgres journal")
			return nil
		}
		m.log.Error().Err(err).Msg("Postgres journal unavailable, keeping the run in SQLite")
		m.ShouldSaveLocal = true
		return m.connectSqlite("")
	}

	if cfg.Path == "" {
		m.ShouldSaveLocal = true
	}
	return m.connectSqlite(cfg.Path)
}

func (m *Manager) connectPostgres(cfg config.PostgresConfig) (*gorm.DB, error) {
	db, err := openPostgres(m.log, cfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql interface: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	return db, nil
}

func (m *Manager) connectSqlite(path string) error {
	db, err := openSqlite(path)
	if err != nil {
		return fmt.Errorf("failed to open SQLite journal: %w", err)
	}
	if path != "" {
		m.log.Info().Str("path", path).Msg("Using local SQLite journal")
	} else {
		m.log.Info().Msg("Using local SQLite journal in memory")
	}
	m.DB = db
	return nil
}

// Setup migrates the journal schema.
func (m *Manager) Setup() error {
	// PostGIS backs the geometry columns on Postgres
	if m.DB.Dialector.Name() == "postgres" {
		if err := m.DB.Exec(`CREATE Extension IF NOT EXISTS postgis;`).Error; err != nil {
			return fmt.Errorf("failed to create PostGIS Extension: %w", err)
		}
	}

	models := model.DatabaseModels
	if m.DB.Dialector.Name() == "sqlite" {
		models = model.DatabaseModelsSQLite
	}

	m.log.Info().Msg("Migrating journal schema")
	if err := m.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	m.log.Info().Msg("Database setup complete")
	return nil
}

// DumpMemoryToDisk vacuums the in-memory database to a file.
func (m *Manager) DumpMemoryToDisk() error {
	if m.SqliteFilePath == "" {
		return fmt.Errorf("sqlite file path not set")
	}

	if err := os.Remove(m.SqliteFilePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("error removing existing journal file: %w", err)
	}

	start := time.Now()
	if err := m.DB.Exec("VACUUM INTO 'file:" + m.SqliteFilePath + "';").Error; err != nil {
		return fmt.Errorf("error dumping memory DB to disk: %w", err)
	}

	m.log.Debug().Dur("duration", time.Since(start)).Msg("Dumped memory DB to disk")
	return nil
}

// GetBackupDBPaths returns paths to all .db files in the given directory.
func GetBackupDBPaths(journalDir string) ([]string, error) {
	files, err := os.ReadDir(journalDir)
	if err != nil {
		return nil, err
	}

	var dbPaths []string
	for _, file := range files {
		if file.IsDir() || filepath.Ext(file.Name()) != ".db" {
			continue
		}
		dbPaths = append(dbPaths, filepath.Join(journalDir, file.Name()))
	}
	return dbPaths, nil
}

// GetPostgresDBStandalone returns a connection to the Postgres
// database without a Manager, for one-shot CLI use.
func GetPostgresDBStandalone(cfg config.PostgresConfig) (*gorm.DB, error) {
	return openPostgres(zerolog.Nop(), cfg)
}

// GetSqliteDBStandalone returns a connection to a SQLite database
// without a Manager. If path is empty, uses an in-memory database.
func GetSqliteDBStandalone(path string) (*gorm.DB, error) {
	return openSqlite(path)
}

func openPostgres(log zerolog.Logger, cfg config.PostgresConfig) (*gorm.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	dsn := fmt.Sprintf(`host=%s port=%s user=%s password=%s dbname=%s sslmode=%s`,
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
		cfg.Database,
		sslMode,
	)

	log.Debug().Str("host", cfg.Host).Str("database", cfg.Database).
		Msg("Connecting to Postgres journal")

	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        10000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
}

func openSqlite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	for _, pragma := range sqlitePragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	return db, nil
}
