package main

import (
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/api"
	"github.com/Cmooon-dev/gleaflet/internal/config"
	"github.com/Cmooon-dev/gleaflet/internal/database"
	"github.com/Cmooon-dev/gleaflet/internal/engine"
	"github.com/Cmooon-dev/gleaflet/internal/engine/journal"

	"gorm.io/gorm"
)

///////////////////////
// JOURNAL TOOLS //
///////////////////////

// journalDB opens the configured journal database directly, without
// bringing up an engine. A failing Postgres connection falls back to
// the SQLite journal file so the tools still work offline.
func journalDB() (db *gorm.DB, err error) {
	cfg := config.GetEngineConfig().Journal

	if cfg.Driver == "postgres" {
		db, err = database.GetPostgresDBStandalone(cfg.Postgres)
		if err == nil {
			return db, nil
		}
		Logger.Error("Failed to connect to Postgres journal, trying SQLite", "error", err)
	}

	db, err = database.GetSqliteDBStandalone(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite journal: %w", err)
	}
	Logger.Info("Using local SQLite journal", "path", cfg.Path)
	return db, nil
}

// exportSessions renders journaled sessions into gzipped viewer JSON
// files in the working directory, one per session id.
func exportSessions(sessionIDs []string) error {
	fmt.Println("Exporting scene documents for sessions: ", sessionIDs)

	db, err := journalDB()
	if err != nil {
		return err
	}

	for _, sessionID := range sessionIDs {
		id, err := strconv.Atoi(sessionID)
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", sessionID, err)
		}

		txStart := time.Now()
		doc, err := journal.ExportSession(db, uint(id))
		if err != nil {
			return fmt.Errorf("error exporting session %d: %w", id, err)
		}

		docJSON, err := json.Marshal(doc)
		if err != nil {
			return fmt.Errorf("error marshalling scene document: %w", err)
		}

		fileName := fmt.Sprintf("%s_session_%d.json.gz", doc.SceneName, id)
		fileName = strings.ReplaceAll(fileName, " ", "_")
		fileName = strings.ReplaceAll(fileName, ":", "_")
		f, err := os.Create(fileName)
		if err != nil {
			return fmt.Errorf("error creating file: %w", err)
		}
		defer f.Close()

		gzWriter := gzip.NewWriter(f)
		defer gzWriter.Close()
		_, err = gzWriter.Write(docJSON)
		if err != nil {
			return fmt.Errorf("error writing to gzip: %w", err)
		}

		fmt.Println("Wrote scene document to ", fileName, " in ", time.Since(txStart))
	}

	return nil
}

// pruneJournal deletes all but the newest keep-n sessions from the
// journal, children included.
func pruneJournal(keepArg string) error {
	keep, err := strconv.Atoi(keepArg)
	if err != nil {
		return fmt.Errorf("invalid keep count %q: %w", keepArg, err)
	}

	db, err := journalDB()
	if err != nil {
		return err
	}

	pruned, err := journal.PruneSessions(db, keep)
	if err != nil {
		return fmt.Errorf("error pruning sessions: %w", err)
	}

	fmt.Printf("Pruned %d sessions, kept the newest %d.\n", pruned, keep)
	return nil
}

// showStatus prints the effective configuration and probes the viewer
// and the configured engine.
func showStatus() error {
	engCfg := config.GetEngineConfig()
	viewerCfg := config.GetViewerConfig()

	fmt.Printf("gleaflet_bridge %s (built %s)\n", Version, BuildDate)
	fmt.Println("Engine type: ", engCfg.Type)
	switch engCfg.Type {
	case "websocket":
		fmt.Println("Websocket URL: ", engCfg.Websocket.URL)
	case "journal":
		fmt.Println("Journal driver: ", engCfg.Journal.Driver)
		if engCfg.Journal.Driver == "postgres" {
			fmt.Printf("Postgres: %s:%s/%s\n",
				engCfg.Journal.Postgres.Host,
				engCfg.Journal.Postgres.Port,
				engCfg.Journal.Postgres.Database,
			)
		} else {
			fmt.Println("Journal path: ", engCfg.Journal.Path)
		}
	}
	fmt.Println("Viewer URL: ", viewerCfg.ServerURL)

	if err := api.New(viewerCfg.ServerURL, viewerCfg.APIKey).Healthcheck(); err != nil {
		fmt.Println("Viewer: offline")
	} else {
		fmt.Println("Viewer: online")
	}

	probeEngine(engCfg)

	// leftover journal backups from offline runs
	backups, err := database.GetBackupDBPaths(filepath.Dir(engCfg.Journal.Path))
	if err == nil && len(backups) > 0 {
		fmt.Println("Backup journals:")
		for _, path := range backups {
			fmt.Println("  ", path)
		}
	}

	return nil
}

// probeEngine checks that the configured engine could come up. The
// journal driver is probed with a bare connection ping rather than
// through engine.New so the probe never opens a session row.
func probeEngine(engCfg config.EngineConfig) {
	switch engCfg.Type {
	case "memory":
		fmt.Println("Engine: ok")
	case "journal":
		db, err := journalDB()
		var sqlDB *sql.DB
		if err == nil {
			sqlDB, err = db.DB()
		}
		if err == nil {
			err = sqlDB.Ping()
			sqlDB.Close()
		}
		if err != nil {
			fmt.Println("Engine: unavailable: ", err)
		} else {
			fmt.Println("Engine: ok")
		}
	case "websocket":
		engCfg.SceneName = "status"
		engCfg.Version = Version
		eng, err := engine.New(engCfg)
		if err != nil {
			fmt.Println("Engine: unavailable: ", err)
		} else {
			fmt.Println("Engine: ok")
			if closer, ok := eng.(io.Closer); ok {
				closer.Close()
			}
		}
	default:
		fmt.Println("Engine: unknown type")
	}
}
