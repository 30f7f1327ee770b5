package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/api"
	"github.com/Cmooon-dev/gleaflet/internal/config"
	defs "github.com/Cmooon-dev/gleaflet/internal/definitions"
	"github.com/Cmooon-dev/gleaflet/internal/dispatcher"
	"github.com/Cmooon-dev/gleaflet/internal/engine"
	exportv1 "github.com/Cmooon-dev/gleaflet/internal/engine/export/v1"
	"github.com/Cmooon-dev/gleaflet/internal/handlers"
	"github.com/Cmooon-dev/gleaflet/internal/influx"
	"github.com/Cmooon-dev/gleaflet/internal/monitor"
	"github.com/Cmooon-dev/gleaflet/internal/session"
	"github.com/Cmooon-dev/gleaflet/internal/util"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// startServices brings up the engine and the services around it for a
// scene-building subcommand. The journal tools (export, prune, status)
// talk to the database directly and never call this.
func startServices(sceneName string) error {
	var err error

	engCfg := config.GetEngineConfig()
	engCfg.SceneName = sceneName
	engCfg.Version = Version

	Logger.Info("Initializing scene engine", "type", engCfg.Type)
	sceneEngine, err = engine.New(engCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize %s engine: %w", engCfg.Type, err)
	}

	handlerManager = handlers.NewManager(handlers.Dependencies{
		SceneCache:    sceneCache,
		Session:       sessionCtx,
		LogManager:    SlogManager,
		ParserService: parserService,
	}, sceneEngine)

	Logger.Debug("Registering command handlers with dispatcher")
	handlerManager.RegisterHandlers(eventDispatcher)
	Logger.Info("Command handlers registered with dispatcher")

	if influxCfg := config.GetInfluxConfig(); influxCfg.Enabled {
		influxManager = influx.NewManager(
			zerolog.New(os.Stderr).With().Timestamp().Logger(),
			filepath.Join(viper.GetString("logsDir"), "influx_backup.log.gz"),
		)
		if err := influxManager.Connect(influxCfg); err != nil {
			Logger.Warn("InfluxDB unavailable, metrics disabled", "error", err)
			influxManager = nil
		}
	}

	monitorService = monitor.NewService(monitor.Dependencies{
		LogManager:     SlogManager,
		Session:        sessionCtx,
		HandlerManager: handlerManager,
		InfluxManager:  influxManager,
		StatusDir:      viper.GetString("logsDir"),
	})
	if !monitorService.IsRunning() {
		Logger.Debug("Status process not running, starting it")
		if err := monitorService.Start(monitorInterval()); err != nil {
			return fmt.Errorf("failed to start status monitor: %w", err)
		}
	}

	return nil
}

func monitorInterval() time.Duration {
	interval, err := time.ParseDuration(viper.GetString("monitor.interval"))
	if err != nil || interval <= 0 {
		return time.Second
	}
	return interval
}

// stopServices tears down what startServices brought up, in reverse
// order so the monitor never samples a closed engine.
func stopServices() {
	if monitorService != nil {
		monitorService.Stop()
	}
	if closer, ok := sceneEngine.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			Logger.Error("Error closing scene engine", "error", err)
		}
	}
	if influxManager != nil {
		if err := influxManager.Close(); err != nil {
			Logger.Error("Error closing InfluxDB manager", "error", err)
		}
	}
}

// runScript executes a scene script line by line through the
// dispatcher. The first failing line aborts the run; scenes are
// cumulative, so carrying on past an error would build on a state the
// script never described.
func runScript(scriptPath string) error {
	data, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to read script: %w", err)
	}

	sceneName := strings.TrimSuffix(filepath.Base(scriptPath), filepath.Ext(scriptPath))

	if err := startServices(sceneName); err != nil {
		return err
	}
	defer stopServices()

	checkViewerStatus()

	sessionCtx.Begin(session.Info{
		SceneName:  sceneName,
		ScriptPath: scriptPath,
		EngineKind: config.GetEngineConfig().Type,
		StartedAt:  time.Now(),
	})
	Logger.Info("Running scene script", "script", scriptPath, "scene", sceneName)

	start := time.Now()
	for i, raw := range strings.Split(string(data), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := util.SplitFields(line)
		command := strings.ToLower(fields[0])
		if !defs.IsCommand(command) {
			return fmt.Errorf("line %d: unknown command %q", i+1, command)
		}

		if _, err := eventDispatcher.Dispatch(dispatcher.Event{
			Command:   command,
			Args:      fields[1:],
			Line:      i + 1,
			Timestamp: time.Now(),
		}); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		sessionCtx.CountCommand()
	}

	commands, markers, polylines := sessionCtx.Counters()
	Logger.Info("Scene script complete",
		"commands", commands,
		"markers", markers,
		"polylines", polylines,
		"duration", time.Since(start),
	)

	return finishScene(sceneName)
}

// finishScene drains the engine and writes the snapshot tail. Engines
// without snapshot support just flush; their output lives in the
// database or on the wire.
func finishScene(sceneName string) error {
	if err := handlerManager.Flush(); err != nil {
		return fmt.Errorf("failed to flush engine: %w", err)
	}

	doc := handlerManager.Snapshot()
	if doc == nil {
		Logger.Debug("Engine does not provide snapshots, skipping snapshot file")
		return nil
	}
	doc.SceneName = sceneName

	path, err := writeSnapshot(doc, sceneName)
	if err != nil {
		return err
	}

	uploadSnapshot(path)
	return nil
}

func writeSnapshot(doc *exportv1.SceneDocument, sceneName string) (string, error) {
	snapCfg := config.GetSnapshotConfig()
	if _, err := os.Stat(snapCfg.Dir); os.IsNotExist(err) {
		os.Mkdir(snapCfg.Dir, 0755)
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("error marshalling scene document: %w", err)
	}

	fileName := fmt.Sprintf("%s_%s.json", sceneName, SessionStartTime.Format("20060102_150405"))
	fileName = strings.ReplaceAll(fileName, " ", "_")
	if snapCfg.Gzip {
		fileName += ".gz"
	}
	path := filepath.Join(snapCfg.Dir, fileName)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("error creating snapshot file: %w", err)
	}
	defer f.Close()

	if snapCfg.Gzip {
		gzWriter := gzip.NewWriter(f)
		defer gzWriter.Close()
		if _, err = gzWriter.Write(data); err != nil {
			return "", fmt.Errorf("error writing to gzip: %w", err)
		}
	} else if _, err = f.Write(data); err != nil {
		return "", fmt.Errorf("error writing snapshot file: %w", err)
	}

	Logger.Info("Wrote scene snapshot", "path", path)
	return path, nil
}

// uploadSnapshot pushes the snapshot file to the viewer when an API
// key is configured. Failures are logged, not returned; a missing
// viewer should not fail the run.
func uploadSnapshot(path string) {
	viewerCfg := config.GetViewerConfig()
	if viewerCfg.APIKey == "" {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		Logger.Error("Failed to open snapshot for upload", "error", err, "path", path)
		return
	}
	defer f.Close()

	client := api.New(viewerCfg.ServerURL, viewerCfg.APIKey)
	if err := client.UploadSnapshot(filepath.Base(path), f); err != nil {
		Logger.Warn("Failed to upload snapshot to viewer", "error", err)
		return
	}
	Logger.Info("Uploaded snapshot to viewer", "name", filepath.Base(path))
}
