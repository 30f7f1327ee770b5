package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Cmooon-dev/gleaflet/internal/api"
	"github.com/Cmooon-dev/gleaflet/internal/cache"
	"github.com/Cmooon-dev/gleaflet/internal/config"
	"github.com/Cmooon-dev/gleaflet/internal/dispatcher"
	"github.com/Cmooon-dev/gleaflet/internal/handlers"
	"github.com/Cmooon-dev/gleaflet/internal/influx"
	"github.com/Cmooon-dev/gleaflet/internal/logging"
	"github.com/Cmooon-dev/gleaflet/internal/monitor"
	intOtel "github.com/Cmooon-dev/gleaflet/internal/otel"
	"github.com/Cmooon-dev/gleaflet/internal/parser"
	"github.com/Cmooon-dev/gleaflet/internal/session"
	"github.com/Cmooon-dev/gleaflet/pkg/scene"

	gelf "github.com/Graylog2/go-gelf/gelf"
	"github.com/spf13/viper"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// module defs - Version and BuildDate can be set at build time via ldflags
var (
	Version   string = "0.2.0"
	BuildDate string = "unknown"

	BridgeName string = "gleaflet_bridge"
)

// file paths
var (
	// ConfigDir is where config.json is looked up. By default it is the
	// directory holding the binary; GLEAFLET_CONFIG overrides it.
	ConfigDir string

	InitLogFilePath string
	InitLogFile     *os.File

	BridgeLogFilePath string
	BridgeLogFile     *os.File
)

// global variables
var (
	// SlogManager handles all slog-based logging
	SlogManager *logging.SlogManager

	// Logger is the slog logger (convenience reference)
	Logger *slog.Logger

	// OTelProvider handles OpenTelemetry
	OTelProvider *intOtel.Provider

	SessionStartTime time.Time = time.Now()

	// Services wired in init; the engine side comes up per subcommand
	// in startServices.
	sceneCache      *cache.SceneCache
	sessionCtx      *session.Context
	parserService   parser.Service
	eventDispatcher *dispatcher.Dispatcher

	handlerManager *handlers.Manager
	monitorService *monitor.Service
	influxManager  *influx.Manager
	sceneEngine    scene.Engine
)

// init brings up config, logging and the core services. Everything
// that opens a database or a socket waits for startServices so the
// journal tools can run without an engine.
func init() {
	var err error

	ConfigDir = "."
	if exePath, err := os.Executable(); err == nil {
		ConfigDir = filepath.Dir(exePath)
	}
	if dir := os.Getenv("GLEAFLET_CONFIG"); dir != "" {
		ConfigDir = dir
	}

	InitLogFilePath = filepath.Join(ConfigDir, "init.log")

	InitLogFile, err = os.Create(InitLogFilePath)
	if err != nil {
		// Log to stderr since logging isn't set up yet
		fmt.Fprintf(os.Stderr, "Failed to create init log file: %v\n", err)
	}

	// Initialize slog manager with initial config
	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(InitLogFile, nil, viper.GetString("logLevel"), nil)
	Logger = SlogManager.Logger()

	// load config
	err = loadConfig()
	if err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	// create logs dir if it doesn't exist
	if _, err := os.Stat(viper.GetString("logsDir")); os.IsNotExist(err) {
		os.Mkdir(viper.GetString("logsDir"), 0755)
	}

	BridgeLogFilePath = logging.LogFilePath(
		viper.GetString("logsDir"),
		BridgeName,
		SessionStartTime,
	)

	// check if BridgeLogFilePath exists
	// if it does, move it to BridgeLogFilePath.old
	// if it doesn't, create it
	if _, err := os.Stat(BridgeLogFilePath); err == nil {
		os.Rename(BridgeLogFilePath, BridgeLogFilePath+".old")
	}

	BridgeLogFile, err = os.OpenFile(BridgeLogFilePath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", BridgeLogFilePath)
	}

	Logger.Info("Begin logging in logs directory", "path", BridgeLogFilePath)

	// Connect the Graylog sink if one is configured
	var gelfWriter io.Writer
	if config.GetBool("graylog.enabled") {
		w, err := gelf.NewWriter(config.GetString("graylog.address"))
		if err != nil {
			Logger.Error("Failed to connect Graylog writer", "error", err, "address", config.GetString("graylog.address"))
		} else {
			gelfWriter = w
			Logger.Info("Graylog writer connected", "address", config.GetString("graylog.address"))
		}
	}

	// Initialize OTel provider if enabled (after log file is created)
	otelCfg := config.GetOTelConfig()
	if otelCfg.Enabled {
		OTelProvider, err = intOtel.New(intOtel.Config{
			Enabled:      otelCfg.Enabled,
			ServiceName:  otelCfg.ServiceName,
			BatchTimeout: otelCfg.BatchTimeout,
			LogWriter:    BridgeLogFile,     // Write OTel logs to file
			Endpoint:     otelCfg.Endpoint,  // Optional OTLP endpoint
			Insecure:     otelCfg.Insecure,
		})
		if err != nil {
			Logger.Error("Failed to initialize OTel provider", "error", err)
		} else {
			if otelCfg.Endpoint != "" {
				Logger.Info("OTel provider initialized", "file", BridgeLogFilePath, "endpoint", otelCfg.Endpoint)
			} else {
				Logger.Info("OTel provider initialized", "file", BridgeLogFilePath)
			}
		}
	}

	// Re-setup logging with file output, Graylog and optional OTel
	var otelLogProvider *sdklog.LoggerProvider
	if OTelProvider != nil {
		otelLogProvider = OTelProvider.LoggerProvider()
	}
	SlogManager.Setup(BridgeLogFile, gelfWriter, viper.GetString("logLevel"), otelLogProvider)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", BridgeLogFilePath)

	// Attach the current run's attributes to every log record
	SlogManager.SetContextProvider(func() []slog.Attr {
		if sessionCtx != nil {
			return sessionCtx.LogAttrs()
		}
		return nil
	})

	// Core services. These are cheap and engine-free, so every
	// subcommand gets them.
	sceneCache = cache.NewSceneCache()
	sessionCtx = session.NewContext()

	defaults := config.GetDefaultsConfig()
	parserService = parser.NewParser(Logger, scene.LayerOptions{
		MaxZoom:     defaults.MaxZoom,
		MinZoom:     defaults.MinZoom,
		Opacity:     1,
		Attribution: defaults.Attribution,
	})

	eventDispatcher, err = dispatcher.New(logging.NewDispatcherLogger(Logger))
	if err != nil {
		Logger.Error("Failed to create dispatcher", "error", err)
		panic(err)
	}

	// set GOMAXPROCS to n - 2, minimum 1, so the writer goroutines
	// never starve the dispatch path
	numCPUs := runtime.NumCPU()
	Logger.Debug("Number of CPUs", "numCPUs", numCPUs)
	runtime.GOMAXPROCS(int(math.Max(float64(numCPUs-2), 1)))
}

func loadConfig() (err error) {
	return config.Load(ConfigDir)
}

func checkViewerStatus() {
	// check if the viewer is running by making a healthcheck API request
	viewerCfg := config.GetViewerConfig()
	err := api.New(viewerCfg.ServerURL, viewerCfg.APIKey).Healthcheck()
	if err != nil {
		Logger.Info("Gleaflet viewer is offline")
	} else {
		Logger.Info("Gleaflet viewer is online")
	}
}

// shutdownLogging flushes the log sinks and the OTel pipeline.
func shutdownLogging() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := SlogManager.Flush(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to flush logs: %v\n", err)
	}
	if OTelProvider != nil {
		if err := OTelProvider.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to shut down OTel provider: %v\n", err)
		}
	}
}

func printUsage() {
	fmt.Println("Usage: gleaflet_bridge <command> [args]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run <script>           execute a scene script against the configured engine")
	fmt.Println("  demo                   build the built-in demo scene")
	fmt.Println("  export <session-id>... export journaled sessions to viewer JSON")
	fmt.Println("  prune <keep-n>         delete all but the newest journal sessions")
	fmt.Println("  status                 print config, viewer and engine status")
}

func main() {
	var err error
	Logger.Info("Starting up...", "version", Version, "buildDate", BuildDate)

	args := os.Args[1:]
	if len(args) == 0 {
		printUsage()
		shutdownLogging()
		os.Exit(2)
	}

	command := strings.ToLower(args[0])
	switch command {
	case "run":
		if len(args) < 2 {
			fmt.Println("No script path provided.")
			printUsage()
			shutdownLogging()
			os.Exit(2)
		}
		err = runScript(args[1])
	case "demo":
		err = runDemo()
	case "export":
		if len(args) < 2 {
			fmt.Println("No session IDs provided.")
			shutdownLogging()
			os.Exit(2)
		}
		err = exportSessions(args[1:])
	case "prune":
		if len(args) < 2 {
			fmt.Println("No keep count provided.")
			shutdownLogging()
			os.Exit(2)
		}
		err = pruneJournal(args[1])
	case "status":
		err = showStatus()
	default:
		fmt.Printf("Unknown command %q.\n", args[0])
		printUsage()
		shutdownLogging()
		os.Exit(2)
	}

	if err != nil {
		Logger.Error("Command failed", "command", command, "error", err)
		shutdownLogging()
		os.Exit(1)
	}
	shutdownLogging()
}
