package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// EngineConfig selects and parameterizes the scene engine backend.
// SceneName and Version describe the current bridge run; they are set
// by the caller before constructing an engine, not read from the
// config file.
type EngineConfig struct {
	Type      string          `json:"type" mapstructure:"type"`
	Websocket WebsocketConfig `json:"websocket" mapstructure:"websocket"`
	Journal   JournalConfig   `json:"journal" mapstructure:"journal"`
	SceneName string          `json:"-" mapstructure:"-"`
	Version   string          `json:"-" mapstructure:"-"`
}

// WebsocketConfig holds live viewer feed settings.
type WebsocketConfig struct {
	URL    string `json:"url" mapstructure:"url"`
	Secret string `json:"secret" mapstructure:"secret"`
}

// JournalConfig holds database journal settings.
type JournalConfig struct {
	Driver    string         `json:"driver" mapstructure:"driver"`
	Path      string         `json:"path" mapstructure:"path"`
	BatchSize int            `json:"batchSize" mapstructure:"batchSize"`
	Postgres  PostgresConfig `json:"postgres" mapstructure:"postgres"`
}

// PostgresConfig holds connection settings for the postgres journal driver.
type PostgresConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
}

// ViewerConfig holds the viewer server upload target.
type ViewerConfig struct {
	ServerURL string `json:"serverUrl" mapstructure:"serverUrl"`
	APIKey    string `json:"apiKey" mapstructure:"apiKey"`
}

// SnapshotConfig holds local scene snapshot output settings.
type SnapshotConfig struct {
	Dir  string `json:"dir" mapstructure:"dir"`
	Gzip bool   `json:"gzip" mapstructure:"gzip"`
}

// DefaultsConfig holds the base map used by the demo scene.
type DefaultsConfig struct {
	Surface     string  `json:"surface" mapstructure:"surface"`
	TileURL     string  `json:"tileUrl" mapstructure:"tileUrl"`
	Attribution string  `json:"attribution" mapstructure:"attribution"`
	MaxZoom     int     `json:"maxZoom" mapstructure:"maxZoom"`
	MinZoom     int     `json:"minZoom" mapstructure:"minZoom"`
	Lat         float64 `json:"lat" mapstructure:"lat"`
	Lon         float64 `json:"lon" mapstructure:"lon"`
	Zoom        int     `json:"zoom" mapstructure:"zoom"`
}

// InfluxConfig holds performance metrics sink settings.
type InfluxConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	URL     string `json:"url" mapstructure:"url"`
	Token   string `json:"token" mapstructure:"token"`
	Org     string `json:"org" mapstructure:"org"`
}

// OTelConfig holds OpenTelemetry log export settings.
type OTelConfig struct {
	Enabled      bool          `json:"enabled" mapstructure:"enabled"`
	ServiceName  string        `json:"serviceName" mapstructure:"serviceName"`
	BatchTimeout time.Duration `json:"batchTimeout" mapstructure:"batchTimeout"`
	Endpoint     string        `json:"endpoint" mapstructure:"endpoint"`
	Insecure     bool          `json:"insecure" mapstructure:"insecure"`
}

// Load reads configuration from JSON file and sets default values.
// configDir is the directory containing the config file.
func Load(configDir string) error {
	// Set default values
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./logs")

	viper.SetDefault("engine.type", "memory")
	viper.SetDefault("engine.websocket.url", "ws://localhost:5001/ws")
	viper.SetDefault("engine.websocket.secret", "")
	viper.SetDefault("engine.journal.driver", "sqlite")
	viper.SetDefault("engine.journal.path", "./gleaflet.db")
	viper.SetDefault("engine.journal.batchSize", 500)
	viper.SetDefault("engine.journal.postgres.host", "localhost")
	viper.SetDefault("engine.journal.postgres.port", "5432")
	viper.SetDefault("engine.journal.postgres.username", "postgres")
	viper.SetDefault("engine.journal.postgres.password", "postgres")
	viper.SetDefault("engine.journal.postgres.database", "gleaflet")
	viper.SetDefault("engine.journal.postgres.sslmode", "disable")

	viper.SetDefault("viewer.serverUrl", "http://localhost:5000")
	viper.SetDefault("viewer.apiKey", "")

	viper.SetDefault("snapshot.dir", "./snapshots")
	viper.SetDefault("snapshot.gzip", true)

	viper.SetDefault("defaults.surface", "map")
	viper.SetDefault("defaults.tileUrl", "https://tile.openstreetmap.org/{z}/{x}/{y}.png")
	viper.SetDefault("defaults.attribution", "© OpenStreetMap contributors")
	viper.SetDefault("defaults.maxZoom", 19)
	viper.SetDefault("defaults.minZoom", 0)
	viper.SetDefault("defaults.lat", 0.0)
	viper.SetDefault("defaults.lon", 0.0)
	viper.SetDefault("defaults.zoom", 2)

	viper.SetDefault("monitor.interval", "1s")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.url", "http://localhost:8086")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "gleaflet")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "gleaflet_bridge")
	viper.SetDefault("otel.batchTimeout", "5s")
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetConfigName("config.json")
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading config file: %w", err)
	}

	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetEngineConfig returns the engine backend selection and settings.
func GetEngineConfig() EngineConfig {
	return EngineConfig{
		Type: viper.GetString("engine.type"),
		Websocket: WebsocketConfig{
			URL:    viper.GetString("engine.websocket.url"),
			Secret: viper.GetString("engine.websocket.secret"),
		},
		Journal: JournalConfig{
			Driver:    viper.GetString("engine.journal.driver"),
			Path:      viper.GetString("engine.journal.path"),
			BatchSize: viper.GetInt("engine.journal.batchSize"),
			Postgres: PostgresConfig{
				Host:     viper.GetString("engine.journal.postgres.host"),
				Port:     viper.GetString("engine.journal.postgres.port"),
				Username: viper.GetString("engine.journal.postgres.username"),
				Password: viper.GetString("engine.journal.postgres.password"),
				Database: viper.GetString("engine.journal.postgres.database"),
				SSLMode:  viper.GetString("engine.journal.postgres.sslmode"),
			},
		},
	}
}

// GetViewerConfig returns the viewer server upload settings.
func GetViewerConfig() ViewerConfig {
	return ViewerConfig{
		ServerURL: viper.GetString("viewer.serverUrl"),
		APIKey:    viper.GetString("viewer.apiKey"),
	}
}

// GetSnapshotConfig returns the local snapshot output settings.
func GetSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		Dir:  viper.GetString("snapshot.dir"),
		Gzip: viper.GetBool("snapshot.gzip"),
	}
}

// GetDefaultsConfig returns the demo base map settings.
func GetDefaultsConfig() DefaultsConfig {
	return DefaultsConfig{
		Surface:     viper.GetString("defaults.surface"),
		TileURL:     viper.GetString("defaults.tileUrl"),
		Attribution: viper.GetString("defaults.attribution"),
		MaxZoom:     viper.GetInt("defaults.maxZoom"),
		MinZoom:     viper.GetInt("defaults.minZoom"),
		Lat:         viper.GetFloat64("defaults.lat"),
		Lon:         viper.GetFloat64("defaults.lon"),
		Zoom:        viper.GetInt("defaults.zoom"),
	}
}

// GetInfluxConfig returns the performance metrics sink settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled: viper.GetBool("influx.enabled"),
		URL:     viper.GetString("influx.url"),
		Token:   viper.GetString("influx.token"),
		Org:     viper.GetString("influx.org"),
	}
}

// GetOTelConfig returns the OpenTelemetry export settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:      viper.GetBool("otel.enabled"),
		ServiceName:  viper.GetString("otel.serviceName"),
		BatchTimeout: viper.GetDuration("otel.batchTimeout"),
		Endpoint:     viper.GetString("otel.endpoint"),
		Insecure:     viper.GetBool("otel.insecure"),
	}
}
