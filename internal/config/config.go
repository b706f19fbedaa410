package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apierrors "chartapp/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig        `yaml:"server" envconfig:"SERVER"`
	Security      SecurityConfig      `yaml:"security" envconfig:"SECURITY"`
	Logging       LoggingConfig       `yaml:"logging" envconfig:"LOGGING"`
	Paths         PathsConfig         `yaml:"paths" envconfig:"PATHS"`
	Database      DatabaseConfig      `yaml:"database" envconfig:"DATABASE"`
	Datasets      DatasetsConfig      `yaml:"datasets" envconfig:"DATASETS"`
	Uploads       UploadsConfig       `yaml:"uploads" envconfig:"UPLOADS"`
	Observability ObservabilityConfig `yaml:"observability" envconfig:"OBSERVABILITY"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	HandlerTimeout  time.Duration `yaml:"handler_timeout" envconfig:"HANDLER_TIMEOUT" default:"60s"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:3000"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"100"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"console"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/chartapp.log"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir string `yaml:"data_dir" envconfig:"DATA_DIR" default:"data"`
}

// DatabaseConfig selects the SQL driver and file backing the chart store.
// Driver "sqlite" is the pure Go driver, "sqlite3" requires a cgo build.
type DatabaseConfig struct {
	Driver      string        `yaml:"driver" envconfig:"DRIVER" default:"sqlite"`
	Path        string        `yaml:"path" envconfig:"PATH" default:"chartapp.db"`
	BusyTimeout time.Duration `yaml:"busy_timeout" envconfig:"BUSY_TIMEOUT" default:"5s"`
}

// DatasetsConfig points at the bundled reference datasets
type DatasetsConfig struct {
	SchoolsCSV string `yaml:"schools_csv" envconfig:"SCHOOLS_CSV" default:"DataSchools10.csv"`
}

// UploadsConfig bounds multipart uploads
type UploadsConfig struct {
	MaxBytes int64 `yaml:"max_bytes" envconfig:"MAX_BYTES" default:"20971520"`
}

// ObservabilityConfig controls tracing and metrics
type ObservabilityConfig struct {
	ServiceName    string `yaml:"service_name" envconfig:"SERVICE_NAME" default:"chartapp"`
	TraceExporter  string `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricsEnabled bool   `yaml:"metrics_enabled" envconfig:"METRICS_ENABLED" default:"true"`
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	var cfg Config

	// Environment first, defaults applied by envconfig
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, apierrors.NewConfigError("failed to load config from env", err)
	}

	if configFile := getConfigFilePath(); configFile != "" {
		fileConfig, err := loadFromFile(configFile)
		if err != nil {
			return nil, apierrors.NewConfigError("failed to load config from file", err).
				WithContext("file", configFile)
		}
		cfg = mergeConfigs(*fileConfig, cfg, *Default())
	}

	if err := cfg.validate(); err != nil {
		return nil, apierrors.NewConfigError("config validation failed", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from YAML file
func loadFromFile(filePath string) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// pick keeps an explicitly set env value, otherwise prefers the file value.
func pick[T comparable](env, file, def T) T {
	var zero T
	if env != def || file == zero {
		return env
	}
	return file
}

// mergeConfigs merges file config with env config (env takes precedence
// whenever it differs from the built-in default)
func mergeConfigs(fileConfig, envConfig, defaults Config) Config {
	out := envConfig

	out.Server.Port = pick(envConfig.Server.Port, fileConfig.Server.Port, defaults.Server.Port)
	out.Server.ReadTimeout = pick(envConfig.Server.ReadTimeout, fileConfig.Server.ReadTimeout, defaults.Server.ReadTimeout)
	out.Server.WriteTimeout = pick(envConfig.Server.WriteTimeout, fileConfig.Server.WriteTimeout, defaults.Server.WriteTimeout)
	out.Server.IdleTimeout = pick(envConfig.Server.IdleTimeout, fileConfig.Server.IdleTimeout, defaults.Server.IdleTimeout)
	out.Server.ShutdownTimeout = pick(envConfig.Server.ShutdownTimeout, fileConfig.Server.ShutdownTimeout, defaults.Server.ShutdownTimeout)
	out.Server.HandlerTimeout = pick(envConfig.Server.HandlerTimeout, fileConfig.Server.HandlerTimeout, defaults.Server.HandlerTimeout)

	if slices.Equal(envConfig.Security.AllowedOrigins, defaults.Security.AllowedOrigins) && len(fileConfig.Security.AllowedOrigins) > 0 {
		out.Security.AllowedOrigins = fileConfig.Security.AllowedOrigins
	}
	out.Security.RateLimit.RPS = pick(envConfig.Security.RateLimit.RPS, fileConfig.Security.RateLimit.RPS, defaults.Security.RateLimit.RPS)
	out.Security.RateLimit.Burst = pick(envConfig.Security.RateLimit.Burst, fileConfig.Security.RateLimit.Burst, defaults.Security.RateLimit.Burst)

	out.Logging.Level = pick(envConfig.Logging.Level, fileConfig.Logging.Level, defaults.Logging.Level)
	out.Logging.Output = pick(envConfig.Logging.Output, fileConfig.Logging.Output, defaults.Logging.Output)
	out.Logging.FilePath = pick(envConfig.Logging.FilePath, fileConfig.Logging.FilePath, defaults.Logging.FilePath)

	out.Paths.DataDir = pick(envConfig.Paths.DataDir, fileConfig.Paths.DataDir, defaults.Paths.DataDir)

	out.Database.Driver = pick(envConfig.Database.Driver, fileConfig.Database.Driver, defaults.Database.Driver)
	out.Database.Path = pick(envConfig.Database.Path, fileConfig.Database.Path, defaults.Database.Path)
	out.Database.BusyTimeout = pick(envConfig.Database.BusyTimeout, fileConfig.Database.BusyTimeout, defaults.Database.BusyTimeout)

	out.Datasets.SchoolsCSV = pick(envConfig.Datasets.SchoolsCSV, fileConfig.Datasets.SchoolsCSV, defaults.Datasets.SchoolsCSV)
	out.Uploads.MaxBytes = pick(envConfig.Uploads.MaxBytes, fileConfig.Uploads.MaxBytes, defaults.Uploads.MaxBytes)

	out.Observability.ServiceName = pick(envConfig.Observability.ServiceName, fileConfig.Observability.ServiceName, defaults.Observability.ServiceName)
	out.Observability.TraceExporter = pick(envConfig.Observability.TraceExporter, fileConfig.Observability.TraceExporter, defaults.Observability.TraceExporter)

	return out
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverSQLite3:
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("upload size limit must be positive")
	}

	switch strings.ToLower(c.Observability.TraceExporter) {
	case "", "none", "stdout":
	default:
		return fmt.Errorf("unsupported trace exporter: %q", c.Observability.TraceExporter)
	}

	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/chartapp.log"
	}

	return nil
}

// DatabasePath returns the chart store location, resolved against the data dir
func (c *Config) DatabasePath() string {
	return resolve(c.Paths.DataDir, c.Database.Path)
}

// SchoolsDatasetPath returns the schools CSV location, resolved against the data dir
func (c *Config) SchoolsDatasetPath() string {
	return resolve(c.Paths.DataDir, c.Datasets.SchoolsCSV)
}

func resolve(dir, p string) string {
	if p == ":memory:" || filepath.IsAbs(p) || dir == "" {
		return p
	}
	return filepath.Join(dir, p)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if explicit := os.Getenv(EnvPrefix + "_CONFIG_FILE"); explicit != "" {
		return explicit
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			ShutdownTimeout: 30 * time.Second,
			HandlerTimeout:  DefaultHandlerTimeout,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:3000"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimit,
				Burst:   DefaultBurstSize,
			},
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "console",
			FilePath: "logs/chartapp.log",
		},
		Paths: PathsConfig{
			DataDir: DefaultDataDir,
		},
		Database: DatabaseConfig{
			Driver:      DriverSQLite,
			Path:        DefaultDatabaseFile,
			BusyTimeout: 5 * time.Second,
		},
		Datasets: DatasetsConfig{
			SchoolsCSV: DefaultSchoolsDataset,
		},
		Uploads: UploadsConfig{
			MaxBytes: DefaultMaxUploadBytes,
		},
		Observability: ObservabilityConfig{
			ServiceName:    AppName,
			TraceExporter:  "none",
			MetricsEnabled: true,
		},
	}
}
