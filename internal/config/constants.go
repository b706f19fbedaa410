package config

import "time"

// Application constants
const (
	// Application Info
	AppName    = "chartapp"
	AppVersion = "1.0.0"

	// EnvPrefix namespaces every environment variable (CHARTAPP_SERVER_PORT, ...)
	EnvPrefix = "CHARTAPP"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Timeouts
	DefaultHandlerTimeout = 60 * time.Second

	// Storage drivers
	DriverSQLite  = "sqlite"  // modernc.org/sqlite
	DriverSQLite3 = "sqlite3" // github.com/mattn/go-sqlite3, cgo only

	// File Paths (relative to the working directory)
	DefaultDataDir        = "data"
	DefaultDatabaseFile   = "chartapp.db"
	DefaultSchoolsDataset = "DataSchools10.csv"

	// Uploads
	DefaultMaxUploadBytes = 20 << 20 // 20MB

	// Log Settings
	DefaultLogLevel = "info"

	// API Endpoints
	APIBasePath     = "/api"
	MetricsEndpoint = "/metrics"
)
