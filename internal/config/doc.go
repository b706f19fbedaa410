// Package config loads chartapp configuration from the environment and an
// optional YAML file.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. Configuration file (config.yaml, configs/config.yaml or CHARTAPP_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern CHARTAPP_<SECTION>_<FIELD>:
//
//	CHARTAPP_SERVER_PORT=8080
//	CHARTAPP_DATABASE_DRIVER=sqlite
//	CHARTAPP_DATABASE_PATH=chartapp.db
//	CHARTAPP_DATASETS_SCHOOLS_CSV=DataSchools10.csv
//	CHARTAPP_SECURITY_ALLOWED_ORIGINS=http://localhost:3000
//
// Relative database and dataset paths are resolved against Paths.DataDir.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Tests should use config.Default(), which needs no environment.
package config
