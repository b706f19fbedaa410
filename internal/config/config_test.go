package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "chartapp/internal/errors"
)

// chdir switches into dir for the duration of the test
func chdir(t *testing.T, dir string) {
	t.Helper()
	originalDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalDir) })
}

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
				assert.Equal(t, 60*time.Second, cfg.Server.HandlerTimeout)
				assert.Equal(t, []string{"http://localhost:3000"}, cfg.Security.AllowedOrigins)
				assert.True(t, cfg.Security.EnableCORS)
				assert.True(t, cfg.Security.RateLimit.Enabled)
				assert.Equal(t, 100.0, cfg.Security.RateLimit.RPS)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, DriverSQLite, cfg.Database.Driver)
				assert.Equal(t, filepath.Join("data", "chartapp.db"), cfg.DatabasePath())
				assert.Equal(t, filepath.Join("data", "DataSchools10.csv"), cfg.SchoolsDatasetPath())
				assert.Equal(t, int64(20<<20), cfg.Uploads.MaxBytes)
				assert.Equal(t, "none", cfg.Observability.TraceExporter)
			},
		},
		{
			name: "custom environment variables",
			env: map[string]string{
				"CHARTAPP_SERVER_PORT":              "9090",
				"CHARTAPP_SERVER_READ_TIMEOUT":      "30s",
				"CHARTAPP_SECURITY_ALLOWED_ORIGINS": "http://example.com,https://example.com",
				"CHARTAPP_LOGGING_LEVEL":            "debug",
				"CHARTAPP_DATABASE_DRIVER":          "sqlite3",
				"CHARTAPP_DATASETS_SCHOOLS_CSV":     "/srv/schools.csv",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://example.com", "https://example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, DriverSQLite3, cfg.Database.Driver)
				assert.Equal(t, "/srv/schools.csv", cfg.SchoolsDatasetPath())
			},
		},
		{
			name:    "invalid port number",
			env:     map[string]string{"CHARTAPP_SERVER_PORT": "99999"},
			wantErr: true,
		},
		{
			name:    "negative timeout",
			env:     map[string]string{"CHARTAPP_SERVER_READ_TIMEOUT": "-5s"},
			wantErr: true,
		},
		{
			name:    "empty allowed origins",
			env:     map[string]string{"CHARTAPP_SECURITY_ALLOWED_ORIGINS": ""},
			wantErr: true,
		},
		{
			name:    "unknown database driver",
			env:     map[string]string{"CHARTAPP_DATABASE_DRIVER": "postgres"},
			wantErr: true,
		},
		{
			name:    "unknown trace exporter",
			env:     map[string]string{"CHARTAPP_OBSERVABILITY_TRACE_EXPORTER": "jaeger"},
			wantErr: true,
		},
		{
			name: "config file with environment override",
			env: map[string]string{
				"CHARTAPP_SERVER_PORT":   "7070",
				"CHARTAPP_LOGGING_LEVEL": "warn",
			},
			fileContent: `
server:
  port: 6060
  read_timeout: 20s
logging:
  level: error
security:
  allowed_origins: ["http://file.example.com"]
datasets:
  schools_csv: schools.csv
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7070, cfg.Server.Port)
				assert.Equal(t, "warn", cfg.Logging.Level)
				assert.Equal(t, 20*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, []string{"http://file.example.com"}, cfg.Security.AllowedOrigins)
				assert.Equal(t, "schools.csv", cfg.Datasets.SchoolsCSV)
			},
		},
		{
			name:        "malformed config file",
			fileContent: "server: [not, a, map",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			chdir(t, dir)
			t.Setenv("CHARTAPP_CONFIG_FILE", "")

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			if tt.fileContent != "" {
				configFile := filepath.Join(dir, "config.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))
			}

			cfg, err := Load()

			if tt.wantErr {
				var appErr *apierrors.AppError
				require.ErrorAs(t, err, &appErr)
				assert.Equal(t, apierrors.ErrTypeConfig, appErr.Type)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoad_ExplicitConfigFile(t *testing.T) {
	chdir(t, t.TempDir())
	configFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("server:\n  port: 5050\n"), 0644))
	t.Setenv("CHARTAPP_CONFIG_FILE", configFile)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5050, cfg.Server.Port)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.validate())

	assert.Equal(t, AppName, cfg.Observability.ServiceName)
	assert.Equal(t, DefaultDatabaseFile, cfg.Database.Path)
	assert.Equal(t, DefaultSchoolsDataset, cfg.Datasets.SchoolsCSV)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		dir, path, want string
	}{
		{"data", "chartapp.db", filepath.Join("data", "chartapp.db")},
		{"data", ":memory:", ":memory:"},
		{"data", "/abs/schools.csv", "/abs/schools.csv"},
		{"", "schools.csv", "schools.csv"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, resolve(tt.dir, tt.path))
	}
}
