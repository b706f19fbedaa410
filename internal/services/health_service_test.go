package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"chartapp/internal/shared/testutil"
)

func TestHealthService_HealthCheck(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", nil, "", logger)

	status := hs.HealthCheck(context.Background())
	assert.Equal(t, StatusOK, status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.False(t, status.Timestamp.IsZero())
}

func TestHealthService_ReadinessCheck(t *testing.T) {
	dataset := writeSchools(t)

	tests := []struct {
		name        string
		pingErr     error
		nilStore    bool
		datasetPath string
		wantStatus  string
		wantStore   string
		wantSchools string
	}{
		{"all ready", nil, false, dataset, StatusReady, StatusReady, StatusReady},
		{"store down", errors.New("closed"), false, dataset, StatusNotReady, StatusNotReady, StatusReady},
		{"no store", nil, true, dataset, StatusNotReady, StatusNotReady, StatusReady},
		{"dataset missing", nil, false, filepath.Join(t.TempDir(), "nope.csv"), StatusNotReady, StatusReady, StatusNotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)

			var store Pinger
			if !tt.nilStore {
				p := &MockPinger{}
				p.On("Ping", mock.Anything).Return(tt.pingErr)
				store = p
			}

			status := NewHealthService("v", store, tt.datasetPath, logger).ReadinessCheck(context.Background())
			assert.Equal(t, tt.wantStatus, status.Status)
			assert.Equal(t, tt.wantStore, status.Services["chart_store"].Status)
			assert.Equal(t, tt.wantSchools, status.Services["schools"].Status)
		})
	}
}

func TestHealthService_LivenessAndVersion(t *testing.T) {
	hs := NewHealthService("2.0.0", nil, "", nil)

	live := hs.LivenessCheck(context.Background())
	assert.Equal(t, StatusAlive, live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	v := hs.Version()
	assert.Equal(t, "2.0.0", v["version"])
	assert.Contains(t, v, "go_version")
	assert.Contains(t, v, "api_version")
}
