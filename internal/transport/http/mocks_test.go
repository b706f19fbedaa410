package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"chartapp/internal/dataprocessing"
	apierrors "chartapp/internal/errors"
	"chartapp/internal/shared/testutil"
	"chartapp/pkg/contracts/domain"
)

// MockChartService is a mock implementation of ChartService
type MockChartService struct {
	mock.Mock
}

func (m *MockChartService) Save(ctx context.Context, name, configJSON string) (domain.ChartDefinition, error) {
	args := m.Called(name, configJSON)
	return args.Get(0).(domain.ChartDefinition), args.Error(1)
}

func (m *MockChartService) List(ctx context.Context) ([]domain.ChartDefinition, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartDefinition), args.Error(1)
}

func (m *MockChartService) Get(ctx context.Context, id int64) (domain.ChartDefinition, error) {
	args := m.Called(id)
	return args.Get(0).(domain.ChartDefinition), args.Error(1)
}

func (m *MockChartService) Convert(ctx context.Context, rows []dataprocessing.Record) (domain.ChartConfig, error) {
	args := m.Called(rows)
	return args.Get(0).(domain.ChartConfig), args.Error(1)
}

// MockSchoolService is a mock implementation of SchoolService
type MockSchoolService struct {
	mock.Mock
}

func (m *MockSchoolService) Search(ctx context.Context, f domain.SchoolFilter) []domain.School {
	return m.Called(f).Get(0).([]domain.School)
}

func newErrorHandler(t *testing.T) *apierrors.ErrorHandler {
	logger, _ := testutil.NewTestLogger(t)
	return apierrors.NewErrorHandler(logger, false)
}

func problemDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	detail, _ := body["detail"].(string)
	return detail
}
