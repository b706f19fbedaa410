package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"chartapp/pkg/contracts/domain"
)

// MockChartStore is a testify mock of ChartStore
type MockChartStore struct {
	mock.Mock
}

func (m *MockChartStore) InsertChart(ctx context.Context, name, configJSON string) (domain.ChartDefinition, error) {
	args := m.Called(ctx, name, configJSON)
	return args.Get(0).(domain.ChartDefinition), args.Error(1)
}

func (m *MockChartStore) GetChart(ctx context.Context, id int64) (domain.ChartDefinition, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ChartDefinition), args.Error(1)
}

func (m *MockChartStore) ListCharts(ctx context.Context) ([]domain.ChartDefinition, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ChartDefinition), args.Error(1)
}

// MockPinger is a testify mock of Pinger
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
