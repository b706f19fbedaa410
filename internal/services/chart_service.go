package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"chartapp/internal/dataprocessing"
	apierrors "chartapp/internal/errors"
	"chartapp/internal/infrastructure"
	"chartapp/internal/storage"
	"chartapp/pkg/contracts/domain"
)

// ChartStore persists chart definitions
type ChartStore interface {
	InsertChart(ctx context.Context, name, configJSON string) (domain.ChartDefinition, error)
	GetChart(ctx context.Context, id int64) (domain.ChartDefinition, error)
	ListCharts(ctx context.Context) ([]domain.ChartDefinition, error)
}

// ChartService saves and lists chart definitions and shapes rows into chart configs
type ChartService struct {
	store   ChartStore
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
}

// NewChartService creates a chart service
func NewChartService(store ChartStore, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *ChartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartService{
		store:   store,
		logger:  logger.With(slog.String("component", "chart_service")),
		metrics: metrics,
		tracer:  otel.Tracer("chartapp.chart"),
	}
}

// Save persists a chart definition. Name and config must contain
// something other than whitespace; the config text is stored as given.
func (s *ChartService) Save(ctx context.Context, name, configJSON string) (domain.ChartDefinition, error) {
	if strings.TrimSpace(name) == "" {
		return domain.ChartDefinition{}, ErrEmptyChartName
	}
	if strings.TrimSpace(configJSON) == "" {
		return domain.ChartDefinition{}, ErrEmptyConfigJSON
	}

	ctx, span := s.tracer.Start(ctx, "chart.save")
	defer span.End()

	def, err := s.store.InsertChart(ctx, name, configJSON)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "failed to save chart",
			slog.String("name", name),
			slog.String("error", err.Error()))
		return domain.ChartDefinition{}, apierrors.NewStorageError("save chart", err).
			WithContext("chart_name", name)
	}

	if s.metrics != nil {
		s.metrics.ChartsSaved.Add(ctx, 1)
	}
	s.logger.InfoContext(ctx, "chart saved",
		slog.Int64("id", def.ID),
		slog.String("name", def.Name))
	return def, nil
}

// List returns every saved chart ordered by id
func (s *ChartService) List(ctx context.Context) ([]domain.ChartDefinition, error) {
	defs, err := s.store.ListCharts(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list charts", slog.String("error", err.Error()))
		return nil, apierrors.NewStorageError("list charts", err)
	}
	return defs, nil
}

// Get returns one saved chart
func (s *ChartService) Get(ctx context.Context, id int64) (domain.ChartDefinition, error) {
	def, err := s.store.GetChart(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return domain.ChartDefinition{}, ErrChartNotFound
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load chart",
			slog.Int64("id", id),
			slog.String("error", err.Error()))
		return domain.ChartDefinition{}, apierrors.NewStorageError("get chart", err).
			WithContext("chart_id", id)
	}
	return def, nil
}

// Convert shapes rows into a chart config
func (s *ChartService) Convert(ctx context.Context, rows []dataprocessing.Record) (domain.ChartConfig, error) {
	if len(rows) == 0 {
		return domain.ChartConfig{}, ErrEmptyRows
	}

	cfg := dataprocessing.ShapeChart(rows)
	if s.metrics != nil {
		s.metrics.ChartConversions.Add(ctx, 1)
	}
	s.logger.DebugContext(ctx, "rows converted",
		slog.Int("rows", len(rows)),
		slog.Int("series", len(cfg.Series)))
	return cfg, nil
}
