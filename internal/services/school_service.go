package services

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"chartapp/internal/dataprocessing"
	"chartapp/internal/infrastructure"
	"chartapp/internal/schools"
	"chartapp/pkg/contracts/domain"
)

// DatasetLoader reads the schools dataset
type DatasetLoader func(path string) ([]dataprocessing.Record, error)

// SchoolService answers filtered queries over the bundled schools dataset.
// The dataset is read on every query.
type SchoolService struct {
	path    string
	load    DatasetLoader
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
}

// NewSchoolService creates a school service reading the dataset at path
func NewSchoolService(path string, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *SchoolService {
	return NewSchoolServiceWithLoader(path, schools.Load, logger, metrics)
}

// NewSchoolServiceWithLoader creates a school service with a custom loader
func NewSchoolServiceWithLoader(path string, load DatasetLoader, logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *SchoolService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchoolService{
		path:    path,
		load:    load,
		logger:  logger.With(slog.String("component", "school_service")),
		metrics: metrics,
	}
}

// Search returns the schools matching f in dataset order. A dataset that
// cannot be read produces an empty result.
func (s *SchoolService) Search(ctx context.Context, f domain.SchoolFilter) []domain.School {
	rows, err := s.load(s.path)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to read schools dataset",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		if s.metrics != nil {
			s.metrics.SchoolDatasetErrors.Add(ctx, 1)
		}
		return []domain.School{}
	}

	result := schools.Filter(rows, f)
	if s.metrics != nil {
		s.metrics.SchoolQueries.Add(ctx, 1,
			metric.WithAttributes(attribute.Bool("empty", len(result) == 0)))
	}
	s.logger.DebugContext(ctx, "schools filtered",
		slog.String("type", f.Type),
		slog.String("city", f.City),
		slog.Int("rows", len(rows)),
		slog.Int("matches", len(result)))
	return result
}
