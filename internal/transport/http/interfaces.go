package http

import (
	"context"

	"chartapp/internal/dataprocessing"
	"chartapp/internal/services"
	"chartapp/pkg/contracts/domain"
)

// UploadService is what UploadHandler needs from the service layer
type UploadService interface {
	ParseExcel(ctx context.Context, up services.Upload, sheet int, rangeExpr string) ([]dataprocessing.Record, error)
	ParseExcelRaw(ctx context.Context, up services.Upload, sheet int, rangeExpr string) ([]dataprocessing.Record, error)
	ParseCSV(ctx context.Context, up services.Upload, delimiter string) ([]dataprocessing.Record, error)
	SheetNames(ctx context.Context, up services.Upload) ([]string, error)
}

// ChartService is what ChartHandler needs from the service layer
type ChartService interface {
	Save(ctx context.Context, name, configJSON string) (domain.ChartDefinition, error)
	List(ctx context.Context) ([]domain.ChartDefinition, error)
	Get(ctx context.Context, id int64) (domain.ChartDefinition, error)
	Convert(ctx context.Context, rows []dataprocessing.Record) (domain.ChartConfig, error)
}

// SchoolService is what SchoolHandler needs from the service layer
type SchoolService interface {
	Search(ctx context.Context, f domain.SchoolFilter) []domain.School
}

// HealthService is what HealthHandler needs from the service layer
type HealthService interface {
	HealthCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
	LivenessCheck(ctx context.Context) services.HealthStatus
	Version() map[string]interface{}
}
