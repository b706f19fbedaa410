// Package services implements the business logic behind the HTTP handlers.
// Each service validates its input, calls into dataprocessing, schools or
// storage, and records logs and metrics. Handlers translate the returned
// errors into problem responses.
//
// # Available Services
//
//	- UploadService: spreadsheet and CSV extraction, sheet listing
//	- ChartService: chart definition persistence and row to chart conversion
//	- SchoolService: filtered view over the bundled schools dataset
//	- HealthService: liveness, readiness and version information
//
// # Error Handling
//
// Input problems are reported with the sentinel errors in errors.go so
// handlers can match them with errors.Is. Extraction failures are passed
// through unchanged (usually a *dataprocessing.ExtractionError); storage
// failures are wrapped in an *apierrors.AppError of type STORAGE.
//
// The school search is fail-open: a dataset that cannot be read yields an
// empty result and a logged error, never an error return.
//
// # Testing
//
// Collaborators are interfaces, so tests substitute testify mocks:
//
//	store := &MockChartStore{}
//	store.On("InsertChart", mock.Anything, "Sales", "{}").Return(def, nil)
//	svc := NewChartService(store, logger, infrastructure.NoopMetrics())
package services
