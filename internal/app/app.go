package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"chartapp/internal/config"
	"chartapp/internal/errors"
	"chartapp/internal/infrastructure"
	customMiddleware "chartapp/internal/middleware"
	"chartapp/internal/services"
	"chartapp/internal/storage"
	handlers "chartapp/internal/transport/http"
	"chartapp/pkg/contracts"
)

// Idle clients are dropped from the rate limiter after this long
const rateLimiterIdle = 10 * time.Minute

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Logger        *slog.Logger
	Router        *chi.Mux
	Server        *http.Server
	Store         *storage.Store
	OTelProviders *infrastructure.OTelProviders
	ErrorHandler  *errors.ErrorHandler
	RateLimiter   *customMiddleware.RateLimiter
	gauges        metric.Registration

	UploadService *services.UploadService
	ChartService  *services.ChartService
	SchoolService *services.SchoolService
	HealthService *services.HealthService
}

// New wires the application from cfg. The caller owns logger; everything
// else is released by Shutdown.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Application, error) {
	logger.InfoContext(ctx, "Application starting",
		slog.String("name", config.AppName),
		slog.String("version", contracts.Version))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Observability), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	store, err := storage.Open(ctx, cfg.DatabasePath(),
		storage.WithDriver(cfg.Database.Driver),
		storage.WithBusyTimeout(cfg.Database.BusyTimeout),
		storage.WithMkdirAll(),
		storage.WithLogger(logger))
	if err != nil {
		otelProviders.Shutdown(ctx)
		return nil, fmt.Errorf("failed to open chart store: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		Store:         store,
		OTelProviders: otelProviders,
		ErrorHandler:  errors.NewErrorHandler(logger, false),
	}

	a.gauges, err = infrastructure.RegisterGauges(otelProviders.Meter, time.Now(), store.CountCharts, logger)
	if err != nil {
		store.Close()
		otelProviders.Shutdown(ctx)
		return nil, fmt.Errorf("failed to register gauges: %w", err)
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

// initializeServices initializes all application services
func (a *Application) initializeServices() {
	metrics := a.OTelProviders.Metrics

	a.UploadService = services.NewUploadService(a.Logger, metrics)
	a.ChartService = services.NewChartService(a.Store, a.Logger, metrics)
	a.SchoolService = services.NewSchoolService(a.Config.SchoolsDatasetPath(), a.Logger, metrics)
	a.HealthService = services.NewHealthService(contracts.Version, a.Store, a.Config.SchoolsDatasetPath(), a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders.Tracer, a.OTelProviders.Metrics, a.Logger).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(customMiddleware.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			Logger:         a.Logger,
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		a.RateLimiter = customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			a.ErrorHandler,
		)
		r.Use(a.RateLimiter.Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)

	// Prometheus scrape endpoint
	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	maxBytes := a.Config.Uploads.MaxBytes

	r.Route(config.APIBasePath, func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(customMiddleware.Timeout(a.Config.Server.HandlerTimeout, a.ErrorHandler))

		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/health/ready", healthHandler.ReadinessCheck)
		r.Get("/health/live", healthHandler.LivenessCheck)
		r.Get("/version", healthHandler.Version)

		uploadHandler := handlers.NewUploadHandler(a.UploadService, maxBytes, a.Logger, a.ErrorHandler)
		r.Mount("/upload", uploadHandler.Routes())

		chartHandler := handlers.NewChartHandler(a.ChartService, customMiddleware.NewValidator(), maxBytes, a.Logger, a.ErrorHandler)
		r.Mount("/chart", chartHandler.Routes())

		schoolHandler := handlers.NewSchoolHandler(a.SchoolService, a.Logger)
		r.Mount("/schools", schoolHandler.Routes())
	})
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves HTTP until ctx is cancelled or the server fails, then shuts
// everything down.
func (a *Application) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("addr", a.Server.Addr),
			slog.String("database", a.Config.DatabasePath()),
			slog.String("driver", a.Store.Driver()))

		if err := a.Server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(ctx, "Shutting down application")
		return a.Shutdown(context.Background())
	})

	if a.RateLimiter != nil {
		g.Go(func() error {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if n := a.RateLimiter.Sweep(rateLimiterIdle); n > 0 {
						a.Logger.DebugContext(gctx, "rate limiter swept", slog.Int("clients", n))
					}
				}
			}
		})
	}

	return g.Wait()
}

// Shutdown stops the server, flushes telemetry and closes the chart store
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error

	if a.Server != nil {
		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
		}
	}

	if a.gauges != nil {
		a.gauges.Unregister()
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	if err := a.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("chart store close error: %w", err))
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return stderrors.Join(errs...)
}
