package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"chartapp/internal/dataprocessing"
	apierrors "chartapp/internal/errors"
	"chartapp/internal/middleware"
	"chartapp/internal/services"
	api "chartapp/pkg/contracts/api/v1"
)

// ChartHandler handles chart persistence and conversion requests
type ChartHandler struct {
	service      ChartService
	validator    *middleware.Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBytes     int64
}

// NewChartHandler creates a chart handler. JSON bodies larger than maxBytes
// are rejected with 413.
func NewChartHandler(service ChartService, validator *middleware.Validator, maxBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
		maxBytes:     maxBytes,
	}
}

// Routes returns the chart routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/save", h.Save)
	r.Get("/all", h.List)
	r.Post("/convert", h.Convert)
	r.Get("/{id}", h.Get)

	return r
}

// Save handles POST /api/chart/save
func (h *ChartHandler) Save(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	var req api.SaveChartRequest
	if err := h.validator.DecodeJSON(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	def, err := h.service.Save(r.Context(), req.Name, req.ConfigJSON)
	if err != nil {
		h.errorHandler.HandleError(w, r, chartError(err))
		return
	}

	render.JSON(w, r, def)
}

// List handles GET /api/chart/all
func (h *ChartHandler) List(w http.ResponseWriter, r *http.Request) {
	defs, err := h.service.List(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, defs)
}

// Get handles GET /api/chart/{id}
func (h *ChartHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("id", "Chart id must be an integer"))
		return
	}

	def, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.errorHandler.HandleError(w, r, chartError(err))
		return
	}

	render.JSON(w, r, def)
}

// Convert handles POST /api/chart/convert
func (h *ChartHandler) Convert(w http.ResponseWriter, r *http.Request) {
	h.limitBody(w, r)

	var rows []dataprocessing.Record
	if err := h.validator.DecodeJSON(r, &rows); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cfg, err := h.service.Convert(r.Context(), rows)
	if err != nil {
		h.errorHandler.HandleError(w, r, chartError(err))
		return
	}

	render.JSON(w, r, cfg)
}

func (h *ChartHandler) limitBody(w http.ResponseWriter, r *http.Request) {
	if h.maxBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}
}

func chartError(err error) error {
	var appErr *apierrors.AppError
	switch {
	case errors.Is(err, services.ErrEmptyChartName):
		return apierrors.ErrValidation("name", "Chart name must not be empty")
	case errors.Is(err, services.ErrEmptyConfigJSON):
		return apierrors.ErrValidation("configJson", "Config JSON must not be empty")
	case errors.Is(err, services.ErrEmptyRows):
		return apierrors.NewValidationError("Raw data must not be empty")
	case errors.Is(err, services.ErrChartNotFound):
		return apierrors.NotFoundError("Chart")
	case errors.As(err, &appErr):
		return err
	default:
		return apierrors.ConversionFailed(err)
	}
}
