package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"chartapp/internal/schools"
)

// SchoolHandler serves the filtered schools dataset
type SchoolHandler struct {
	service SchoolService
	logger  *slog.Logger
}

// NewSchoolHandler creates a school handler
func NewSchoolHandler(service SchoolService, logger *slog.Logger) *SchoolHandler {
	return &SchoolHandler{
		service: service,
		logger:  logger.With(slog.String("component", "school_handler")),
	}
}

// Routes returns the school routes
func (h *SchoolHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.Search)
	return r
}

// Search handles GET /api/schools. It always answers 200.
func (h *SchoolHandler) Search(w http.ResponseWriter, r *http.Request) {
	f := schools.ParseFilter(r.URL.Query())
	render.JSON(w, r, h.service.Search(r.Context(), f))
}
