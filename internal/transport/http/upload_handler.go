package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"chartapp/internal/dataprocessing"
	apierrors "chartapp/internal/errors"
	"chartapp/internal/services"
	api "chartapp/pkg/contracts/api/v1"
)

// Multipart form fields
const (
	FieldFile      = "file"
	FieldSheet     = "sheet"
	FieldRange     = "range"
	FieldDelimiter = "delimiter"
)

// in-memory part of a multipart form; the rest spills to temp files
const multipartMemory = 8 << 20

// UploadHandler handles spreadsheet and CSV uploads
type UploadHandler struct {
	service      UploadService
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBytes     int64
}

// NewUploadHandler creates an upload handler. Request bodies larger than
// maxBytes are rejected with 413.
func NewUploadHandler(service UploadService, maxBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "upload_handler")),
		errorHandler: errorHandler,
		maxBytes:     maxBytes,
	}
}

// Routes returns the upload routes
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/excel", h.ParseExcel)
	r.Post("/excel/raw", h.ParseExcelRaw)
	r.Post("/csv", h.ParseCSV)
	r.Post("/sheets", h.SheetNames)

	return r
}

// ParseExcel handles POST /api/upload/excel
func (h *UploadHandler) ParseExcel(w http.ResponseWriter, r *http.Request) {
	h.excel(w, r, h.service.ParseExcel)
}

// ParseExcelRaw handles POST /api/upload/excel/raw
func (h *UploadHandler) ParseExcelRaw(w http.ResponseWriter, r *http.Request) {
	h.excel(w, r, h.service.ParseExcelRaw)
}

type excelFunc func(ctx context.Context, up services.Upload, sheet int, rangeExpr string) ([]dataprocessing.Record, error)

func (h *UploadHandler) excel(w http.ResponseWriter, r *http.Request, extract excelFunc) {
	up, cleanup, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	sheet, err := sheetIndex(r.FormValue(FieldSheet))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	records, err := extract(r.Context(), up, sheet, r.FormValue(FieldRange))
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadError("Failed to parse Excel", "File must not be empty", err))
		return
	}

	render.JSON(w, r, records)
}

// ParseCSV handles POST /api/upload/csv
func (h *UploadHandler) ParseCSV(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	records, err := h.service.ParseCSV(r.Context(), up, r.FormValue(FieldDelimiter))
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadError("Failed to parse CSV", "CSV file must not be empty", err))
		return
	}

	render.JSON(w, r, records)
}

// SheetNames handles POST /api/upload/sheets
func (h *UploadHandler) SheetNames(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := h.readUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer cleanup()

	names, err := h.service.SheetNames(r.Context(), up)
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadError("Failed to read sheet names", "File must not be empty", err))
		return
	}

	render.JSON(w, r, api.SheetsResponse{Sheets: names})
}

// readUpload parses the multipart form and opens the file part. The
// returned cleanup closes the file and removes spilled temp files.
func (h *UploadHandler) readUpload(w http.ResponseWriter, r *http.Request) (services.Upload, func(), error) {
	if h.maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.Upload{}, nil, err
		}
		return services.Upload{}, nil, apierrors.InvalidRequestWithError(err)
	}
	removeForm := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	file, header, err := r.FormFile(FieldFile)
	if err != nil {
		removeForm()
		if errors.Is(err, http.ErrMissingFile) {
			return services.Upload{}, nil, apierrors.ErrValidation(FieldFile, "File must not be empty")
		}
		return services.Upload{}, nil, apierrors.InvalidRequestWithError(err)
	}

	h.logger.DebugContext(r.Context(), "upload received",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	up := services.Upload{Filename: header.Filename, Size: header.Size, Content: file}
	return up, func() {
		_ = file.Close()
		removeForm()
	}, nil
}

// sheetIndex parses the sheet form value
func sheetIndex(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, apierrors.ErrValidation(FieldSheet, "Sheet index is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apierrors.ErrValidation(FieldSheet, "Sheet index must be an integer")
	}
	return n, nil
}

// uploadError maps service errors onto API errors. emptyMsg is the
// wording used for an empty file.
func uploadError(prefix, emptyMsg string, err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, services.ErrEmptyFile):
		return apierrors.ErrValidation(FieldFile, emptyMsg)
	case errors.Is(err, services.ErrNegativeSheet):
		return apierrors.ErrValidation(FieldSheet, "Sheet index must be non-negative")
	case errors.Is(err, services.ErrEmptyRange):
		return apierrors.ErrValidation(FieldRange, "Range must not be empty")
	case errors.As(err, &tooLarge):
		return err
	default:
		return apierrors.ExtractionFailed(prefix, err)
	}
}
