package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"chartapp/internal/dataprocessing"
	"chartapp/internal/infrastructure"
)

// Upload kinds used as the "kind" metric attribute
const (
	KindExcel    = "excel"
	KindExcelRaw = "excel_raw"
	KindCSV      = "csv"
	KindSheets   = "sheets"
)

// Upload is one uploaded file
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}

// UploadService extracts records from uploaded spreadsheets and CSV files
type UploadService struct {
	logger  *slog.Logger
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
}

// NewUploadService creates an upload service
func NewUploadService(logger *slog.Logger, metrics *infrastructure.BusinessMetrics) *UploadService {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadService{
		logger:  logger.With(slog.String("component", "upload_service")),
		metrics: metrics,
		tracer:  otel.Tracer("chartapp.upload"),
	}
}

// ParseExcel extracts header-keyed records from the given sheet and range
func (s *UploadService) ParseExcel(ctx context.Context, up Upload, sheet int, rangeExpr string) ([]dataprocessing.Record, error) {
	if err := validateExcel(up, sheet, rangeExpr); err != nil {
		s.reject(ctx, KindExcel, up, err)
		return nil, err
	}
	return s.extract(ctx, KindExcel, up, func() ([]dataprocessing.Record, error) {
		return dataprocessing.ExtractExcel(up.Content, sheet, strings.TrimSpace(rangeExpr), s.logger)
	}, attribute.Int("sheet", sheet), attribute.String("range", rangeExpr))
}

// ParseExcelRaw extracts every row of the range keyed by column offset
func (s *UploadService) ParseExcelRaw(ctx context.Context, up Upload, sheet int, rangeExpr string) ([]dataprocessing.Record, error) {
	if err := validateExcel(up, sheet, rangeExpr); err != nil {
		s.reject(ctx, KindExcelRaw, up, err)
		return nil, err
	}
	return s.extract(ctx, KindExcelRaw, up, func() ([]dataprocessing.Record, error) {
		return dataprocessing.ExtractExcelRaw(up.Content, sheet, strings.TrimSpace(rangeExpr), s.logger)
	}, attribute.Int("sheet", sheet), attribute.String("range", rangeExpr))
}

// ParseCSV reads a delimited file. An empty delimiter means comma.
func (s *UploadService) ParseCSV(ctx context.Context, up Upload, delimiter string) ([]dataprocessing.Record, error) {
	if up.Size == 0 {
		s.reject(ctx, KindCSV, up, ErrEmptyFile)
		return nil, ErrEmptyFile
	}

	delim, err := dataprocessing.ParseDelimiter(delimiter)
	if err != nil {
		s.reject(ctx, KindCSV, up, err)
		return nil, err
	}

	return s.extract(ctx, KindCSV, up, func() ([]dataprocessing.Record, error) {
		return dataprocessing.ParseDelimited(up.Content, delim)
	}, attribute.String("delimiter", string(delim)))
}

// SheetNames lists the sheets of an uploaded workbook in workbook order
func (s *UploadService) SheetNames(ctx context.Context, up Upload) ([]string, error) {
	if up.Size == 0 {
		s.reject(ctx, KindSheets, up, ErrEmptyFile)
		return nil, ErrEmptyFile
	}

	ctx, span := s.tracer.Start(ctx, "upload.sheets",
		trace.WithAttributes(attribute.String("filename", up.Filename)))
	defer span.End()

	start := time.Now()
	names, err := dataprocessing.SheetNames(up.Content, s.logger)
	infrastructure.RecordExtraction(ctx, s.metrics, KindSheets, up.Size, len(names), time.Since(start), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.DebugContext(ctx, "sheet listing failed",
			slog.String("filename", up.Filename),
			slog.String("error", err.Error()))
		return nil, err
	}
	return names, nil
}

func validateExcel(up Upload, sheet int, rangeExpr string) error {
	switch {
	case up.Size == 0:
		return ErrEmptyFile
	case sheet < 0:
		return ErrNegativeSheet
	case strings.TrimSpace(rangeExpr) == "":
		return ErrEmptyRange
	}
	return nil
}

func (s *UploadService) reject(ctx context.Context, kind string, up Upload, err error) {
	infrastructure.RecordExtraction(ctx, s.metrics, kind, up.Size, 0, 0, err)
	s.logger.DebugContext(ctx, "upload rejected",
		slog.String("kind", kind),
		slog.String("filename", up.Filename),
		slog.String("reason", err.Error()))
}

func (s *UploadService) extract(ctx context.Context, kind string, up Upload, fn func() ([]dataprocessing.Record, error), attrs ...attribute.KeyValue) ([]dataprocessing.Record, error) {
	attrs = append(attrs, attribute.String("filename", up.Filename), attribute.Int64("size", up.Size))
	ctx, span := s.tracer.Start(ctx, "upload."+kind, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	records, err := fn()
	elapsed := time.Since(start)
	infrastructure.RecordExtraction(ctx, s.metrics, kind, up.Size, len(records), elapsed, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.DebugContext(ctx, "extraction failed",
			slog.String("kind", kind),
			slog.String("filename", up.Filename),
			slog.String("error", err.Error()))
		return nil, err
	}

	span.SetAttributes(attribute.Int("rows", len(records)))
	s.logger.InfoContext(ctx, "upload extracted",
		slog.String("kind", kind),
		slog.String("filename", up.Filename),
		slog.Int("rows", len(records)),
		slog.Duration("duration", elapsed))
	return records, nil
}
