package services

import "errors"

// Service errors
var (
	// Upload errors
	ErrEmptyFile     = errors.New("file must not be empty")
	ErrNegativeSheet = errors.New("sheet index must be non-negative")
	ErrEmptyRange    = errors.New("range must not be empty")

	// Chart errors
	ErrEmptyChartName  = errors.New("chart name must not be empty")
	ErrEmptyConfigJSON = errors.New("config JSON must not be empty")
	ErrEmptyRows       = errors.New("raw data must not be empty")
	ErrChartNotFound   = errors.New("chart not found")
)
