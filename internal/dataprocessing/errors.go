package dataprocessing

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRange       = errors.New("invalid cell range")
	ErrHeaderRowMissing   = errors.New("header row is missing")
	ErrSheetOutOfRange    = errors.New("sheet index out of range")
	ErrInvalidDelimiter   = errors.New("invalid delimiter")
	ErrWorkbookUnreadable = errors.New("workbook cannot be read")
)

// ExtractionError reports where an extraction failed
type ExtractionError struct {
	Source    string // "excel" or "csv"
	SheetName string
	Component string
	Err       error
}

func (e *ExtractionError) Error() string {
	if e.SheetName != "" {
		return fmt.Sprintf("sheet %q: %s: %v", e.SheetName, e.Component, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Component, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
