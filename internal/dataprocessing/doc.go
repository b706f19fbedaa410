// Package dataprocessing turns uploaded spreadsheets and delimited text into
// ordered, header-keyed records and shapes those records into chart configs.
//
// # Components
//
//  1. Normalizer: converts one cell (stored value, type, formula result and
//     number format) into a Value. Formulas are classified by their evaluated
//     result, numbers in a date format become dates and numbers displayed as
//     percent are multiplied by 100 after the type is resolved.
//  2. Workbook: opens an xlsx document with excelize and extracts a cell range.
//     The first row of the range supplies headers; missing header text becomes
//     "Column<offset>". Rows that do not exist in the sheet are skipped.
//  3. ParseDelimited: reads CSV-like text with a configurable delimiter.
//  4. ShapeChart: first key of the first record is the category axis, every
//     other key is one numeric series.
//
// # Usage
//
//	records, err := dataprocessing.ExtractExcel(file, 0, "A1:C10", logger)
//	if err != nil {
//	    return err
//	}
//	cfg := dataprocessing.ShapeChart(records)
//
// # Error Handling
//
// Extraction failures are returned as *ExtractionError wrapping one of the
// sentinel errors (ErrInvalidRange, ErrHeaderRowMissing, ErrSheetOutOfRange,
// ErrInvalidDelimiter, ErrWorkbookUnreadable) or the underlying library error.
// Nothing in this package logs at warn level or above; callers decide.
package dataprocessing
