package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	// HeaderPrefix prefixes synthesized labels for columns without header text
	HeaderPrefix = "Column"
	// RawKeyPrefix prefixes the offset keys of headerless extraction
	RawKeyPrefix = "col"
)

var rawOpts = excelize.Options{RawCellValue: true}

type numFormat struct {
	id   int
	code string
}

// Workbook is an opened spreadsheet document. It is not safe for concurrent use.
type Workbook struct {
	file     *excelize.File
	date1904 bool
	formats  map[int]numFormat
	logger   *slog.Logger
}

// OpenWorkbook reads a whole xlsx document from r
func OpenWorkbook(r io.Reader, logger *slog.Logger) (*Workbook, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &ExtractionError{Source: "excel", Component: "open", Err: errors.Join(ErrWorkbookUnreadable, err)}
	}

	wb := &Workbook{
		file:    f,
		formats: make(map[int]numFormat),
		logger:  logger.With(slog.String("component", "workbook")),
	}

	props, err := f.GetWorkbookProps()
	if err != nil {
		_ = f.Close()
		return nil, &ExtractionError{Source: "excel", Component: "workbook properties", Err: err}
	}
	if props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}

	return wb, nil
}

// Close releases the temporary files held by the document
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetNames lists the sheets in workbook order
func (w *Workbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *Workbook) sheetAt(idx int) (string, error) {
	names := w.file.GetSheetList()
	if idx < 0 || idx >= len(names) {
		return "", &ExtractionError{
			Source:    "excel",
			Component: "sheet lookup",
			Err:       fmt.Errorf("%w: index %d, workbook has %d sheet(s)", ErrSheetOutOfRange, idx, len(names)),
		}
	}
	return names[idx], nil
}

// ExtractRange reads the range of the sheet at sheetIdx. The first row of the
// range supplies the headers and every following present row becomes one
// record keyed by those headers.
func (w *Workbook) ExtractRange(sheetIdx int, rangeExpr string) ([]Record, error) {
	sheet, cr, present, err := w.prepare(sheetIdx, rangeExpr)
	if err != nil {
		return nil, err
	}

	if !present(cr.FirstRow) {
		return nil, &ExtractionError{Source: "excel", SheetName: sheet, Component: "headers",
			Err: fmt.Errorf("%w: row %d", ErrHeaderRowMissing, cr.FirstRow+1)}
	}

	headers := make([]string, cr.Cols())
	for i := range headers {
		text, err := w.file.GetCellValue(sheet, CellName(cr.FirstRow, cr.FirstCol+i))
		if err != nil {
			return nil, &ExtractionError{Source: "excel", SheetName: sheet, Component: "headers", Err: err}
		}
		if text == "" {
			text = HeaderPrefix + strconv.Itoa(i)
		}
		headers[i] = text
	}

	records := make([]Record, 0, cr.Rows()-1)
	for row := cr.FirstRow + 1; row <= cr.LastRow; row++ {
		if !present(row) {
			continue
		}
		rec, err := w.readRow(sheet, row, cr, func(i int) string { return headers[i] })
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	w.logger.Debug("range extracted",
		slog.String("sheet", sheet),
		slog.String("range", cr.String()),
		slog.Int("records", len(records)))

	return records, nil
}

// ExtractRaw reads every present row of the range, header row included,
// keying cells by their zero-based column offset ("col0", "col1", ...).
func (w *Workbook) ExtractRaw(sheetIdx int, rangeExpr string) ([]Record, error) {
	sheet, cr, present, err := w.prepare(sheetIdx, rangeExpr)
	if err != nil {
		return nil, err
	}

	keys := make([]string, cr.Cols())
	for i := range keys {
		keys[i] = RawKeyPrefix + strconv.Itoa(i)
	}

	records := make([]Record, 0, cr.Rows())
	for row := cr.FirstRow; row <= cr.LastRow; row++ {
		if !present(row) {
			continue
		}
		rec, err := w.readRow(sheet, row, cr, func(i int) string { return keys[i] })
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// prepare resolves the sheet and range and returns a predicate reporting
// which zero-based rows exist in the sheet.
func (w *Workbook) prepare(sheetIdx int, rangeExpr string) (string, CellRange, func(int) bool, error) {
	sheet, err := w.sheetAt(sheetIdx)
	if err != nil {
		return "", CellRange{}, nil, err
	}

	cr, err := ParseRange(rangeExpr)
	if err != nil {
		return "", CellRange{}, nil, &ExtractionError{Source: "excel", SheetName: sheet, Component: "range", Err: err}
	}

	used, err := w.usedRows(sheet)
	if err != nil {
		return "", CellRange{}, nil, &ExtractionError{Source: "excel", SheetName: sheet, Component: "rows", Err: err}
	}

	present := func(row int) bool {
		return row < len(used) && used[row]
	}

	return sheet, cr, present, nil
}

// usedRows walks the sheet once and reports, per zero-based row up to the
// last row element, whether the row holds a value or a formula. Formula cells
// without a cached result still count.
func (w *Workbook) usedRows(sheet string) ([]bool, error) {
	it, err := w.file.Rows(sheet)
	if err != nil {
		return nil, err
	}

	var used []bool
	for it.Next() {
		cols, err := it.Columns(rawOpts)
		if err != nil {
			_ = it.Close()
			return nil, err
		}
		used = append(used, len(cols) > 0)
	}
	if err := it.Error(); err != nil {
		_ = it.Close()
		return nil, err
	}
	return used, it.Close()
}

func (w *Workbook) readRow(sheet string, row int, cr CellRange, key func(int) string) (Record, error) {
	rec := NewRecord(cr.Cols())
	for col := cr.FirstCol; col <= cr.LastCol; col++ {
		cell, err := w.cell(sheet, CellName(row, col))
		if err != nil {
			return Record{}, &ExtractionError{Source: "excel", SheetName: sheet, Component: "cell " + CellName(row, col), Err: err}
		}
		rec.Set(key(col-cr.FirstCol), NormalizeCell(cell))
	}
	return rec, nil
}

// cell gathers the stored value, type, formula result and number format of
// one cell.
func (w *Workbook) cell(sheet, name string) (Cell, error) {
	c := Cell{Date1904: w.date1904}

	styleID, err := w.file.GetCellStyle(sheet, name)
	if err != nil {
		return c, err
	}
	nf := w.format(styleID)
	c.FormatID, c.Format = nf.id, nf.code

	formula, err := w.file.GetCellFormula(sheet, name)
	if err != nil {
		return c, err
	}
	if formula != "" {
		c.Kind = CellFormula
		if c.Cached, err = w.cachedResult(sheet, name); err != nil {
			return c, err
		}
		c.Result, c.EvalErr = w.file.CalcCellValue(sheet, name, rawOpts)
		if c.EvalErr != nil {
			w.logger.Debug("formula evaluation failed",
				slog.String("sheet", sheet),
				slog.String("cell", name),
				slog.String("formula", formula),
				slog.String("error", c.EvalErr.Error()))
		}
		return c, nil
	}

	c.Stored, err = w.file.GetCellValue(sheet, name, rawOpts)
	if err != nil {
		return c, err
	}

	typ, err := w.file.GetCellType(sheet, name)
	if err != nil {
		return c, err
	}

	switch typ {
	case excelize.CellTypeBool:
		c.Kind = CellBoolean
	case excelize.CellTypeDate:
		c.Kind = CellDate
	case excelize.CellTypeError:
		c.Kind = CellError
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		c.Kind = CellText
	default:
		// numbers carry no type attribute
		c.Kind = CellNumeric
	}
	if c.Stored == "" && c.Kind != CellText {
		c.Kind = CellBlank
	}
	return c, nil
}

// cachedResult reports the stored type of the result a formula cell was
// saved with, or CellAbsent when the file holds no result for it.
func (w *Workbook) cachedResult(sheet, name string) (CellKind, error) {
	stored, err := w.file.GetCellValue(sheet, name, rawOpts)
	if err != nil || stored == "" {
		return CellAbsent, err
	}
	typ, err := w.file.GetCellType(sheet, name)
	if err != nil {
		return CellAbsent, err
	}
	switch typ {
	case excelize.CellTypeFormula, excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return CellText, nil
	case excelize.CellTypeBool:
		return CellBoolean, nil
	case excelize.CellTypeError:
		return CellError, nil
	default:
		return CellNumeric, nil
	}
}

func (w *Workbook) format(styleID int) numFormat {
	if nf, ok := w.formats[styleID]; ok {
		return nf
	}

	var nf numFormat
	style, err := w.file.GetStyle(styleID)
	if err == nil && style != nil {
		nf.id = style.NumFmt
		if style.CustomNumFmt != nil {
			nf.code = *style.CustomNumFmt
		} else if code, ok := BuiltInFormatCode(style.NumFmt); ok {
			nf.code = code
		}
	}
	w.formats[styleID] = nf
	return nf
}

// ExtractExcel opens the workbook in r and extracts one header-keyed range
func ExtractExcel(r io.Reader, sheetIdx int, rangeExpr string, logger *slog.Logger) ([]Record, error) {
	wb, err := OpenWorkbook(r, logger)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.ExtractRange(sheetIdx, rangeExpr)
}

// ExtractExcelRaw opens the workbook in r and extracts one range keyed by
// column offset
func ExtractExcelRaw(r io.Reader, sheetIdx int, rangeExpr string, logger *slog.Logger) ([]Record, error) {
	wb, err := OpenWorkbook(r, logger)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.ExtractRaw(sheetIdx, rangeExpr)
}

// SheetNames opens the workbook in r and lists its sheets
func SheetNames(r io.Reader, logger *slog.Logger) ([]string, error) {
	wb, err := OpenWorkbook(r, logger)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	names := wb.SheetNames()
	if names == nil {
		names = []string{}
	}
	return names, nil
}
