package dataprocessing

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// CellKind is the stored type of a spreadsheet cell
type CellKind uint8

const (
	CellAbsent CellKind = iota
	CellBlank
	CellText
	CellNumeric
	CellBoolean
	CellDate // ISO 8601 text stored with t="d"
	CellError
	CellFormula
)

// ErrorMarker replaces formula results that failed to evaluate
const ErrorMarker = "ERROR"

// Cell is everything the normalizer needs to know about one cell
type Cell struct {
	Kind CellKind
	// Stored is the raw stored value
	Stored string
	// FormatID and Format describe the display number format
	FormatID int
	Format   string
	// Result and EvalErr hold the evaluated formula result
	Result  string
	EvalErr error
	// Cached is the stored type of the result the file was saved with,
	// CellAbsent when the formula has none
	Cached CellKind
	// Date1904 selects the 1904 date system of the workbook
	Date1904 bool
}

// NormalizeCell converts a cell to a Value: formulas are classified by their
// evaluated result, numbers in a date format become dates and numeric values
// displayed as percent are scaled by 100.
func NormalizeCell(c Cell) Value {
	var v Value

	switch c.Kind {
	case CellAbsent, CellBlank, CellError:
		return EmptyValue()
	case CellText:
		v = StringValue(c.Stored)
	case CellBoolean:
		v = BoolValue(parseStoredBool(c.Stored))
	case CellDate:
		v = parseStoredDate(c.Stored)
	case CellNumeric:
		v = numericCell(c)
	case CellFormula:
		if c.EvalErr != nil {
			return StringValue(ErrorMarker)
		}
		v = formulaResult(c.Result, c.Cached)
	}

	return scalePercent(v, c.Format)
}

func numericCell(c Cell) Value {
	if c.Stored == "" {
		return EmptyValue()
	}
	f, err := strconv.ParseFloat(c.Stored, 64)
	if err != nil {
		return StringValue(c.Stored)
	}
	if IsDateFormat(c.FormatID, c.Format) {
		if t, err := excelize.ExcelDateToTime(f, c.Date1904); err == nil {
			return DateValue(t)
		}
	}
	return NumberValue(f)
}

func scalePercent(v Value, format string) Value {
	if f, ok := v.Number(); ok && IsPercentFormat(format) {
		return NumberValue(f * 100)
	}
	return v
}

// formulaResult types an evaluated formula result. A cached result type is
// authoritative, so text such as "00123" or "TRUE" stays text.
func formulaResult(s string, cached CellKind) Value {
	if s == "" {
		return EmptyValue()
	}
	switch cached {
	case CellText:
		return StringValue(s)
	case CellBoolean:
		return BoolValue(parseStoredBool(s))
	case CellError:
		return StringValue(ErrorMarker)
	case CellNumeric:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return NumberValue(f)
		}
	}
	return classifyResult(s)
}

// classifyResult types a formula result from its text alone
func classifyResult(s string) Value {
	switch {
	case s == "":
		return EmptyValue()
	case isFormulaError(s):
		return StringValue(ErrorMarker)
	case s == "TRUE":
		return BoolValue(true)
	case s == "FALSE":
		return BoolValue(false)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return NumberValue(f)
	}
	return StringValue(s)
}

var formulaErrors = map[string]struct{}{
	"#NULL!":        {},
	"#DIV/0!":       {},
	"#VALUE!":       {},
	"#REF!":         {},
	"#NAME?":        {},
	"#NUM!":         {},
	"#N/A":          {},
	"#GETTING_DATA": {},
	"#SPILL!":       {},
	"#CALC!":        {},
	"#UNSUPPORTED!": {},
}

func isFormulaError(s string) bool {
	_, ok := formulaErrors[strings.ToUpper(strings.TrimSpace(s))]
	return ok
}

func parseStoredBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true
	default:
		return false
	}
}

func parseStoredDate(s string) Value {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return DateValue(t)
		}
	}
	if s == "" {
		return EmptyValue()
	}
	return StringValue(s)
}
