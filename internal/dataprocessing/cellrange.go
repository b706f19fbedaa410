package dataprocessing

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRange is a rectangular window of a sheet, zero-based and inclusive
// on both ends. FirstRow <= LastRow and FirstCol <= LastCol always hold.
type CellRange struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

// ParseRange parses an A1-style range such as "A1:C10". Absolute markers
// ("$A$1") and single cells ("B2") are accepted; reversed corners are
// normalised.
func ParseRange(expr string) (CellRange, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "" {
		return CellRange{}, fmt.Errorf("%w: empty expression", ErrInvalidRange)
	}

	parts := strings.Split(trimmed, ":")
	if len(parts) > 2 {
		return CellRange{}, fmt.Errorf("%w %q: too many corners", ErrInvalidRange, expr)
	}

	col1, row1, err := parseCorner(parts[0])
	if err != nil {
		return CellRange{}, fmt.Errorf("%w %q: %v", ErrInvalidRange, expr, err)
	}
	col2, row2 := col1, row1
	if len(parts) == 2 {
		if col2, row2, err = parseCorner(parts[1]); err != nil {
			return CellRange{}, fmt.Errorf("%w %q: %v", ErrInvalidRange, expr, err)
		}
	}

	return CellRange{
		FirstRow: min(row1, row2) - 1,
		LastRow:  max(row1, row2) - 1,
		FirstCol: min(col1, col2) - 1,
		LastCol:  max(col1, col2) - 1,
	}, nil
}

func parseCorner(s string) (col, row int, err error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if s == "" {
		return 0, 0, fmt.Errorf("missing cell reference")
	}
	return excelize.CellNameToCoordinates(s)
}

// Rows returns the number of rows covered
func (r CellRange) Rows() int { return r.LastRow - r.FirstRow + 1 }

// Cols returns the number of columns covered
func (r CellRange) Cols() int { return r.LastCol - r.FirstCol + 1 }

// CellName returns the A1 name of the zero-based row and column
func CellName(row, col int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row+1)
	return name
}

// String renders the range back to A1 notation
func (r CellRange) String() string {
	return CellName(r.FirstRow, r.FirstCol) + ":" + CellName(r.LastRow, r.LastCol)
}
