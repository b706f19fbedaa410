package testutil

import (
	"bytes"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Workbook builds an xlsx document cell by cell for tests
type Workbook struct {
	t     *testing.T
	f     *excelize.File
	sheet string
}

// NewWorkbook starts a workbook whose first sheet is "Sheet1"
func NewWorkbook(t *testing.T) *Workbook {
	t.Helper()
	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	return &Workbook{t: t, f: f, sheet: "Sheet1"}
}

// Sheet switches to the named sheet, creating it when missing
func (w *Workbook) Sheet(name string) *Workbook {
	w.t.Helper()
	if idx, _ := w.f.GetSheetIndex(name); idx < 0 {
		_, err := w.f.NewSheet(name)
		require.NoError(w.t, err)
	}
	w.sheet = name
	return w
}

// Set writes a value into cell on the current sheet
func (w *Workbook) Set(cell string, value any) *Workbook {
	w.t.Helper()
	require.NoError(w.t, w.f.SetCellValue(w.sheet, cell, value))
	return w
}

// Row writes values left to right starting at cell
func (w *Workbook) Row(cell string, values ...any) *Workbook {
	w.t.Helper()
	require.NoError(w.t, w.f.SetSheetRow(w.sheet, cell, &values))
	return w
}

// Formula sets a formula without a cached result
func (w *Workbook) Formula(cell, formula string) *Workbook {
	w.t.Helper()
	require.NoError(w.t, w.f.SetCellFormula(w.sheet, cell, formula))
	return w
}

// NumFmt applies a built-in number format id to cell
func (w *Workbook) NumFmt(cell string, id int) *Workbook {
	w.t.Helper()
	style, err := w.f.NewStyle(&excelize.Style{NumFmt: id})
	require.NoError(w.t, err)
	require.NoError(w.t, w.f.SetCellStyle(w.sheet, cell, cell, style))
	return w
}

// CustomFmt applies a custom number format code to cell
func (w *Workbook) CustomFmt(cell, code string) *Workbook {
	w.t.Helper()
	style, err := w.f.NewStyle(&excelize.Style{CustomNumFmt: &code})
	require.NoError(w.t, err)
	require.NoError(w.t, w.f.SetCellStyle(w.sheet, cell, cell, style))
	return w
}

// Bytes serialises the workbook
func (w *Workbook) Bytes() []byte {
	w.t.Helper()
	buf, err := w.f.WriteToBuffer()
	require.NoError(w.t, err)
	return buf.Bytes()
}

// StreamedWorkbook writes rows to "Sheet1" through the streaming writer,
// starting at A1. Unlike Formula, an excelize.Cell carrying both Formula and
// Value is saved with its cached result the way spreadsheet programs do.
func StreamedWorkbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sw, err := f.NewStreamWriter("Sheet1")
	require.NoError(t, err)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, sw.SetRow(cell, row))
	}
	require.NoError(t, sw.Flush())

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// MultipartBody encodes a file part plus plain form fields.
// It returns the body and the Content-Type header value.
func MultipartBody(t *testing.T, fileField, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}
