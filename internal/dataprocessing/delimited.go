package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// DefaultDelimiter separates fields when no delimiter is given
const DefaultDelimiter = ','

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseDelimited reads delimited text. The first line supplies the headers
// verbatim; every following line becomes one record, an empty line giving a
// record of empty strings. Short lines are padded with empty strings and
// fields beyond the header count are dropped. Input without any line yields
// an empty, non-nil slice.
func ParseDelimited(r io.Reader, delimiter rune) ([]Record, error) {
	if delimiter == 0 {
		delimiter = DefaultDelimiter
	}
	if !validDelimiter(delimiter) {
		return nil, &ExtractionError{Source: "csv", Component: "delimiter",
			Err: fmt.Errorf("%w: %q", ErrInvalidDelimiter, delimiter)}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ExtractionError{Source: "csv", Component: "read", Err: err}
	}

	data, err = decodeText(data)
	if err != nil {
		return nil, &ExtractionError{Source: "csv", Component: "decode", Err: err}
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	var (
		headers []string
		offset  int64
	)
	records := []Record{}
	emit := func(line []string) {
		if headers == nil {
			headers = append([]string{}, line...)
			return
		}
		records = append(records, delimitedRecord(headers, line))
	}

	for {
		// encoding/csv skips empty lines; each one still counts as a line
		for n := blankLines(data[offset:]); n > 0; n-- {
			emit([]string{""})
		}

		line, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			component := "rows"
			if headers == nil {
				component = "headers"
			}
			return nil, &ExtractionError{Source: "csv", Component: component, Err: err}
		}
		offset = cr.InputOffset()
		emit(line)
	}

	return records, nil
}

func delimitedRecord(headers, line []string) Record {
	rec := NewRecord(len(headers))
	for i, h := range headers {
		if i < len(line) {
			rec.Set(h, StringValue(line[i]))
		} else {
			rec.Set(h, StringValue(""))
		}
	}
	return rec
}

// blankLines counts the empty lines at the start of data
func blankLines(data []byte) int {
	n := 0
	for {
		switch {
		case len(data) > 0 && data[0] == '\n':
			data = data[1:]
		case bytes.HasPrefix(data, []byte("\r\n")):
			data = data[2:]
		default:
			return n
		}
		n++
	}
}

// ParseDelimiter turns a form value into a delimiter rune. Empty input
// selects the default; anything but a single character is rejected.
func ParseDelimiter(s string) (rune, error) {
	if s == "" {
		return DefaultDelimiter, nil
	}
	if s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	d, _ := utf8.DecodeRuneInString(s)
	if !validDelimiter(d) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return d, nil
}

func validDelimiter(r rune) bool {
	return r != '"' && r != '\r' && r != '\n' && r != utf8.RuneError && utf8.ValidRune(r)
}

// decodeText strips a UTF-8 byte order mark and falls back to Windows-1252
// for input that is not valid UTF-8.
func decodeText(data []byte) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data, nil
	}
	return charmap.Windows1252.NewDecoder().Bytes(data)
}
