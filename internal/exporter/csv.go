package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"chartapp/internal/dataprocessing"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Delimiter rune // defaults to ','
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Headers returns the union of record keys in first-seen order
func Headers(records []dataprocessing.Record) []string {
	seen := make(map[string]bool)
	var headers []string
	for _, rec := range records {
		for _, key := range rec.Keys() {
			if !seen[key] {
				seen[key] = true
				headers = append(headers, key)
			}
		}
	}
	return headers
}

// WriteRecords writes records as CSV to w. Nothing is written for an empty
// slice.
func WriteRecords(w io.Writer, records []dataprocessing.Record, opts WriteOptions) error {
	if len(records) == 0 {
		return nil
	}

	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if opts.Delimiter != 0 {
		writer.Comma = opts.Delimiter
	}

	headers := Headers(records)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	row := make([]string, len(headers))
	for i, rec := range records {
		for j, key := range headers {
			v, _ := rec.Get(key)
			row[j] = v.String()
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes records to path, creating parent directories
func WriteFile(path string, records []dataprocessing.Record, opts WriteOptions) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := WriteRecords(file, records, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
