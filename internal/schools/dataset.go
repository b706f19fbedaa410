package schools

import (
	"fmt"
	"os"

	"chartapp/internal/dataprocessing"
)

// Load reads the dataset at path. The file is read on every call so that a
// replaced dataset is picked up without a restart.
func Load(path string) ([]dataprocessing.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open schools dataset: %w", err)
	}
	defer f.Close()

	rows, err := dataprocessing.ParseDelimited(f, dataprocessing.DefaultDelimiter)
	if err != nil {
		return nil, fmt.Errorf("parse schools dataset %s: %w", path, err)
	}
	return rows, nil
}
