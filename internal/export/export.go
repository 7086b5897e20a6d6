// Package export writes report rows out as files. The sink is a
// capability handed to callers, so builds without a useful destination
// can inject Discard instead of probing for one at runtime.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Sink serializes tabular report rows to a file.
type Sink interface {
	Write(path string, rows [][]string) error
}

// CSVSink writes rows as an RFC 4180 CSV file.
type CSVSink struct{}

// Write creates path (and its parent directory) and writes all rows.
func (CSVSink) Write(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush export: %w", err)
	}
	return f.Close()
}

// Discard throws rows away. Useful as the injected default when no
// export destination is configured.
type Discard struct{}

func (Discard) Write(string, [][]string) error { return nil }
