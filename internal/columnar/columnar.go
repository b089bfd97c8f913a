// Package columnar writes partition row sets as parquet files.
//
// Every write is a full replace: rows go to a temp file in the destination
// directory which is then renamed over the target, so a reader never sees a
// half-written partition. There is no append path; write-once partitions
// are skipped entirely by the caller instead of diffed.
package columnar

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// WriteFile persists rows as a single parquet file at path, replacing any
// prior content. Returns the number of rows written.
func WriteFile[T any](path string, rows []T) (int, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*.parquet")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := parquet.NewGenericWriter[T](tmp)
	if _, err := w.Write(rows); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write rows: %w", err)
	}
	if err := w.Close(); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("close parquet writer: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return len(rows), nil
}
