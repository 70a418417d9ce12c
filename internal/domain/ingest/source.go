package ingest

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/okian/draftboard/internal/domain/season"
)

// SourceTable is one season snapshot as read from storage.
type SourceTable struct {
	// Batch identifies the snapshot, usually the file name.
	Batch   string
	Columns []string
	Rows    [][]string
	// Err is set when the snapshot could not be parsed. The loader reports
	// it and skips the batch.
	Err error
}

// Issue is a non-fatal problem found while loading.
type Issue struct {
	Kind   error
	Batch  string
	Row    int // -1 for batch level issues
	Detail string
}

func (i Issue) Error() string {
	if i.Row < 0 {
		return fmt.Sprintf("%s: %v: %s", i.Batch, i.Kind, i.Detail)
	}
	return fmt.Sprintf("%s row %d: %v: %s", i.Batch, i.Row, i.Kind, i.Detail)
}

func (i Issue) Unwrap() error { return i.Kind }

// SeasonFromBatch derives the normalized season label from a batch identifier
// such as "2019-20_data.csv" or "data/fpl_19_20.csv".
func SeasonFromBatch(batch string) (string, error) {
	base := filepath.Base(strings.TrimSpace(batch))
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.TrimSuffix(base, "_data")
	label, err := season.Normalize(base)
	if err != nil {
		return "", fmt.Errorf("batch %q: %w", batch, err)
	}
	return label, nil
}
