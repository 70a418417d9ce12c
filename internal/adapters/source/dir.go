// Package source reads per-season snapshots (CSV or xlsx) from disk.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/okian/draftboard/internal/domain/ingest"
	"github.com/okian/draftboard/pkg/logger"
	"golang.org/x/sync/errgroup"
)

const defaultPattern = "*_data.csv"

// Dir is a directory of season files, one file per season.
type Dir struct {
	root        string
	pattern     string
	concurrency int
	log         logger.Logger
}

// NewDir returns a source over files in root matching the pattern.
func NewDir(root string, opts ...Option) *Dir {
	d := &Dir{root: root, pattern: defaultPattern, concurrency: 4, log: logger.Nop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Read parses every matching file. Files are returned in name order; the
// loader orders them by season. A file that cannot be parsed comes back with
// Err set so the loader can report and skip it.
func (d *Dir) Read(ctx context.Context) ([]ingest.SourceTable, error) {
	paths, err := filepath.Glob(filepath.Join(d.root, d.pattern))
	if err != nil {
		return nil, fmt.Errorf("%w: pattern %q: %v", ErrRead, d.pattern, err)
	}
	sort.Strings(paths)

	out := make([]ingest.SourceTable, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, err := d.readFile(gctx, p)
			if err != nil {
				return err
			}
			out[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	d.log.Info(ctx, "sources read", logger.String("dir", d.root), logger.Int("files", len(out)))
	return out, nil
}

func (d *Dir) readFile(ctx context.Context, path string) (ingest.SourceTable, error) {
	t := ingest.SourceTable{Batch: filepath.Base(path)}
	f, err := os.Open(path)
	if err != nil {
		return t, fmt.Errorf("%w: %v", ErrRead, err)
	}
	defer f.Close()

	parse := Parse
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		parse = ParseWorkbook
	}
	cols, rows, err := parse(f)
	if err != nil {
		d.log.Warn(ctx, "unparseable source file", logger.String("file", path), logger.Error(err))
		t.Err = fmt.Errorf("%w: %v", ingest.ErrParseSource, err)
		return t, nil
	}
	t.Columns, t.Rows = cols, rows
	return t, nil
}

// Parse reads a CSV stream whose first record is the header. Rows may be
// ragged; the loader reports them.
func Parse(r io.Reader) (columns []string, rows [][]string, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	columns, err = cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return columns, rows, nil
		}
		if err != nil {
			return nil, nil, err
		}
		rows = append(rows, rec)
	}
}
