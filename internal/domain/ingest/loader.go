// Package ingest normalizes per-season source snapshots into one unified
// entity-season table.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/draftboard/internal/domain/dedupe"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/season"
	"github.com/okian/draftboard/pkg/logger"
)

// Result is the unified table plus everything that went wrong on the way.
type Result struct {
	Table   model.Table
	Seasons *season.Sequence
	Issues  []Issue
	// RowsBySeason counts loaded rows per season label.
	RowsBySeason map[string]int
}

// Loader projects source tables onto the canonical schema.
type Loader struct {
	aliases map[string]string
	log     logger.Logger
}

// NewLoader creates a loader with the default alias map.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{aliases: DefaultAliases(), log: logger.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type batch struct {
	src   SourceTable
	label string
	start int
}

// Load unifies sources. Zero sources, unorderable labels and repeated season
// labels are fatal; everything else degrades to nulls and Issues.
func (l *Loader) Load(ctx context.Context, sources []SourceTable) (Result, error) {
	if len(sources) == 0 {
		return Result{}, ErrNoSources
	}

	res := Result{RowsBySeason: make(map[string]int)}
	batches := make([]batch, 0, len(sources))
	owner := make(map[string]string, len(sources))
	for _, src := range sources {
		label, err := SeasonFromBatch(src.Batch)
		if err != nil {
			return Result{}, err
		}
		if prev, dup := owner[label]; dup {
			return Result{}, fmt.Errorf("%w: %q and %q both map to %s", ErrDuplicateSeason, prev, src.Batch, label)
		}
		owner[label] = src.Batch
		s, _ := season.Parse(label)
		batches = append(batches, batch{src: src, label: label, start: s.Start})
	}
	sort.SliceStable(batches, func(i, j int) bool { return batches[i].start < batches[j].start })

	labels := make([]string, 0, len(batches))
	seen := dedupe.NewInMemoryDeduper()
	for _, b := range batches {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if b.src.Err != nil {
			res.Issues = append(res.Issues, Issue{Kind: ErrParseSource, Batch: b.src.Batch, Row: -1, Detail: b.src.Err.Error()})
			l.log.Warn(ctx, "batch skipped", logger.String("batch", b.src.Batch), logger.Error(b.src.Err))
			continue
		}
		if len(b.src.Columns) == 0 && len(b.src.Rows) > 0 {
			res.Issues = append(res.Issues, Issue{Kind: ErrParseSource, Batch: b.src.Batch, Row: -1, Detail: "rows without a header"})
			l.log.Warn(ctx, "batch skipped", logger.String("batch", b.src.Batch), logger.String("reason", "no header"))
			continue
		}
		labels = append(labels, b.label)
		n := l.loadBatch(ctx, b, seen, &res)
		res.RowsBySeason[b.label] = n
	}

	seq, err := season.NewSequence(labels)
	if err != nil {
		return Result{}, err
	}
	res.Seasons = seq
	l.log.Info(ctx, "sources loaded",
		logger.Int("batches", len(labels)),
		logger.Int("rows", len(res.Table)),
		logger.Int("issues", len(res.Issues)))
	return res, nil
}

func (l *Loader) loadBatch(ctx context.Context, b batch, seen dedupe.Deduper, res *Result) int {
	idx := resolve(b.src.Columns, l.aliases)
	if _, ok := idx[ColID]; !ok {
		res.Issues = append(res.Issues, Issue{Kind: ErrSchemaMismatch, Batch: b.src.Batch, Row: -1, Detail: "missing identity column " + ColID})
		l.log.Warn(ctx, "identity column missing", logger.String("batch", b.src.Batch))
	}
	for _, c := range Canonical {
		if _, ok := idx[c]; !ok {
			l.log.Debug(ctx, "column missing, filled with null", logger.String("batch", b.src.Batch), logger.String("column", c))
		}
	}

	for i, row := range b.src.Rows {
		if len(row) != len(b.src.Columns) {
			res.Issues = append(res.Issues, Issue{
				Kind: ErrParseSource, Batch: b.src.Batch, Row: i,
				Detail: fmt.Sprintf("expected %d cells, got %d", len(b.src.Columns), len(row)),
			})
		}
		cell := func(name string) string {
			j, ok := idx[name]
			if !ok || j >= len(row) {
				return ""
			}
			return row[j]
		}

		rec := model.Record{
			EntityID:      parseID(cell(ColID)),
			Name:          strings.TrimSpace(cell(ColName)),
			Role:          model.ParseRole(cell(ColRole)),
			GroupID:       parseID(cell(ColGroup)),
			Season:        b.label,
			TotalPoints:   parseFloat(cell(ColTotalPoints)),
			PointsPerGame: parseFloat(cell(ColPointsPerGame)),
			Minutes:       parseFloat(cell(ColMinutes)),
			BirthDate:     strings.TrimSpace(cell(ColBirthDate)),
			GroupJoinDate: strings.TrimSpace(cell(ColGroupJoinDate)),
		}
		if rec.EntityID.Valid {
			pos := len(res.Table)
			if first, dup := seen.SeenAndRecord(dedupe.Key{Entity: rec.EntityID.Int64, Season: b.label}, pos); dup {
				res.Issues = append(res.Issues, Issue{
					Kind: ErrDuplicateEntity, Batch: b.src.Batch, Row: i,
					Detail: fmt.Sprintf("entity %d already loaded at position %d", rec.EntityID.Int64, first),
				})
			}
		}
		res.Table = append(res.Table, rec)
	}
	return len(b.src.Rows)
}

func isNullToken(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "n/a", "na", "-":
		return true
	}
	return false
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if isNullToken(s) {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func parseID(s string) sql.NullInt64 {
	v := parseFloat(s)
	if v == nil || *v != math.Trunc(*v) {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
