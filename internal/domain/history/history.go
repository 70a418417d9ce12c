// Package history computes strictly backward-looking per-entity aggregates.
//
// For an entity observed in seasons s_1 < ... < s_n, features at s_k only read
// s_1..s_{k-1}. Same-group variants restrict that prefix to seasons where the
// entity's group equals its group at s_k.
package history

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/season"
	"github.com/okian/draftboard/pkg/logger"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a Compute run.
type Stats struct {
	Entities int
	// Skipped counts entities whose computation failed and were left null.
	Skipped int
}

// called before each entity; tests use it to inject failures.
var entityHook = func(int64) {}

// Compute returns a copy of t with History populated. Row order is preserved.
func Compute(ctx context.Context, t model.Table, opts ...Option) (model.Table, Stats, error) {
	cfg := options{log: logger.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(t) == 0 {
		return model.Table{}, Stats{}, nil
	}

	labels := make([]string, 0)
	seenLabel := make(map[string]struct{})
	byEntity := make(map[int64][]int)
	var ids []int64
	for i := range t {
		if _, ok := seenLabel[t[i].Season]; !ok {
			seenLabel[t[i].Season] = struct{}{}
			labels = append(labels, t[i].Season)
		}
		if !t[i].EntityID.Valid {
			continue
		}
		id := t[i].EntityID.Int64
		if _, ok := byEntity[id]; !ok {
			ids = append(ids, id)
		}
		byEntity[id] = append(byEntity[id], i)
	}
	seq, err := season.NewSequence(labels)
	if err != nil {
		return nil, Stats{}, err
	}

	out := t.Clone()
	for i := range out {
		out[i].History = model.History{}
	}

	var st Stats
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		st.Entities++
		if err := computeEntity(out, byEntity[id], seq); err != nil {
			st.Skipped++
			for _, i := range byEntity[id] {
				out[i].History = model.History{}
			}
			cfg.log.Warn(ctx, "history skipped for entity", logger.Int64("entity", id), logger.Error(err))
		}
	}
	return out, st, nil
}

// computeEntity fills History for every row of one entity.
func computeEntity(out model.Table, rows []int, seq *season.Sequence) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrEntityFailed, r)
		}
	}()
	if len(rows) > 0 {
		entityHook(out[rows[0]].EntityID.Int64)
	}

	// first occurrence per season, in season order
	firsts := make([]int, 0, len(rows))
	firstOf := make(map[string]int, len(rows))
	for _, i := range rows {
		if _, ok := firstOf[out[i].Season]; ok {
			continue
		}
		firstOf[out[i].Season] = i
		firsts = append(firsts, i)
	}
	sort.SliceStable(firsts, func(a, b int) bool { return seq.Less(out[firsts[a]].Season, out[firsts[b]].Season) })

	computed := make(map[string]model.History, len(firsts))
	for k, i := range firsts {
		prior := firsts[:k]
		h := model.History{TimeInLeague: k}

		points := pick(out, prior, func(r *model.Record) *float64 { return r.PointsPerGame })
		minutes := pick(out, prior, func(r *model.Record) *float64 { return r.Minutes })
		h.PointsLast, h.PointsAvg2, h.PointsAvg3 = lastAndMeans(points)
		h.MinutesLast, h.MinutesAvg2, h.MinutesAvg3 = lastAndMeans(minutes)

		same := make([]int, 0, len(prior))
		for _, j := range prior {
			if model.SameGroup(out[j].GroupID, out[i].GroupID) {
				same = append(same, j)
			}
		}
		if len(same) > 0 {
			points = pick(out, same, func(r *model.Record) *float64 { return r.PointsPerGame })
			minutes = pick(out, same, func(r *model.Record) *float64 { return r.Minutes })
			h.PointsLastSameGroup, h.PointsAvg2SameGroup, h.PointsAvg3SameGroup = lastAndMeans(points)
			h.MinutesLastSameGroup, h.MinutesAvg2SameGroup, h.MinutesAvg3SameGroup = lastAndMeans(minutes)
		}
		computed[out[i].Season] = h
	}

	for _, i := range rows {
		out[i].History = computed[out[i].Season]
	}
	return nil
}

func pick(t model.Table, rows []int, get func(*model.Record) *float64) []*float64 {
	vals := make([]*float64, len(rows))
	for n, i := range rows {
		vals[n] = get(&t[i])
	}
	return vals
}

// lastAndMeans takes values in chronological order and returns the most
// recent value and the null-skipping means of the trailing 2 and 3 values.
func lastAndMeans(vals []*float64) (last, avg2, avg3 *float64) {
	if len(vals) == 0 {
		return nil, nil, nil
	}
	if v := vals[len(vals)-1]; v != nil {
		last = model.Float(*v)
	}
	return last, trailingMean(vals, 2), trailingMean(vals, 3)
}

func trailingMean(vals []*float64, w int) *float64 {
	start := len(vals) - w
	if start < 0 {
		start = 0
	}
	xs := make([]float64, 0, w)
	for _, v := range vals[start:] {
		if v != nil {
			xs = append(xs, *v)
		}
	}
	if len(xs) == 0 {
		return nil
	}
	return model.Float(stat.Mean(xs, nil))
}
