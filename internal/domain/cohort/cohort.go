// Package cohort attaches previous-season peer aggregates to records based on
// their continuity flags. Input must already carry Continuity.
package cohort

import (
	"context"
	"fmt"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/season"
	"github.com/okian/draftboard/pkg/logger"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a Compute run.
type Stats struct {
	Seasons int
	Skipped int
}

type key struct {
	group int64
	role  model.Role
}

// buckets collects P values per key; only non-null values are kept.
type buckets[K comparable] map[K][]float64

func (b buckets[K]) add(k K, v *float64) {
	if v != nil {
		b[k] = append(b[k], *v)
	}
}

func (b buckets[K]) max(k K) *float64 {
	xs := b[k]
	if len(xs) == 0 {
		return nil
	}
	return model.Float(floats.Max(xs))
}

func (b buckets[K]) mean(k K) *float64 {
	xs := b[k]
	if len(xs) == 0 {
		return nil
	}
	return model.Float(stat.Mean(xs, nil))
}

// called before each season; tests use it to inject failures.
var seasonHook = func(string) {}

// Compute returns a copy of t with Cohort populated. Row order is preserved.
func Compute(ctx context.Context, t model.Table, opts ...Option) (model.Table, Stats, error) {
	o := Defaults()
	for _, opt := range opts {
		opt(&o)
	}
	if len(t) == 0 {
		return model.Table{}, Stats{}, nil
	}

	rows := make(map[string][]int)
	var labels []string
	for i := range t {
		if _, ok := rows[t[i].Season]; !ok {
			labels = append(labels, t[i].Season)
		}
		rows[t[i].Season] = append(rows[t[i].Season], i)
	}
	seq, err := season.NewSequence(labels)
	if err != nil {
		return nil, Stats{}, err
	}

	out := t.Clone()
	for i := range out {
		out[i].Cohort = model.Cohort{}
	}

	var st Stats
	for _, label := range seq.Labels() {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		st.Seasons++
		prev, ok := seq.Previous(label)
		if !ok {
			continue
		}
		if err := attach(out, rows[prev], rows[label], o); err != nil {
			st.Skipped++
			for _, i := range rows[label] {
				out[i].Cohort = model.Cohort{}
			}
			o.log.Warn(ctx, "cohort features skipped for season", logger.String("season", label), logger.Error(err))
		}
	}
	return out, st, nil
}

// firstPerEntity drops repeated ids, keeping rows without an id.
func firstPerEntity(t model.Table, rows []int) []int {
	seen := make(map[int64]struct{}, len(rows))
	out := make([]int, 0, len(rows))
	for _, i := range rows {
		if id := t[i].EntityID; id.Valid {
			if _, dup := seen[id.Int64]; dup {
				continue
			}
			seen[id.Int64] = struct{}{}
		}
		out = append(out, i)
	}
	return out
}

func above(v *float64, threshold float64) bool {
	return v != nil && *v > threshold
}

// exposed is above, except that a threshold of zero or less admits every
// recorded value, zero minutes included.
func exposed(v *float64, threshold float64) bool {
	if threshold <= 0 {
		return v != nil
	}
	return above(v, threshold)
}

func (o Options) influential(r *model.Record) bool {
	if above(r.Minutes, o.InfluentialMinutes) {
		return true
	}
	return above(r.PointsPerGame, o.InfluentialPoints) && above(r.Minutes, o.NewcomerExposureMinutes)
}

func attach(t model.Table, prevRows, curRows []int, o Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrBucketFailed, r)
		}
	}()
	if len(curRows) > 0 {
		seasonHook(t[curRows[0]].Season)
	}

	roleMinutes := buckets[key]{}
	roleHighPoints := buckets[key]{}
	roleNewcomerPoints := buckets[key]{}
	signingMinutes := buckets[int64]{}
	influential := make(map[key][]int64)

	for _, i := range firstPerEntity(t, prevRows) {
		r := &t[i]
		if !r.GroupID.Valid {
			continue
		}
		k := key{group: r.GroupID.Int64, role: r.Role}
		if exposed(r.Minutes, o.RoleExposureMinutes) {
			roleMinutes.add(k, r.Minutes)
		}
		if above(r.Minutes, o.HighExposureMinutes) {
			roleHighPoints.add(k, r.PointsPerGame)
		}
		if above(r.Minutes, o.NewcomerExposureMinutes) {
			roleNewcomerPoints.add(k, r.PointsPerGame)
		}
		if r.NewToGroup {
			signingMinutes.add(k.group, r.Minutes)
		}
		if r.EntityID.Valid && o.influential(r) {
			influential[k] = append(influential[k], r.EntityID.Int64)
		}
	}

	// where each entity sits in the current season, first occurrence wins
	current := make(map[int64]model.Record, len(curRows))
	for _, i := range firstPerEntity(t, curRows) {
		if t[i].EntityID.Valid {
			current[t[i].EntityID.Int64] = t[i]
		}
	}
	left := func(k key) bool {
		for _, id := range influential[k] {
			now, stayed := current[id]
			if !stayed || !model.SameGroup(now.GroupID, model.ID(k.group)) {
				return true
			}
		}
		return false
	}

	for _, i := range curRows {
		r := &t[i]
		if !r.GroupID.Valid {
			continue
		}
		k := key{group: r.GroupID.Int64, role: r.Role}
		if r.NewToGroup {
			r.MaxMinutesInRolePrev = roleMinutes.max(k)
			r.AvgPointsRoleHighExposurePrev = roleHighPoints.mean(k)
		} else {
			r.MaxMinutesBySigningPrev = signingMinutes.max(k.group)
		}
		if r.NewToLeague {
			r.MaxPointsRolePrev = roleNewcomerPoints.max(k)
			r.InfluentialPlayerLeft = model.Bool(left(k))
		}
	}
	return nil
}
