// Package ranking orders records of one season by a numeric column.
package ranking

import (
	"sort"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/types"
	"gonum.org/v1/gonum/stat"
)

// Query selects what to rank.
type Query struct {
	Season string
	Metric string
	// Role restricts to one role when known.
	Role model.Role
	// Limit caps the result; <= 0 returns everything.
	Limit int
}

type scored struct {
	rec   *model.Record
	score float64
}

func less(a, b scored) bool {
	if a.score != b.score {
		return a.score > b.score // higher score ranks earlier
	}
	return a.rec.EntityID.Int64 < b.rec.EntityID.Int64 // tie-breaker by id asc
}

// collect returns one scored row per entity of season, first occurrence wins.
// Rows without an id or a metric value are left out.
func collect(t model.Table, season, metric string, role model.Role) ([]scored, error) {
	if _, err := model.Lookup(metric); err != nil {
		return nil, err
	}
	seen := make(map[int64]struct{})
	var out []scored
	for i := range t {
		r := &t[i]
		if r.Season != season || !r.EntityID.Valid {
			continue
		}
		if role.Known() && r.Role != role {
			continue
		}
		if _, dup := seen[r.EntityID.Int64]; dup {
			continue
		}
		seen[r.EntityID.Int64] = struct{}{}
		v, ok, _ := r.Numeric(metric)
		if !ok {
			continue
		}
		out = append(out, scored{rec: r, score: v})
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

// TopN returns the ranked entries for q.
func TopN(t model.Table, q Query) ([]types.Entry, error) {
	rows, err := collect(t, q.Season, q.Metric, q.Role)
	if err != nil {
		return nil, err
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	out := make([]types.Entry, len(rows))
	for i, s := range rows {
		out[i] = types.Entry{
			Rank:     i + 1,
			EntityID: s.rec.EntityID.Int64,
			Name:     s.rec.Name,
			Role:     s.rec.Role.String(),
			Season:   s.rec.Season,
			Score:    s.score,
		}
	}
	return out, nil
}

// NthValue returns the metric value held by the nth ranked entity (1-based),
// averaged over the given seasons. Seasons with fewer than n ranked entities
// are ignored; ok is false when none qualify.
func NthValue(t model.Table, seasons []string, metric string, role model.Role, n int) (v float64, ok bool, err error) {
	if n < 1 {
		return 0, false, ErrInvalidRank
	}
	var vals []float64
	for _, s := range seasons {
		rows, err := collect(t, s, metric, role)
		if err != nil {
			return 0, false, err
		}
		if len(rows) >= n {
			vals = append(vals, rows[n-1].score)
		}
	}
	if len(vals) == 0 {
		return 0, false, nil
	}
	return stat.Mean(vals, nil), true, nil
}
