// Package continuity flags entities that are new to the league or to their
// group relative to the previous observed season.
package continuity

import (
	"database/sql"
	"sort"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/season"
)

// seasonIndex groups row positions by season and resolves predecessors.
type seasonIndex struct {
	seq  *season.Sequence
	rows map[string][]int
}

func index(t model.Table) (seasonIndex, error) {
	labels := make([]string, 0, len(t))
	rows := make(map[string][]int)
	for i := range t {
		if _, ok := rows[t[i].Season]; !ok {
			labels = append(labels, t[i].Season)
		}
		rows[t[i].Season] = append(rows[t[i].Season], i)
	}
	seq, err := season.NewSequence(labels)
	if err != nil {
		return seasonIndex{}, err
	}
	return seasonIndex{seq: seq, rows: rows}, nil
}

// groups maps id -> group for the first occurrence of each id in the season.
func (x seasonIndex) groups(t model.Table, label string) map[int64]sql.NullInt64 {
	out := make(map[int64]sql.NullInt64, len(x.rows[label]))
	for _, i := range x.rows[label] {
		r := &t[i]
		if !r.EntityID.Valid {
			continue
		}
		if _, ok := out[r.EntityID.Int64]; !ok {
			out[r.EntityID.Int64] = r.GroupID
		}
	}
	return out
}

// sortBySeason returns a copy of t stably ordered by season.
func sortBySeason(t model.Table, seq *season.Sequence) model.Table {
	out := t.Clone()
	sort.SliceStable(out, func(i, j int) bool { return seq.Less(out[i].Season, out[j].Season) })
	return out
}

// MarkNewToLeague sets NewToLeague on a season-sorted copy of t.
// An entity is new iff its id is absent from the previous observed season.
// Every row of the earliest season is false.
func MarkNewToLeague(t model.Table) (model.Table, error) {
	if len(t) == 0 {
		return model.Table{}, nil
	}
	x, err := index(t)
	if err != nil {
		return nil, err
	}
	out := sortBySeason(t, x.seq)
	x, _ = index(out)

	for _, label := range x.seq.Labels() {
		prev, ok := x.seq.Previous(label)
		var present map[int64]sql.NullInt64
		if ok {
			present = x.groups(out, prev)
		}
		for _, i := range x.rows[label] {
			r := &out[i]
			if !ok {
				r.NewToLeague = false
				continue
			}
			if !r.EntityID.Valid {
				r.NewToLeague = true
				continue
			}
			_, seen := present[r.EntityID.Int64]
			r.NewToLeague = !seen
		}
	}
	return out, nil
}

// MarkNewToGroup sets NewToGroup on a season-sorted copy of t.
// An entity is new iff no group was recorded for it in the previous observed
// season or the group differs. Every row of the earliest season is false.
func MarkNewToGroup(t model.Table) (model.Table, error) {
	if len(t) == 0 {
		return model.Table{}, nil
	}
	x, err := index(t)
	if err != nil {
		return nil, err
	}
	out := sortBySeason(t, x.seq)
	x, _ = index(out)

	for _, label := range x.seq.Labels() {
		prev, ok := x.seq.Previous(label)
		var before map[int64]sql.NullInt64
		if ok {
			before = x.groups(out, prev)
		}
		for _, i := range x.rows[label] {
			r := &out[i]
			if !ok {
				r.NewToGroup = false
				continue
			}
			if !r.EntityID.Valid {
				r.NewToGroup = true
				continue
			}
			g, seen := before[r.EntityID.Int64]
			r.NewToGroup = !seen || !model.SameGroup(g, r.GroupID)
		}
	}
	return out, nil
}

// Classify applies both markers.
func Classify(t model.Table) (model.Table, error) {
	out, err := MarkNewToLeague(t)
	if err != nil {
		return nil, err
	}
	return MarkNewToGroup(out)
}
