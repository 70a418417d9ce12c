// Package tiering partitions a season's records into draft tiers with an
// ordered list of declarative rules.
package tiering

import (
	"strings"

	"github.com/okian/draftboard/internal/domain/model"
)

// Tier is a named group of records in assignment order.
type Tier struct {
	Name    string      `json:"name"`
	Records model.Table `json:"-"`
	Rules   []string    `json:"rules"`
}

// Partition is the result of Evaluate. Each entity lands in at most one tier.
type Partition struct {
	Tiers      []Tier
	Unassigned model.Table
}

// Size returns the number of assigned records.
func (p Partition) Size() int {
	n := 0
	for _, t := range p.Tiers {
		n += len(t.Records)
	}
	return n
}

// TierOf returns the tier name holding entity id, if any.
func (p Partition) TierOf(id int64) (string, bool) {
	for _, t := range p.Tiers {
		for _, r := range t.Records {
			if r.EntityID.Valid && r.EntityID.Int64 == id {
				return t.Name, true
			}
		}
	}
	return "", false
}

// Evaluate runs rules left to right over the records of one season. Matches
// leave the pool; excluded names stay for later rules. Records with a repeated
// entity id are reduced to their first occurrence.
func Evaluate(t model.Table, rules []Rule) (Partition, error) {
	for _, r := range rules {
		if err := r.Validate(); err != nil {
			return Partition{}, err
		}
	}

	pool := make(model.Table, 0, len(t))
	seen := make(map[int64]struct{}, len(t))
	for _, r := range t {
		if r.EntityID.Valid {
			if _, dup := seen[r.EntityID.Int64]; dup {
				continue
			}
			seen[r.EntityID.Int64] = struct{}{}
		}
		pool = append(pool, r)
	}

	var p Partition
	tierIdx := make(map[string]int)
	for _, rule := range rules {
		roles := rule.roles()
		exclude := nameSet(rule.Exclude)
		include := nameSet(rule.Include)

		var taken model.Table
		rest := pool[:0:0]
		for i := range pool {
			rec := &pool[i]
			if pick(rec, rule, roles, exclude, include) {
				taken = append(taken, *rec)
				continue
			}
			rest = append(rest, *rec)
		}
		pool = rest

		i, ok := tierIdx[rule.Tier]
		if !ok {
			i = len(p.Tiers)
			tierIdx[rule.Tier] = i
			p.Tiers = append(p.Tiers, Tier{Name: rule.Tier})
		}
		p.Tiers[i].Records = append(p.Tiers[i].Records, taken...)
		p.Tiers[i].Rules = append(p.Tiers[i].Rules, rule.Name)
	}
	p.Unassigned = pool
	return p, nil
}

func pick(rec *model.Record, rule Rule, roles map[model.Role]struct{}, exclude, include map[string]struct{}) bool {
	name := normName(rec.Name)
	if _, ok := include[name]; ok {
		return true
	}
	if _, ok := exclude[name]; ok {
		return false
	}
	if roles != nil {
		if _, ok := roles[rec.Role]; !ok {
			return false
		}
	}
	for _, c := range rule.Conditions {
		if !c.Match(rec) {
			return false
		}
	}
	return true
}

func normName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func nameSet(names []string) map[string]struct{} {
	out := make(map[string]struct{}, len(names))
	for _, n := range names {
		out[normName(n)] = struct{}{}
	}
	return out
}
