package tiering

import (
	"fmt"
	"math"
	"strings"

	"github.com/okian/draftboard/internal/domain/model"
)

// Unassigned names the pool of records no rule took. Tiers may not use it.
const Unassigned = "Unassigned"

// Supported operators.
const (
	OpGT    = ">"
	OpLT    = "<"
	OpGE    = ">="
	OpLE    = "<="
	OpEQ    = "=="
	OpNE    = "!="
	OpIn    = "in"
	OpNotIn = "not in"
)

// Condition compares one enriched column against a value.
type Condition struct {
	Column string `koanf:"column" json:"column"`
	Op     string `koanf:"op" json:"op"`
	Value  any    `koanf:"value" json:"value"`
}

// Rule selects records for a tier. Rules run in order; several rules may
// feed the same tier.
type Rule struct {
	Name       string      `koanf:"name" json:"name"`
	Tier       string      `koanf:"tier" json:"tier"`
	Roles      []string    `koanf:"roles" json:"roles,omitempty"`
	Conditions []Condition `koanf:"conditions" json:"conditions"`
	// Exclude names matches that stay in the pool for later rules.
	Exclude []string `koanf:"exclude" json:"exclude,omitempty"`
	// Include names pool members added regardless of conditions.
	Include []string `koanf:"include" json:"include,omitempty"`
}

// Validate checks columns, operators and value shapes.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Tier) == "" {
		return fmt.Errorf("%w: rule %q has no tier", ErrInvalidRule, r.Name)
	}
	if strings.EqualFold(strings.TrimSpace(r.Tier), Unassigned) {
		return fmt.Errorf("%w: rule %q: tier name %q is reserved", ErrInvalidRule, r.Name, r.Tier)
	}
	for _, role := range r.Roles {
		if !model.ParseRole(role).Known() {
			return fmt.Errorf("%w: rule %q has unknown role %q", ErrInvalidRule, r.Name, role)
		}
	}
	for _, c := range r.Conditions {
		if _, err := model.Lookup(c.Column); err != nil {
			return fmt.Errorf("%w: rule %q: %v", ErrInvalidRule, r.Name, err)
		}
		switch c.Op {
		case OpGT, OpLT, OpGE, OpLE:
			if _, ok := number(c.Value); !ok {
				return fmt.Errorf("%w: rule %q: %s needs a number, got %v", ErrInvalidRule, r.Name, c.Op, c.Value)
			}
		case OpEQ, OpNE:
		case OpIn, OpNotIn:
			if _, ok := c.Value.([]any); !ok {
				return fmt.Errorf("%w: rule %q: %s needs a list, got %v", ErrInvalidRule, r.Name, c.Op, c.Value)
			}
		default:
			return fmt.Errorf("%w: rule %q: %q", ErrUnknownOp, r.Name, c.Op)
		}
	}
	return nil
}

func (r Rule) roles() map[model.Role]struct{} {
	if len(r.Roles) == 0 {
		return nil
	}
	out := make(map[model.Role]struct{}, len(r.Roles))
	for _, s := range r.Roles {
		out[model.ParseRole(s)] = struct{}{}
	}
	return out
}

// Match reports whether rec satisfies every condition. A null cell only
// satisfies != and "not in".
func (c Condition) Match(rec *model.Record) bool {
	col, err := model.Lookup(c.Column)
	if err != nil {
		return false
	}
	cell := col.Get(rec)
	switch c.Op {
	case OpGT, OpLT, OpGE, OpLE:
		x, ok := model.AsFloat(cell)
		y, ok2 := number(c.Value)
		if !ok || !ok2 {
			return false
		}
		switch c.Op {
		case OpGT:
			return x > y
		case OpLT:
			return x < y
		case OpGE:
			return x >= y
		default:
			return x <= y
		}
	case OpEQ:
		return equal(cell, c.Value)
	case OpNE:
		return !equal(cell, c.Value)
	case OpIn, OpNotIn:
		list, _ := c.Value.([]any)
		found := false
		for _, v := range list {
			if equal(cell, v) {
				found = true
				break
			}
		}
		return found == (c.Op == OpIn)
	}
	return false
}

func number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		return 0, false
	default:
		return model.AsFloat(x)
	}
}

// equal compares a cell with a configured value. Numbers compare numerically,
// booleans against booleans or 0/1, strings case-insensitively.
func equal(cell, want any) bool {
	if cell == nil || want == nil {
		return false
	}
	if b, ok := want.(bool); ok {
		if cb, ok := cell.(bool); ok {
			return cb == b
		}
		x, ok := model.AsFloat(cell)
		return ok && (x != 0) == b
	}
	if s, ok := want.(string); ok {
		if cs, ok := cell.(string); ok {
			return strings.EqualFold(strings.TrimSpace(cs), strings.TrimSpace(s))
		}
		return false
	}
	x, ok := model.AsFloat(cell)
	y, ok2 := number(want)
	return ok && ok2 && math.Abs(x-y) < 1e-9
}
