// Package model contains domain models passed between layers.
package model

import (
	"database/sql"
	"strconv"
	"strings"
)

// Role is the positional category of a player.
type Role uint8

// Known roles. RoleUnknown rows are dropped at the end of the pipeline.
const (
	RoleUnknown Role = iota
	RoleGoalkeeper
	RoleDefender
	RoleMidfielder
	RoleForward
)

// Roles lists the known roles in squad order.
var Roles = []Role{RoleGoalkeeper, RoleDefender, RoleMidfielder, RoleForward}

// String returns the short FPL code (GK, DEF, MID, FWD).
func (r Role) String() string {
	switch r {
	case RoleGoalkeeper:
		return "GK"
	case RoleDefender:
		return "DEF"
	case RoleMidfielder:
		return "MID"
	case RoleForward:
		return "FWD"
	default:
		return ""
	}
}

// Known reports whether r is one of the four squad roles.
func (r Role) Known() bool {
	return r >= RoleGoalkeeper && r <= RoleForward
}

// ParseRole normalizes an FPL element_type (1..4) or a textual position code.
// Anything unrecognized maps to RoleUnknown.
func ParseRole(s string) Role {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if n == float64(int(n)) && n >= 1 && n <= 4 {
			return Role(int(n))
		}
		return RoleUnknown
	}
	switch s {
	case "gk", "gkp", "goalkeeper", "keeper":
		return RoleGoalkeeper
	case "def", "defender":
		return RoleDefender
	case "mid", "midfielder":
		return RoleMidfielder
	case "fwd", "fw", "forward", "striker":
		return RoleForward
	default:
		return RoleUnknown
	}
}

// Continuity flags a record relative to the previous observed season.
type Continuity struct {
	NewToLeague bool
	NewToGroup  bool
}

// History holds strictly backward-looking per-entity aggregates.
type History struct {
	PointsLast  *float64
	PointsAvg2  *float64
	PointsAvg3  *float64
	MinutesLast *float64
	MinutesAvg2 *float64
	MinutesAvg3 *float64

	PointsLastSameGroup  *float64
	PointsAvg2SameGroup  *float64
	PointsAvg3SameGroup  *float64
	MinutesLastSameGroup *float64
	MinutesAvg2SameGroup *float64
	MinutesAvg3SameGroup *float64

	// TimeInLeague counts the entity's earlier observed seasons.
	TimeInLeague int
}

// Cohort holds previous-season peer aggregates attached on continuity flags.
type Cohort struct {
	MaxMinutesInRolePrev          *float64
	MaxMinutesBySigningPrev       *float64
	AvgPointsRoleHighExposurePrev *float64
	MaxPointsRolePrev             *float64
	InfluentialPlayerLeft         *bool
}

// Record is one entity-season row of the unified table.
type Record struct {
	EntityID sql.NullInt64
	Name     string
	Role     Role
	GroupID  sql.NullInt64
	Season   string

	TotalPoints   *float64
	PointsPerGame *float64
	Minutes       *float64

	BirthDate     string
	GroupJoinDate string

	Continuity
	History
	Cohort
}

// Table is an ordered set of records. Stages return new tables.
type Table []Record

// Clone returns a shallow copy; pointer fields are shared but never mutated in place.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// SameGroup reports whether both group ids are present and equal.
func SameGroup(a, b sql.NullInt64) bool {
	return a.Valid && b.Valid && a.Int64 == b.Int64
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// ID wraps v as a present id.
func ID(v int64) sql.NullInt64 { return sql.NullInt64{Int64: v, Valid: true} }
