package model

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
)

// ErrUnknownColumn is returned when a column name is not part of the enriched schema.
var ErrUnknownColumn = errors.New("unknown column")

// Column describes one field of the enriched table by its export name.
type Column struct {
	Name string
	// Get returns the cell value or nil when null.
	Get func(r *Record) any
}

func floatCell(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func idCell(v sql.NullInt64) any {
	if !v.Valid {
		return nil
	}
	return v.Int64
}

// Columns is the enriched schema in export order.
var Columns = []Column{
	{"id", func(r *Record) any { return idCell(r.EntityID) }},
	{"name", func(r *Record) any { return r.Name }},
	{"position", func(r *Record) any { return r.Role.String() }},
	{"team_code", func(r *Record) any { return idCell(r.GroupID) }},
	{"season", func(r *Record) any { return r.Season }},
	{"total_points", func(r *Record) any { return floatCell(r.TotalPoints) }},
	{"ppg", func(r *Record) any { return floatCell(r.PointsPerGame) }},
	{"minutes", func(r *Record) any { return floatCell(r.Minutes) }},
	{"birth_date", func(r *Record) any { return r.BirthDate }},
	{"team_join_date", func(r *Record) any { return r.GroupJoinDate }},
	{"new_in_league", func(r *Record) any { return r.NewToLeague }},
	{"new_in_team", func(r *Record) any { return r.NewToGroup }},
	{"points_last_season", func(r *Record) any { return floatCell(r.PointsLast) }},
	{"avg_points_last_2_seasons", func(r *Record) any { return floatCell(r.PointsAvg2) }},
	{"avg_points_last_3_seasons", func(r *Record) any { return floatCell(r.PointsAvg3) }},
	{"minutes_last_season", func(r *Record) any { return floatCell(r.MinutesLast) }},
	{"avg_minutes_last_2_seasons", func(r *Record) any { return floatCell(r.MinutesAvg2) }},
	{"avg_minutes_last_3_seasons", func(r *Record) any { return floatCell(r.MinutesAvg3) }},
	{"points_last_season_same_team", func(r *Record) any { return floatCell(r.PointsLastSameGroup) }},
	{"avg_points_last_2_seasons_same_team", func(r *Record) any { return floatCell(r.PointsAvg2SameGroup) }},
	{"avg_points_last_3_seasons_same_team", func(r *Record) any { return floatCell(r.PointsAvg3SameGroup) }},
	{"minutes_last_season_same_team", func(r *Record) any { return floatCell(r.MinutesLastSameGroup) }},
	{"avg_minutes_last_2_seasons_same_team", func(r *Record) any { return floatCell(r.MinutesAvg2SameGroup) }},
	{"avg_minutes_last_3_seasons_same_team", func(r *Record) any { return floatCell(r.MinutesAvg3SameGroup) }},
	{"time_in_league", func(r *Record) any { return r.TimeInLeague }},
	{"max_minutes_in_position_past_season", func(r *Record) any { return floatCell(r.MaxMinutesInRolePrev) }},
	{"max_minutes_by_signing_past_season", func(r *Record) any { return floatCell(r.MaxMinutesBySigningPrev) }},
	{"avg_ppg_position_team_high_minutes", func(r *Record) any { return floatCell(r.AvgPointsRoleHighExposurePrev) }},
	{"max_ppg_in_team_position_last_season", func(r *Record) any { return floatCell(r.MaxPointsRolePrev) }},
	{"influential_player_left", func(r *Record) any {
		if r.InfluentialPlayerLeft == nil {
			return nil
		}
		return *r.InfluentialPlayerLeft
	}},
}

var columnIndex = func() map[string]int {
	idx := make(map[string]int, len(Columns))
	for i, c := range Columns {
		idx[c.Name] = i
	}
	return idx
}()

// Lookup returns the column with the given export name.
func Lookup(name string) (Column, error) {
	i, ok := columnIndex[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return Columns[i], nil
}

// Numeric returns the named cell as a float. Booleans map to 1/0.
// The second result is false when the cell is null or not numeric.
func (r *Record) Numeric(name string) (float64, bool, error) {
	col, err := Lookup(name)
	if err != nil {
		return 0, false, err
	}
	v, ok := AsFloat(col.Get(r))
	return v, ok, nil
}

// AsFloat converts a cell value to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}

// FormatCell renders a cell for flat exports. Nulls render empty.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
