package ingest

import (
	"strings"
)

// Canonical source column names.
const (
	ColID            = "code"
	ColName          = "web_name"
	ColRole          = "element_type"
	ColGroup         = "team_code"
	ColTotalPoints   = "total_points"
	ColPointsPerGame = "points_per_game"
	ColMinutes       = "minutes"
	ColBirthDate     = "birth_date"
	ColGroupJoinDate = "team_join_date"
)

// Canonical lists the source schema every batch is projected onto.
var Canonical = []string{
	ColID, ColName, ColRole, ColGroup, ColTotalPoints,
	ColPointsPerGame, ColMinutes, ColBirthDate, ColGroupJoinDate,
}

// DefaultAliases maps alternative headers to canonical names.
func DefaultAliases() map[string]string {
	return map[string]string{
		"id":          ColID,
		"player name": ColName,
		"player":      ColName,
		"name":        ColName,
		"position":    ColRole,
		"pos":         ColRole,
		"team":        ColGroup,
		"tot pts":     ColTotalPoints,
		"ppg":         ColPointsPerGame,
		"min":         ColMinutes,
	}
}

// CleanHeader strips BOM, surrounding quotes and whitespace, and lowercases.
func CleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.TrimSpace(h)
	h = strings.Trim(h, `"'`)
	return strings.ToLower(strings.TrimSpace(h))
}

// resolve maps raw headers to canonical column positions. Exact canonical
// headers are claimed first; aliases only fill names still unclaimed, so
// "team" never shadows a "team_code" column in the same batch. Unknown
// headers are ignored and the first header claiming a name wins.
func resolve(headers []string, aliases map[string]string) map[string]int {
	known := make(map[string]struct{}, len(Canonical))
	for _, c := range Canonical {
		known[c] = struct{}{}
	}
	cleaned := make([]string, len(headers))
	for i, raw := range headers {
		cleaned[i] = CleanHeader(raw)
	}

	out := make(map[string]int, len(Canonical))
	claim := func(name string, i int) {
		if _, ok := known[name]; !ok {
			return
		}
		if _, taken := out[name]; !taken {
			out[name] = i
		}
	}
	for i, h := range cleaned {
		claim(h, i)
	}
	for i, h := range cleaned {
		if _, canonical := known[h]; canonical {
			continue
		}
		if a, ok := aliases[h]; ok {
			claim(a, i)
		}
	}
	return out
}
