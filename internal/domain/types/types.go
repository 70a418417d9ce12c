// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry
type Entry struct {
	Rank     int     `json:"rank"`
	EntityID int64   `json:"id"`
	Name     string  `json:"name"`
	Role     string  `json:"position"`
	Season   string  `json:"season"`
	Score    float64 `json:"score"`
}

// Stats summarizes the latest pipeline run for the API.
type Stats struct {
	RunID    string         `json:"run_id"`
	Records  int            `json:"records"`
	Seasons  []string       `json:"seasons"`
	Target   string         `json:"target_season"`
	Issues   int            `json:"issues"`
	BySeason map[string]int `json:"records_by_season"`
}
