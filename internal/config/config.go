// Package config defines process configuration and its loading.
//
// Conventions:
// - New(ctx) returns a Config with defaults; Load(ctx) layers file and env on top.
// - Validation errors wrap ErrInvalidConfig, provider errors wrap ErrLoadConfig.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/draftboard/internal/domain/cohort"
	"github.com/okian/draftboard/internal/domain/tiering"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SourceDir holds one CSV per season.
	SourceDir string `koanf:"source_dir"`

	// SourcePattern selects season files inside SourceDir.
	SourcePattern string `koanf:"source_pattern"`

	// TargetSeason is the season tiers and rankings default to. Empty means latest.
	TargetSeason string `koanf:"target_season"`

	// OutputDir receives enriched.csv and tiers.xlsx.
	OutputDir string `koanf:"output_dir"`

	// SnapshotDSN is the SQLite database for enriched snapshots.
	SnapshotDSN string `koanf:"snapshot_dsn"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	RoleExposureMinutes     float64 `koanf:"role_exposure_minutes"`
	HighExposureMinutes     float64 `koanf:"high_exposure_minutes"`
	NewcomerExposureMinutes float64 `koanf:"newcomer_exposure_minutes"`
	InfluentialPoints       float64 `koanf:"influential_points"`
	InfluentialMinutes      float64 `koanf:"influential_minutes"`

	// Tiers is the ordered rule list used by the tiers command and endpoint.
	Tiers []tiering.Rule `koanf:"tiers"`

	// ColumnAliases maps extra source headers to canonical column names.
	ColumnAliases map[string]string `koanf:"column_aliases"`
}

// New creates a Config with defaults. Context is accepted first to satisfy the
// project-wide convention.
func New(_ context.Context) *Config {
	th := cohort.Defaults()
	return &Config{
		LogLevel:                "info",
		LogFormat:               "text",
		Addr:                    ":9080",
		SourceDir:               "data",
		SourcePattern:           "*_data.csv",
		OutputDir:               "out",
		SnapshotDSN:             "draftboard.db",
		MaxLeaderboardLimit:     100,
		RoleExposureMinutes:     th.RoleExposureMinutes,
		HighExposureMinutes:     th.HighExposureMinutes,
		NewcomerExposureMinutes: th.NewcomerExposureMinutes,
		InfluentialPoints:       th.InfluentialPoints,
		InfluentialMinutes:      th.InfluentialMinutes,
		Tiers:                   DefaultTiers(),
		ColumnAliases:           map[string]string{},
	}
}

// DefaultTiers returns the first two draft tiers.
func DefaultTiers() []tiering.Rule {
	steady := func(last, last2 float64, minutesCol string, minutes float64) []tiering.Condition {
		return []tiering.Condition{
			{Column: "new_in_team", Op: tiering.OpEQ, Value: false},
			{Column: "points_last_season", Op: tiering.OpGE, Value: last},
			{Column: "avg_points_last_2_seasons", Op: tiering.OpGE, Value: last2},
			{Column: minutesCol, Op: tiering.OpGE, Value: minutes},
		}
	}
	return []tiering.Rule{
		{Name: "top", Tier: "tier1", Conditions: steady(4.4, 5.35, "avg_minutes_last_2_seasons", 1736)},
		{Name: "forwards premium", Tier: "tier2", Roles: []string{"FWD"}, Conditions: steady(4.1, 4.2, "avg_minutes_last_2_seasons", 1736)},
		{Name: "forwards", Tier: "tier2", Roles: []string{"FWD"}, Conditions: steady(3.575, 3.125, "avg_minutes_last_2_seasons", 1736)},
		{Name: "midfielders", Tier: "tier2", Roles: []string{"MID"}, Conditions: steady(4.2, 3.9, "minutes_last_season", 2454)},
		{Name: "defenders", Tier: "tier2", Roles: []string{"DEF"}, Conditions: steady(3.9, 3.85, "minutes_last_season", 1200)},
	}
}

// CohortThresholds returns the cohort options configured here.
func (c *Config) CohortThresholds() cohort.Options {
	th := cohort.Defaults()
	th.RoleExposureMinutes = c.RoleExposureMinutes
	th.HighExposureMinutes = c.HighExposureMinutes
	th.NewcomerExposureMinutes = c.NewcomerExposureMinutes
	th.InfluentialPoints = c.InfluentialPoints
	th.InfluentialMinutes = c.InfluentialMinutes
	return th
}

// Validate checks the configuration for values the pipeline cannot use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.SourcePattern == "" {
		return fmt.Errorf("%w: source_pattern must not be empty", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit <= 0 {
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	for name, v := range map[string]float64{
		"role_exposure_minutes":     c.RoleExposureMinutes,
		"high_exposure_minutes":     c.HighExposureMinutes,
		"newcomer_exposure_minutes": c.NewcomerExposureMinutes,
		"influential_points":        c.InfluentialPoints,
		"influential_minutes":       c.InfluentialMinutes,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
		}
	}
	for _, r := range c.Tiers {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}
