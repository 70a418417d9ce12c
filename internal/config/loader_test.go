package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/draftboard/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var envKeys = []string{
	"DRAFTBOARD_CONFIG",
	"DRAFTBOARD_ADDR",
	"DRAFTBOARD_SOURCE_DIR",
	"DRAFTBOARD_HIGH_EXPOSURE_MINUTES",
	"DRAFTBOARD_MAX_LEADERBOARD_LIMIT",
	"DRAFTBOARD_LOG_FORMAT",
}

func clearConfigEnvVars() {
	for _, k := range envKeys {
		_ = os.Unsetenv(k)
	}
}

func writeConfig(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.SourcePattern, convey.ShouldEqual, "*_data.csv")
				convey.So(cfg.HighExposureMinutes, convey.ShouldEqual, 1400)
				convey.So(cfg.NewcomerExposureMinutes, convey.ShouldEqual, 1500)
				convey.So(len(cfg.Tiers), convey.ShouldEqual, 5)
				convey.So(cfg.Tiers[0].Tier, convey.ShouldEqual, "tier1")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("DRAFTBOARD_ADDR", ":8080")
			_ = os.Setenv("DRAFTBOARD_SOURCE_DIR", "/srv/fpl")
			_ = os.Setenv("DRAFTBOARD_HIGH_EXPOSURE_MINUTES", "1200")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SourceDir, convey.ShouldEqual, "/srv/fpl")
				convey.So(cfg.HighExposureMinutes, convey.ShouldEqual, 1200)
				convey.So(cfg.CohortThresholds().HighExposureMinutes, convey.ShouldEqual, 1200)
			})
		})

		convey.Convey("When loading config with a YAML file and env on top", func() {
			path := writeConfig(t, `
addr: ":9090"
source_dir: seasons
target_season: 2024-25
column_aliases:
  Player ID: code
tiers:
  - name: keepers
    tier: gk
    roles: [GK]
    conditions:
      - column: ppg
        op: ">"
        value: 4
      - column: name
        op: not in
        value: [Pope, Raya]
`)
			_ = os.Setenv("DRAFTBOARD_CONFIG", path)
			_ = os.Setenv("DRAFTBOARD_ADDR", ":8080")

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values load and env wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SourceDir, convey.ShouldEqual, "seasons")
				convey.So(cfg.TargetSeason, convey.ShouldEqual, "2024-25")
				convey.So(cfg.ColumnAliases["Player ID"], convey.ShouldEqual, "code")
			})

			convey.Convey("Then the file's tier list replaces the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(cfg.Tiers), convey.ShouldEqual, 1)
				convey.So(cfg.Tiers[0].Roles, convey.ShouldResemble, []string{"GK"})
				convey.So(len(cfg.Tiers[0].Conditions), convey.ShouldEqual, 2)
				convey.So(cfg.Tiers[0].Conditions[1].Op, convey.ShouldEqual, "not in")
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			_ = os.Setenv("DRAFTBOARD_CONFIG", writeConfig(t, `invalid: yaml: content: [`))

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the file does not exist", func() {
			_ = os.Setenv("DRAFTBOARD_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})

		convey.Convey("When values fail validation", func() {
			for key, val := range map[string]string{
				"DRAFTBOARD_ADDR":                  "",
				"DRAFTBOARD_MAX_LEADERBOARD_LIMIT": "0",
				"DRAFTBOARD_LOG_FORMAT":            "xml",
				"DRAFTBOARD_HIGH_EXPOSURE_MINUTES": "-1",
			} {
				clearConfigEnvVars()
				_ = os.Setenv(key, val)
				cfg, err := config.Load(ctx)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			}
		})

		convey.Convey("When a tier rule is malformed", func() {
			path := writeConfig(t, `
tiers:
  - name: broken
    tier: t
    conditions:
      - column: ppg
        op: "~"
        value: 1
`)
			cfg, err := config.LoadFile(ctx, path)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(cfg, convey.ShouldBeNil)
		})
	})
}

func TestNew(t *testing.T) {
	convey.Convey("Given default config", t, func() {
		cfg := config.New(context.Background())
		convey.So(cfg.Validate(), convey.ShouldBeNil)
		convey.So(cfg.CohortThresholds().InfluentialMinutes, convey.ShouldEqual, 2300)
	})
}
