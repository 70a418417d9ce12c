package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/okian/draftboard/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
	"github.com/spf13/cobra"
)

const seasonHeader = "code,web_name,element_type,team_code,total_points,points_per_game,minutes\n"

func fixtureDir(t *testing.T) (cfgPath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	if err := os.MkdirAll(data, 0o755); err != nil {
		t.Fatal(err)
	}
	files := map[string]string{
		"2019-20_data.csv": seasonHeader + "1,Saka,3,7,60,2.0,900\n",
		"2020-21_data.csv": seasonHeader + "1,Saka,3,7,120,4.0,1800\n2,Watkins,4,7,100,4.5,2000\n",
		"2021-22_data.csv": seasonHeader + "1,Saka,3,7,180,6.0,2700\n2,Watkins,4,8,150,5.0,2500\n3,Coach,5,7,0,0,0\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(data, name), []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	outDir = filepath.Join(dir, "out")
	cfg := "log_level: error\n" +
		"source_dir: " + data + "\n" +
		"output_dir: " + outDir + "\n" +
		"snapshot_dsn: " + filepath.Join(dir, "snap.db") + "\n"
	cfgPath = filepath.Join(dir, "draftboard.yaml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return cfgPath, outDir
}

func run(args ...string) (string, error) {
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	root.SetContext(context.Background())
	err := root.Execute()
	return out.String(), err
}

func TestCommands(t *testing.T) {
	convey.Convey("Given three seasons on disk and a config file", t, func() {
		cfgPath, outDir := fixtureDir(t)

		convey.Convey("When running build", func() {
			out, err := run("build", "-c", cfgPath)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it reports the run and writes both outputs", func() {
				convey.So(out, convey.ShouldContainSubstring, "5 records over 3 seasons (target 2021-22)")
				convey.So(out, convey.ShouldContainSubstring, "1 records dropped")
				_, err := os.Stat(filepath.Join(outDir, enrichedFile))
				convey.So(err, convey.ShouldBeNil)
				_, err = os.Stat(filepath.Join(outDir, tiersFile))
				convey.So(err, convey.ShouldBeNil)
			})

			convey.Convey("And rank reads the stored snapshot", func() {
				out, err := run("rank", "-c", cfgPath, "--from-snapshot", "--json", "-n", "1")
				convey.So(err, convey.ShouldBeNil)
				var entries []types.Entry
				convey.So(json.Unmarshal([]byte(out), &entries), convey.ShouldBeNil)
				convey.So(len(entries), convey.ShouldEqual, 1)
				convey.So(entries[0].Name, convey.ShouldEqual, "Saka")
			})
		})

		convey.Convey("When ranking with a fresh build", func() {
			out, err := run("rank", "-c", cfgPath, "--position", "FWD")
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "Watkins")
			convey.So(out, convey.ShouldNotContainSubstring, "Saka")
		})

		convey.Convey("When asking for the nth value", func() {
			out, err := run("rank", "-c", cfgPath, "--nth", "2", "--seasons", "2020-21,2021-22")
			convey.So(err, convey.ShouldBeNil)
			convey.So(strings.TrimSpace(out), convey.ShouldEqual, "4.5000")
		})

		convey.Convey("When the position is unknown", func() {
			_, err := run("rank", "-c", cfgPath, "--position", "coach")
			convey.So(err, convey.ShouldNotBeNil)
		})

		convey.Convey("When printing tiers", func() {
			xlsx := filepath.Join(t.TempDir(), "tiers.xlsx")
			out, err := run("tiers", "-c", cfgPath, "--xlsx", xlsx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(out, convey.ShouldContainSubstring, "unassigned")
			_, err = os.Stat(xlsx)
			convey.So(err, convey.ShouldBeNil)
		})
	})
}

func TestServeMux(t *testing.T) {
	convey.Convey("Given a primed service", t, func() {
		cfgPath, _ := fixtureDir(t)
		c := &cli{configPath: cfgPath}
		cmd := &cobra.Command{}
		cmd.SetErr(&bytes.Buffer{})
		convey.So(c.setup(context.Background(), cmd), convey.ShouldBeNil)

		ctx := context.Background()
		store, err := c.openStore(ctx)
		convey.So(err, convey.ShouldBeNil)
		defer closeStore(ctx, c.log, store)
		svc := c.newService(store)
		convey.So(prime(ctx, svc, c.log), convey.ShouldBeNil)

		mux := newMux(ctx, svc, c.cfg.MaxLeaderboardLimit)

		convey.Convey("Then every surface answers", func() {
			for _, path := range []string{"/stats", "/leaderboard?limit=1", "/players/1", "/tiers", "/healthz", "/api-docs", "/openapi.yaml", "/board/"} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, http.NoBody))
				convey.So(w.Code, convey.ShouldEqual, http.StatusOK)
			}
		})

		convey.Convey("Then a second prime restores instead of rebuilding", func() {
			again := c.newService(store)
			convey.So(prime(ctx, again, c.log), convey.ShouldBeNil)
			first, _ := svc.Current()
			second, _ := again.Current()
			convey.So(second.ID, convey.ShouldEqual, first.ID)
		})
	})
}
