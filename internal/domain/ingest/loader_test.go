package ingest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/draftboard/internal/domain/ingest"
	"github.com/okian/draftboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var header = []string{"code", "web_name", "element_type", "team_code", "total_points", "points_per_game", "minutes"}

func issuesOf(res ingest.Result, kind error) []ingest.Issue {
	var out []ingest.Issue
	for _, is := range res.Issues {
		if errors.Is(is, kind) {
			out = append(out, is)
		}
	}
	return out
}

func TestSeasonFromBatch(t *testing.T) {
	Convey("Given batch identifiers", t, func() {
		got, err := ingest.SeasonFromBatch("data/2019-20_data.csv")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, "2019-20")

		got, err = ingest.SeasonFromBatch("fpl_21_22.csv")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, "2021-22")

		_, err = ingest.SeasonFromBatch("players.csv")
		So(err, ShouldNotBeNil)
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	Convey("Given no sources", t, func() {
		_, err := ingest.NewLoader().Load(ctx, nil)
		So(errors.Is(err, ingest.ErrNoSources), ShouldBeTrue)
	})

	Convey("Given two seasons in reverse order", t, func() {
		sources := []ingest.SourceTable{
			{Batch: "2021-22_data.csv", Columns: header, Rows: [][]string{
				{"1", "Salah", "3", "14", "265", "7.0", "3000"},
			}},
			{Batch: "2020-21_data.csv", Columns: header, Rows: [][]string{
				{"1", "Salah", "3", "14", "231", "6.1", "3077"},
				{"2", "Kane", "FWD", "6", "242", "6.5", "3083"},
			}},
		}
		res, err := ingest.NewLoader().Load(ctx, sources)
		So(err, ShouldBeNil)

		Convey("Then rows come out in season order with parsed values", func() {
			So(len(res.Table), ShouldEqual, 3)
			So(res.Table[0].Season, ShouldEqual, "2020-21")
			So(res.Table[2].Season, ShouldEqual, "2021-22")
			So(res.Table[1].Role, ShouldEqual, model.RoleForward)
			So(*res.Table[0].Minutes, ShouldEqual, 3077)
			So(res.Table[0].GroupID.Int64, ShouldEqual, 14)
			So(res.Seasons.Labels(), ShouldResemble, []string{"2020-21", "2021-22"})
			So(res.RowsBySeason["2020-21"], ShouldEqual, 2)
			So(res.Issues, ShouldBeEmpty)
		})
	})

	Convey("Given a batch with aliased and dirty headers and missing columns", t, func() {
		sources := []ingest.SourceTable{{
			Batch:   "2018-19_data.csv",
			Columns: []string{"\ufeff\"ID\"", "Player Name", "Position", "PPG", "Min"},
			Rows:    [][]string{{"7", "Son", "MID", "5.1", "n/a"}},
		}}
		res, err := ingest.NewLoader().Load(ctx, sources)
		So(err, ShouldBeNil)
		rec := res.Table[0]

		Convey("Then aliases resolve and missing values are null", func() {
			So(rec.EntityID.Int64, ShouldEqual, 7)
			So(rec.Name, ShouldEqual, "Son")
			So(rec.Role, ShouldEqual, model.RoleMidfielder)
			So(*rec.PointsPerGame, ShouldEqual, 5.1)
			So(rec.Minutes, ShouldBeNil)
			So(rec.TotalPoints, ShouldBeNil)
			So(rec.GroupID.Valid, ShouldBeFalse)
		})
	})

	Convey("Given a custom alias", t, func() {
		sources := []ingest.SourceTable{{
			Batch:   "2018-19",
			Columns: []string{"player_id", "Club"},
			Rows:    [][]string{{"9", "3"}},
		}}
		res, err := ingest.NewLoader(ingest.WithAliases(map[string]string{
			"player_id": "code",
			"Club":      "team_code",
		})).Load(ctx, sources)
		So(err, ShouldBeNil)
		So(res.Table[0].EntityID.Int64, ShouldEqual, 9)
		So(res.Table[0].GroupID.Int64, ShouldEqual, 3)
	})

	Convey("Given a batch without the identity column", t, func() {
		sources := []ingest.SourceTable{{
			Batch:   "2018-19_data.csv",
			Columns: []string{"web_name", "minutes"},
			Rows:    [][]string{{"Son", "90"}},
		}}
		res, err := ingest.NewLoader().Load(ctx, sources)
		So(err, ShouldBeNil)
		So(len(issuesOf(res, ingest.ErrSchemaMismatch)), ShouldEqual, 1)
		So(res.Table[0].EntityID.Valid, ShouldBeFalse)
	})

	Convey("Given duplicate entities within a season", t, func() {
		sources := []ingest.SourceTable{{
			Batch:   "2018-19_data.csv",
			Columns: header,
			Rows: [][]string{
				{"1", "A", "2", "1", "10", "1.0", "900"},
				{"1", "A", "2", "1", "20", "2.0", "1800"},
			},
		}}
		res, err := ingest.NewLoader().Load(ctx, sources)
		So(err, ShouldBeNil)

		Convey("Then both rows are kept and the repeat is reported", func() {
			So(len(res.Table), ShouldEqual, 2)
			dups := issuesOf(res, ingest.ErrDuplicateEntity)
			So(len(dups), ShouldEqual, 1)
			So(dups[0].Row, ShouldEqual, 1)
		})
	})

	Convey("Given two batches for the same season", t, func() {
		sources := []ingest.SourceTable{
			{Batch: "2019-20_data.csv", Columns: header},
			{Batch: "2019_20.csv", Columns: header},
		}
		_, err := ingest.NewLoader().Load(ctx, sources)
		So(errors.Is(err, ingest.ErrDuplicateSeason), ShouldBeTrue)
	})

	Convey("Given a batch whose rows have no header", t, func() {
		sources := []ingest.SourceTable{
			{Batch: "2019-20_data.csv", Rows: [][]string{{"garbage"}}},
			{Batch: "2020-21_data.csv", Columns: header, Rows: [][]string{{"1", "A", "2", "1", "10", "1.0", "900"}}},
		}
		res, err := ingest.NewLoader().Load(ctx, sources)
		So(err, ShouldBeNil)

		Convey("Then the batch is skipped and the rest loads", func() {
			So(len(issuesOf(res, ingest.ErrParseSource)), ShouldEqual, 1)
			So(len(res.Table), ShouldEqual, 1)
			So(res.Seasons.Labels(), ShouldResemble, []string{"2020-21"})
		})
	})

	Convey("Given a batch that failed to parse", t, func() {
		sources := []ingest.SourceTable{
			{Batch: "2020-21_data.csv", Columns: header, Rows: [][]string{{"1", "A", "2", "1", "10", "1.0", "900"}}},
			{Batch: "2021-22_data.xlsx", Err: errors.New("zip: not a valid zip file")},
		}
		res, err := ingest.NewLoader().Load(ctx, sources)
		So(err, ShouldBeNil)

		Convey("Then it is reported as unparseable and its season is dropped", func() {
			So(len(issuesOf(res, ingest.ErrParseSource)), ShouldEqual, 1)
			So(issuesOf(res, ingest.ErrSchemaMismatch), ShouldBeEmpty)
			So(res.Seasons.Labels(), ShouldResemble, []string{"2020-21"})
			_, loaded := res.RowsBySeason["2021-22"]
			So(loaded, ShouldBeFalse)
		})
	})

	Convey("Given a header with both the team ordinal and the team code", t, func() {
		sources := []ingest.SourceTable{{
			Batch:   "2021-22_data.csv",
			Columns: []string{"code", "element_type", "id", "minutes", "points_per_game", "team", "team_code", "web_name"},
			Rows:    [][]string{{"80201", "1", "43", "3420", "4.2", "1", "3", "Ramsdale"}},
		}}
		res, err := ingest.NewLoader().Load(ctx, sources)
		So(err, ShouldBeNil)

		Convey("Then exact canonical headers win over aliases listed earlier", func() {
			So(res.Table[0].GroupID.Int64, ShouldEqual, 3)
			So(res.Table[0].EntityID.Int64, ShouldEqual, 80201)
			So(res.Table[0].Name, ShouldEqual, "Ramsdale")
		})
	})

	Convey("Given an aliased header without its canonical counterpart", t, func() {
		sources := []ingest.SourceTable{{
			Batch:   "2021-22_data.csv",
			Columns: []string{"team", "code"},
			Rows:    [][]string{{"1", "5"}},
		}}
		res, err := ingest.NewLoader().Load(ctx, sources)
		So(err, ShouldBeNil)
		So(res.Table[0].GroupID.Int64, ShouldEqual, 1)
	})

	Convey("Given an empty batch", t, func() {
		res, err := ingest.NewLoader().Load(ctx, []ingest.SourceTable{{Batch: "2019-20_data.csv", Columns: header}})
		So(err, ShouldBeNil)
		So(res.Table, ShouldBeEmpty)
	})

	Convey("Given an unparseable batch label", t, func() {
		_, err := ingest.NewLoader().Load(ctx, []ingest.SourceTable{{Batch: "latest.csv", Columns: header}})
		So(err, ShouldNotBeNil)
	})
}
