package export_test

import (
	"bytes"
	"encoding/csv"
	"errors"
	"testing"

	"github.com/okian/draftboard/internal/adapters/export"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/tiering"
	"github.com/smartystreets/goconvey/convey"
	"github.com/xuri/excelize/v2"
)

func sample() model.Table {
	return model.Table{
		{EntityID: model.ID(1), Name: "Saka", Role: model.RoleMidfielder, GroupID: model.ID(3), Season: "2023-24",
			PointsPerGame: model.Float(5.5), History: model.History{PointsLast: model.Float(5.1), TimeInLeague: 4}},
		{EntityID: model.ID(2), Name: "Raya", Role: model.RoleGoalkeeper, Season: "2023-24",
			Continuity: model.Continuity{NewToGroup: true}},
	}
}

func TestWriteCSV(t *testing.T) {
	convey.Convey("Given an enriched table", t, func() {
		var buf bytes.Buffer
		convey.So(export.WriteCSV(&buf, sample()), convey.ShouldBeNil)

		records, err := csv.NewReader(&buf).ReadAll()
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then the header follows the schema", func() {
			convey.So(len(records), convey.ShouldEqual, 3)
			convey.So(len(records[0]), convey.ShouldEqual, len(model.Columns))
			convey.So(records[0][0], convey.ShouldEqual, "id")
			convey.So(records[0][len(records[0])-1], convey.ShouldEqual, "influential_player_left")
		})

		convey.Convey("Then values render and nulls stay empty", func() {
			idx := map[string]int{}
			for i, h := range records[0] {
				idx[h] = i
			}
			convey.So(records[1][idx["ppg"]], convey.ShouldEqual, "5.5")
			convey.So(records[1][idx["points_last_season"]], convey.ShouldEqual, "5.1")
			convey.So(records[1][idx["time_in_league"]], convey.ShouldEqual, "4")
			convey.So(records[2][idx["team_code"]], convey.ShouldEqual, "")
			convey.So(records[2][idx["new_in_team"]], convey.ShouldEqual, "true")
			convey.So(records[2][idx["position"]], convey.ShouldEqual, "GK")
		})
	})
}

func TestWriteWorkbook(t *testing.T) {
	convey.Convey("Given a tier partition", t, func() {
		rows := sample()
		p := tiering.Partition{
			Tiers:      []tiering.Tier{{Name: "tier1", Records: rows[:1], Rules: []string{"top"}}},
			Unassigned: rows[1:],
		}
		var buf bytes.Buffer
		convey.So(export.WriteWorkbook(&buf, p), convey.ShouldBeNil)

		f, err := excelize.OpenReader(&buf)
		convey.So(err, convey.ShouldBeNil)
		defer f.Close()

		convey.Convey("Then there is one sheet per tier plus unassigned", func() {
			convey.So(f.GetSheetList(), convey.ShouldResemble, []string{"tier1", export.UnassignedSheet})
		})

		convey.Convey("Then tier rows are written under a header", func() {
			got, err := f.GetRows("tier1")
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(got), convey.ShouldEqual, 2)
			convey.So(got[0][1], convey.ShouldEqual, "name")
			convey.So(got[1][1], convey.ShouldEqual, "Saka")
			convey.So(got[1][2], convey.ShouldEqual, "MID")
		})

		convey.Convey("Then unassigned records land on their own sheet", func() {
			got, err := f.GetRows(export.UnassignedSheet)
			convey.So(err, convey.ShouldBeNil)
			convey.So(len(got), convey.ShouldEqual, 2)
			convey.So(got[1][1], convey.ShouldEqual, "Raya")
		})
	})

	convey.Convey("Given a tier named like the unassigned sheet", t, func() {
		p := tiering.Partition{Tiers: []tiering.Tier{{Name: "unassigned", Records: sample()}}}
		var buf bytes.Buffer
		err := export.WriteWorkbook(&buf, p)
		convey.So(errors.Is(err, export.ErrExport), convey.ShouldBeTrue)
		convey.So(buf.Len(), convey.ShouldEqual, 0)
	})
}
