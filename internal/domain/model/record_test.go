package model_test

import (
	"errors"
	"testing"

	model "github.com/okian/draftboard/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestParseRole(t *testing.T) {
	convey.Convey("Given raw position values", t, func() {
		convey.Convey("When they are FPL element types", func() {
			convey.So(model.ParseRole("1"), convey.ShouldEqual, model.RoleGoalkeeper)
			convey.So(model.ParseRole("2"), convey.ShouldEqual, model.RoleDefender)
			convey.So(model.ParseRole("3.0"), convey.ShouldEqual, model.RoleMidfielder)
			convey.So(model.ParseRole(" 4 "), convey.ShouldEqual, model.RoleForward)
		})

		convey.Convey("When they are textual codes", func() {
			convey.So(model.ParseRole("GKP"), convey.ShouldEqual, model.RoleGoalkeeper)
			convey.So(model.ParseRole("def"), convey.ShouldEqual, model.RoleDefender)
			convey.So(model.ParseRole("Midfielder"), convey.ShouldEqual, model.RoleMidfielder)
			convey.So(model.ParseRole("FWD"), convey.ShouldEqual, model.RoleForward)
		})

		convey.Convey("When they are out of range or garbage", func() {
			convey.So(model.ParseRole("5"), convey.ShouldEqual, model.RoleUnknown)
			convey.So(model.ParseRole("0"), convey.ShouldEqual, model.RoleUnknown)
			convey.So(model.ParseRole(""), convey.ShouldEqual, model.RoleUnknown)
			convey.So(model.ParseRole("coach"), convey.ShouldEqual, model.RoleUnknown)
			convey.So(model.RoleUnknown.Known(), convey.ShouldBeFalse)
		})
	})
}

func TestRecordColumns(t *testing.T) {
	convey.Convey("Given an enriched record", t, func() {
		rec := model.Record{
			EntityID:      model.ID(42),
			Name:          "Saka",
			Role:          model.RoleMidfielder,
			Season:        "2023-24",
			PointsPerGame: model.Float(5.5),
			Continuity:    model.Continuity{NewToGroup: true},
		}

		convey.Convey("Then numeric lookups resolve by export name", func() {
			v, ok, err := rec.Numeric("ppg")
			convey.So(err, convey.ShouldBeNil)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 5.5)

			v, ok, err = rec.Numeric("new_in_team")
			convey.So(err, convey.ShouldBeNil)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(v, convey.ShouldEqual, 1)
		})

		convey.Convey("And null cells are reported as missing", func() {
			_, ok, err := rec.Numeric("minutes")
			convey.So(err, convey.ShouldBeNil)
			convey.So(ok, convey.ShouldBeFalse)

			_, ok, err = rec.Numeric("team_code")
			convey.So(err, convey.ShouldBeNil)
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("And unknown columns are rejected", func() {
			_, _, err := rec.Numeric("xg")
			convey.So(errors.Is(err, model.ErrUnknownColumn), convey.ShouldBeTrue)
		})

		convey.Convey("And cells format for flat export", func() {
			col, err := model.Lookup("id")
			convey.So(err, convey.ShouldBeNil)
			convey.So(model.FormatCell(col.Get(&rec)), convey.ShouldEqual, "42")
			col, _ = model.Lookup("minutes")
			convey.So(model.FormatCell(col.Get(&rec)), convey.ShouldEqual, "")
			col, _ = model.Lookup("position")
			convey.So(model.FormatCell(col.Get(&rec)), convey.ShouldEqual, "MID")
		})
	})
}

func TestSameGroup(t *testing.T) {
	convey.Convey("Given group ids", t, func() {
		convey.So(model.SameGroup(model.ID(3), model.ID(3)), convey.ShouldBeTrue)
		convey.So(model.SameGroup(model.ID(3), model.ID(4)), convey.ShouldBeFalse)
		convey.Convey("Then null groups never match, not even each other", func() {
			var null model.Record
			convey.So(model.SameGroup(null.GroupID, null.GroupID), convey.ShouldBeFalse)
			convey.So(model.SameGroup(null.GroupID, model.ID(3)), convey.ShouldBeFalse)
		})
	})
}
