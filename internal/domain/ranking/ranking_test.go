package ranking_test

import (
	"errors"
	"testing"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/ranking"
	. "github.com/smartystreets/goconvey/convey"
)

func rec(id int64, name, s string, role model.Role, ppg float64) model.Record {
	return model.Record{EntityID: model.ID(id), Name: name, Season: s, Role: role, PointsPerGame: model.Float(ppg)}
}

func TestTopN(t *testing.T) {
	Convey("Given a season with ties and gaps", t, func() {
		tbl := model.Table{
			rec(3, "C", "2023-24", model.RoleForward, 5),
			rec(1, "A", "2023-24", model.RoleMidfielder, 7),
			rec(2, "B", "2023-24", model.RoleDefender, 5),
			rec(4, "D", "2022-23", model.RoleForward, 9),
			{EntityID: model.ID(5), Season: "2023-24"},
			rec(1, "A dup", "2023-24", model.RoleMidfielder, 1),
		}

		Convey("When ranking by points per game", func() {
			got, err := ranking.TopN(tbl, ranking.Query{Season: "2023-24", Metric: "ppg"})
			So(err, ShouldBeNil)

			Convey("Then higher scores come first and ties break by id", func() {
				So(len(got), ShouldEqual, 3)
				So(got[0].EntityID, ShouldEqual, 1)
				So(got[0].Name, ShouldEqual, "A")
				So(got[1].EntityID, ShouldEqual, 2)
				So(got[2].EntityID, ShouldEqual, 3)
				So(got[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When limiting and filtering by role", func() {
			got, err := ranking.TopN(tbl, ranking.Query{Season: "2023-24", Metric: "ppg", Limit: 1})
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)

			got, err = ranking.TopN(tbl, ranking.Query{Season: "2023-24", Metric: "ppg", Role: model.RoleForward})
			So(err, ShouldBeNil)
			So(len(got), ShouldEqual, 1)
			So(got[0].Role, ShouldEqual, "FWD")
		})

		Convey("When the metric is unknown", func() {
			_, err := ranking.TopN(tbl, ranking.Query{Season: "2023-24", Metric: "xg"})
			So(errors.Is(err, model.ErrUnknownColumn), ShouldBeTrue)
		})
	})
}

func TestNthValue(t *testing.T) {
	Convey("Given two seasons of points per game", t, func() {
		tbl := model.Table{
			rec(1, "A", "2022-23", model.RoleMidfielder, 8),
			rec(2, "B", "2022-23", model.RoleMidfielder, 6),
			rec(1, "A", "2023-24", model.RoleMidfielder, 7),
			rec(2, "B", "2023-24", model.RoleMidfielder, 4),
			rec(3, "C", "2023-24", model.RoleMidfielder, 2),
		}
		seasons := []string{"2022-23", "2023-24"}

		Convey("Then the nth value is averaged across seasons", func() {
			v, ok, err := ranking.NthValue(tbl, seasons, "ppg", model.RoleUnknown, 2)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 5.0)
		})

		Convey("Then seasons too short for the rank are ignored", func() {
			v, ok, err := ranking.NthValue(tbl, seasons, "ppg", model.RoleUnknown, 3)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 2.0)

			_, ok, err = ranking.NthValue(tbl, seasons, "ppg", model.RoleUnknown, 4)
			So(err, ShouldBeNil)
			So(ok, ShouldBeFalse)
		})

		Convey("Then rank zero is rejected", func() {
			_, _, err := ranking.NthValue(tbl, seasons, "ppg", model.RoleUnknown, 0)
			So(errors.Is(err, ranking.ErrInvalidRank), ShouldBeTrue)
		})
	})
}
