package tiering_test

import (
	"errors"
	"testing"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/tiering"
	. "github.com/smartystreets/goconvey/convey"
)

func player(id int64, name string, role model.Role, ppg, last float64, newToGroup bool) model.Record {
	return model.Record{
		EntityID: model.ID(id), Name: name, Role: role, Season: "2025-26",
		PointsPerGame: model.Float(ppg),
		History:       model.History{PointsLast: model.Float(last)},
		Continuity:    model.Continuity{NewToGroup: newToGroup},
	}
}

func TestEvaluate(t *testing.T) {
	Convey("Given a pool of players and ordered rules", t, func() {
		pool := model.Table{
			player(1, "Salah", model.RoleMidfielder, 8, 7.5, false),
			player(2, "Haaland", model.RoleForward, 7, 6.2, false),
			player(3, "Wood", model.RoleForward, 5, 4.5, false),
			player(4, "Mateta", model.RoleForward, 5, 4.4, false),
			player(5, "Virgil", model.RoleDefender, 4, 3.9, false),
			player(6, "Newbie", model.RoleForward, 6, 6.0, true),
			{EntityID: model.ID(7), Name: "Unknown", Role: model.RoleDefender, Season: "2025-26"},
		}
		rules := []tiering.Rule{
			{Name: "top", Tier: "tier1", Conditions: []tiering.Condition{
				{Column: "new_in_team", Op: "==", Value: false},
				{Column: "points_last_season", Op: ">=", Value: 6},
			}},
			{Name: "fwd premium", Tier: "tier2", Roles: []string{"FWD"}, Exclude: []string{"wood"}, Conditions: []tiering.Condition{
				{Column: "points_last_season", Op: ">=", Value: 4.1},
			}},
			{Name: "def", Tier: "tier2", Roles: []string{"DEF"}, Include: []string{"Virgil"}, Conditions: []tiering.Condition{
				{Column: "points_last_season", Op: ">=", Value: 5},
			}},
			{Name: "rest fwd", Tier: "tier3", Roles: []string{"4"}, Conditions: []tiering.Condition{
				{Column: "name", Op: "not in", Value: []any{"Newbie"}},
			}},
		}

		p, err := tiering.Evaluate(pool, rules)
		So(err, ShouldBeNil)

		Convey("Then tiers appear in first-use order", func() {
			So(len(p.Tiers), ShouldEqual, 3)
			So(p.Tiers[0].Name, ShouldEqual, "tier1")
			So(p.Tiers[1].Rules, ShouldResemble, []string{"fwd premium", "def"})
		})

		Convey("Then earlier rules win", func() {
			tier, ok := p.TierOf(1)
			So(ok, ShouldBeTrue)
			So(tier, ShouldEqual, "tier1")
			tier, _ = p.TierOf(2)
			So(tier, ShouldEqual, "tier1")
		})

		Convey("Then exclusions stay in the pool for later rules", func() {
			tier, _ := p.TierOf(3)
			So(tier, ShouldEqual, "tier3")
			tier, _ = p.TierOf(4)
			So(tier, ShouldEqual, "tier2")
		})

		Convey("Then inclusions bypass conditions", func() {
			tier, _ := p.TierOf(5)
			So(tier, ShouldEqual, "tier2")
		})

		Convey("Then everyone lands at most once", func() {
			So(p.Size()+len(p.Unassigned), ShouldEqual, len(pool))
			So(len(p.Unassigned), ShouldEqual, 1)
			tier, _ := p.TierOf(6)
			So(tier, ShouldEqual, "tier2")
		})

		Convey("Then the input is untouched", func() {
			So(pool[0].Name, ShouldEqual, "Salah")
			So(len(pool), ShouldEqual, 7)
		})
	})

	Convey("Given invalid rules", t, func() {
		_, err := tiering.Evaluate(nil, []tiering.Rule{{Name: "x", Tier: "t", Conditions: []tiering.Condition{{Column: "ppg", Op: "~", Value: 1}}}})
		So(errors.Is(err, tiering.ErrUnknownOp), ShouldBeTrue)

		_, err = tiering.Evaluate(nil, []tiering.Rule{{Name: "x", Tier: "t", Conditions: []tiering.Condition{{Column: "xg", Op: ">", Value: 1}}}})
		So(errors.Is(err, tiering.ErrInvalidRule), ShouldBeTrue)

		_, err = tiering.Evaluate(nil, []tiering.Rule{{Name: "x", Tier: "t", Conditions: []tiering.Condition{{Column: "ppg", Op: ">", Value: "high"}}}})
		So(errors.Is(err, tiering.ErrInvalidRule), ShouldBeTrue)

		_, err = tiering.Evaluate(nil, []tiering.Rule{{Name: "x"}})
		So(errors.Is(err, tiering.ErrInvalidRule), ShouldBeTrue)

		_, err = tiering.Evaluate(nil, []tiering.Rule{{Name: "x", Tier: "t", Roles: []string{"coach"}}})
		So(errors.Is(err, tiering.ErrInvalidRule), ShouldBeTrue)

		Convey("Then the unassigned pool name cannot be used as a tier", func() {
			for _, name := range []string{tiering.Unassigned, "unassigned", " UNASSIGNED "} {
				_, err := tiering.Evaluate(nil, []tiering.Rule{{Name: "x", Tier: name}})
				So(errors.Is(err, tiering.ErrInvalidRule), ShouldBeTrue)
			}
		})
	})
}

func TestConditionNulls(t *testing.T) {
	Convey("Given a record with a null metric", t, func() {
		rec := model.Record{EntityID: model.ID(1)}
		So(tiering.Condition{Column: "ppg", Op: ">", Value: 0}.Match(&rec), ShouldBeFalse)
		So(tiering.Condition{Column: "ppg", Op: "==", Value: 0}.Match(&rec), ShouldBeFalse)
		So(tiering.Condition{Column: "ppg", Op: "!=", Value: 0}.Match(&rec), ShouldBeTrue)
		So(tiering.Condition{Column: "ppg", Op: "not in", Value: []any{1.0}}.Match(&rec), ShouldBeTrue)
	})
}
