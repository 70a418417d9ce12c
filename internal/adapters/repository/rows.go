package repository

import (
	"database/sql"
	"time"

	"github.com/okian/draftboard/internal/domain/model"
)

// snapshotRow is the header of one run.
type snapshotRow struct {
	Seq       uint   `gorm:"primaryKey;autoIncrement"`
	RunID     string `gorm:"uniqueIndex;size:36"`
	CreatedAt time.Time
	Target    string
	Issues    int
	Records   int
}

func (snapshotRow) TableName() string { return "snapshots" }

// recordRow is one enriched record, flattened.
type recordRow struct {
	ID       uint   `gorm:"primaryKey"`
	RunID    string `gorm:"index:idx_run_entity,priority:1;size:36"`
	Position int

	EntityID      sql.NullInt64 `gorm:"index:idx_run_entity,priority:2"`
	Name          string
	Role          uint8
	GroupID       sql.NullInt64
	Season        string `gorm:"index"`
	TotalPoints   *float64
	PointsPerGame *float64
	Minutes       *float64
	BirthDate     string
	GroupJoinDate string

	NewToLeague bool
	NewToGroup  bool

	PointsLast           *float64
	PointsAvg2           *float64
	PointsAvg3           *float64
	MinutesLast          *float64
	MinutesAvg2          *float64
	MinutesAvg3          *float64
	PointsLastSameGroup  *float64
	PointsAvg2SameGroup  *float64
	PointsAvg3SameGroup  *float64
	MinutesLastSameGroup *float64
	MinutesAvg2SameGroup *float64
	MinutesAvg3SameGroup *float64
	TimeInLeague         int

	MaxMinutesInRolePrev          *float64
	MaxMinutesBySigningPrev       *float64
	AvgPointsRoleHighExposurePrev *float64
	MaxPointsRolePrev             *float64
	InfluentialPlayerLeft         *bool
}

func (recordRow) TableName() string { return "records" }

func toRow(runID string, pos int, r model.Record) recordRow {
	return recordRow{
		RunID:         runID,
		Position:      pos,
		EntityID:      r.EntityID,
		Name:          r.Name,
		Role:          uint8(r.Role),
		GroupID:       r.GroupID,
		Season:        r.Season,
		TotalPoints:   r.TotalPoints,
		PointsPerGame: r.PointsPerGame,
		Minutes:       r.Minutes,
		BirthDate:     r.BirthDate,
		GroupJoinDate: r.GroupJoinDate,

		NewToLeague: r.NewToLeague,
		NewToGroup:  r.NewToGroup,

		PointsLast:           r.PointsLast,
		PointsAvg2:           r.PointsAvg2,
		PointsAvg3:           r.PointsAvg3,
		MinutesLast:          r.MinutesLast,
		MinutesAvg2:          r.MinutesAvg2,
		MinutesAvg3:          r.MinutesAvg3,
		PointsLastSameGroup:  r.PointsLastSameGroup,
		PointsAvg2SameGroup:  r.PointsAvg2SameGroup,
		PointsAvg3SameGroup:  r.PointsAvg3SameGroup,
		MinutesLastSameGroup: r.MinutesLastSameGroup,
		MinutesAvg2SameGroup: r.MinutesAvg2SameGroup,
		MinutesAvg3SameGroup: r.MinutesAvg3SameGroup,
		TimeInLeague:         r.TimeInLeague,

		MaxMinutesInRolePrev:          r.MaxMinutesInRolePrev,
		MaxMinutesBySigningPrev:       r.MaxMinutesBySigningPrev,
		AvgPointsRoleHighExposurePrev: r.AvgPointsRoleHighExposurePrev,
		MaxPointsRolePrev:             r.MaxPointsRolePrev,
		InfluentialPlayerLeft:         r.InfluentialPlayerLeft,
	}
}

func (row recordRow) record() model.Record {
	return model.Record{
		EntityID:      row.EntityID,
		Name:          row.Name,
		Role:          model.Role(row.Role),
		GroupID:       row.GroupID,
		Season:        row.Season,
		TotalPoints:   row.TotalPoints,
		PointsPerGame: row.PointsPerGame,
		Minutes:       row.Minutes,
		BirthDate:     row.BirthDate,
		GroupJoinDate: row.GroupJoinDate,
		Continuity: model.Continuity{
			NewToLeague: row.NewToLeague,
			NewToGroup:  row.NewToGroup,
		},
		History: model.History{
			PointsLast:           row.PointsLast,
			PointsAvg2:           row.PointsAvg2,
			PointsAvg3:           row.PointsAvg3,
			MinutesLast:          row.MinutesLast,
			MinutesAvg2:          row.MinutesAvg2,
			MinutesAvg3:          row.MinutesAvg3,
			PointsLastSameGroup:  row.PointsLastSameGroup,
			PointsAvg2SameGroup:  row.PointsAvg2SameGroup,
			PointsAvg3SameGroup:  row.PointsAvg3SameGroup,
			MinutesLastSameGroup: row.MinutesLastSameGroup,
			MinutesAvg2SameGroup: row.MinutesAvg2SameGroup,
			MinutesAvg3SameGroup: row.MinutesAvg3SameGroup,
			TimeInLeague:         row.TimeInLeague,
		},
		Cohort: model.Cohort{
			MaxMinutesInRolePrev:          row.MaxMinutesInRolePrev,
			MaxMinutesBySigningPrev:       row.MaxMinutesBySigningPrev,
			AvgPointsRoleHighExposurePrev: row.AvgPointsRoleHighExposurePrev,
			MaxPointsRolePrev:             row.MaxPointsRolePrev,
			InfluentialPlayerLeft:         row.InfluentialPlayerLeft,
		},
	}
}
