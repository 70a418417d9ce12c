package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/ranking"
	"github.com/okian/draftboard/internal/domain/season"
	"github.com/okian/draftboard/internal/domain/tiering"
	"github.com/okian/draftboard/internal/domain/types"
	"github.com/okian/draftboard/pkg/metrics"
)

// DefaultMetric ranks by points per game.
const DefaultMetric = "ppg"

func (s *Service) resolveSeason(run Run, label string) (string, error) {
	if label == "" {
		return run.Target, nil
	}
	norm, err := season.Normalize(label)
	if err != nil {
		return "", fmt.Errorf("%w: %q", season.ErrUnknownSeason, label)
	}
	label = norm
	if !slices.Contains(run.Seasons, label) {
		return "", fmt.Errorf("%w: %q", season.ErrUnknownSeason, label)
	}
	return label, nil
}

func seasonRows(t model.Table, label string) model.Table {
	out := make(model.Table, 0, len(t))
	for _, r := range t {
		if r.Season == label {
			out = append(out, r)
		}
	}
	return out
}

// Leaderboard ranks the current run by q.Metric. An empty season means the
// target season and the limit is clamped to the configured maximum.
func (s *Service) Leaderboard(ctx context.Context, q ranking.Query) ([]types.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		metrics.RecordSnapshotQueryLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	run, err := s.Current()
	if err != nil {
		return nil, err
	}
	label, err := s.resolveSeason(run, q.Season)
	if err != nil {
		return nil, err
	}
	metric := q.Metric
	if metric == "" {
		metric = DefaultMetric
	}
	limit := q.Limit
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}
	return ranking.TopN(run.Table, ranking.Query{Season: label, Metric: metric, Role: q.Role, Limit: limit})
}

// NthValue averages the metric of the nth ranked entity over seasons. An
// empty season list uses every season of the run.
func (s *Service) NthValue(ctx context.Context, seasons []string, metric string, role model.Role, n int) (float64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	run, err := s.Current()
	if err != nil {
		return 0, false, err
	}
	if len(seasons) == 0 {
		seasons = run.Seasons
	}
	for _, l := range seasons {
		if _, err := s.resolveSeason(run, l); err != nil {
			return 0, false, err
		}
	}
	if metric == "" {
		metric = DefaultMetric
	}
	return ranking.NthValue(run.Table, seasons, metric, role, n)
}

// Player returns every row of entity id. When a store is configured the rows
// come from the persisted snapshot of the current run.
func (s *Service) Player(ctx context.Context, id int64) (model.Table, error) {
	run, err := s.Current()
	if err != nil {
		return nil, err
	}
	if s.store != nil {
		rows, err := s.store.Player(ctx, run.ID, id)
		if err == nil {
			return rows, nil
		}
		// runs built without a store fall through to memory
		if !isNotFound(err) {
			return nil, err
		}
	}
	var out model.Table
	for _, r := range run.Table {
		if r.EntityID.Valid && r.EntityID.Int64 == id {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: player %d", repository.ErrNotFound, id)
	}
	return out, nil
}

// Tiers partitions the given season (default: target) with the configured rules.
func (s *Service) Tiers(ctx context.Context, label string) (tiering.Partition, error) {
	if err := ctx.Err(); err != nil {
		return tiering.Partition{}, err
	}
	run, err := s.Current()
	if err != nil {
		return tiering.Partition{}, err
	}
	label, err = s.resolveSeason(run, label)
	if err != nil {
		return tiering.Partition{}, err
	}
	p, err := tiering.Evaluate(seasonRows(run.Table, label), s.rules)
	if err != nil {
		return tiering.Partition{}, err
	}
	for _, t := range p.Tiers {
		metrics.UpdateTierSize(t.Name, len(t.Records))
	}
	metrics.UpdateTierSize("unassigned", len(p.Unassigned))
	return p, nil
}

// GetStats summarizes the current run. It returns a zero Stats before the first run.
func (s *Service) GetStats(_ context.Context) types.Stats {
	run, err := s.Current()
	if err != nil {
		return types.Stats{BySeason: map[string]int{}}
	}
	st := types.Stats{
		RunID:    run.ID,
		Records:  len(run.Table),
		Seasons:  run.Seasons,
		Target:   run.Target,
		Issues:   run.IssueCount,
		BySeason: make(map[string]int, len(run.Seasons)),
	}
	for _, r := range run.Table {
		st.BySeason[r.Season]++
	}
	return st
}
