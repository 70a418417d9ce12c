// Package service runs the feature pipeline and serves its latest result to
// the HTTP API and CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/domain/cohort"
	"github.com/okian/draftboard/internal/domain/continuity"
	"github.com/okian/draftboard/internal/domain/history"
	"github.com/okian/draftboard/internal/domain/ingest"
	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/season"
	"github.com/okian/draftboard/internal/domain/tiering"
	"github.com/okian/draftboard/internal/domain/types"
	"github.com/okian/draftboard/pkg/logger"
	"github.com/okian/draftboard/pkg/metrics"
)

// Source yields the raw per-season tables.
type Source interface {
	Read(ctx context.Context) ([]ingest.SourceTable, error)
}

// Run is one enriched table and how it was produced.
type Run struct {
	ID        string
	CreatedAt time.Time
	Table     model.Table
	Seasons   []string
	Target    string
	Issues    []ingest.Issue
	// IssueCount survives persistence; Issues does not.
	IssueCount int
	Dropped    int
}

// Service implements the pipeline and the API dependencies.
type Service struct {
	mu       sync.RWMutex
	current  *Run
	building sync.Mutex

	source     Source
	store      repository.Store
	loaderOpts []ingest.Option
	thresholds cohort.Options
	rules      []tiering.Rule
	target     string
	maxLimit   int

	now    func() time.Time
	newID  func() string
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		thresholds: cohort.Defaults(),
		maxLimit:   100,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) stage(ctx context.Context, name string, start time.Time) {
	ms := float64(time.Since(start).Microseconds()) / 1000
	metrics.RecordStageDuration(name, ms)
	s.logger.Debug(ctx, "stage done", logger.String("stage", name), logger.Float64("ms", ms))
}

// Enrich runs the whole pipeline over sources:
// load, classify, history and cohort, merge on (entity, season), drop unknown roles.
func (s *Service) Enrich(ctx context.Context, sources []ingest.SourceTable) (Run, error) {
	run, err := s.enrich(ctx, sources)
	if err != nil {
		metrics.RecordRun("error")
		metrics.RecordErrorByComponent("pipeline", errorKind(err))
		return Run{}, err
	}
	metrics.RecordRun("ok")
	return run, nil
}

func (s *Service) enrich(ctx context.Context, sources []ingest.SourceTable) (Run, error) {
	run := Run{ID: s.newID(), CreatedAt: s.now()}
	log := s.logger.With(logger.String("run_id", run.ID))

	start := time.Now()
	opts := append([]ingest.Option{ingest.WithLogger(log.Named("ingest"))}, s.loaderOpts...)
	res, err := ingest.NewLoader(opts...).Load(ctx, sources)
	if err != nil {
		return Run{}, fmt.Errorf("load: %w", err)
	}
	s.stage(ctx, "load", start)
	for label, n := range res.RowsBySeason {
		metrics.RecordRowsLoaded(label, n)
	}
	for _, is := range res.Issues {
		metrics.RecordSourceIssue(is.Kind.Error())
		log.Warn(ctx, "source issue", logger.Error(is))
	}
	run.Issues = res.Issues
	run.IssueCount = len(res.Issues)
	run.Seasons = res.Seasons.Labels()

	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	start = time.Now()
	classified, err := continuity.Classify(res.Table)
	if err != nil {
		return Run{}, fmt.Errorf("classify: %w", err)
	}
	s.stage(ctx, "classify", start)

	if err := ctx.Err(); err != nil {
		return Run{}, err
	}
	start = time.Now()
	hist, hs, err := history.Compute(ctx, classified, history.WithLogger(log.Named("history")))
	if err != nil {
		return Run{}, fmt.Errorf("history: %w", err)
	}
	metrics.RecordSkipped("history", hs.Skipped)
	s.stage(ctx, "history", start)

	start = time.Now()
	coh, cs, err := cohort.Compute(ctx, classified, cohort.WithThresholds(s.thresholds), cohort.WithLogger(log.Named("cohort")))
	if err != nil {
		return Run{}, fmt.Errorf("cohort: %w", err)
	}
	metrics.RecordSkipped("cohort", cs.Skipped)
	s.stage(ctx, "cohort", start)

	merged, err := merge(classified, hist, coh)
	if err != nil {
		return Run{}, err
	}

	run.Table = make(model.Table, 0, len(merged))
	for _, r := range merged {
		if !r.Role.Known() {
			run.Dropped++
			continue
		}
		run.Table = append(run.Table, r)
	}
	metrics.RecordDropped(run.Dropped)
	metrics.UpdateRecordsEnriched(len(run.Table))

	run.Target = s.target
	if run.Target == "" && len(run.Seasons) > 0 {
		run.Target = run.Seasons[len(run.Seasons)-1]
	}
	log.Info(ctx, "pipeline finished",
		logger.Int("records", len(run.Table)),
		logger.Int("seasons", len(run.Seasons)),
		logger.Int("issues", len(run.Issues)),
		logger.Int("dropped", run.Dropped),
		logger.Int("history_skipped", hs.Skipped),
		logger.Int("cohort_skipped", cs.Skipped),
	)
	return run, nil
}

// merge joins the history and cohort blocks onto base. All three tables come
// from the same classified table, so rows align by position; keys are checked.
func merge(base, hist, coh model.Table) (model.Table, error) {
	if len(hist) != len(base) || len(coh) != len(base) {
		return nil, fmt.Errorf("%w: %d/%d/%d rows", ErrMergeMismatch, len(base), len(hist), len(coh))
	}
	out := base.Clone()
	for i := range out {
		if !sameKey(out[i], hist[i]) || !sameKey(out[i], coh[i]) {
			return nil, fmt.Errorf("%w at row %d", ErrMergeMismatch, i)
		}
		out[i].History = hist[i].History
		out[i].Cohort = coh[i].Cohort
	}
	return out, nil
}

func sameKey(a, b model.Record) bool {
	return a.Season == b.Season && a.EntityID == b.EntityID
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ingest.ErrNoSources):
		return "no_sources"
	case errors.Is(err, ingest.ErrDuplicateSeason):
		return "duplicate_season"
	case errors.Is(err, season.ErrUnorderedSeason):
		return "unordered_season"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "internal"
	}
}

// Build reads the configured source, enriches it, persists the snapshot when a
// store is configured, and makes it the current run.
func (s *Service) Build(ctx context.Context) (Run, error) {
	s.building.Lock()
	defer s.building.Unlock()
	return s.build(ctx)
}

// TryBuild is Build that fails with types.ErrBusy instead of waiting for a
// running build.
func (s *Service) TryBuild(ctx context.Context) (Run, error) {
	if !s.building.TryLock() {
		return Run{}, types.ErrBusy
	}
	defer s.building.Unlock()
	return s.build(ctx)
}

// Rebuild runs TryBuild and summarizes the new run.
func (s *Service) Rebuild(ctx context.Context) (types.Stats, error) {
	if _, err := s.TryBuild(ctx); err != nil {
		return types.Stats{}, err
	}
	return s.GetStats(ctx), nil
}

func (s *Service) build(ctx context.Context) (Run, error) {
	if s.source == nil {
		return Run{}, ErrNoSource
	}
	sources, err := s.source.Read(ctx)
	if err != nil {
		return Run{}, fmt.Errorf("read sources: %w", err)
	}
	run, err := s.Enrich(ctx, sources)
	if err != nil {
		return Run{}, err
	}
	if s.store != nil {
		snap := repository.Snapshot{
			RunID:     run.ID,
			CreatedAt: run.CreatedAt,
			Target:    run.Target,
			Issues:    run.IssueCount,
			Table:     run.Table,
		}
		if err := s.store.Save(ctx, snap); err != nil {
			return Run{}, err
		}
	}
	s.setCurrent(run)
	return run, nil
}

// Restore makes the latest stored snapshot the current run.
func (s *Service) Restore(ctx context.Context) (Run, error) {
	if s.store == nil {
		return Run{}, repository.ErrNoSnapshot
	}
	snap, err := s.store.Latest(ctx)
	if err != nil {
		return Run{}, err
	}
	run := Run{
		ID:         snap.RunID,
		CreatedAt:  snap.CreatedAt,
		Table:      snap.Table,
		Target:     snap.Target,
		IssueCount: snap.Issues,
	}
	seen := make(map[string]struct{})
	var labels []string
	for _, r := range snap.Table {
		if _, ok := seen[r.Season]; !ok {
			seen[r.Season] = struct{}{}
			labels = append(labels, r.Season)
		}
	}
	seq, err := season.NewSequence(labels)
	if err != nil {
		return Run{}, err
	}
	run.Seasons = seq.Labels()
	if s.target != "" {
		run.Target = s.target
	}
	if run.Target == "" {
		run.Target = seq.Last()
	}
	s.setCurrent(run)
	s.logger.Info(ctx, "snapshot restored", logger.String("run_id", run.ID), logger.Int("records", len(run.Table)))
	return run, nil
}

func (s *Service) setCurrent(run Run) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &run
}

// Current returns the current run.
func (s *Service) Current() (Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Run{}, repository.ErrNoSnapshot
	}
	return *s.current, nil
}
