package service

import (
	"time"

	"github.com/okian/draftboard/internal/adapters/repository"
	"github.com/okian/draftboard/internal/domain/cohort"
	"github.com/okian/draftboard/internal/domain/ingest"
	"github.com/okian/draftboard/internal/domain/season"
	"github.com/okian/draftboard/internal/domain/tiering"
	"github.com/okian/draftboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource sets where Build reads season tables from.
func WithSource(src Source) Option {
	return func(s *Service) {
		s.source = src
	}
}

// WithStore sets the snapshot store. Without one, runs live in memory only.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		s.store = store
	}
}

// WithThresholds sets the cohort thresholds.
func WithThresholds(th cohort.Options) Option {
	return func(s *Service) {
		s.thresholds = th
	}
}

// WithTierRules sets the ordered tier rules.
func WithTierRules(rules []tiering.Rule) Option {
	return func(s *Service) {
		s.rules = rules
	}
}

// WithColumnAliases adds source header aliases.
func WithColumnAliases(aliases map[string]string) Option {
	return func(s *Service) {
		if len(aliases) > 0 {
			s.loaderOpts = append(s.loaderOpts, ingest.WithAliases(aliases))
		}
	}
}

// WithTargetSeason pins the default season for rankings and tiers.
// Labels that do not parse are kept as given and fail at query time.
func WithTargetSeason(label string) Option {
	return func(s *Service) {
		if norm, err := season.Normalize(label); err == nil {
			label = norm
		}
		s.target = label
	}
}

// WithMaxLimit caps leaderboard sizes.
func WithMaxLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithClock overrides the run timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunID overrides run id generation.
func WithRunID(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}
