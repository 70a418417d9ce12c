package repository

import (
	"time"

	"github.com/okian/draftboard/pkg/logger"
)

// Option applies a configuration option to the SQLStore.
type Option func(*SQLStore)

// WithBatchSize sets how many rows are inserted per statement.
func WithBatchSize(n int) Option {
	return func(s *SQLStore) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *SQLStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the snapshot timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *SQLStore) {
		if now != nil {
			s.now = now
		}
	}
}
