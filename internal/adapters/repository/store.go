// Package repository persists enriched tables as flat snapshots.
package repository

import (
	"context"
	"time"

	"github.com/okian/draftboard/internal/domain/model"
)

// Snapshot is one persisted pipeline run.
type Snapshot struct {
	RunID     string
	CreatedAt time.Time
	Target    string
	Issues    int
	Table     model.Table
}

// Store provides read/write access to snapshots.
type Store interface {
	// Save persists a complete snapshot atomically.
	Save(ctx context.Context, snap Snapshot) error

	// Latest returns the most recently saved snapshot.
	// Returns ErrNoSnapshot when nothing was saved yet.
	Latest(ctx context.Context) (Snapshot, error)

	// Player returns every row of entity id in the given run, in table order.
	// Returns ErrNotFound if the run has no such entity.
	Player(ctx context.Context, runID string, id int64) (model.Table, error)

	// Count returns the number of stored snapshots.
	Count(ctx context.Context) (int64, error)

	Close() error
}
