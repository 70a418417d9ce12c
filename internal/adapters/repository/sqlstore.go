package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/pkg/logger"
	"github.com/okian/draftboard/pkg/metrics"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

// SQLStore keeps snapshots in SQLite through gorm.
type SQLStore struct {
	db        *gorm.DB
	batchSize int
	log       logger.Logger
	now       func() time.Time
}

var _ Store = (*SQLStore)(nil)

// Open connects to dsn and migrates the schema.
func Open(ctx context.Context, dsn string, opts ...Option) (*SQLStore, error) {
	s := &SQLStore{batchSize: 500, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	db, err := gorm.Open(sqlite.New(sqlite.Config{
		DSN:        dsn,
		DriverName: "sqlite",
	}), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpen, err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&snapshotRow{}, &recordRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", ErrOpen, err)
	}
	s.db = db
	s.log.Debug(ctx, "snapshot store ready", logger.String("dsn", dsn))
	return s, nil
}

// Save writes the header and every row in one transaction.
func (s *SQLStore) Save(ctx context.Context, snap Snapshot) error {
	start := time.Now()
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = s.now()
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		head := snapshotRow{
			RunID:     snap.RunID,
			CreatedAt: snap.CreatedAt,
			Target:    snap.Target,
			Issues:    snap.Issues,
			Records:   len(snap.Table),
		}
		if err := tx.Create(&head).Error; err != nil {
			return err
		}
		if len(snap.Table) == 0 {
			return nil
		}
		rows := make([]recordRow, len(snap.Table))
		for i, r := range snap.Table {
			rows[i] = toRow(snap.RunID, i, r)
		}
		return tx.CreateInBatches(rows, s.batchSize).Error
	})
	if err != nil {
		metrics.RecordErrorByComponent("repository", "save")
		return fmt.Errorf("save snapshot %s: %w", snap.RunID, err)
	}
	metrics.RecordSnapshotWrite(float64(time.Since(start).Milliseconds()), snap.CreatedAt.Unix())
	s.log.Info(ctx, "snapshot saved", logger.String("run_id", snap.RunID), logger.Int("records", len(snap.Table)))
	return nil
}

func (s *SQLStore) latestHead(ctx context.Context) (snapshotRow, error) {
	var head snapshotRow
	err := s.db.WithContext(ctx).Order("seq DESC").Limit(1).Take(&head).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return snapshotRow{}, ErrNoSnapshot
	}
	return head, err
}

// Latest loads the newest snapshot with all rows in their original order.
func (s *SQLStore) Latest(ctx context.Context) (Snapshot, error) {
	start := time.Now()
	defer func() { metrics.RecordSnapshotQueryLatency(float64(time.Since(start).Milliseconds())) }()

	head, err := s.latestHead(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	var rows []recordRow
	if err := s.db.WithContext(ctx).Where("run_id = ?", head.RunID).Order("position").Find(&rows).Error; err != nil {
		return Snapshot{}, fmt.Errorf("load snapshot %s: %w", head.RunID, err)
	}
	table := make(model.Table, len(rows))
	for i, row := range rows {
		table[i] = row.record()
	}
	return Snapshot{
		RunID:     head.RunID,
		CreatedAt: head.CreatedAt,
		Target:    head.Target,
		Issues:    head.Issues,
		Table:     table,
	}, nil
}

// Player returns one entity's rows in a run.
func (s *SQLStore) Player(ctx context.Context, runID string, id int64) (model.Table, error) {
	var rows []recordRow
	err := s.db.WithContext(ctx).
		Where("run_id = ? AND entity_id = ?", runID, id).
		Order("position").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	out := make(model.Table, len(rows))
	for i, row := range rows {
		out[i] = row.record()
	}
	return out, nil
}

// Count returns the number of saved snapshots.
func (s *SQLStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&snapshotRow{}).Count(&n).Error
	return n, err
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
