package ingest

import "errors"

var (
	// ErrNoSources is returned when Load receives zero source tables.
	ErrNoSources = errors.New("no source tables")
	// ErrDuplicateSeason is returned when two batches resolve to the same season label.
	ErrDuplicateSeason = errors.New("duplicate season")
	// ErrSchemaMismatch marks a batch missing its identity column.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrDuplicateEntity marks repeated (entity, season) rows. The first occurrence wins.
	ErrDuplicateEntity = errors.New("duplicate entity in season")
	// ErrParseSource marks a batch or row that could not be read.
	ErrParseSource = errors.New("unparseable source")
)
