package service

import (
	"errors"

	"github.com/okian/draftboard/internal/adapters/repository"
)

// Sentinel kinds for service errors.
var (
	// ErrMergeMismatch means two stages returned rows for different keys at the same position.
	ErrMergeMismatch = errors.New("stage outputs do not align")
	// ErrNoSource is returned by Build when no source was configured.
	ErrNoSource = errors.New("no source configured")
)

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
