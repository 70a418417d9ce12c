package season

import "errors"

var (
	// ErrUnorderedSeason marks labels that cannot be placed in a total chronological order.
	ErrUnorderedSeason = errors.New("unordered season")
	// ErrUnknownSeason marks a label that was never observed.
	ErrUnknownSeason = errors.New("unknown season")
)
