package ranking

import "errors"

// ErrInvalidRank is returned for ranks below 1.
var ErrInvalidRank = errors.New("rank must be at least 1")
