package history

import "errors"

// ErrEntityFailed wraps a recovered failure in one entity's computation.
var ErrEntityFailed = errors.New("entity history failed")
