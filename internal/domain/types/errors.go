package types

import "errors"

// ErrBusy is returned when a pipeline run is requested while one is in progress.
var ErrBusy = errors.New("pipeline run in progress")
