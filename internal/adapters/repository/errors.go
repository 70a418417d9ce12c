package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound   = errors.New("player not found")
	ErrNoSnapshot = errors.New("no snapshot available")
	ErrOpen       = errors.New("open snapshot store")
)
