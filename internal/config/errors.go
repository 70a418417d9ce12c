package config

import (
	"errors"
)

// Sentinel error kinds for this package.
var (
	// ErrInvalidConfig wraps validation failures.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig wraps file, env and decode failures.
	ErrLoadConfig = errors.New("load config failed")
)
