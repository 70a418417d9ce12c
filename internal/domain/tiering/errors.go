package tiering

import "errors"

var (
	// ErrInvalidRule is returned for rules that cannot be evaluated.
	ErrInvalidRule = errors.New("invalid tier rule")
	// ErrUnknownOp is returned for unsupported comparison operators.
	ErrUnknownOp = errors.New("unknown operator")
)
