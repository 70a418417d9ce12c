package history

import "github.com/okian/draftboard/pkg/logger"

type options struct {
	log logger.Logger
}

// Option configures Compute.
type Option func(*options)

// WithLogger sets the logger used for skipped entities.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
