package ingest

import "github.com/okian/draftboard/pkg/logger"

// Option configures a Loader.
type Option func(*Loader)

// WithAliases adds header aliases on top of the defaults.
// Keys are matched after CleanHeader; values must be canonical names.
func WithAliases(aliases map[string]string) Option {
	return func(l *Loader) {
		for k, v := range aliases {
			l.aliases[CleanHeader(k)] = CleanHeader(v)
		}
	}
}

// WithLogger sets the loader logger.
func WithLogger(log logger.Logger) Option {
	return func(l *Loader) {
		if log != nil {
			l.log = log
		}
	}
}
