package source

import "github.com/okian/draftboard/pkg/logger"

// Option configures a Dir.
type Option func(*Dir)

// WithPattern sets the glob matched against file names. Defaults to "*_data.csv".
func WithPattern(p string) Option {
	return func(d *Dir) {
		if p != "" {
			d.pattern = p
		}
	}
}

// WithConcurrency bounds how many files are parsed at once.
func WithConcurrency(n int) Option {
	return func(d *Dir) {
		if n > 0 {
			d.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dir) {
		if l != nil {
			d.log = l
		}
	}
}
