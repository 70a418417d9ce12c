package cohort

import "github.com/okian/draftboard/pkg/logger"

// Options holds the exposure thresholds. Comparisons are strict, except that
// a RoleExposureMinutes of zero disables that filter.
type Options struct {
	RoleExposureMinutes     float64
	HighExposureMinutes     float64
	NewcomerExposureMinutes float64
	InfluentialPoints       float64
	InfluentialMinutes      float64

	log logger.Logger
}

// Defaults returns the thresholds used by the draft analysis.
func Defaults() Options {
	return Options{
		RoleExposureMinutes:     0,
		HighExposureMinutes:     1400,
		NewcomerExposureMinutes: 1500,
		InfluentialPoints:       3,
		InfluentialMinutes:      2300,
		log:                     logger.Nop(),
	}
}

// Option configures Compute.
type Option func(*Options)

// WithThresholds replaces the thresholds, keeping the logger.
func WithThresholds(th Options) Option {
	return func(o *Options) {
		log := o.log
		*o = th
		o.log = log
	}
}

// WithLogger sets the logger used for skipped seasons.
func WithLogger(l logger.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.log = l
		}
	}
}
