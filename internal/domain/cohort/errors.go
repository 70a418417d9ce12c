package cohort

import "errors"

// ErrBucketFailed wraps a recovered failure while aggregating one season.
var ErrBucketFailed = errors.New("cohort aggregation failed")
