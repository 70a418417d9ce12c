package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithCapacity presizes the key map. Values <= 0 leave it unsized.
func WithCapacity(n int) Option {
	return func(d *inMemoryDeduper) {
		d.capacity = n
	}
}
