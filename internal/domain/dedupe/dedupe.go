// Package dedupe tracks (entity, season) keys so duplicate rows are detected
// without being dropped.
package dedupe

import (
	"sync"
	"sync/atomic"
)

// Key identifies one entity-season observation.
type Key struct {
	Entity int64
	Season string
}

// Deduper records the first row seen for each key.
type Deduper interface {
	// SeenAndRecord checks if k was seen and records row as its first
	// occurrence if not. It returns the first occurrence and whether k
	// was already seen.
	SeenAndRecord(k Key, row int) (first int, seen bool)

	// First returns the row recorded for k.
	First(k Key) (int, bool)

	// Duplicates returns how many repeat occurrences were observed.
	Duplicates() int64

	Size() int64
}

type inMemoryDeduper struct {
	mu       sync.RWMutex
	seen     map[Key]int
	capacity int
	size     atomic.Int64
	repeats  atomic.Int64
}

// NewInMemoryDeduper creates a map-backed deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{capacity: 1024}
	for _, opt := range opts {
		opt(d)
	}
	if d.capacity < 0 {
		d.capacity = 0
	}
	d.seen = make(map[Key]int, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(k Key, row int) (int, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if first, exists := d.seen[k]; exists {
		d.repeats.Add(1)
		return first, true
	}
	d.seen[k] = row
	d.size.Add(1)
	return row, false
}

func (d *inMemoryDeduper) First(k Key) (int, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	row, ok := d.seen[k]
	return row, ok
}

func (d *inMemoryDeduper) Duplicates() int64 {
	return d.repeats.Load()
}

// Size returns the number of distinct keys.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
