package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator returns predictable run ids for golden comparison.
//
// Ids are "<prefix>-0001", "<prefix>-0002", and so on. Unlike
// store.UUIDv7Generator the sequence can be reset so the same scenario
// reproduces the same ids.
//
// Thread-safety: all methods are safe for concurrent use.
type FixedRunIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewFixedRunIDGenerator creates a generator. An empty prefix becomes "test-run".
func NewFixedRunIDGenerator(prefix string) *FixedRunIDGenerator {
	if prefix == "" {
		prefix = "test-run"
	}
	return &FixedRunIDGenerator{prefix: prefix}
}

// Generate returns the next id.
func (g *FixedRunIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}

// Reset restarts the sequence at 1.
func (g *FixedRunIDGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
