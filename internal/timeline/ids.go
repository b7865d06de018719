package timeline

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces unique clip identifiers.
// Implemented by UUIDGenerator (production), and by SequenceGenerator and
// FixedGenerator for deterministic tests and scripts.
type IDGenerator interface {
	Generate() string
}

// UUIDGenerator generates time-sortable UUIDv7 clip IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, so clip IDs sort
// by creation time - convenient when debugging a project database.
//
// Thread-safety: UUIDGenerator is stateless and safe for concurrent use.
type UUIDGenerator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDGenerator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator produces "prefix-1", "prefix-2", ... in order.
//
// Used by the edit-script harness so clip IDs are deterministic and golden
// files stay stable across runs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator with the given prefix.
// The first Generate() returns "<prefix>-1".
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next ID in the sequence.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// FixedGenerator returns predetermined IDs for testing.
//
// Tests provide a known sequence and can then assert on exact clip IDs.
// Panics when all IDs are consumed - a fail-fast guard against a test
// creating more clips than it declared.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined ID.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all IDs exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
