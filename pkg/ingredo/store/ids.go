package store

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// IDGenerator hands out monotonic ULIDs, so IDs generated by one process sort
// in creation order. Safe for concurrent use.
type IDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewIDGenerator creates a generator seeded from crypto/rand.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// New returns an ID for time t.
func (g *IDGenerator) New(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

// Prepare fills in a missing ID and creation time.
func (g *IDGenerator) Prepare(s Scan, now time.Time) Scan {
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now.UTC()
	}
	if s.ID == "" {
		s.ID = g.New(s.CreatedAt)
	}
	return s
}

// ValidID reports whether id parses as a ULID.
func ValidID(id string) bool {
	_, err := ulid.ParseStrict(id)
	return err == nil
}
