package ident

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// RunIDGenerator issues monotonic ULIDs used to correlate the log lines and
// report of a single migration run.
type RunIDGenerator struct {
	mu      sync.Mutex
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

func NewRunIDGenerator() *RunIDGenerator {
	return NewRunIDGeneratorWithClock(time.Now)
}

func NewRunIDGeneratorWithClock(now func() time.Time) *RunIDGenerator {
	return &RunIDGenerator{now: now, entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *RunIDGenerator) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(g.now().UTC()), g.entropy)
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return id.String(), nil
}
