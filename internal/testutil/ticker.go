// Package testutil provides deterministic test doubles for reelkit's
// time-driven components.
package testutil

import (
	"sync"
	"time"
)

// ManualTicker is a frame source whose frames are driven explicitly by the
// test instead of by wall-clock time. It implements playback.Ticker.
//
// Unlike a real ticker, frame delivery is synchronous: Step blocks until
// the loop has received the frame, so a test can assert on timeline state
// immediately after stepping.
//
// Thread-safety: all methods are safe for concurrent use.
type ManualTicker struct {
	mu      sync.Mutex
	ch      chan time.Time
	now     time.Time
	stopped bool
}

// NewManualTicker creates a ticker whose clock starts at an arbitrary
// fixed instant.
func NewManualTicker() *ManualTicker {
	return &ManualTicker{
		ch: make(chan time.Time),
		// Fixed epoch so frame instants are reproducible across runs.
		now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Frames returns the frame channel.
func (m *ManualTicker) Frames() <-chan time.Time { return m.ch }

// Stop closes the frame channel. Subsequent Step calls are no-ops.
func (m *ManualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.stopped {
		m.stopped = true
		close(m.ch)
	}
}

// Step advances the synthetic clock by d and delivers one frame carrying
// the new instant. Blocks until the consumer receives the frame. The first
// Step after construction only establishes the loop's reference instant
// (the loop measures deltas between consecutive frames), so tests
// typically call Prime first.
func (m *ManualTicker) Step(d time.Duration) {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.now = m.now.Add(d)
	now := m.now
	m.mu.Unlock()

	m.ch <- now
}

// Prime delivers a zero-advance frame establishing the reference instant.
func (m *ManualTicker) Prime() {
	m.Step(0)
}
