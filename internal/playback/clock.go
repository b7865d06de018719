// Package playback drives the timeline's playhead from a frame source.
//
// The loop is the render-loop analog of a browser's requestAnimationFrame:
// it wakes once per frame, measures the wall-clock delta since the previous
// frame, and advances the timeline by that delta while the transport is
// playing. The loop stays alive while paused - waking per frame and doing
// nothing is cheap, and it means play/pause never has to start or stop a
// goroutine.
package playback

import (
	"context"
	"log/slog"
	"time"

	"reelkit/internal/timeline"
)

// Ticker is the frame source for a Loop.
// Implemented by FrameTicker (production) and testutil.ManualTicker (tests).
type Ticker interface {
	// Frames returns the channel on which frame instants are delivered.
	// The channel closing stops the loop.
	Frames() <-chan time.Time

	// Stop releases the frame source. After Stop no further frames are
	// delivered.
	Stop()
}

// FrameTicker delivers frames from a time.Ticker at a fixed rate.
type FrameTicker struct {
	t *time.Ticker
}

// NewFrameTicker creates a ticker firing fps times per second.
// fps values below 1 fall back to the timeline default.
func NewFrameTicker(fps int) *FrameTicker {
	if fps < 1 {
		fps = timeline.DefaultFPS
	}
	return &FrameTicker{t: time.NewTicker(time.Second / time.Duration(fps))}
}

// Frames returns the underlying ticker channel.
func (f *FrameTicker) Frames() <-chan time.Time { return f.t.C }

// Stop stops the underlying ticker.
func (f *FrameTicker) Stop() { f.t.Stop() }

// Loop advances a timeline's playback clock once per frame.
//
// Run must be called from exactly one goroutine per Loop. The timeline
// itself is mutex-guarded, so the loop coexists safely with UI mutations
// arriving on other goroutines.
type Loop struct {
	tl     *timeline.Timeline
	ticker Ticker
}

// NewLoop creates a playback loop for the given timeline and frame source.
func NewLoop(tl *timeline.Timeline, ticker Ticker) *Loop {
	return &Loop{tl: tl, ticker: ticker}
}

// Run processes frames until ctx is cancelled or the frame source closes.
//
// Per frame: read the elapsed wall-clock delta since the previous frame and,
// if the transport is playing, advance the playhead (clamped to the total
// duration; reaching the end pauses the transport - see Timeline.Advance).
// The first frame only establishes the reference instant.
//
// Returns ctx.Err() on cancellation, nil when the frame source closes.
func (l *Loop) Run(ctx context.Context) error {
	slog.Debug("playback loop starting")
	defer l.ticker.Stop()

	var prev time.Time
	for {
		select {
		case <-ctx.Done():
			slog.Debug("playback loop stopping: context cancelled")
			return ctx.Err()

		case now, ok := <-l.ticker.Frames():
			if !ok {
				slog.Debug("playback loop stopping: frame source closed")
				return nil
			}
			if prev.IsZero() {
				prev = now
				continue
			}
			delta := now.Sub(prev)
			prev = now
			if delta <= 0 {
				continue
			}
			l.tl.Advance(delta.Seconds())
		}
	}
}
