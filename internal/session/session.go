// Package session ties one open project together: the timeline store, the
// playback loop, the gesture controller and the keyboard dispatch.
//
// A Session is an explicitly constructed instance owned by the editor for
// the lifetime of one open project - there is no package-level state, so
// concurrent sessions (and tests) never interfere.
package session

import (
	"context"
	"errors"
	"log/slog"

	"reelkit/internal/gesture"
	"reelkit/internal/playback"
	"reelkit/internal/timeline"
)

// Config parameterizes a session. Zero values select production defaults.
type Config struct {
	// FPS drives the playback frame ticker and the timeline's
	// informational frame rate.
	FPS int

	// IDs overrides the clip ID generator (tests, scripts).
	IDs timeline.IDGenerator

	// Keymap overrides the default keyboard bindings.
	Keymap Keymap

	// Ticker overrides the frame source (tests). When nil, a wall-clock
	// ticker at FPS is used.
	Ticker playback.Ticker
}

// Session owns the engine state for one open project.
type Session struct {
	tl       *timeline.Timeline
	loop     *playback.Loop
	gestures *gesture.Controller
	keymap   Keymap

	cancel context.CancelFunc
	done   chan error
}

// New assembles a session. Call Start to begin frame processing and Close
// to tear the session down.
func New(cfg Config) *Session {
	var opts []timeline.Option
	if cfg.FPS > 0 {
		opts = append(opts, timeline.WithFPS(cfg.FPS))
	}
	if cfg.IDs != nil {
		opts = append(opts, timeline.WithIDGenerator(cfg.IDs))
	}
	tl := timeline.New(opts...)

	ticker := cfg.Ticker
	if ticker == nil {
		ticker = playback.NewFrameTicker(tl.FPS())
	}

	keymap := cfg.Keymap
	if keymap == nil {
		keymap = DefaultKeymap()
	}

	return &Session{
		tl:       tl,
		loop:     playback.NewLoop(tl, ticker),
		gestures: gesture.NewController(),
		keymap:   keymap,
	}
}

// Timeline returns the session's timeline store.
func (s *Session) Timeline() *timeline.Timeline { return s.tl }

// Gestures returns the session's drag-gesture controller.
func (s *Session) Gestures() *gesture.Controller { return s.gestures }

// Start launches the playback loop. Idempotent-hostile by design: a
// session starts at most once; restart means a new session.
func (s *Session) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan error, 1)
	go func() {
		s.done <- s.loop.Run(ctx)
	}()
	slog.Debug("session started")
}

// Close stops the playback loop and waits for it to exit. Safe to call
// without a prior Start, and safe to call twice.
func (s *Session) Close() error {
	if s.cancel == nil {
		return nil
	}
	s.cancel()
	err := <-s.done
	s.cancel = nil
	slog.Debug("session closed")
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// HandleKey dispatches a keyboard event through the session's keymap.
// Returns true if the event was bound and the resulting operation took
// effect (an unbound chord, or a split with no scene under the playhead,
// returns false).
func (s *Session) HandleKey(ev KeyEvent) bool {
	action, ok := s.keymap.lookup(ev)
	if !ok {
		return false
	}

	switch action {
	case ActionTogglePlay:
		s.tl.TogglePlay()
	case ActionZoomIn:
		s.tl.ZoomIn()
	case ActionZoomOut:
		s.tl.ZoomOut()
	case ActionSeekForward:
		s.tl.Seek(seekStep)
	case ActionSeekBack:
		s.tl.Seek(-seekStep)
	case ActionSeekForwardFast:
		s.tl.Seek(seekStepCoarse)
	case ActionSeekBackFast:
		s.tl.Seek(-seekStepCoarse)
	case ActionSplitAtPlayhead:
		at := s.tl.CurrentTime()
		sc, ok := s.tl.ActiveSceneAt(at)
		if !ok {
			return false
		}
		_, ok = s.tl.SplitScene(sc.ID, at)
		return ok
	default:
		slog.Warn("keymap bound to unknown action", "action", action)
		return false
	}
	return true
}
