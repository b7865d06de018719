// Package gesture models pointer drags against the timeline as scoped
// operations: acquired on pointer-down, released exactly once on pointer-up
// or cancellation.
//
// The alternative - registering ad hoc global move/up listener pairs and
// hoping every code path unregisters them - is how drag state leaks. Here a
// Controller admits at most one gesture at a time, and a gesture's End and
// Cancel both release the controller unconditionally, so the next drag can
// always start regardless of how the previous one finished. A pointer
// leaving the window maps to Cancel.
//
// Gestures commit through the timeline's own operations on every Update, so
// the UI re-renders live during the drag. End keeps the last committed
// value; Cancel rolls the scene layout back to the pre-gesture state.
package gesture

import (
	"errors"
	"sync"

	"reelkit/internal/timeline"
)

var (
	// ErrGestureActive is returned by Begin* while another gesture holds
	// the controller.
	ErrGestureActive = errors.New("another gesture is in progress")

	// ErrUnknownScene is returned by Begin* when the clip to drag does not
	// exist (e.g. deleted between pointer-down hit-testing and Begin).
	ErrUnknownScene = errors.New("unknown scene")
)

// Controller serializes drag gestures: at most one may be active.
// One controller per editor session.
//
// Thread-safety: safe for concurrent use via internal mutex.
type Controller struct {
	mu     sync.Mutex
	active bool
}

// NewController creates an idle controller.
func NewController() *Controller {
	return &Controller{}
}

func (c *Controller) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active {
		return ErrGestureActive
	}
	c.active = true
	return nil
}

func (c *Controller) release() {
	c.mu.Lock()
	c.active = false
	c.mu.Unlock()
}

// gestureState carries the shared acquire/release/rollback mechanics.
type gestureState struct {
	ctrl *Controller
	tl   *timeline.Timeline

	mu   sync.Mutex
	done bool

	// Pre-gesture state for Cancel. Restore resets the transport, so the
	// playhead and playing flag are reapplied separately.
	undo    timeline.Snapshot
	at      float64
	playing bool
}

func begin(c *Controller, tl *timeline.Timeline, id string) (*gestureState, error) {
	if _, ok := tl.Scene(id); !ok {
		return nil, ErrUnknownScene
	}
	if err := c.acquire(); err != nil {
		return nil, err
	}
	return &gestureState{
		ctrl:    c,
		tl:      tl,
		undo:    tl.Snapshot(),
		at:      tl.CurrentTime(),
		playing: tl.Playing(),
	}, nil
}

// finish releases the controller exactly once. Returns false on repeated
// calls so End after Cancel (or vice versa) stays a no-op.
func (g *gestureState) finish() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.done {
		return false
	}
	g.done = true
	g.ctrl.release()
	return true
}

// rollback restores the pre-gesture scene layout and transport state.
func (g *gestureState) rollback() {
	g.tl.Restore(g.undo)
	g.tl.SetTime(g.at)
	if g.playing {
		g.tl.Play()
	}
}

// TrimGesture drags one edge of a clip. Each Update converts the pointer's
// pixel position to a time at the current zoom and trims the clip to it.
type TrimGesture struct {
	state *gestureState
	id    string
	edge  timeline.TrimEdge
}

// BeginTrim starts a trim drag on the identified clip edge.
func (c *Controller) BeginTrim(tl *timeline.Timeline, id string, edge timeline.TrimEdge) (*TrimGesture, error) {
	if edge != timeline.TrimStart && edge != timeline.TrimEnd {
		return nil, errors.New("invalid trim edge")
	}
	st, err := begin(c, tl, id)
	if err != nil {
		return nil, err
	}
	return &TrimGesture{state: st, id: id, edge: edge}, nil
}

// Update commits the edge position for the pointer's current pixel offset.
// No-op after End or Cancel.
func (g *TrimGesture) Update(px float64) bool {
	g.state.mu.Lock()
	done := g.state.done
	g.state.mu.Unlock()
	if done {
		return false
	}
	return g.state.tl.TrimScene(g.id, g.edge, g.state.tl.PixelToTime(px))
}

// End releases the gesture, keeping the last committed trim.
func (g *TrimGesture) End() { g.state.finish() }

// Cancel releases the gesture and restores the pre-drag layout.
func (g *TrimGesture) Cancel() {
	if g.state.finish() {
		g.state.rollback()
	}
}

// MoveGesture drags a whole clip to a new list position. The target index
// is derived from the pointer position: the clip lands after every other
// clip whose midpoint lies left of the pointer.
type MoveGesture struct {
	state *gestureState
	id    string
}

// BeginMove starts a reorder drag on the identified clip.
func (c *Controller) BeginMove(tl *timeline.Timeline, id string) (*MoveGesture, error) {
	st, err := begin(c, tl, id)
	if err != nil {
		return nil, err
	}
	return &MoveGesture{state: st, id: id}, nil
}

// Update commits the list position for the pointer's current pixel offset.
// No-op after End or Cancel.
func (g *MoveGesture) Update(px float64) bool {
	g.state.mu.Lock()
	done := g.state.done
	g.state.mu.Unlock()
	if done {
		return false
	}

	at := g.state.tl.PixelToTime(px)
	idx := 0
	for _, sc := range g.state.tl.Scenes() {
		if sc.ID == g.id {
			continue
		}
		if sc.Start()+sc.Duration/2 < at {
			idx++
		}
	}
	return g.state.tl.MoveScene(g.id, idx)
}

// End releases the gesture, keeping the last committed position.
func (g *MoveGesture) End() { g.state.finish() }

// Cancel releases the gesture and restores the pre-drag order.
func (g *MoveGesture) Cancel() {
	if g.state.finish() {
		g.state.rollback()
	}
}
