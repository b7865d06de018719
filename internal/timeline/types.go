package timeline

import "golang.org/x/text/unicode/norm"

// Model constants. Durations and times are in seconds, zoom is in pixels
// per second.
const (
	// MinSceneDuration is the floor every scene duration is clamped to.
	// Trim, split and normalization can never produce a shorter clip.
	MinSceneDuration = 0.5

	// DefaultSceneDuration is the duration of a freshly inserted scene.
	DefaultSceneDuration = 3.0

	// DefaultSceneName is the display name of a freshly inserted scene.
	DefaultSceneName = "Scene"

	// MinZoom and MaxZoom bound the pixels-per-second scale factor.
	MinZoom = 25.0
	MaxZoom = 400.0

	// ZoomStep is the factor applied by a single zoom-in keystroke
	// (zoom-out divides by it).
	ZoomStep = 1.25

	// DefaultZoom is the initial scale factor of a new timeline.
	DefaultZoom = 100.0

	// DefaultFPS is the informational frame rate of a new timeline. It
	// drives the playback frame ticker but does not quantize time.
	DefaultFPS = 30
)

// SceneClip is a time-boxed unit of visual content. Its position on the
// time axis is fully determined by list order: the start offset is derived
// by Normalize as the sum of preceding durations and is deliberately not an
// exported field, so an un-normalized clip with a stale start cannot be
// constructed outside this package.
type SceneClip struct {
	// ID is an opaque unique identifier, immutable for the clip's lifetime.
	ID string

	// Duration is the clip length in seconds, always >= MinSceneDuration
	// after normalization.
	Duration float64

	// Display/reference metadata, opaque to the engine. Owned by external
	// collaborators (thumbnail service, template catalog).
	Name         string
	Thumb        string
	TemplatePath string

	start float64
}

// Start returns the clip's offset from the timeline origin in seconds.
// The value is derived by Normalize; it is only meaningful on clips read
// back from a Timeline.
func (c SceneClip) Start() float64 { return c.start }

// End returns Start() + Duration.
func (c SceneClip) End() float64 { return c.start + c.Duration }

// Contains reports whether t falls within [Start, End).
func (c SceneClip) Contains(t float64) bool {
	return t >= c.start && t < c.End()
}

// SceneInput carries the caller-settable fields for a new scene. There is
// no start field: placement is determined by list order alone.
type SceneInput struct {
	Name         string
	Duration     float64
	Thumb        string
	TemplatePath string
}

// AudioClip is the single optional audio track. Unlike scenes, its start
// is explicit and it is not subject to the contiguity invariant.
type AudioClip struct {
	ID       string
	Start    float64
	Duration float64
	Src      string
	Muted    bool
}

// End returns Start + Duration.
func (a AudioClip) End() float64 { return a.Start + a.Duration }

// TrimEdge selects which boundary of a clip a trim operation adjusts.
type TrimEdge int

const (
	// TrimStart adjusts the left boundary: the clip shrinks or grows from
	// the left while its content stays anchored to the right edge.
	TrimStart TrimEdge = iota + 1
	// TrimEnd adjusts the right boundary, setting the clip length directly.
	TrimEnd
)

// String returns "start" or "end". Unknown values render as "invalid".
func (e TrimEdge) String() string {
	switch e {
	case TrimStart:
		return "start"
	case TrimEnd:
		return "end"
	default:
		return "invalid"
	}
}

// Snapshot is the plain-data projection of a timeline used by the
// persistence collaborator. Scene starts are derived, so they are not part
// of the snapshot; Restore re-normalizes on the way back in.
type Snapshot struct {
	Scenes []SceneClip
	Audio  *AudioClip
	Zoom   float64
	FPS    int
}

// canonicalName returns the NFC-normalized form of a user-entered clip
// name. User input arrives in whatever normalization form the platform's
// IME produced; storing NFC keeps names stable under comparison and
// round-trips through persistence.
func canonicalName(name string) string {
	return norm.NFC.String(name)
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
