package timeline

import (
	"log/slog"
	"sync"
)

// Timeline is the stateful composition engine for one editor session.
//
// It holds the ordered scene list, the optional audio clip, the zoom level
// and the playback clock state, and exposes every mutation and query the UI
// and playback layers need. Construct one per open project with New; there
// is deliberately no package-level instance, so multiple sessions (and
// tests) never interfere.
//
// INVARIANTS (hold after every mutation):
//  1. scenes[i].start == sum(scenes[0..i-1].Duration) for all i.
//  2. scenes[i].Duration >= MinSceneDuration for all i.
//  3. 0 <= currentTime <= Duration().
//  4. MinZoom <= zoom <= MaxZoom.
//  5. Scene IDs are unique across the list.
type Timeline struct {
	mu sync.Mutex

	scenes      []SceneClip
	audio       *AudioClip
	zoom        float64
	currentTime float64
	playing     bool
	fps         int

	ids IDGenerator
}

// Option configures a Timeline at construction time.
type Option func(*Timeline)

// WithIDGenerator overrides the clip ID generator.
// Production code uses the UUIDv7 default; tests and the edit-script
// harness install deterministic generators.
func WithIDGenerator(g IDGenerator) Option {
	return func(t *Timeline) { t.ids = g }
}

// WithFPS sets the informational frame rate.
func WithFPS(fps int) Option {
	return func(t *Timeline) {
		if fps > 0 {
			t.fps = fps
		}
	}
}

// New creates an empty timeline: no scenes, no audio, default zoom, time
// zero, paused.
func New(opts ...Option) *Timeline {
	t := &Timeline{
		zoom: DefaultZoom,
		fps:  DefaultFPS,
		ids:  UUIDGenerator{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ---- queries ----

// Scenes returns a copy of the normalized scene list.
func (t *Timeline) Scenes() []SceneClip {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]SceneClip, len(t.scenes))
	copy(out, t.scenes)
	return out
}

// SceneCount returns the number of scenes.
func (t *Timeline) SceneCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.scenes)
}

// Scene returns the clip with the given ID.
func (t *Timeline) Scene(id string) (SceneClip, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i := t.indexOf(id); i >= 0 {
		return t.scenes[i], true
	}
	return SceneClip{}, false
}

// Audio returns a copy of the audio clip, or nil if the track is empty.
func (t *Timeline) Audio() *AudioClip {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.audio == nil {
		return nil
	}
	a := *t.audio
	return &a
}

// Duration returns the total timeline duration: the later of the last
// scene's end and the audio clip's end.
func (t *Timeline) Duration() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.duration()
}

// CurrentTime returns the playhead position in seconds.
func (t *Timeline) CurrentTime() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentTime
}

// Playing reports whether the playback clock is running.
func (t *Timeline) Playing() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.playing
}

// Zoom returns the current pixels-per-second scale factor.
func (t *Timeline) Zoom() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.zoom
}

// FPS returns the informational frame rate.
func (t *Timeline) FPS() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fps
}

// ActiveSceneAt returns the scene under time t: the first scene whose
// [start, end) interval contains t. Out-of-range times clamp to the
// nearest scene: negative t yields the first scene, t past the end the
// last. The renderer collaborator uses this to pick which content to
// draw for the current frame.
//
// Returns false only when the timeline has no scenes.
func (t *Timeline) ActiveSceneAt(at float64) (SceneClip, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.scenes) == 0 {
		return SceneClip{}, false
	}
	if at < 0 {
		return t.scenes[0], true
	}
	for _, sc := range t.scenes {
		if sc.Contains(at) {
			return sc, true
		}
	}
	return t.scenes[len(t.scenes)-1], true
}

// Snapshot returns the plain-data projection used by the persistence
// collaborator: scenes, audio, zoom and fps. Scene starts are derived and
// travel implicitly via list order.
func (t *Timeline) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := Snapshot{
		Scenes: make([]SceneClip, len(t.scenes)),
		Zoom:   t.zoom,
		FPS:    t.fps,
	}
	copy(snap.Scenes, t.scenes)
	if t.audio != nil {
		a := *t.audio
		snap.Audio = &a
	}
	return snap
}

// Restore replaces the timeline contents from a snapshot, re-normalizing
// the scene list to reestablish invariants. Zoom is clamped, names are
// canonicalized, the playhead resets to zero and playback is paused.
func (t *Timeline) Restore(snap Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()
	scenes := make([]SceneClip, len(snap.Scenes))
	copy(scenes, snap.Scenes)
	for i := range scenes {
		scenes[i].Name = canonicalName(scenes[i].Name)
	}
	t.scenes = Normalize(scenes)
	t.audio = nil
	if snap.Audio != nil {
		a := *snap.Audio
		t.audio = &a
	}
	t.zoom = clamp(snap.Zoom, MinZoom, MaxZoom)
	if snap.FPS > 0 {
		t.fps = snap.FPS
	}
	t.currentTime = 0
	t.playing = false
}

// ---- playback state ----

// SetTime moves the playhead, clamped to [0, Duration()].
func (t *Timeline) SetTime(at float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentTime = clamp(at, 0, t.duration())
	return t.currentTime
}

// Seek moves the playhead by a signed offset, clamped to [0, Duration()].
func (t *Timeline) Seek(by float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.currentTime = clamp(t.currentTime+by, 0, t.duration())
	return t.currentTime
}

// Play starts the playback clock. Starting at the very end rewinds to
// zero first, matching the transport behavior users expect from an NLE.
func (t *Timeline) Play() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.currentTime >= t.duration() {
		t.currentTime = 0
	}
	t.playing = true
}

// Pause stops the playback clock.
func (t *Timeline) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.playing = false
}

// TogglePlay flips the playback state and returns the new value.
func (t *Timeline) TogglePlay() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.playing {
		t.playing = false
	} else {
		if t.currentTime >= t.duration() {
			t.currentTime = 0
		}
		t.playing = true
	}
	return t.playing
}

// Advance moves the playhead forward by delta seconds if the clock is
// running, clamped to the total duration. Reaching the end pauses the
// clock. Called once per frame by the playback loop.
//
// Returns the new playhead position and whether the clock is still running.
func (t *Timeline) Advance(delta float64) (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.playing || delta <= 0 {
		return t.currentTime, t.playing
	}
	total := t.duration()
	t.currentTime += delta
	if t.currentTime >= total {
		t.currentTime = total
		t.playing = false
		slog.Debug("playback reached end", "time", t.currentTime)
	}
	return t.currentTime, t.playing
}

// SetZoom sets the pixels-per-second scale, clamped to [MinZoom, MaxZoom],
// and returns the applied value.
func (t *Timeline) SetZoom(z float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.zoom = clamp(z, MinZoom, MaxZoom)
	return t.zoom
}

// ZoomIn multiplies the zoom by ZoomStep, clamped to MaxZoom.
func (t *Timeline) ZoomIn() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.zoom = clamp(t.zoom*ZoomStep, MinZoom, MaxZoom)
	return t.zoom
}

// ZoomOut divides the zoom by ZoomStep, clamped to MinZoom.
func (t *Timeline) ZoomOut() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.zoom = clamp(t.zoom/ZoomStep, MinZoom, MaxZoom)
	return t.zoom
}

// ---- scene mutations ----

// AddScene appends a new scene built from in (zero-value fields fall back
// to defaults: name "Scene", duration 3s) and returns the created clip as
// it appears after normalization.
func (t *Timeline) AddScene(in SceneInput) SceneClip {
	t.mu.Lock()
	defer t.mu.Unlock()

	sc := SceneClip{
		ID:           t.ids.Generate(),
		Duration:     in.Duration,
		Name:         canonicalName(in.Name),
		Thumb:        in.Thumb,
		TemplatePath: in.TemplatePath,
	}
	if sc.Duration <= 0 {
		sc.Duration = DefaultSceneDuration
	}
	if sc.Name == "" {
		sc.Name = DefaultSceneName
	}

	t.install(append(t.copyScenes(), sc))
	slog.Debug("scene added", "id", sc.ID, "duration", sc.Duration)
	return t.scenes[len(t.scenes)-1]
}

// DuplicateScene inserts a copy of the identified scene (fresh ID, same
// duration and metadata) immediately after the original. Returns the copy
// and true, or false if the ID is unknown (no-op).
func (t *Timeline) DuplicateScene(id string) (SceneClip, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return SceneClip{}, false
	}

	dup := t.scenes[i]
	dup.ID = t.ids.Generate()

	candidate := t.copyScenes()
	candidate = append(candidate[:i+1], append([]SceneClip{dup}, candidate[i+1:]...)...)
	t.install(candidate)
	slog.Debug("scene duplicated", "source", id, "copy", dup.ID)
	return t.scenes[i+1], true
}

// MoveScene removes the identified scene and reinserts it at newIndex
// (clamped to the list bounds). This is the reordering primitive behind
// drag-to-reorder. Returns false if the ID is unknown (no-op).
func (t *Timeline) MoveScene(id string, newIndex int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return false
	}

	candidate := t.copyScenes()
	sc := candidate[i]
	candidate = append(candidate[:i], candidate[i+1:]...)
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(candidate) {
		newIndex = len(candidate)
	}
	candidate = append(candidate[:newIndex], append([]SceneClip{sc}, candidate[newIndex:]...)...)
	t.install(candidate)
	slog.Debug("scene moved", "id", id, "index", newIndex)
	return true
}

// TrimScene drags one edge of the identified scene to the absolute time
// toTime, adjusting only that clip's duration (normalization then shifts
// every successor). The duration never drops below MinSceneDuration.
//
//   - TrimEnd: the clip's length becomes toTime - start.
//   - TrimStart: the clip shortens from the left by toTime - start. The
//     content offset within the source media is not modeled, so a start
//     trim only shrinks the clip; earlier clips are unaffected.
//
// Returns false if the ID is unknown (no-op).
func (t *Timeline) TrimScene(id string, edge TrimEdge, toTime float64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return false
	}

	candidate := t.copyScenes()
	sc := &candidate[i]
	switch edge {
	case TrimEnd:
		sc.Duration = toTime - sc.start
	case TrimStart:
		sc.Duration = sc.Duration - (toTime - sc.start)
	default:
		return false
	}
	if sc.Duration < MinSceneDuration {
		sc.Duration = MinSceneDuration
	}
	t.install(candidate)
	return true
}

// SplitScene divides the identified scene into two adjacent clips at the
// absolute time atTime. The left half keeps the original ID; the right
// half gets a fresh ID and the same metadata. The split offset is clamped
// to [MinSceneDuration, duration-MinSceneDuration], so a clip at or below
// twice the floor yields a degenerate but valid split (both halves at the
// floor) rather than failing.
//
// Returns the right half and true, or false if the ID is unknown (no-op).
func (t *Timeline) SplitScene(id string, atTime float64) (SceneClip, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return SceneClip{}, false
	}

	orig := t.scenes[i]
	offset := atTime - orig.start
	if offset > orig.Duration-MinSceneDuration {
		offset = orig.Duration - MinSceneDuration
	}
	if offset < MinSceneDuration {
		offset = MinSceneDuration
	}

	left := orig
	left.Duration = offset
	right := orig
	right.ID = t.ids.Generate()
	right.Duration = orig.Duration - offset

	candidate := t.copyScenes()
	candidate = append(candidate[:i], append([]SceneClip{left, right}, candidate[i+1:]...)...)
	t.install(candidate)
	slog.Debug("scene split", "id", id, "right", right.ID, "offset", offset)
	return t.scenes[i+1], true
}

// DeleteScene removes the identified scene. Returns false if the ID is
// unknown (no-op, not an error).
func (t *Timeline) DeleteScene(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return false
	}
	candidate := t.copyScenes()
	candidate = append(candidate[:i], candidate[i+1:]...)
	t.install(candidate)
	slog.Debug("scene deleted", "id", id)
	return true
}

// SetAudio replaces the audio track wholesale. Passing nil clears it.
// The audio track is independent of the scene list, so no normalization
// runs, but the playhead is re-clamped in case the total duration shrank.
func (t *Timeline) SetAudio(a *AudioClip) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if a == nil {
		t.audio = nil
	} else {
		clip := *a
		if clip.Start < 0 {
			clip.Start = 0
		}
		if clip.ID == "" {
			clip.ID = t.ids.Generate()
		}
		t.audio = &clip
	}
	t.currentTime = clamp(t.currentTime, 0, t.duration())
}

// ---- internals (callers hold t.mu) ----

// duration is the lock-held form of Duration.
func (t *Timeline) duration() float64 {
	var total float64
	if n := len(t.scenes); n > 0 {
		total = t.scenes[n-1].End()
	}
	if t.audio != nil && t.audio.End() > total {
		total = t.audio.End()
	}
	return total
}

func (t *Timeline) indexOf(id string) int {
	for i, sc := range t.scenes {
		if sc.ID == id {
			return i
		}
	}
	return -1
}

func (t *Timeline) copyScenes() []SceneClip {
	out := make([]SceneClip, len(t.scenes))
	copy(out, t.scenes)
	return out
}

// install normalizes a candidate scene list, swaps it in, and re-clamps
// the playhead so invariant 3 survives mutations that shrink the total
// duration.
func (t *Timeline) install(candidate []SceneClip) {
	t.scenes = Normalize(candidate)
	t.currentTime = clamp(t.currentTime, 0, t.duration())
}
