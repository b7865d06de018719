package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTimeline returns a timeline whose clip IDs are "clip-1", "clip-2", ...
func newTestTimeline() *Timeline {
	return New(WithIDGenerator(NewSequenceGenerator("clip")))
}

// assertContiguous verifies invariant 1: every start is the sum of the
// preceding durations.
func assertContiguous(t *testing.T, tl *Timeline) {
	t.Helper()
	var total float64
	for i, sc := range tl.Scenes() {
		assert.InDelta(t, total, sc.Start(), 1e-9, "scene %d start", i)
		assert.GreaterOrEqual(t, sc.Duration, MinSceneDuration, "scene %d duration floor", i)
		total += sc.Duration
	}
}

func TestTimeline_New_Defaults(t *testing.T) {
	tl := New()

	assert.Equal(t, 0, tl.SceneCount())
	assert.Nil(t, tl.Audio())
	assert.Equal(t, DefaultZoom, tl.Zoom())
	assert.Equal(t, DefaultFPS, tl.FPS())
	assert.Equal(t, 0.0, tl.CurrentTime())
	assert.False(t, tl.Playing())
}

func TestTimeline_AddScene_Defaults(t *testing.T) {
	tl := newTestTimeline()

	sc := tl.AddScene(SceneInput{})

	assert.Equal(t, "clip-1", sc.ID)
	assert.Equal(t, DefaultSceneName, sc.Name)
	assert.Equal(t, DefaultSceneDuration, sc.Duration)
	assert.Equal(t, 0.0, sc.Start())
}

func TestTimeline_AddScene_Appends(t *testing.T) {
	tl := newTestTimeline()

	tl.AddScene(SceneInput{Duration: 3})
	sc := tl.AddScene(SceneInput{Duration: 2, Name: "Outro"})

	assert.Equal(t, 3.0, sc.Start(), "new scene starts where the last one ends")
	assert.Equal(t, 5.0, tl.Duration())
	assertContiguous(t, tl)
}

func TestTimeline_AddScene_CanonicalizesName(t *testing.T) {
	tl := newTestTimeline()

	// "é" as 'e' + combining acute accent (NFD); stored form must be NFC.
	sc := tl.AddScene(SceneInput{Name: "Sce\u0301ne"})

	assert.Equal(t, "Sc\u00e9ne", sc.Name)
}

func TestTimeline_DuplicateScene(t *testing.T) {
	tl := newTestTimeline()
	a := tl.AddScene(SceneInput{Duration: 3, Name: "A", TemplatePath: "tpl/a"})
	tl.AddScene(SceneInput{Duration: 2, Name: "B"})

	dup, ok := tl.DuplicateScene(a.ID)

	require.True(t, ok)
	assert.NotEqual(t, a.ID, dup.ID, "copy gets a fresh ID")
	assert.Equal(t, a.Duration, dup.Duration)
	assert.Equal(t, "A", dup.Name)
	assert.Equal(t, "tpl/a", dup.TemplatePath)

	scenes := tl.Scenes()
	require.Len(t, scenes, 3)
	assert.Equal(t, dup.ID, scenes[1].ID, "copy sits immediately after the original")
	assert.Equal(t, 8.0, tl.Duration(), "total grows by the duplicated duration")
	assertContiguous(t, tl)
}

func TestTimeline_DuplicateScene_UnknownID(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})
	before := tl.Scenes()

	_, ok := tl.DuplicateScene("nope")

	assert.False(t, ok)
	assert.Equal(t, before, tl.Scenes(), "unknown ID is a no-op")
}

func TestTimeline_MoveScene(t *testing.T) {
	tl := newTestTimeline()
	a := tl.AddScene(SceneInput{Duration: 1, Name: "A"})
	tl.AddScene(SceneInput{Duration: 2, Name: "B"})
	tl.AddScene(SceneInput{Duration: 3, Name: "C"})

	require.True(t, tl.MoveScene(a.ID, 2))

	scenes := tl.Scenes()
	names := []string{scenes[0].Name, scenes[1].Name, scenes[2].Name}
	assert.Equal(t, []string{"B", "C", "A"}, names)
	assert.Equal(t, 5.0, scenes[2].Start(), "moved clip re-laid out after predecessors")
	assert.Equal(t, 6.0, tl.Duration(), "move preserves total duration")
	assertContiguous(t, tl)
}

func TestTimeline_MoveScene_ClampsIndex(t *testing.T) {
	tl := newTestTimeline()
	a := tl.AddScene(SceneInput{Duration: 1, Name: "A"})
	tl.AddScene(SceneInput{Duration: 2, Name: "B"})

	require.True(t, tl.MoveScene(a.ID, 99))
	assert.Equal(t, "A", tl.Scenes()[1].Name)

	require.True(t, tl.MoveScene(a.ID, -5))
	assert.Equal(t, "A", tl.Scenes()[0].Name)
	assertContiguous(t, tl)
}

func TestTimeline_MoveScene_PreservesIDSet(t *testing.T) {
	tl := newTestTimeline()
	for i := 0; i < 5; i++ {
		tl.AddScene(SceneInput{Duration: 1})
	}
	before := make(map[string]bool)
	for _, sc := range tl.Scenes() {
		before[sc.ID] = true
	}

	require.True(t, tl.MoveScene("clip-3", 0))

	after := make(map[string]bool)
	for _, sc := range tl.Scenes() {
		after[sc.ID] = true
	}
	assert.Equal(t, before, after)
	assert.Equal(t, 5, tl.SceneCount())
}

func TestTimeline_TrimScene_End(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})
	b := tl.AddScene(SceneInput{Duration: 2})

	// Drag b's right handle to t=4.0: duration becomes 4.0 - 3.0 = 1.0.
	require.True(t, tl.TrimScene(b.ID, TrimEnd, 4.0))

	got, _ := tl.Scene(b.ID)
	assert.InDelta(t, 1.0, got.Duration, 1e-9)
	assert.Equal(t, 4.0, tl.Duration())
	assertContiguous(t, tl)
}

func TestTimeline_TrimScene_Start(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})
	b := tl.AddScene(SceneInput{Duration: 2})

	// Drag b's left handle right by 0.5s: the clip shrinks from the left.
	require.True(t, tl.TrimScene(b.ID, TrimStart, 3.5))

	got, _ := tl.Scene(b.ID)
	assert.InDelta(t, 1.5, got.Duration, 1e-9)
	assert.Equal(t, 3.0, got.Start(), "start is still the predecessor sum")
	assertContiguous(t, tl)
}

func TestTimeline_TrimScene_FloorsAtMinDuration(t *testing.T) {
	tl := newTestTimeline()
	a := tl.AddScene(SceneInput{Duration: 3})

	// Dragging the right handle to (or past) the left edge floors the clip.
	require.True(t, tl.TrimScene(a.ID, TrimEnd, -10))

	got, _ := tl.Scene(a.ID)
	assert.Equal(t, MinSceneDuration, got.Duration)
}

func TestTimeline_TrimScene_UnknownIDOrEdge(t *testing.T) {
	tl := newTestTimeline()
	a := tl.AddScene(SceneInput{Duration: 3})

	assert.False(t, tl.TrimScene("nope", TrimEnd, 1))
	assert.False(t, tl.TrimScene(a.ID, TrimEdge(0), 1))

	got, _ := tl.Scene(a.ID)
	assert.Equal(t, 3.0, got.Duration, "failed trim leaves the clip untouched")
}

func TestTimeline_SplitScene(t *testing.T) {
	tl := newTestTimeline()
	a := tl.AddScene(SceneInput{Duration: 3, Name: "A", Thumb: "thumb/a"})

	right, ok := tl.SplitScene(a.ID, 1.2)

	require.True(t, ok)
	scenes := tl.Scenes()
	require.Len(t, scenes, 2)
	assert.Equal(t, a.ID, scenes[0].ID, "left half keeps the original ID")
	assert.Equal(t, right.ID, scenes[1].ID)
	assert.InDelta(t, 1.2, scenes[0].Duration, 1e-9)
	assert.InDelta(t, 1.8, scenes[1].Duration, 1e-9)
	assert.Equal(t, "A", right.Name, "metadata carries over")
	assert.Equal(t, "thumb/a", right.Thumb)
	assert.InDelta(t, 3.0, tl.Duration(), 1e-9, "split preserves total duration")
	assertContiguous(t, tl)
}

func TestTimeline_SplitScene_ClampsOffset(t *testing.T) {
	tl := newTestTimeline()
	a := tl.AddScene(SceneInput{Duration: 3})

	// Splitting past the right edge clamps to duration - MinSceneDuration.
	right, ok := tl.SplitScene(a.ID, 100)

	require.True(t, ok)
	scenes := tl.Scenes()
	assert.InDelta(t, 3.0-MinSceneDuration, scenes[0].Duration, 1e-9)
	assert.InDelta(t, MinSceneDuration, right.Duration, 1e-9)
}

func TestTimeline_SplitScene_DegenerateAtFloor(t *testing.T) {
	tl := newTestTimeline()
	a := tl.AddScene(SceneInput{Duration: MinSceneDuration})

	// A clip at the floor still splits - both halves end up at the floor
	// after normalization. There is no rejection path.
	_, ok := tl.SplitScene(a.ID, 0.1)

	require.True(t, ok)
	scenes := tl.Scenes()
	require.Len(t, scenes, 2)
	assert.Equal(t, MinSceneDuration, scenes[0].Duration)
	assert.Equal(t, MinSceneDuration, scenes[1].Duration)
	assertContiguous(t, tl)
}

func TestTimeline_DeleteScene(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})
	b := tl.AddScene(SceneInput{Duration: 2})
	tl.AddScene(SceneInput{Duration: 1})

	require.True(t, tl.DeleteScene(b.ID))

	assert.Equal(t, 2, tl.SceneCount())
	assert.Equal(t, 4.0, tl.Duration())
	assert.False(t, tl.DeleteScene(b.ID), "second delete of the same ID is a no-op")
	assertContiguous(t, tl)
}

func TestTimeline_DeleteScene_ReclampsPlayhead(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})
	b := tl.AddScene(SceneInput{Duration: 5})
	tl.SetTime(7)

	require.True(t, tl.DeleteScene(b.ID))

	assert.Equal(t, 3.0, tl.CurrentTime(), "playhead cannot outlive the deleted tail")
}

// TestTimeline_EditScenario walks the worked example: add, split, trim,
// delete, checking layout and total duration at each step.
func TestTimeline_EditScenario(t *testing.T) {
	tl := New(WithIDGenerator(NewFixedGenerator("a", "b", "c")))

	tl.AddScene(SceneInput{Duration: 3})
	tl.AddScene(SceneInput{Duration: 2})
	assert.Equal(t, 5.0, tl.Duration())

	_, ok := tl.SplitScene("a", 1.5)
	require.True(t, ok)
	scenes := tl.Scenes()
	require.Len(t, scenes, 3)
	assert.Equal(t, []string{"a", "c", "b"}, []string{scenes[0].ID, scenes[1].ID, scenes[2].ID})
	assert.InDelta(t, 1.5, scenes[0].Duration, 1e-9)
	assert.InDelta(t, 1.5, scenes[1].Duration, 1e-9)
	assert.Equal(t, 3.0, scenes[2].Start())
	assert.Equal(t, 5.0, tl.Duration(), "split leaves total unchanged")

	require.True(t, tl.TrimScene("b", TrimEnd, 4.0))
	got, _ := tl.Scene("b")
	assert.InDelta(t, 1.0, got.Duration, 1e-9)
	assert.Equal(t, 4.0, tl.Duration())

	require.True(t, tl.DeleteScene("c"))
	scenes = tl.Scenes()
	require.Len(t, scenes, 2)
	assert.Equal(t, 1.5, scenes[1].Start())
	assert.Equal(t, 2.5, tl.Duration())
	assertContiguous(t, tl)
}

func TestTimeline_SetTime_Clamps(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})

	assert.Equal(t, 0.0, tl.SetTime(-5))
	assert.Equal(t, 3.0, tl.SetTime(100), "seek past the end parks at the end")
	assert.Equal(t, 1.5, tl.SetTime(1.5))
}

func TestTimeline_Seek(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})
	tl.SetTime(1)

	assert.InDelta(t, 1.1, tl.Seek(0.1), 1e-9)
	assert.InDelta(t, 0.1, tl.Seek(-1), 1e-9)
	assert.Equal(t, 0.0, tl.Seek(-10))
	assert.Equal(t, 3.0, tl.Seek(50))
}

func TestTimeline_PlayPauseToggle(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})

	tl.Play()
	assert.True(t, tl.Playing())
	tl.Pause()
	assert.False(t, tl.Playing())
	assert.True(t, tl.TogglePlay())
	assert.False(t, tl.TogglePlay())
}

func TestTimeline_Play_RewindsFromEnd(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})
	tl.SetTime(3)

	tl.Play()

	assert.Equal(t, 0.0, tl.CurrentTime(), "play at the end restarts from zero")
	assert.True(t, tl.Playing())
}

func TestTimeline_Advance(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})

	// Paused: advance is a no-op.
	at, playing := tl.Advance(0.5)
	assert.Equal(t, 0.0, at)
	assert.False(t, playing)

	tl.Play()
	at, playing = tl.Advance(1.25)
	assert.InDelta(t, 1.25, at, 1e-9)
	assert.True(t, playing)

	// Reaching the end clamps and pauses.
	at, playing = tl.Advance(10)
	assert.Equal(t, 3.0, at)
	assert.False(t, playing)
	assert.False(t, tl.Playing())
}

func TestTimeline_SetZoom_Clamps(t *testing.T) {
	tl := newTestTimeline()

	assert.Equal(t, MinZoom, tl.SetZoom(1))
	assert.Equal(t, MaxZoom, tl.SetZoom(10000))
	assert.Equal(t, 200.0, tl.SetZoom(200))
}

func TestTimeline_ZoomInOut(t *testing.T) {
	tl := newTestTimeline()

	assert.Equal(t, DefaultZoom*ZoomStep, tl.ZoomIn())
	assert.InDelta(t, DefaultZoom, tl.ZoomOut(), 1e-9)

	tl.SetZoom(MaxZoom)
	assert.Equal(t, MaxZoom, tl.ZoomIn(), "zoom in saturates at the ceiling")
	tl.SetZoom(MinZoom)
	assert.Equal(t, MinZoom, tl.ZoomOut(), "zoom out saturates at the floor")
}

func TestTimeline_ActiveSceneAt(t *testing.T) {
	tl := New(WithIDGenerator(NewFixedGenerator("a", "b")))
	tl.AddScene(SceneInput{Duration: 3})
	tl.AddScene(SceneInput{Duration: 2})

	sc, ok := tl.ActiveSceneAt(0)
	require.True(t, ok)
	assert.Equal(t, "a", sc.ID)

	sc, _ = tl.ActiveSceneAt(2.999)
	assert.Equal(t, "a", sc.ID)

	sc, _ = tl.ActiveSceneAt(3)
	assert.Equal(t, "b", sc.ID, "boundary belongs to the following scene")

	sc, _ = tl.ActiveSceneAt(99)
	assert.Equal(t, "b", sc.ID, "past the end falls back to the last scene")

	sc, _ = tl.ActiveSceneAt(-1)
	assert.Equal(t, "a", sc.ID, "before the origin falls back to the first scene")
}

func TestTimeline_ActiveSceneAt_Empty(t *testing.T) {
	tl := newTestTimeline()

	_, ok := tl.ActiveSceneAt(0)

	assert.False(t, ok)
}

func TestTimeline_SetAudio(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})

	tl.SetAudio(&AudioClip{Start: 1, Duration: 6, Src: "track.mp3"})

	a := tl.Audio()
	require.NotNil(t, a)
	assert.NotEmpty(t, a.ID, "audio gets an ID when the caller omits one")
	assert.Equal(t, 7.0, tl.Duration(), "audio extends the total past the last scene")

	// Wholesale replace, then clear.
	tl.SetAudio(&AudioClip{ID: "au", Duration: 2, Src: "other.mp3", Muted: true})
	a = tl.Audio()
	assert.Equal(t, "au", a.ID)
	assert.True(t, a.Muted)
	assert.Equal(t, 3.0, tl.Duration())

	tl.SetAudio(nil)
	assert.Nil(t, tl.Audio())
}

func TestTimeline_SetAudio_ReclampsPlayhead(t *testing.T) {
	tl := newTestTimeline()
	tl.SetAudio(&AudioClip{ID: "au", Duration: 10, Src: "track.mp3"})
	tl.SetTime(8)

	tl.SetAudio(nil)

	assert.Equal(t, 0.0, tl.CurrentTime())
}

func TestTimeline_SnapshotRestore_RoundTrip(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3, Name: "Intro", TemplatePath: "tpl/intro"})
	tl.AddScene(SceneInput{Duration: 2, Name: "Outro"})
	tl.SetAudio(&AudioClip{ID: "au", Duration: 4, Src: "track.mp3"})
	tl.SetZoom(250)

	snap := tl.Snapshot()

	// Restore into a fresh timeline; layout and contents must match.
	other := New()
	other.Restore(snap)

	assert.Equal(t, tl.Scenes(), other.Scenes())
	assert.Equal(t, tl.Audio(), other.Audio())
	assert.Equal(t, 250.0, other.Zoom())
	assert.Equal(t, 0.0, other.CurrentTime())
	assert.False(t, other.Playing())
	assertContiguous(t, other)
}

func TestTimeline_Restore_Renormalizes(t *testing.T) {
	// A snapshot from an external source may carry sub-floor durations and
	// no starts at all; Restore must reestablish the invariants.
	snap := Snapshot{
		Scenes: []SceneClip{
			{ID: "a", Duration: 0.1, Name: "A"},
			{ID: "b", Duration: 2, Name: "B"},
		},
		Zoom: 9999,
	}

	tl := New()
	tl.Restore(snap)

	scenes := tl.Scenes()
	require.Len(t, scenes, 2)
	assert.Equal(t, MinSceneDuration, scenes[0].Duration)
	assert.Equal(t, MinSceneDuration, scenes[1].Start())
	assert.Equal(t, MaxZoom, tl.Zoom())
	assertContiguous(t, tl)
}

func TestTimeline_Snapshot_IsACopy(t *testing.T) {
	tl := newTestTimeline()
	tl.AddScene(SceneInput{Duration: 3})
	tl.SetAudio(&AudioClip{ID: "au", Duration: 2, Src: "x"})

	snap := tl.Snapshot()
	snap.Scenes[0].Duration = 99
	snap.Audio.Src = "mutated"

	assert.Equal(t, 3.0, tl.Scenes()[0].Duration)
	assert.Equal(t, "x", tl.Audio().Src)
}

func TestTimeline_UniqueIDs(t *testing.T) {
	tl := New()
	tl.AddScene(SceneInput{Duration: 1})
	tl.AddScene(SceneInput{Duration: 1})
	sc := tl.Scenes()[0]
	tl.DuplicateScene(sc.ID)
	tl.SplitScene(sc.ID, 0.5)

	seen := make(map[string]bool)
	for _, s := range tl.Scenes() {
		assert.False(t, seen[s.ID], "duplicate ID %s", s.ID)
		seen[s.ID] = true
	}
}
