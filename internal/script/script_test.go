package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reelkit/internal/timeline"
)

func TestParse_Valid(t *testing.T) {
	s, err := Parse([]byte(`
name: demo
setup:
  - name: A
    duration: 2
steps:
  - op: add
    name: B
    duration: 1
`))

	require.NoError(t, err)
	assert.Equal(t, "demo", s.Name)
	require.Len(t, s.Setup, 1)
	require.Len(t, s.Steps, 1)
}

func TestParse_Invalid(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", "steps: []"},
		{"unnamed setup scene", "name: x\nsetup:\n  - duration: 1\n"},
		{"duplicate setup names", "name: x\nsetup:\n  - {name: A, duration: 1}\n  - {name: A, duration: 2}\n"},
		{"step without op", "name: x\nsteps:\n  - scene: A\n"},
		{"malformed yaml", "name: [unclosed"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestApply_UnknownSceneFailsLoudly(t *testing.T) {
	s, err := Parse([]byte(`
name: x
steps:
  - op: delete
    scene: ghost
`))
	require.NoError(t, err)

	err = Apply(NewTimeline(), s)
	assert.ErrorContains(t, err, `no scene named "ghost"`)
}

func TestApply_UnknownOp(t *testing.T) {
	s, err := Parse([]byte(`
name: x
steps:
  - op: explode
`))
	require.NoError(t, err)

	err = Apply(NewTimeline(), s)
	assert.ErrorContains(t, err, `unknown op "explode"`)
}

func TestResolve_Occurrences(t *testing.T) {
	tl := NewTimeline()
	tl.AddScene(timeline.SceneInput{Name: "A", Duration: 2})
	tl.AddScene(timeline.SceneInput{Name: "B", Duration: 1})
	// Splitting A yields two scenes named A.
	_, ok := tl.SplitScene(tl.Scenes()[0].ID, 1)
	require.True(t, ok)

	id, err := resolve(tl, "A")
	require.NoError(t, err)
	assert.Equal(t, "scene-1", id, "bare name resolves to the leftmost")

	id, err = resolve(tl, "A#2")
	require.NoError(t, err)
	assert.Equal(t, "scene-3", id, "the split's right half is the second occurrence")

	_, err = resolve(tl, "A#3")
	assert.ErrorContains(t, err, "2 occurrence(s)")

	_, err = resolve(tl, "")
	assert.Error(t, err)
}

func TestRun_AssertionFailureIncludesLayout(t *testing.T) {
	s, err := Parse([]byte(`
name: failing
setup:
  - name: A
    duration: 2
assertions:
  - type: scene_count
    count: 5
`))
	require.NoError(t, err)

	_, err = Run(s)

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "scene_count", ae.Type)
	assert.Contains(t, ae.Error(), "Final layout:")
	assert.Contains(t, ae.Error(), `scene-1 "A"`)
}

func TestCheck_UnknownAssertionType(t *testing.T) {
	s := &Script{Name: "x", Assertions: []Assertion{{Type: "mystery"}}}

	err := Check(NewTimeline(), s)

	assert.ErrorContains(t, err, `unknown assertion type "mystery"`)
}

func TestRender_Shape(t *testing.T) {
	tl := NewTimeline()
	tl.AddScene(timeline.SceneInput{Name: "A", Duration: 2})
	tl.SetAudio(&timeline.AudioClip{Duration: 3, Src: "bed.mp3"})

	out := Render(tl)

	assert.Contains(t, out, "zoom: 100 px/s\n")
	assert.Contains(t, out, `[0] scene-1 "A" start=0.000 duration=2.000 end=2.000`)
	assert.Contains(t, out, `audio scene-2 "bed.mp3" start=0.000 duration=3.000 muted=false`)
	assert.Contains(t, out, "total: 3.000s\n")
}
