package script

import (
	"fmt"
	"strconv"
	"strings"

	"reelkit/internal/timeline"
)

// NewTimeline creates the timeline a script runs against: deterministic
// "scene-N" IDs so renderings and golden files are reproducible.
func NewTimeline() *timeline.Timeline {
	return timeline.New(timeline.WithIDGenerator(timeline.NewSequenceGenerator("scene")))
}

// Run executes a script against a fresh timeline and checks its
// assertions. Returns the final timeline for rendering or further
// inspection; the error reports the first failed step or assertion.
func Run(s *Script) (*timeline.Timeline, error) {
	tl := NewTimeline()
	if err := Apply(tl, s); err != nil {
		return tl, err
	}
	if err := Check(tl, s); err != nil {
		return tl, err
	}
	return tl, nil
}

// Apply executes the script's setup and steps against tl without checking
// assertions. Scripts are authored artifacts, so unlike the engine's
// total operations, a reference to an unknown scene name or op fails
// loudly.
func Apply(tl *timeline.Timeline, s *Script) error {
	for _, sc := range s.Setup {
		tl.AddScene(timeline.SceneInput{
			Name:         sc.Name,
			Duration:     sc.Duration,
			Thumb:        sc.Thumb,
			TemplatePath: sc.TemplatePath,
		})
	}
	if s.Zoom != 0 {
		tl.SetZoom(s.Zoom)
	}

	for i, st := range s.Steps {
		if err := applyStep(tl, st); err != nil {
			return fmt.Errorf("script %s: step %d (%s): %w", s.Name, i, st.Op, err)
		}
	}
	return nil
}

func applyStep(tl *timeline.Timeline, st Step) error {
	switch st.Op {
	case "add":
		tl.AddScene(timeline.SceneInput{Name: st.Name, Duration: st.Duration})
		return nil

	case "duplicate":
		id, err := resolve(tl, st.Scene)
		if err != nil {
			return err
		}
		if _, ok := tl.DuplicateScene(id); !ok {
			return fmt.Errorf("duplicate %q: no effect", st.Scene)
		}
		return nil

	case "move":
		id, err := resolve(tl, st.Scene)
		if err != nil {
			return err
		}
		if !tl.MoveScene(id, st.Index) {
			return fmt.Errorf("move %q: no effect", st.Scene)
		}
		return nil

	case "trim":
		id, err := resolve(tl, st.Scene)
		if err != nil {
			return err
		}
		edge, err := parseEdge(st.Edge)
		if err != nil {
			return err
		}
		if !tl.TrimScene(id, edge, st.To) {
			return fmt.Errorf("trim %q: no effect", st.Scene)
		}
		return nil

	case "split":
		id, err := resolve(tl, st.Scene)
		if err != nil {
			return err
		}
		if _, ok := tl.SplitScene(id, st.At); !ok {
			return fmt.Errorf("split %q: no effect", st.Scene)
		}
		return nil

	case "delete":
		id, err := resolve(tl, st.Scene)
		if err != nil {
			return err
		}
		if !tl.DeleteScene(id) {
			return fmt.Errorf("delete %q: no effect", st.Scene)
		}
		return nil

	case "set_time":
		tl.SetTime(st.At)
		return nil

	case "set_zoom":
		tl.SetZoom(st.Zoom)
		return nil

	case "set_audio":
		if st.Audio == nil {
			return fmt.Errorf("set_audio: audio block is required")
		}
		tl.SetAudio(&timeline.AudioClip{
			Start:    st.Audio.Start,
			Duration: st.Audio.Duration,
			Src:      st.Audio.Src,
			Muted:    st.Audio.Muted,
		})
		return nil

	case "clear_audio":
		tl.SetAudio(nil)
		return nil

	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
}

// resolve maps a scene reference to a clip ID. Split and duplicate
// produce clips sharing a name, so a reference is either a bare name
// (leftmost match) or "name#N" selecting the Nth occurrence in list
// order, 1-based.
func resolve(tl *timeline.Timeline, ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("scene reference is empty")
	}
	name, nth := splitRef(ref)
	seen := 0
	for _, sc := range tl.Scenes() {
		if sc.Name == name {
			seen++
			if seen == nth {
				return sc.ID, nil
			}
		}
	}
	if seen > 0 {
		return "", fmt.Errorf("scene %q has %d occurrence(s), reference asked for #%d", name, seen, nth)
	}
	return "", fmt.Errorf("no scene named %q", name)
}

// splitRef parses "name#N" into (name, N). A missing or non-numeric
// suffix means the first occurrence.
func splitRef(ref string) (string, int) {
	i := strings.LastIndex(ref, "#")
	if i < 0 {
		return ref, 1
	}
	nth, err := strconv.Atoi(ref[i+1:])
	if err != nil || nth < 1 {
		return ref, 1
	}
	return ref[:i], nth
}

func parseEdge(s string) (timeline.TrimEdge, error) {
	switch s {
	case "start":
		return timeline.TrimStart, nil
	case "end":
		return timeline.TrimEnd, nil
	default:
		return 0, fmt.Errorf("invalid edge %q (want \"start\" or \"end\")", s)
	}
}
