package script

import (
	"fmt"
	"math"
	"strings"

	"reelkit/internal/timeline"
)

// durationTolerance absorbs floating-point drift in duration sums.
const durationTolerance = 1e-6

// AssertionError is returned when a script assertion fails. It includes
// the final layout so the failure is debuggable from the message alone.
type AssertionError struct {
	Script   string
	Type     string
	Expected string
	Actual   string
	Layout   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "script %s: assertion failed: %s\n", e.Script, e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	fmt.Fprintf(&buf, "\nFinal layout:\n%s", e.Layout)
	return buf.String()
}

// Check validates every assertion in the script against tl, returning the
// first failure. The contiguity invariant is checked unconditionally
// before the declared assertions.
func Check(tl *timeline.Timeline, s *Script) error {
	if err := checkContiguous(tl, s); err != nil {
		return err
	}
	for _, a := range s.Assertions {
		if err := check(tl, s, a); err != nil {
			return err
		}
	}
	return nil
}

func check(tl *timeline.Timeline, s *Script, a Assertion) error {
	switch a.Type {
	case "scene_count":
		if got := tl.SceneCount(); got != a.Count {
			return fail(tl, s, a.Type,
				fmt.Sprintf("%d scenes", a.Count),
				fmt.Sprintf("%d scenes", got))
		}
		return nil

	case "total_duration":
		if got := tl.Duration(); math.Abs(got-a.Duration) > durationTolerance {
			return fail(tl, s, a.Type,
				fmt.Sprintf("%.6f", a.Duration),
				fmt.Sprintf("%.6f", got))
		}
		return nil

	case "scene_order":
		scenes := tl.Scenes()
		names := make([]string, len(scenes))
		for i, sc := range scenes {
			names[i] = sc.Name
		}
		if len(names) != len(a.Order) || !equal(names, a.Order) {
			return fail(tl, s, a.Type,
				fmt.Sprintf("%v", a.Order),
				fmt.Sprintf("%v", names))
		}
		return nil

	case "active_scene_at":
		sc, ok := tl.ActiveSceneAt(a.At)
		if !ok {
			return fail(tl, s, a.Type,
				fmt.Sprintf("scene %q at t=%g", a.Scene, a.At),
				"no scenes")
		}
		if sc.Name != a.Scene {
			return fail(tl, s, a.Type,
				fmt.Sprintf("scene %q at t=%g", a.Scene, a.At),
				fmt.Sprintf("scene %q", sc.Name))
		}
		return nil

	case "zoom":
		if got := tl.Zoom(); math.Abs(got-a.Zoom) > durationTolerance {
			return fail(tl, s, a.Type,
				fmt.Sprintf("%g", a.Zoom),
				fmt.Sprintf("%g", got))
		}
		return nil

	default:
		return fmt.Errorf("script %s: unknown assertion type %q", s.Name, a.Type)
	}
}

// checkContiguous verifies the layout invariant: starts are prefix sums of
// durations and every duration respects the floor.
func checkContiguous(tl *timeline.Timeline, s *Script) error {
	var total float64
	for i, sc := range tl.Scenes() {
		if math.Abs(sc.Start()-total) > durationTolerance {
			return fail(tl, s, "contiguous",
				fmt.Sprintf("scene %d starts at %.6f", i, total),
				fmt.Sprintf("starts at %.6f", sc.Start()))
		}
		if sc.Duration < timeline.MinSceneDuration {
			return fail(tl, s, "contiguous",
				fmt.Sprintf("scene %d duration >= %g", i, timeline.MinSceneDuration),
				fmt.Sprintf("duration %.6f", sc.Duration))
		}
		total += sc.Duration
	}
	return nil
}

func fail(tl *timeline.Timeline, s *Script, typ, expected, actual string) error {
	return &AssertionError{
		Script:   s.Name,
		Type:     typ,
		Expected: expected,
		Actual:   actual,
		Layout:   Render(tl),
	}
}

func equal(a, b []string) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
