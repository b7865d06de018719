package script

import (
	"fmt"
	"strings"

	"reelkit/internal/timeline"
)

// Render produces the canonical text form of a timeline's layout, used for
// golden-file comparison and by the CLI's show command. Times are fixed to
// millisecond precision so output is stable across floating-point noise.
func Render(tl *timeline.Timeline) string {
	var b strings.Builder

	fmt.Fprintf(&b, "zoom: %g px/s\n", tl.Zoom())
	for i, sc := range tl.Scenes() {
		fmt.Fprintf(&b, "[%d] %s %q start=%.3f duration=%.3f end=%.3f\n",
			i, sc.ID, sc.Name, sc.Start(), sc.Duration, sc.End())
	}
	if a := tl.Audio(); a != nil {
		fmt.Fprintf(&b, "audio %s %q start=%.3f duration=%.3f muted=%t\n",
			a.ID, a.Src, a.Start, a.Duration, a.Muted)
	}
	fmt.Fprintf(&b, "total: %.3fs\n", tl.Duration())

	return b.String()
}
