package timeline

// Time/pixel mapping for the ruler and drag-gesture handlers. The two
// directions are exact inverses up to floating-point rounding for any
// given zoom.

// TimeToPixel converts a time in seconds to a horizontal pixel offset at
// the timeline's current zoom.
func (t *Timeline) TimeToPixel(at float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return at * t.zoom
}

// PixelToTime converts a horizontal pixel offset to a time in seconds at
// the timeline's current zoom.
func (t *Timeline) PixelToTime(px float64) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return px / t.zoom
}

// TimeToPixelAt and PixelToTimeAt are the stateless forms, parameterized
// by an explicit zoom. The ruler uses these when laying out tick marks for
// a zoom level it is previewing but has not committed to the store.

// TimeToPixelAt converts seconds to pixels at the given zoom.
func TimeToPixelAt(at, zoom float64) float64 { return at * zoom }

// PixelToTimeAt converts pixels to seconds at the given zoom.
func PixelToTimeAt(px, zoom float64) float64 { return px / zoom }
