package timeline

// Normalize re-derives the layout of an ordered scene list: each clip's
// duration is clamped to MinSceneDuration and its start offset is assigned
// as the running total of preceding durations. The result is contiguous by
// construction - no gaps, no overlaps.
//
// Normalize is pure and total. It never reorders or drops elements;
// reordering and removal happen in the caller before normalization. The
// input slice is not mutated.
//
// This is the single source of truth for the contiguity invariant. Every
// Timeline mutation that changes the scene list or any duration ends by
// installing Normalize(candidate).
func Normalize(scenes []SceneClip) []SceneClip {
	out := make([]SceneClip, len(scenes))
	var total float64
	for i, sc := range scenes {
		if sc.Duration < MinSceneDuration {
			sc.Duration = MinSceneDuration
		}
		sc.start = total
		total += sc.Duration
		out[i] = sc
	}
	return out
}
