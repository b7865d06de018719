// Package timeline implements the authoritative model of a project's time
// axis: an ordered set of scene clips plus one optional audio clip, and the
// edit operations that mutate it.
//
// The central invariant is that scene clips are always contiguous - no gaps,
// no overlaps, sorted by list order. This is enforced in exactly one place:
// Normalize re-derives every clip's start offset as the cumulative sum of
// preceding durations, and every mutation that touches the scene list ends
// by installing a normalized candidate list. The invariant is therefore true
// by construction rather than by scattered checks.
//
// Edit operations are total functions. An unknown clip ID is a silent no-op
// (the operation reports false so callers can detect it), and out-of-range
// numeric inputs are clamped to the nearest valid value, never rejected.
// This favors UI robustness: an event handler firing with a stale ID after a
// delete skips the interaction instead of crashing it.
//
// Thread-safety model:
//   - All Timeline methods are safe for concurrent use (internal mutex).
//   - Mutations are atomic: a candidate list is built, normalized, and
//     swapped in under the lock. Readers never observe a half-applied edit.
//   - The playback loop (internal/playback) is the only writer besides the
//     UI; it advances the current time through Advance.
package timeline
