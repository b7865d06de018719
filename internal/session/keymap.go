package session

import "strings"

// Action is an editor command a key chord can trigger.
type Action string

const (
	ActionTogglePlay      Action = "toggle_play"
	ActionZoomIn          Action = "zoom_in"
	ActionZoomOut         Action = "zoom_out"
	ActionSeekForward     Action = "seek_forward"        // +0.1s
	ActionSeekBack        Action = "seek_back"           // -0.1s
	ActionSeekForwardFast Action = "seek_forward_coarse" // +1s
	ActionSeekBackFast    Action = "seek_back_coarse"    // -1s
	ActionSplitAtPlayhead Action = "split_at_playhead"
)

// Seek step sizes in seconds.
const (
	seekStep       = 0.1
	seekStepCoarse = 1.0
)

// Modifiers carries the modifier state of a key event. Primary is the
// platform accelerator: Ctrl on Linux/Windows, Cmd on macOS - the host UI
// folds both into this one flag.
type Modifiers struct {
	Shift   bool
	Primary bool
}

// KeyEvent is a normalized keyboard event from the host UI. Key is
// lowercase: letters as themselves, named keys as "space", "left",
// "right", and the zoom keys as "+" and "-".
type KeyEvent struct {
	Key string
	Mod Modifiers
}

// Chord identifies a key plus modifier combination in a Keymap.
type Chord struct {
	Key     string
	Shift   bool
	Primary bool
}

// Keymap maps chords to actions. It is plain data: hosts may copy the
// default map and rebind entries without touching dispatch.
type Keymap map[Chord]Action

// DefaultKeymap returns the documented editor shortcuts:
//
//	Space            toggle play/pause
//	Ctrl/Cmd + "+"   zoom in x1.25
//	Ctrl/Cmd + "-"   zoom out /1.25
//	Right / Left     seek +/-0.1s (+/-1s with Shift)
//	s                split the scene under the playhead
func DefaultKeymap() Keymap {
	return Keymap{
		{Key: "space"}:                       ActionTogglePlay,
		{Key: "+", Primary: true}:            ActionZoomIn,
		{Key: "=", Primary: true}:            ActionZoomIn, // unshifted "+" key
		{Key: "-", Primary: true}:            ActionZoomOut,
		{Key: "right"}:                       ActionSeekForward,
		{Key: "left"}:                        ActionSeekBack,
		{Key: "right", Shift: true}:          ActionSeekForwardFast,
		{Key: "left", Shift: true}:           ActionSeekBackFast,
		{Key: "s"}:                           ActionSplitAtPlayhead,
	}
}

// lookup resolves a key event to an action.
func (m Keymap) lookup(ev KeyEvent) (Action, bool) {
	a, ok := m[Chord{
		Key:     strings.ToLower(ev.Key),
		Shift:   ev.Mod.Shift,
		Primary: ev.Mod.Primary,
	}]
	return a, ok
}
