// Package script runs declarative edit scripts against a timeline.
//
// A script is the conformance-test analog of a user editing session: an
// initial scene list, a sequence of edit operations, and assertions on the
// resulting layout. Scripts reference scenes by display name rather than by
// ID, and scripts run with a deterministic ID generator, so script output
// (and the golden files derived from it) is stable across runs.
package script

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script defines an edit-script scenario.
type Script struct {
	// Name uniquely identifies this script; golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this script exercises.
	Description string `yaml:"description,omitempty"`

	// Zoom optionally sets the initial zoom before any step runs.
	Zoom float64 `yaml:"zoom,omitempty"`

	// Setup lists the scenes present before the steps run.
	Setup []SceneSetup `yaml:"setup,omitempty"`

	// Steps are the edit operations, applied in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final layout.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// SceneSetup describes one initial scene.
type SceneSetup struct {
	Name         string  `yaml:"name"`
	Duration     float64 `yaml:"duration"`
	Thumb        string  `yaml:"thumb,omitempty"`
	TemplatePath string  `yaml:"template_path,omitempty"`
}

// Step is a single edit operation. Op selects the operation; the remaining
// fields parameterize it:
//
//	add:         name, duration (optional - engine defaults apply)
//	duplicate:   scene
//	move:        scene, index
//	trim:        scene, edge ("start"|"end"), to
//	split:       scene, at
//	delete:      scene
//	set_time:    at
//	set_zoom:    zoom
//	set_audio:   audio
//	clear_audio: -
//
// Scene references are display names, optionally suffixed "#N" to select
// the Nth same-named scene in list order (split and duplicate copy the
// name of the original).
type Step struct {
	Op       string      `yaml:"op"`
	Scene    string      `yaml:"scene,omitempty"`
	Name     string      `yaml:"name,omitempty"`
	Duration float64     `yaml:"duration,omitempty"`
	Edge     string      `yaml:"edge,omitempty"`
	To       float64     `yaml:"to,omitempty"`
	At       float64     `yaml:"at,omitempty"`
	Index    int         `yaml:"index,omitempty"`
	Zoom     float64     `yaml:"zoom,omitempty"`
	Audio    *AudioSetup `yaml:"audio,omitempty"`
}

// AudioSetup describes the audio clip for a set_audio step.
type AudioSetup struct {
	Start    float64 `yaml:"start,omitempty"`
	Duration float64 `yaml:"duration"`
	Src      string  `yaml:"src"`
	Muted    bool    `yaml:"muted,omitempty"`
}

// Assertion validates the final timeline. Supported types:
//
//	scene_count:     count
//	total_duration:  duration (1e-6 tolerance)
//	scene_order:     order (scene names, full list)
//	active_scene_at: at, scene
//	zoom:            zoom
type Assertion struct {
	Type     string   `yaml:"type"`
	Count    int      `yaml:"count,omitempty"`
	Duration float64  `yaml:"duration,omitempty"`
	Order    []string `yaml:"order,omitempty"`
	At       float64  `yaml:"at,omitempty"`
	Scene    string   `yaml:"scene,omitempty"`
	Zoom     float64  `yaml:"zoom,omitempty"`
}

// Load reads and validates a script from a YAML file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a script from YAML bytes.
func Parse(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Script) validate() error {
	if s.Name == "" {
		return fmt.Errorf("script: name is required")
	}
	seen := make(map[string]bool, len(s.Setup))
	for _, sc := range s.Setup {
		if sc.Name == "" {
			return fmt.Errorf("script %s: setup scene without a name", s.Name)
		}
		if seen[sc.Name] {
			return fmt.Errorf("script %s: duplicate setup scene name %q", s.Name, sc.Name)
		}
		seen[sc.Name] = true
	}
	for i, st := range s.Steps {
		if st.Op == "" {
			return fmt.Errorf("script %s: step %d has no op", s.Name, i)
		}
	}
	return nil
}
