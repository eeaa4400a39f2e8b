// Package config loads engine settings documents. Settings are plain yaml
// files supplied by the host application's scheduler layer and are threaded
// through construction rather than held in package globals, so two engines
// in one process can run with different settings.
package config

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gonewx/motion/pkg/motion"
)

// EffectSettings configures the procedural eye-blink/lip-sync overlays.
type EffectSettings struct {
	// EyeBlinkIds are the parameter ids multiplied by the eye-blink
	// overlay value.
	EyeBlinkIds []string `yaml:"eye_blink_ids"`

	// LipSyncIds are the parameter ids the lip-sync overlay value is
	// added to.
	LipSyncIds []string `yaml:"lip_sync_ids"`

	// Additive applies overlay values with accumulate semantics instead of
	// override in the unclaimed-target pass.
	Additive bool `yaml:"additive"`
}

// PlaybackSettings configures loop and evaluation behavior.
type PlaybackSettings struct {
	// LoopBehavior is "v2" (current, phase-preserving) or "v1" (legacy
	// abrupt restart). Empty defaults to "v2".
	LoopBehavior string `yaml:"loop_behavior"`

	// LoopFadeIn re-triggers the fade-in ramp on every loop cycle.
	// nil defaults to true.
	LoopFadeIn *bool `yaml:"loop_fade_in"`

	// BezierMode is "cardano" (default) or "binary_search" (debug/legacy
	// evaluator for unrestricted beziers).
	BezierMode string `yaml:"bezier_mode"`
}

// AdditiveSettings lists the ids written with accumulate semantics.
type AdditiveSettings struct {
	Parameters    []string `yaml:"parameters"`
	PartOpacities []string `yaml:"part_opacities"`
}

// MotionSettings is the root engine settings document.
type MotionSettings struct {
	Version  string           `yaml:"version"`
	Effects  EffectSettings   `yaml:"effects"`
	Playback PlaybackSettings `yaml:"playback"`
	Additive AdditiveSettings `yaml:"additive"`
}

// DefaultMotionSettings returns the production defaults: no effect targets,
// loop behavior v2 with loop fade-in, Cardano bezier evaluation.
func DefaultMotionSettings() *MotionSettings {
	return &MotionSettings{Version: "1"}
}

// LoadMotionSettings loads a yaml settings document.
func LoadMotionSettings(path string) (*MotionSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read motion settings '%s': %w", path, err)
	}

	settings := &MotionSettings{}
	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse motion settings '%s': %w", path, err)
	}

	if settings.Version == "" {
		log.Printf("[MotionSettings] Warning: settings file '%s' has no version field", path)
	}

	return settings, nil
}

// ParseOptions returns the parse options selected by the settings.
func (s *MotionSettings) ParseOptions() motion.ParseOptions {
	opts := motion.ParseOptions{}
	switch s.Playback.BezierMode {
	case "", "cardano":
		opts.BezierMode = motion.BezierCardano
	case "binary_search":
		opts.BezierMode = motion.BezierBinarySearch
	default:
		log.Printf("[MotionSettings] Warning: unknown bezier_mode '%s', using cardano", s.Playback.BezierMode)
	}
	return opts
}

// LoopBehavior returns the loop behavior selected by the settings.
func (s *MotionSettings) LoopBehavior() motion.LoopBehavior {
	switch s.Playback.LoopBehavior {
	case "", "v2":
		return motion.LoopBehaviorV2
	case "v1":
		return motion.LoopBehaviorV1
	default:
		log.Printf("[MotionSettings] Warning: unknown loop_behavior '%s', using v2", s.Playback.LoopBehavior)
		return motion.LoopBehaviorV2
	}
}

// Apply configures a motion instance from the settings.
func (s *MotionSettings) Apply(m *motion.Motion) {
	m.SetEffectIds(s.Effects.EyeBlinkIds, s.Effects.LipSyncIds, s.Effects.Additive)
	m.SetAdditiveParameters(s.Additive.Parameters)
	m.SetAdditiveParts(s.Additive.PartOpacities)
	m.SetLoopBehavior(s.LoopBehavior())
	if s.Playback.LoopFadeIn != nil {
		m.SetLoopFadeIn(*s.Playback.LoopFadeIn)
	}
}
