package main

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ViewerSettings are the persisted display preferences of the viewer. They
// concern the tool only; engine playback state is never persisted.
type ViewerSettings struct {
	// PlaybackSpeed scales wall-clock time, 0.25 to 4.0.
	PlaybackSpeed float64 `yaml:"playbackSpeed"`

	// UseBinaryBezier selects the legacy binary-search bezier evaluator
	// when the file is (re)parsed.
	UseBinaryBezier bool `yaml:"useBinaryBezier"`

	// LegacyLoop selects loop behavior v1.
	LegacyLoop bool `yaml:"legacyLoop"`
}

// DefaultViewerSettings returns the viewer defaults.
func DefaultViewerSettings() *ViewerSettings {
	return &ViewerSettings{PlaybackSpeed: 1.0}
}

// SettingsManager persists ViewerSettings through gdata. A nil gdata
// manager degrades to in-memory settings.
type SettingsManager struct {
	gdataManager *gdata.Manager
	settings     *ViewerSettings
}

const (
	settingsObject   = "motionviewer"
	settingsProperty = "display"
)

// NewSettingsManager opens the cross-platform settings store and loads any
// saved settings. Open failure is not fatal: the viewer runs with defaults.
func NewSettingsManager() *SettingsManager {
	sm := &SettingsManager{settings: DefaultViewerSettings()}

	manager, err := gdata.Open(gdata.Config{AppName: "gonewx_motionviewer"})
	if err != nil {
		log.Printf("[ViewerSettings] Warning: gdata unavailable: %v (settings will not persist)", err)
		return sm
	}
	sm.gdataManager = manager

	if err := sm.Load(); err != nil {
		log.Printf("[ViewerSettings] Warning: failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load reads the saved settings, keeping defaults when none exist.
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		return fmt.Errorf("failed to load viewer settings: %w", err)
	}

	var loaded ViewerSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to unmarshal viewer settings: %w", err)
	}
	if loaded.PlaybackSpeed <= 0 {
		loaded.PlaybackSpeed = 1.0
	}
	sm.settings = &loaded
	return nil
}

// Save persists the current settings. A nil manager is a silent no-op.
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal viewer settings: %w", err)
	}
	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save viewer settings: %w", err)
	}
	return nil
}

// Settings returns the live settings instance.
func (sm *SettingsManager) Settings() *ViewerSettings {
	return sm.settings
}
