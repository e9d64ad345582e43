package settings

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Preferences are the listener choices remembered between runs.
type Preferences struct {
	MusicEnabled bool    `yaml:"musicEnabled"`
	MusicVolume  float64 `yaml:"musicVolume"` // 0.0 ~ 1.0
}

// Defaults match the page: music on at 30%.
func Defaults() Preferences {
	return Preferences{
		MusicEnabled: true,
		MusicVolume:  0.3,
	}
}

const (
	prefsObject   = "preferences"
	prefsProperty = "audio"
)

// Store loads and saves Preferences through gdata. A nil manager keeps
// everything in memory.
type Store struct {
	manager *gdata.Manager
	prefs   Preferences
}

// Open creates the platform data directory for appName and loads what was
// saved there. When the directory cannot be opened the store degrades to
// memory only.
func Open(appName string) *Store {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[Settings] Warning: storage unavailable: %v (memory only)", err)
		m = nil
	}
	return New(m)
}

// New wraps manager, which may be nil, and loads saved preferences.
func New(manager *gdata.Manager) *Store {
	s := &Store{manager: manager, prefs: Defaults()}
	if err := s.Load(); err != nil {
		log.Printf("[Settings] Warning: %v (using defaults)", err)
	}
	return s
}

// Load replaces the in-memory preferences with the saved ones. Missing
// data is not an error.
func (s *Store) Load() error {
	s.prefs = Defaults()
	if s.manager == nil || !s.manager.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}

	data, err := s.manager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	var loaded Preferences
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("unmarshal preferences: %w", err)
	}
	loaded.MusicVolume = clampVolume(loaded.MusicVolume)
	s.prefs = loaded
	return nil
}

// Save writes the in-memory preferences. Without a manager it does nothing.
func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := s.manager.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

func (s *Store) Preferences() Preferences { return s.prefs }

func (s *Store) SetMusicEnabled(enabled bool) {
	s.prefs.MusicEnabled = enabled
}

func (s *Store) SetMusicVolume(volume float64) {
	s.prefs.MusicVolume = clampVolume(volume)
}

func clampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
