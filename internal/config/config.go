package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	WindowWidth  = 1024
	WindowHeight = 768

	// MobileBreakpoint is the widest window still laid out as mobile.
	MobileBreakpoint = 768

	// Button dimensions
	ButtonWidth  = 220
	ButtonHeight = 48
	ToggleSize   = 44
	ToggleMargin = 20

	// Modal dimensions
	ModalWidth  = 420
	ModalHeight = 240

	// Page timeline
	LoadingDuration       = 3 * time.Second
	MobileLoadingDuration = 2 * time.Second
	FadeDuration          = 800 * time.Millisecond
	TitleDelay            = 500 * time.Millisecond
	SubtitleDelay         = 1500 * time.Millisecond
	IntroDelay            = 1200 * time.Millisecond
	MobileTextDelay       = 800 * time.Millisecond
	RegistrationShowDelay = 500 * time.Millisecond
	FormCloseDelay        = 500 * time.Millisecond

	// Ambient population
	DesktopParticles = 30
	MobileParticles  = 15
	MobileFieldAlpha = 0.6
	TrailPerMove     = 3
	MoteInterval     = 300 * time.Millisecond
	DustInterval     = 200 * time.Millisecond
)

// timeLayout is how dates are written in the config file. They are read in
// the local time zone.
const timeLayout = "2006-01-02T15:04:05"

// Effects tunes the particle layers.
type Effects struct {
	MaxParticles int  `yaml:"maxParticles"` // ambient field population
	ThrottleFPS  int  `yaml:"throttleFPS"`  // cursor trail frame cap, 0 = every frame
	MobileMode   bool `yaml:"mobileMode"`   // force the reduced layout
}

// Config is the page content and tuning, loaded from YAML.
type Config struct {
	EventStart           string  `yaml:"eventStart"`
	RegistrationDeadline string  `yaml:"registrationDeadline"`
	Title                string  `yaml:"title"`
	Subtitle             string  `yaml:"subtitle"`
	Intro                string  `yaml:"intro"`
	TrackPath            string  `yaml:"trackPath"`
	FormURL              string  `yaml:"formURL"`
	Effects              Effects `yaml:"effects"`

	eventAt        time.Time
	registrationAt time.Time
}

var ErrInvalid = errors.New("invalid config")

func Default() *Config {
	c := &Config{
		EventStart:           "2024-12-31T20:00:00",
		RegistrationDeadline: "2025-09-07T23:59:59",
		Title:                "CELESTIA'25",
		Subtitle:             "Where the stars come down to dance",
		Intro:                "An unforgettable night awaits you at Celestia'25, where the ordinary ends, stars descend and memories shine bright.",
		TrackPath:            "Bgm.mp3",
		Effects: Effects{
			MaxParticles: DesktopParticles,
			ThrottleFPS:  60,
		},
	}
	if err := c.Validate(); err != nil {
		panic(err)
	}
	return c
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Validate checks the values and caches the parsed dates.
func (c *Config) Validate() error {
	var err error
	if c.eventAt, err = time.ParseInLocation(timeLayout, c.EventStart, time.Local); err != nil {
		return fmt.Errorf("%w: eventStart: %v", ErrInvalid, err)
	}
	if c.registrationAt, err = time.ParseInLocation(timeLayout, c.RegistrationDeadline, time.Local); err != nil {
		return fmt.Errorf("%w: registrationDeadline: %v", ErrInvalid, err)
	}
	if c.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalid)
	}
	if c.Effects.MaxParticles < 0 {
		return fmt.Errorf("%w: maxParticles must not be negative, got %d", ErrInvalid, c.Effects.MaxParticles)
	}
	if c.Effects.ThrottleFPS < 0 || c.Effects.ThrottleFPS > 240 {
		return fmt.Errorf("%w: throttleFPS must be between 0 and 240, got %d", ErrInvalid, c.Effects.ThrottleFPS)
	}
	return nil
}

func (c *Config) EventAt() time.Time        { return c.eventAt }
func (c *Config) RegistrationAt() time.Time { return c.registrationAt }

// Mobile reports whether a window of the given width gets the reduced
// layout.
func (c *Config) Mobile(width int) bool {
	return c.Effects.MobileMode || width <= MobileBreakpoint
}

// Particles is the ambient field population for the chosen layout.
func (c *Config) Particles(mobile bool) int {
	if mobile && c.Effects.MaxParticles > MobileParticles {
		return MobileParticles
	}
	return c.Effects.MaxParticles
}
