package game

import (
	"time"

	"github.com/iburimskiy/party-countdown/internal/config"
	"github.com/iburimskiy/party-countdown/internal/render"
)

// Phase is where the page is in its opening sequence.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseFading
	PhaseMain
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseFading:
		return "fading"
	case PhaseMain:
		return "main"
	}
	return "unknown"
}

// Timeline places every delayed step of the page relative to launch.
type Timeline struct {
	Mobile bool
}

// Loading is how long the loading screen stays fully visible.
func (t Timeline) Loading() time.Duration {
	if t.Mobile {
		return config.MobileLoadingDuration
	}
	return config.LoadingDuration
}

// MainAt is when the loading screen is gone and the main content shows.
func (t Timeline) MainAt() time.Duration {
	return t.Loading() + config.FadeDuration
}

func (t Timeline) Phase(elapsed time.Duration) Phase {
	switch {
	case elapsed < t.Loading():
		return PhaseLoading
	case elapsed < t.MainAt():
		return PhaseFading
	}
	return PhaseMain
}

// LoadingAlpha is the loading screen opacity, fading out linearly.
func (t Timeline) LoadingAlpha(elapsed time.Duration) float64 {
	return 1 - render.Clamp01(float64(elapsed-t.Loading())/float64(config.FadeDuration))
}

// MainAlpha is the main content opacity, fading in once loading is gone.
func (t Timeline) MainAlpha(elapsed time.Duration) float64 {
	return render.Clamp01(float64(elapsed-t.MainAt()) / float64(config.FadeDuration))
}

// TitleAt is when the letter reveal starts. Mobile shows the title as is.
func (t Timeline) TitleAt() time.Duration {
	return t.MainAt() + config.TitleDelay
}

func (t Timeline) SubtitleAt() time.Duration {
	if t.Mobile {
		return t.MainAt() + config.MobileTextDelay
	}
	return t.MainAt() + config.SubtitleDelay
}

func (t Timeline) IntroAt() time.Duration {
	if t.Mobile {
		return t.MainAt() + config.MobileTextDelay
	}
	return t.MainAt() + config.IntroDelay
}

// RegistrationAt is when the registration countdown slides in.
func (t Timeline) RegistrationAt() time.Duration {
	return t.MainAt() + config.RegistrationShowDelay
}
