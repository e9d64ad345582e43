package audio

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

const (
	// DefaultVolume is the background track's linear gain.
	DefaultVolume = 0.3

	levelRingSize = 8192
)

// ErrUnsupportedFormat is returned for tracks that are not mp3, wav or flac.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Backend plays one looping track.
type Backend interface {
	Play(muted bool) error
	SetMuted(muted bool)
	Pause()
}

// Volumer is implemented by backends with adjustable gain.
type Volumer interface {
	SetVolume(volume float64)
}

// Leveler is implemented by backends that can report what is playing.
type Leveler interface {
	Levels(count int) []float64
}

// BeepBackend streams a track file through the beep speaker. The file is
// opened and the speaker initialised on the first Play.
type BeepBackend struct {
	path   string
	volume float64

	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	gain     *effects.Volume
	tap      *LevelTap
	muted    bool
	started  bool
}

// NewBeepBackend prepares path for playback at volume (linear, 0..1).
func NewBeepBackend(path string, volume float64) *BeepBackend {
	return &BeepBackend{path: path, volume: volume}
}

// speakerRate is the rate the speaker was initialised at; beep's speaker
// can only be initialised once per process without clearing it.
var speakerRate beep.SampleRate

func decode(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(f.Name())) {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	}
	return nil, beep.Format{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(f.Name()))
}

func (b *BeepBackend) load() error {
	f, err := os.Open(b.path)
	if err != nil {
		return fmt.Errorf("open track: %w", err)
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("decode %s: %w", b.path, err)
	}

	if speakerRate == 0 {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/20)); err != nil {
			_ = streamer.Close()
			return fmt.Errorf("init speaker: %w", err)
		}
		speakerRate = format.SampleRate
	}

	var src beep.Streamer = beep.Loop(-1, streamer)
	if format.SampleRate != speakerRate {
		src = beep.Resample(4, format.SampleRate, speakerRate, src)
	}

	b.streamer = streamer
	b.tap = NewLevelTap(src, levelRingSize)
	b.gain = &effects.Volume{
		Streamer: b.tap,
		Base:     2,
		Volume:   gainToVolume(b.volume),
	}
	b.ctrl = &beep.Ctrl{Streamer: b.gain}
	log.Printf("[Music] Loaded %s (%d Hz)", b.path, format.SampleRate)
	return nil
}

// gainToVolume converts linear gain to beep's base-2 exponent.
func gainToVolume(gain float64) float64 {
	if gain <= 0 {
		return -10
	}
	return math.Log2(gain)
}

func (b *BeepBackend) Play(muted bool) error {
	if b.ctrl == nil {
		if err := b.load(); err != nil {
			return err
		}
	}

	speaker.Lock()
	b.muted = muted
	b.gain.Silent = muted || b.volume <= 0
	b.ctrl.Paused = false
	speaker.Unlock()

	if !b.started {
		speaker.Play(b.ctrl)
		b.started = true
	}
	return nil
}

func (b *BeepBackend) SetMuted(muted bool) {
	if b.gain == nil {
		return
	}
	speaker.Lock()
	b.muted = muted
	b.gain.Silent = muted || b.volume <= 0
	speaker.Unlock()
}

func (b *BeepBackend) Pause() {
	if b.ctrl == nil {
		return
	}
	speaker.Lock()
	b.ctrl.Paused = true
	speaker.Unlock()
}

// SetVolume changes the linear gain of the playing track.
func (b *BeepBackend) SetVolume(volume float64) {
	b.volume = volume
	if b.gain == nil {
		return
	}
	speaker.Lock()
	b.gain.Volume = gainToVolume(volume)
	b.gain.Silent = b.muted || volume <= 0
	speaker.Unlock()
}

func (b *BeepBackend) Levels(count int) []float64 {
	if b.tap == nil {
		return make([]float64, count)
	}
	return b.tap.Bands(2048, count)
}

// Close stops the track and releases the file.
func (b *BeepBackend) Close() error {
	if b.ctrl != nil {
		speaker.Lock()
		b.ctrl.Paused = true
		b.ctrl.Streamer = nil
		speaker.Unlock()
	}
	// Decoders close the file they were handed.
	if b.streamer == nil {
		return nil
	}
	err := b.streamer.Close()
	b.streamer = nil
	return err
}
