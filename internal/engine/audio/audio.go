// Package audio provides playback for streamed music and buffered sound effects.
//
// Everything plays through one mixer owned by the Manager. Init attaches the
// mixer to the speaker; before that, streams are mixed but not heard.
package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/logger"
)

// DefaultSampleRate is the default sample rate for audio playback.
const DefaultSampleRate = beep.SampleRate(44100)

// resampleQuality is passed to beep's resampler.
const resampleQuality = 4

// Audio errors.
var (
	ErrNotOpen      = errors.New("no audio file open")
	ErrInvalidPitch = errors.New("pitch must be positive")
)

// Manager owns the output mixer and the volume settings.
type Manager struct {
	mu sync.Mutex

	initialized bool
	sampleRate  beep.SampleRate
	mixer       *beep.Mixer

	// Volume settings (0.0 to 1.0)
	masterVolume float64
	musicVolume  float64
	sfxVolume    float64
	muted        bool

	musics []*Music
}

// New creates a new audio manager.
func New() *Manager {
	return &Manager{
		sampleRate:   DefaultSampleRate,
		mixer:        &beep.Mixer{},
		masterVolume: 1.0,
		musicVolume:  0.7,
		sfxVolume:    1.0,
	}
}

// Init opens the audio device and starts playing the mixer.
func (m *Manager) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}

	err := speaker.Init(m.sampleRate, m.sampleRate.N(time.Second/30))
	if err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(m.mixer)

	m.initialized = true
	logger.Info("audio initialized", zap.Int("sample_rate", int(m.sampleRate)))
	return nil
}

// Close stops all playback and closes every music stream.
func (m *Manager) Close() {
	m.mu.Lock()
	musics := m.musics
	m.musics = nil
	initialized := m.initialized
	m.initialized = false
	m.mu.Unlock()

	for _, mus := range musics {
		mus.Close()
	}

	speaker.Lock()
	m.mixer.Clear()
	speaker.Unlock()

	if initialized {
		speaker.Close()
	}
}

// IsInitialized returns whether the audio device is open.
func (m *Manager) IsInitialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// SampleRate returns the output sample rate.
func (m *Manager) SampleRate() beep.SampleRate {
	return m.sampleRate
}

// SetMasterVolume sets the master volume (0.0 to 1.0).
func (m *Manager) SetMasterVolume(vol float64) {
	m.mu.Lock()
	m.masterVolume = clamp(vol, 0, 1)
	m.mu.Unlock()
	m.updateMusicVolumes()
}

// SetMusicVolume sets the music volume (0.0 to 1.0).
func (m *Manager) SetMusicVolume(vol float64) {
	m.mu.Lock()
	m.musicVolume = clamp(vol, 0, 1)
	m.mu.Unlock()
	m.updateMusicVolumes()
}

// SetSFXVolume sets the sound effect volume (0.0 to 1.0).
// It applies to sounds started afterwards.
func (m *Manager) SetSFXVolume(vol float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sfxVolume = clamp(vol, 0, 1)
}

// SetMuted silences or restores all output.
func (m *Manager) SetMuted(muted bool) {
	m.mu.Lock()
	m.muted = muted
	m.mu.Unlock()
	m.updateMusicVolumes()
}

// MasterVolume returns the master volume.
func (m *Manager) MasterVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.masterVolume
}

// MusicVolume returns the music volume.
func (m *Manager) MusicVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.musicVolume
}

// SFXVolume returns the sound effect volume.
func (m *Manager) SFXVolume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sfxVolume
}

// Muted reports whether output is muted.
func (m *Manager) Muted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.muted
}

// channelLevel applies master volume and mute to a channel volume.
func (m *Manager) channelLevel(channel float64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.muted {
		return 0
	}
	return m.masterVolume * channel
}

func (m *Manager) musicLevel() float64 {
	m.mu.Lock()
	v := m.musicVolume
	m.mu.Unlock()
	return m.channelLevel(v)
}

func (m *Manager) sfxLevel() float64 {
	m.mu.Lock()
	v := m.sfxVolume
	m.mu.Unlock()
	return m.channelLevel(v)
}

func (m *Manager) updateMusicVolumes() {
	m.mu.Lock()
	musics := append([]*Music(nil), m.musics...)
	m.mu.Unlock()

	for _, mus := range musics {
		mus.applyVolume()
	}
}

func (m *Manager) track(mus *Music) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.musics = append(m.musics, mus)
}

// play adds s to the mixer.
func (m *Manager) play(s beep.Streamer) {
	speaker.Lock()
	m.mixer.Add(s)
	speaker.Unlock()
}

// applyLevel sets v to play at the given linear level.
func applyLevel(v *effects.Volume, level float64) {
	v.Volume, v.Silent = gain(level)
}

// gain converts a linear 0-1 level to a base 2 exponent for effects.Volume.
func gain(level float64) (float64, bool) {
	if level <= 0 {
		return 0, true
	}
	return math.Log2(level), false
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func lockSpeaker(fn func()) {
	speaker.Lock()
	defer speaker.Unlock()
	fn()
}
