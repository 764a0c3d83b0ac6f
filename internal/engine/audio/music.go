package audio

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/logger"
)

// Music streams a long track from disk.
type Music struct {
	m *Manager

	mu       sync.Mutex
	path     string
	streamer beep.StreamSeekCloser
	format   beep.Format

	ctrl      *beep.Ctrl
	resampler *beep.Resampler
	volume    *effects.Volume
	finished  *atomic.Bool

	level float64 // own volume, 0-1
	pitch float64
}

// NewMusic creates an empty music track.
func (m *Manager) NewMusic() *Music {
	mus := &Music{m: m, level: 1, pitch: 1}
	m.track(mus)
	return mus
}

// Open opens the file at path for streaming, replacing any previous track.
func (mus *Music) Open(path string) error {
	s, format, err := DecodeFile(path)
	if err != nil {
		return fmt.Errorf("open music: %w", err)
	}

	mus.Stop()

	mus.mu.Lock()
	defer mus.mu.Unlock()
	if mus.streamer != nil {
		mus.streamer.Close()
	}
	mus.streamer = s
	mus.format = format
	mus.path = path

	logger.Debug("music opened",
		zap.String("path", path),
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Int("samples", s.Len()),
	)
	return nil
}

// Play starts the track from the beginning, looping it if loop is set.
func (mus *Music) Play(loop bool) error {
	mus.Stop()

	mus.mu.Lock()
	if mus.streamer == nil {
		mus.mu.Unlock()
		return ErrNotOpen
	}
	if err := mus.streamer.Seek(0); err != nil {
		mus.mu.Unlock()
		return fmt.Errorf("rewind music: %w", err)
	}

	var src beep.Streamer = mus.streamer
	if loop {
		src = &loopStreamer{s: mus.streamer}
	}
	mus.resampler = beep.ResampleRatio(resampleQuality, mus.ratio(), src)
	mus.ctrl = &beep.Ctrl{Streamer: mus.resampler}
	mus.volume = &effects.Volume{Streamer: mus.ctrl, Base: 2}
	finished := &atomic.Bool{}
	mus.finished = finished
	out := beep.Seq(mus.volume, beep.Callback(func() { finished.Store(true) }))
	mus.mu.Unlock()

	mus.applyVolume()
	mus.m.play(out)
	return nil
}

// ratio converts the track to the output rate and applies pitch. Caller holds mus.mu.
func (mus *Music) ratio() float64 {
	return mus.pitch * float64(mus.format.SampleRate) / float64(mus.m.SampleRate())
}

// Stop stops playback. Play starts again from the beginning.
func (mus *Music) Stop() {
	mus.mu.Lock()
	defer mus.mu.Unlock()

	if mus.ctrl == nil {
		return
	}
	lockSpeaker(func() {
		// A nil streamer makes Ctrl report drained, so the mixer drops it.
		mus.ctrl.Streamer = nil
	})
	mus.ctrl = nil
	mus.resampler = nil
	mus.volume = nil
	mus.finished = nil
}

// Pause pauses or resumes playback.
func (mus *Music) Pause(paused bool) {
	mus.mu.Lock()
	defer mus.mu.Unlock()
	if mus.ctrl == nil {
		return
	}
	lockSpeaker(func() { mus.ctrl.Paused = paused })
}

// Playing reports whether the track is playing and not paused.
func (mus *Music) Playing() bool {
	mus.mu.Lock()
	defer mus.mu.Unlock()
	if mus.ctrl == nil || mus.finished.Load() {
		return false
	}
	var paused bool
	lockSpeaker(func() { paused = mus.ctrl.Paused })
	return !paused
}

// SetVolume sets the track's own volume (0.0 to 1.0), scaled by the music and master volumes.
func (mus *Music) SetVolume(vol float64) {
	mus.mu.Lock()
	mus.level = clamp(vol, 0, 1)
	mus.mu.Unlock()
	mus.applyVolume()
}

// Volume returns the track's own volume.
func (mus *Music) Volume() float64 {
	mus.mu.Lock()
	defer mus.mu.Unlock()
	return mus.level
}

// SetPitch changes playback speed and pitch together. 1 is the original.
func (mus *Music) SetPitch(pitch float64) error {
	if pitch <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidPitch, pitch)
	}
	mus.mu.Lock()
	defer mus.mu.Unlock()
	mus.pitch = pitch
	if mus.resampler != nil {
		ratio := mus.ratio()
		lockSpeaker(func() { mus.resampler.SetRatio(ratio) })
	}
	return nil
}

// Pitch returns the playback pitch.
func (mus *Music) Pitch() float64 {
	mus.mu.Lock()
	defer mus.mu.Unlock()
	return mus.pitch
}

// Path returns the open file's path.
func (mus *Music) Path() string {
	mus.mu.Lock()
	defer mus.mu.Unlock()
	return mus.path
}

// Close stops playback and closes the file.
func (mus *Music) Close() {
	mus.Stop()
	mus.mu.Lock()
	defer mus.mu.Unlock()
	if mus.streamer != nil {
		mus.streamer.Close()
		mus.streamer = nil
	}
	mus.path = ""
}

func (mus *Music) applyVolume() {
	level := mus.m.musicLevel()

	mus.mu.Lock()
	defer mus.mu.Unlock()
	if mus.volume == nil {
		return
	}
	level *= mus.level
	lockSpeaker(func() { applyLevel(mus.volume, level) })
}

// loopStreamer rewinds its source whenever it runs out.
type loopStreamer struct {
	s beep.StreamSeeker
}

func (l *loopStreamer) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.s.Stream(samples[filled:])
		filled += n
		if ok {
			continue
		}
		if l.s.Len() == 0 || l.s.Seek(0) != nil {
			return filled, filled > 0
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.s.Err()
}
