package audio

import (
	"fmt"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/logger"
)

// Sound is a short effect decoded into memory. It can be played many times at once.
type Sound struct {
	m *Manager

	mu     sync.Mutex
	path   string
	buffer *beep.Buffer
	level  float64
}

// NewSound creates an empty sound.
func (m *Manager) NewSound() *Sound {
	return &Sound{m: m, level: 1}
}

// Open decodes the whole file at path, replacing any previous sound.
func (s *Sound) Open(path string) error {
	streamer, format, err := DecodeFile(path)
	if err != nil {
		return fmt.Errorf("open sound: %w", err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	if err := streamer.Err(); err != nil {
		return fmt.Errorf("open sound %s: %w", path, err)
	}

	s.mu.Lock()
	s.buffer = buf
	s.path = path
	s.mu.Unlock()

	logger.Debug("sound opened", zap.String("path", path), zap.Int("samples", buf.Len()))
	return nil
}

// Play starts a new instance of the sound. Earlier instances keep playing.
func (s *Sound) Play() error {
	s.mu.Lock()
	buf, level := s.buffer, s.level
	s.mu.Unlock()

	if buf == nil {
		return ErrNotOpen
	}

	var src beep.Streamer = buf.Streamer(0, buf.Len())
	if rate := s.m.SampleRate(); buf.Format().SampleRate != rate {
		src = beep.Resample(resampleQuality, buf.Format().SampleRate, rate, src)
	}

	vol := &effects.Volume{Streamer: src, Base: 2}
	applyLevel(vol, level*s.m.sfxLevel())
	s.m.play(vol)
	return nil
}

// SetVolume sets the sound's own volume (0.0 to 1.0) for later plays.
func (s *Sound) SetVolume(vol float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = clamp(vol, 0, 1)
}

// Path returns the loaded file's path.
func (s *Sound) Path() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.path
}
