package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/jf2/internal/logger"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Validate checks that the config can be used to start the application.
// All problems are reported together.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	w := c.Window
	switch w.SizeMode {
	case SizeWindowed, SizeDebug, SizeMaximized, SizeFullscreen:
	default:
		bad("window.size_mode %q", w.SizeMode)
	}
	if w.SizeMode == SizeWindowed && (w.Width <= 0 || w.Height <= 0) {
		bad("window size %dx%d", w.Width, w.Height)
	}
	// Uniform setters use glProgramUniform*, which needs 4.1.
	if w.GLMajor < 4 || (w.GLMajor == 4 && w.GLMinor < 1) {
		bad("OpenGL %d.%d, need at least 4.1", w.GLMajor, w.GLMinor)
	}
	if w.Samples < 0 {
		bad("window.samples %d", w.Samples)
	}

	cam := c.Camera
	if cam.Mode != CameraFPS && cam.Mode != CameraOrbit {
		bad("camera.mode %q", cam.Mode)
	}
	if cam.Fov < 1 || cam.Fov > 45 {
		bad("camera.fov %v outside [1, 45]", cam.Fov)
	}
	if cam.Near <= 0 || cam.Far <= cam.Near {
		bad("camera clip planes near=%v far=%v", cam.Near, cam.Far)
	}

	if c.Resources.Root == "" {
		bad("resources.root is empty")
	}

	a := c.Audio
	for name, v := range map[string]float32{
		"master_volume": a.MasterVolume,
		"music_volume":  a.MusicVolume,
		"sfx_volume":    a.SFXVolume,
	} {
		if v < 0 || v > 1 {
			bad("audio.%s %v outside [0, 1]", name, v)
		}
	}
	if a.MusicPitch <= 0 {
		bad("audio.music_pitch %v", a.MusicPitch)
	}

	if c.Text.PixelSize <= 0 {
		bad("text.pixel_size %v", c.Text.PixelSize)
	}
	if c.Text.Glyphs < 1 || c.Text.Glyphs > 256 {
		bad("text.glyphs %d outside [1, 256]", c.Text.Glyphs)
	}

	if !logger.ValidLevel(c.Logging.Level) {
		bad("logging.level %q", c.Logging.Level)
	}

	return errors.Join(errs...)
}
