package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Window.Width != 1280 || cfg.Window.Height != 720 {
		t.Errorf("expected 1280x720, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.SizeMode != SizeDebug {
		t.Errorf("expected size mode %q, got %q", SizeDebug, cfg.Window.SizeMode)
	}
	if cfg.Window.GLMajor != 4 || cfg.Window.GLMinor != 1 {
		t.Errorf("expected OpenGL 4.1, got %d.%d", cfg.Window.GLMajor, cfg.Window.GLMinor)
	}
	if cfg.Window.Samples != 4 {
		t.Errorf("expected 4 samples, got %d", cfg.Window.Samples)
	}

	if cfg.Camera.Mode != CameraFPS {
		t.Errorf("expected fps camera, got %q", cfg.Camera.Mode)
	}
	if cfg.Camera.Near != 0.1 || cfg.Camera.Far != 100 {
		t.Errorf("expected clip planes 0.1/100, got %v/%v", cfg.Camera.Near, cfg.Camera.Far)
	}

	if cfg.Resources.Root != "Resources" || len(cfg.Resources.Dirs) != 5 {
		t.Errorf("unexpected resources %+v", cfg.Resources)
	}

	if cfg.Audio.MusicPitch != 1.2 {
		t.Errorf("expected music pitch 1.2, got %v", cfg.Audio.MusicPitch)
	}

	if cfg.Text.PixelSize != 20 || cfg.Text.Glyphs != 170 {
		t.Errorf("expected 20px with 170 glyphs, got %vpx with %d", cfg.Text.PixelSize, cfg.Text.Glyphs)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
window:
  title: "sandbox"
  width: 1920
  height: 1080
  size_mode: fullscreen
  samples: 8
  clear_color: [0.2, 0.3, 0.4, 1.0]

camera:
  mode: orbit
  fov: 30
  position: [1, 2, 3]

resources:
  root: "/srv/assets"
  dirs: [models, textures]

audio:
  master_volume: 0.5
  muted: true

logging:
  level: "debug"
  log_file: "jf2.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Window.Title != "sandbox" {
		t.Errorf("expected title 'sandbox', got %q", cfg.Window.Title)
	}
	if cfg.Window.Width != 1920 || cfg.Window.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Window.SizeMode != SizeFullscreen {
		t.Errorf("expected fullscreen, got %q", cfg.Window.SizeMode)
	}
	if cfg.Window.ClearColor != [4]float32{0.2, 0.3, 0.4, 1} {
		t.Errorf("unexpected clear color %v", cfg.Window.ClearColor)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Window.GLMajor != 4 {
		t.Errorf("expected default gl_major 4, got %d", cfg.Window.GLMajor)
	}

	if cfg.Camera.Mode != CameraOrbit || cfg.Camera.Fov != 30 {
		t.Errorf("unexpected camera %+v", cfg.Camera)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("unexpected camera position %v", cfg.Camera.Position)
	}

	if cfg.Resources.Root != "/srv/assets" || len(cfg.Resources.Dirs) != 2 {
		t.Errorf("unexpected resources %+v", cfg.Resources)
	}

	if cfg.Audio.MasterVolume != 0.5 || !cfg.Audio.Muted {
		t.Errorf("unexpected audio %+v", cfg.Audio)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.LogFile != "jf2.log" {
		t.Errorf("unexpected logging %+v", cfg.Logging)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad syntax", "window:\n  width: not a number\n  invalid syntax here\n"},
		{"unknown key", "window:\n  widht: 800\n"},
		{"short array", "camera:\n  position: [1, 2]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "invalid.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			cfg := Default()
			if err := loadFromFile(cfg, configPath); err == nil {
				t.Error("expected error loading invalid YAML, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Errorf("expected empty file to load, got %v", err)
	}
	if cfg.Window.Width != 1280 {
		t.Errorf("expected defaults to survive, got width %d", cfg.Window.Width)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected os.ErrNotExist, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"size mode", func(c *Config) { c.Window.SizeMode = "huge" }},
		{"windowed without size", func(c *Config) { c.Window.SizeMode = SizeWindowed; c.Window.Width = 0 }},
		{"old OpenGL", func(c *Config) { c.Window.GLMajor, c.Window.GLMinor = 3, 3 }},
		{"negative samples", func(c *Config) { c.Window.Samples = -1 }},
		{"camera mode", func(c *Config) { c.Camera.Mode = "cinematic" }},
		{"fov", func(c *Config) { c.Camera.Fov = 90 }},
		{"clip planes", func(c *Config) { c.Camera.Far = c.Camera.Near }},
		{"resource root", func(c *Config) { c.Resources.Root = "" }},
		{"volume", func(c *Config) { c.Audio.SFXVolume = 1.5 }},
		{"pitch", func(c *Config) { c.Audio.MusicPitch = 0 }},
		{"pixel size", func(c *Config) { c.Text.PixelSize = 0 }},
		{"glyph count", func(c *Config) { c.Text.Glyphs = 300 }},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Camera.Mode = "cinematic"
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		t.Fatalf("expected a joined error, got %T", err)
	}
	if n := len(joined.Unwrap()); n != 2 {
		t.Errorf("expected 2 problems, got %d: %v", n, err)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Window.Title = "saved"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.Window.Title != "saved" {
		t.Errorf("expected title 'saved', got %q", loaded.Window.Title)
	}

	cfg.Logging.Level = "verbose"
	other := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.SaveTo(other); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
	if _, err := os.Stat(other); !errors.Is(err, os.ErrNotExist) {
		t.Error("expected invalid config not to be written")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile("config.yaml", []byte("window:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Window.DebugContext {
					t.Error("expected a debug context with debug flag")
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name:  "windowed flag",
			setup: func() { *flagWindowed = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.SizeMode != SizeWindowed {
					t.Errorf("expected windowed, got %q", cfg.Window.SizeMode)
				}
			},
			teardown: func() { *flagWindowed = false },
		},
		{
			name:  "fullscreen flag",
			setup: func() { *flagFullscreen = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.SizeMode != SizeFullscreen {
					t.Errorf("expected fullscreen, got %q", cfg.Window.SizeMode)
				}
			},
			teardown: func() { *flagFullscreen = false },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
		{
			name:  "camera flag",
			setup: func() { *flagCamera = CameraOrbit },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Camera.Mode != CameraOrbit {
					t.Errorf("expected orbit camera, got %q", cfg.Camera.Mode)
				}
			},
			teardown: func() { *flagCamera = "" },
		},
		{
			name:  "resources flag",
			setup: func() { *flagResources = "/tmp/res" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Resources.Root != "/tmp/res" {
					t.Errorf("expected resource root /tmp/res, got %q", cfg.Resources.Root)
				}
			},
			teardown: func() { *flagResources = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
window:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	// Height should be from file (900) since no flag override
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("camera:\n  mode: cinematic\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	defer func() { *flagConfig = "" }()

	if _, err := Load(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
