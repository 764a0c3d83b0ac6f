// Package config handles application configuration loading and management.
package config

// Window size modes.
const (
	SizeWindowed   = "windowed"   // Width × Height
	SizeDebug      = "debug"      // half the display in each direction
	SizeMaximized  = "maximized"  // fills the desktop, keeps decorations
	SizeFullscreen = "fullscreen" // exclusive fullscreen at the desktop resolution
)

// Camera modes.
const (
	CameraFPS   = "fps"
	CameraOrbit = "orbit"
)

// Config holds all application settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Camera    CameraConfig    `yaml:"camera"`
	Resources ResourcesConfig `yaml:"resources"`
	Audio     AudioConfig     `yaml:"audio"`
	Text      TextConfig      `yaml:"text"`
	Debug     DebugConfig     `yaml:"debug"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display and GL context settings.
type WindowConfig struct {
	Title         string     `yaml:"title"`
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	SizeMode      string     `yaml:"size_mode"`
	GLMajor       int        `yaml:"gl_major"`
	GLMinor       int        `yaml:"gl_minor"`
	Samples       int        `yaml:"samples"`
	DebugContext  bool       `yaml:"debug_context"`
	CursorEnabled bool       `yaml:"cursor_enabled"`
	VSync         bool       `yaml:"vsync"`
	ClearColor    [4]float32 `yaml:"clear_color"`
}

// CameraConfig holds the initial camera settings.
type CameraConfig struct {
	Mode        string     `yaml:"mode"`
	Fov         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Position    [3]float32 `yaml:"position"`
}

// ResourcesConfig holds the resource directory layout.
type ResourcesConfig struct {
	Root string   `yaml:"root"`
	Dirs []string `yaml:"dirs"` // sub directories of Root
}

// AudioConfig holds audio settings.
type AudioConfig struct {
	MasterVolume float32 `yaml:"master_volume"`
	MusicVolume  float32 `yaml:"music_volume"`
	SFXVolume    float32 `yaml:"sfx_volume"`
	MusicPitch   float32 `yaml:"music_pitch"`
	Muted        bool    `yaml:"muted"`
}

// TextConfig holds font settings for on-screen text.
type TextConfig struct {
	Font      string  `yaml:"font"`
	PixelSize float64 `yaml:"pixel_size"`
	Glyphs    int     `yaml:"glyphs"`
}

// DebugConfig holds developer settings.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
	ShowFPS       bool   `yaml:"show_fps"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "jf2",
			Width:      1280,
			Height:     720,
			SizeMode:   SizeDebug,
			GLMajor:    4,
			GLMinor:    1,
			Samples:    4,
			VSync:      true,
			ClearColor: [4]float32{0.1, 0.1, 0.1, 1},
		},
		Camera: CameraConfig{
			Mode:        CameraFPS,
			Fov:         45,
			Near:        0.1,
			Far:         100,
			Speed:       2.5,
			Sensitivity: 0.1,
			Position:    [3]float32{0, 0, 3},
		},
		Resources: ResourcesConfig{
			Root: "Resources",
			Dirs: []string{"fonts", "audio", "models", "shader", "textures"},
		},
		Audio: AudioConfig{
			MasterVolume: 0.8,
			MusicVolume:  0.7,
			SFXVolume:    0.8,
			MusicPitch:   1.2,
		},
		Text: TextConfig{
			Font:      "Wallpoet-Regular.ttf",
			PixelSize: 20,
			Glyphs:    170,
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
			ShowFPS:       true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
