package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging and a GL debug context")
	flagWindowed   = flag.Bool("windowed", false, "Run in a window of -width x -height")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagCamera     = flag.String("camera", "", "Camera mode: fps or orbit")
	flagResources  = flag.String("resources", "", "Resource root directory")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
		cfg.Debug.ShowFPS = true
		cfg.Window.DebugContext = true
	}
	if *flagWindowed {
		cfg.Window.SizeMode = SizeWindowed
	}
	if *flagFullscreen {
		cfg.Window.SizeMode = SizeFullscreen
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagCamera != "" {
		cfg.Camera.Mode = *flagCamera
	}
	if *flagResources != "" {
		cfg.Resources.Root = *flagResources
	}
}
