// Package demo runs the rendering sandbox: a lit mesh scene with a skybox,
// on-screen text, an instanced sprite and background audio.
package demo

import (
	"fmt"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/assets"
	"github.com/Faultbox/jf2/internal/config"
	"github.com/Faultbox/jf2/internal/engine/audio"
	"github.com/Faultbox/jf2/internal/engine/camera"
	"github.com/Faultbox/jf2/internal/engine/clock"
	"github.com/Faultbox/jf2/internal/engine/debug"
	"github.com/Faultbox/jf2/internal/engine/input"
	"github.com/Faultbox/jf2/internal/engine/lighting"
	"github.com/Faultbox/jf2/internal/engine/renderer"
	"github.com/Faultbox/jf2/internal/engine/scene"
	"github.com/Faultbox/jf2/internal/engine/shader"
	"github.com/Faultbox/jf2/internal/engine/sprite"
	"github.com/Faultbox/jf2/internal/engine/window"
	"github.com/Faultbox/jf2/internal/logger"
)

const textScale = 1.2

// lightOrbit circles the light around the models.
var lightOrbit = lighting.Orbit{Radius: 4, Speed: 3}

// Demo is the running application.
type Demo struct {
	config *config.Config

	window *window.Window
	ctx    *renderer.Context
	input  *input.State
	timer  *clock.FrameTimer
	files  *assets.FileSystem

	programs *assets.Library[*shader.Program]
	textures *assets.Library[*renderer.Texture]

	camera  camera.Camera
	scene   *scene.Scene
	text    *scene.TextRenderer
	sprites *scene.SpriteRenderer
	donut   *sprite.Sprite

	audio *audio.Manager
	music *audio.Music
	sound *audio.Sound

	screenshots *debug.ScreenshotCapture
	opened      chan string
	dialogOpen  atomic.Bool

	frameErrs logger.Once
}

// New creates the window and loads every resource the demo draws.
func New(cfg *config.Config) (*Demo, error) {
	logger.Info("initializing demo",
		zap.String("title", cfg.Window.Title),
		zap.String("resources", cfg.Resources.Root),
	)

	d := &Demo{
		config:      cfg,
		input:       input.New(),
		files:       assets.NewFileSystem(cfg.Resources.Root, cfg.Resources.Dirs...),
		screenshots: debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "jf2"),
		opened:      make(chan string, 1),
	}
	d.programs = assets.NewLibrary("program", (*shader.Program).Delete)
	d.textures = assets.NewLibrary("texture", (*renderer.Texture).Delete)

	if err := d.files.InitSubDirs(); err != nil {
		return nil, fmt.Errorf("resources: %w", err)
	}

	var err error
	d.window, err = window.New(window.Config{
		Title:         cfg.Window.Title,
		Width:         cfg.Window.Width,
		Height:        cfg.Window.Height,
		SizeMode:      cfg.Window.SizeMode,
		GLMajor:       cfg.Window.GLMajor,
		GLMinor:       cfg.Window.GLMinor,
		Samples:       cfg.Window.Samples,
		DebugContext:  cfg.Window.DebugContext,
		CursorEnabled: cfg.Window.CursorEnabled || cfg.Camera.Mode == config.CameraOrbit,
		VSync:         cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The render context needs the GL context the window just made current.
	width, height := d.window.Size()
	d.ctx, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ClearColor: mgl32.Vec4(cfg.Window.ClearColor),
		Debug:      cfg.Window.DebugContext,
	})
	if err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	d.camera = newCamera(cfg.Camera)
	d.timer = clock.NewFrameTimer()

	if err := d.load(); err != nil {
		d.Close()
		return nil, err
	}

	logger.Info("demo initialized", zap.Int("width", width), zap.Int("height", height))
	return d, nil
}

func newCamera(cfg config.CameraConfig) camera.Camera {
	if cfg.Mode == config.CameraOrbit {
		c := camera.NewOrbitCamera()
		c.Fov = cfg.Fov
		return c
	}
	c := camera.NewFPSCamera(mgl32.Vec3(cfg.Position))
	c.Fov = cfg.Fov
	c.Speed = cfg.Speed
	c.Sensitivity = cfg.Sensitivity
	return c
}

// Run executes the frame loop until the window is asked to close.
func (d *Demo) Run() error {
	logger.Info("starting frame loop")

	if d.music != nil {
		d.frameErrs.Error("music play failed", d.music.Play(true))
	}

	for !d.window.ShouldClose() {
		d.timer.Tick()
		d.ctx.ResetStats()

		d.handleInput(d.timer.Delta())
		d.update()
		d.render()

		d.window.PollEvents(d.input)
		d.window.SwapBuffers()
	}

	logger.Info("frame loop finished", zap.Float64("elapsed", d.timer.Elapsed()))
	return nil
}

func (d *Demo) update() {
	lightOrbit.Apply(&d.scene.Light, float32(d.timer.Elapsed()))

	select {
	case path := <-d.opened:
		d.replaceModel(path)
	default:
	}
}

func (d *Demo) render() {
	d.ctx.Clear(renderer.ClearAll)

	d.scene.Render(d.camera)

	if d.config.Debug.ShowFPS {
		st := d.ctx.Stats()
		gray := mgl32.Vec3{0.5, 0.5, 0.5}
		lines := []string{
			fmt.Sprintf("Framerate: %.2f", d.timer.FrameRate(2)),
			fmt.Sprintf("Draws: %d  Binds: %d (%d elided)", st.DrawCalls, st.Binds, st.ElidedBinds),
		}
		step := float32(d.text.LineHeight()) * textScale
		for i, line := range lines {
			y := float32(i) * step
			d.frameErrs.Error("text draw failed", d.text.Draw(line, 0, y, textScale, gray))
		}
	}

	if tex, err := d.textures.Get("donut"); err == nil {
		d.frameErrs.Error("sprite draw failed", d.sprites.Draw(tex, d.donut))
	}
}

// Close releases everything New created, in reverse order.
func (d *Demo) Close() {
	logger.Info("closing demo")

	if d.audio != nil {
		d.audio.Close()
	}
	if d.sprites != nil {
		d.sprites.Destroy()
	}
	if d.text != nil {
		d.text.Destroy()
	}
	if d.scene != nil {
		d.scene.Destroy()
	}
	d.textures.Close()
	d.programs.Close()
	d.files.Close()

	if d.ctx != nil {
		d.ctx.Close()
	}
	if d.window != nil {
		d.window.Close()
	}
}
