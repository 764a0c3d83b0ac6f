// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/engine/input"
	"github.com/Faultbox/jf2/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Size modes, matching the config values.
const (
	SizeWindowed   = "windowed"
	SizeDebug      = "debug"
	SizeMaximized  = "maximized"
	SizeFullscreen = "fullscreen"
)

// ErrSizeMode is returned for an unknown size mode.
var ErrSizeMode = errors.New("unknown window size mode")

// Config holds window configuration.
type Config struct {
	Title    string
	Width    int
	Height   int
	SizeMode string
	// OpenGL context version and options.
	GLMajor      int
	GLMinor      int
	Samples      int
	DebugContext bool
	// CursorEnabled shows the cursor. When false the mouse is captured in relative mode.
	CursorEnabled bool
	VSync         bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
	close     bool
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// Set OpenGL attributes BEFORE creating window
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, cfg.GLMajor)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, cfg.GLMinor)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	flagsAttr := sdl.GL_CONTEXT_FORWARD_COMPATIBLE_FLAG
	if cfg.DebugContext {
		flagsAttr |= sdl.GL_CONTEXT_DEBUG_FLAG
	}
	sdl.GLSetAttribute(sdl.GL_CONTEXT_FLAGS, flagsAttr)

	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	if cfg.Samples > 0 {
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLEBUFFERS, 1)
		sdl.GLSetAttribute(sdl.GL_MULTISAMPLESAMPLES, cfg.Samples)
	}

	width, height, flags, err := w.placement()
	if err != nil {
		sdl.Quit()
		return nil, err
	}

	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(width),
		int32(height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if cfg.VSync {
		if err := sdl.GLSetSwapInterval(1); err != nil {
			logger.Warn("failed to enable VSync", zap.Error(err))
		}
	} else {
		sdl.GLSetSwapInterval(0)
	}

	w.SetCursorEnabled(cfg.CursorEnabled)

	dw, dh := w.Size()
	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.String("size_mode", cfg.SizeMode),
		zap.Int("width", dw),
		zap.Int("height", dh),
		zap.Int("gl_major", cfg.GLMajor),
		zap.Int("gl_minor", cfg.GLMinor),
		zap.Int("samples", cfg.Samples),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// placement returns the initial window size and creation flags for the size mode.
func (w *Window) placement() (int, int, uint32, error) {
	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)

	switch w.config.SizeMode {
	case SizeWindowed, "":
		return w.config.Width, w.config.Height, flags, nil
	}

	mode, err := sdl.GetDesktopDisplayMode(0)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("querying display mode: %w", err)
	}
	dw, dh := int(mode.W), int(mode.H)

	switch w.config.SizeMode {
	case SizeDebug:
		return dw / 2, dh / 2, flags, nil
	case SizeMaximized:
		return dw, dh, flags | sdl.WINDOW_MAXIMIZED, nil
	case SizeFullscreen:
		return dw, dh, flags | sdl.WINDOW_FULLSCREEN, nil
	}
	return 0, 0, 0, fmt.Errorf("%w: %q", ErrSizeMode, w.config.SizeMode)
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// PollEvents drains the SDL event queue into st, starting a new input frame.
// A quit event also sets the close flag.
func (w *Window) PollEvents(st *input.State) {
	st.Begin()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			st.Push(input.Event{Type: input.EventQuit})
			w.close = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				width, height := w.Size()
				st.Push(input.Event{
					Type:   input.EventWindowResize,
					Width:  width,
					Height: height,
				})
			}

		case *sdl.KeyboardEvent:
			ev := input.Event{
				Key:    input.Key(e.Keysym.Scancode),
				Repeat: e.Repeat != 0,
			}
			if e.Type == sdl.KEYDOWN {
				ev.Type = input.EventKeyDown
			} else {
				ev.Type = input.EventKeyUp
			}
			st.Push(ev)

		case *sdl.MouseMotionEvent:
			st.Push(input.Event{
				Type:   input.EventMouseMove,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				DX:     float32(e.XRel),
				DY:     float32(e.YRel),
			})

		case *sdl.MouseButtonEvent:
			ev := input.Event{
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: input.Button(e.Button),
			}
			if e.Type == sdl.MOUSEBUTTONDOWN {
				ev.Type = input.EventMouseDown
			} else {
				ev.Type = input.EventMouseUp
			}
			st.Push(ev)

		case *sdl.MouseWheelEvent:
			dy := float32(e.Y)
			if e.Direction == sdl.MOUSEWHEEL_FLIPPED {
				dy = -dy
			}
			st.Push(input.Event{Type: input.EventMouseWheel, WheelY: dy})
		}
	}
}

// SetCloseFlag asks the main loop to exit.
func (w *Window) SetCloseFlag() { w.close = true }

// ShouldClose reports whether the window was asked to close.
func (w *Window) ShouldClose() bool { return w.close }

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// Size returns the drawable size in pixels, which is what the viewport needs.
func (w *Window) Size() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// Ratio returns width / height of the drawable area.
func (w *Window) Ratio() float32 {
	width, height := w.Size()
	if height == 0 {
		return 1
	}
	return float32(width) / float32(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// SetCursorEnabled shows the cursor, or hides it and switches to relative mouse motion.
func (w *Window) SetCursorEnabled(enabled bool) {
	w.config.CursorEnabled = enabled
	sdl.SetRelativeMouseMode(!enabled)
}

// CursorEnabled reports whether the cursor is visible.
func (w *Window) CursorEnabled() bool { return w.config.CursorEnabled }

// SetIcon sets the window icon.
func (w *Window) SetIcon(img *image.RGBA) error {
	if img.Rect.Empty() {
		return errors.New("empty icon image")
	}
	// ABGR8888 is RGBA byte order on little-endian machines.
	surface, err := sdl.CreateRGBSurfaceWithFormatFrom(
		unsafe.Pointer(&img.Pix[0]),
		int32(img.Rect.Dx()), int32(img.Rect.Dy()),
		32, int32(img.Stride),
		sdl.PIXELFORMAT_ABGR8888,
	)
	if err != nil {
		return fmt.Errorf("creating icon surface: %w", err)
	}
	defer surface.Free()

	w.sdlWindow.SetIcon(surface)
	return nil
}
