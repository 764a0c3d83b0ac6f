package demo

import (
	"errors"
	"path/filepath"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/jf2/internal/engine/camera"
	"github.com/Faultbox/jf2/internal/engine/input"
	"github.com/Faultbox/jf2/internal/logger"
	"github.com/Faultbox/jf2/pkg/formats"
)

// handleInput applies the input gathered by the last PollEvents.
func (d *Demo) handleInput(dt float32) {
	in := d.input

	if in.Quit() || in.KeyDown(input.KeyEscape) {
		d.window.SetCloseFlag()
	}

	if width, height, ok := in.Resized(); ok {
		d.resize(width, height)
	}

	if in.KeyDown(input.KeyE) {
		d.ctx.PolygonMode(true)
	}
	if in.KeyDown(input.KeyQ) {
		d.ctx.PolygonMode(false)
	}
	if in.Pressed(input.KeyL) {
		d.toggleLighting()
	}

	d.camera.Move(in.Axis(input.KeyS, input.KeyW), in.Axis(input.KeyA, input.KeyD), 0, dt)
	dx, dy := in.MouseDelta()
	switch d.camera.(type) {
	case *camera.OrbitCamera:
		if in.MouseDown(input.ButtonRight) {
			d.camera.Look(dx, dy)
		}
	default:
		if !d.window.CursorEnabled() && (dx != 0 || dy != 0) {
			d.camera.Look(dx, dy)
		}
	}
	if s := in.Scroll(); s != 0 {
		d.camera.Zoom(s)
	}

	if in.Clicked(input.ButtonLeft) || in.Pressed(input.KeyF) {
		d.playSound()
	}
	if in.Pressed(input.KeyR) {
		d.openSound(soundDefault)
	}
	if in.Pressed(input.KeyV) {
		d.openSound(soundAlternate)
	}

	if in.Pressed(input.KeyO) {
		d.openModelDialog()
	}
	if in.Pressed(input.KeyF12) {
		d.screenshot()
	}
}

func (d *Demo) resize(width, height int) {
	d.ctx.SetViewport(width, height)
	d.text.Resize(width, height)
	d.sprites.Resize(width, height)
	d.placeSprite(width, height)
}

// toggleLighting swaps the scene between the lit and unlit mesh programs.
func (d *Demo) toggleLighting() {
	name := "unlit"
	if d.scene.Program().Name() == "unlit" {
		name = "model"
	}
	program, err := d.programs.Get(name)
	if err != nil {
		d.frameErrs.Error("lighting toggle failed", err)
		return
	}
	d.scene.SetProgram(program)
	logger.Debug("mesh program switched", zap.String("program", name))
}

func (d *Demo) playSound() {
	if d.sound == nil {
		return
	}
	d.frameErrs.Error("sound play failed", d.sound.Play())
}

// openModelDialog asks for an OBJ file without blocking the frame loop.
// The chosen path is picked up by update.
func (d *Demo) openModelDialog() {
	if !d.dialogOpen.CompareAndSwap(false, true) {
		return
	}
	start, _ := filepath.Abs(filepath.Join(d.files.Root(), dirModels))

	go func() {
		defer d.dialogOpen.Store(false)

		path, err := dialog.File().
			Title("Open model").
			Filter("Wavefront OBJ", "obj").
			SetStartDir(start).
			Load()
		if errors.Is(err, dialog.ErrCancelled) {
			return
		}
		if err != nil {
			logger.Warn("open model dialog failed", zap.Error(err))
			return
		}

		select {
		case d.opened <- path:
		default:
		}
	}()
}

// replaceModel loads path into the cyborg object. The old geometry keeps
// drawing if the new file cannot be loaded.
func (d *Demo) replaceModel(path string) {
	obj := d.scene.Object(objCyborg)

	err := obj.Mesh.Load(path, formats.Triangles)
	if errors.Is(err, formats.ErrFaceArity) {
		err = obj.Mesh.Load(path, formats.Quads)
	}
	if err != nil {
		logger.Error("model not replaced", zap.String("path", path), zap.Error(err))
		return
	}

	if orbit, ok := d.camera.(*camera.OrbitCamera); ok {
		b := obj.Mesh.Bounds()
		orbit.FitToBounds(b.Min, b.Max)
	}
	logger.Info("model replaced", zap.String("path", path), zap.Int("vertices", obj.Mesh.VertexCount()))
}

func (d *Demo) screenshot() {
	pixels, width, height := d.ctx.ReadPixels()
	path, err := d.screenshots.CaptureFromPixels(pixels, width, height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}
