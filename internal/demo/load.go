package demo

import (
	"errors"
	"fmt"
	"image"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/Faultbox/jf2/internal/engine/audio"
	"github.com/Faultbox/jf2/internal/engine/camera"
	"github.com/Faultbox/jf2/internal/engine/mesh"
	"github.com/Faultbox/jf2/internal/engine/model"
	"github.com/Faultbox/jf2/internal/engine/renderer"
	"github.com/Faultbox/jf2/internal/engine/scene"
	"github.com/Faultbox/jf2/internal/engine/shader"
	"github.com/Faultbox/jf2/internal/engine/shader/shaders"
	"github.com/Faultbox/jf2/internal/engine/sprite"
	"github.com/Faultbox/jf2/internal/engine/text"
	"github.com/Faultbox/jf2/internal/engine/texture"
	"github.com/Faultbox/jf2/internal/logger"
	"github.com/Faultbox/jf2/pkg/formats"
)

// Resource sub directories.
const (
	dirFonts    = "fonts"
	dirAudio    = "audio"
	dirModels   = "models"
	dirShader   = "shader"
	dirTextures = "textures"
)

// Scene contents.
const (
	objFloor  = "floor"
	objCyborg = "cyborg"
	instances = 3

	soundDefault   = "powerup1.ogg"
	soundAlternate = "powerup2.ogg"
)

type meshSource struct {
	name    string
	file    string
	texture string
}

var meshSources = []meshSource{
	{objFloor, "floor.obj", "floor.jpg"},
	{objCyborg, "cyborg.obj", "cyborg_diffuse.png"},
}

func (d *Demo) load() error {
	d.loadIcon()

	program, err := d.loadMeshProgram()
	if err != nil {
		return err
	}

	d.scene, err = scene.New(d.ctx, program, scene.Config{
		Near:            d.config.Camera.Near,
		Far:             d.config.Camera.Far,
		InstanceOffsets: scene.DefaultConfig().InstanceOffsets,
	})
	if err != nil {
		return fmt.Errorf("scene: %w", err)
	}

	for _, src := range meshSources {
		if err := d.loadObject(src); err != nil {
			return err
		}
	}

	if orbit, ok := d.camera.(*camera.OrbitCamera); ok {
		b := d.scene.Object(objCyborg).Mesh.Bounds()
		orbit.FitToBounds(b.Min, b.Max)
	}

	if err := d.loadSkybox(); err != nil {
		return err
	}
	if err := d.loadText(); err != nil {
		return err
	}
	if err := d.loadSprite(); err != nil {
		return err
	}

	d.loadAudio()
	return nil
}

// loadIcon sets the window icon. A missing icon is not fatal.
func (d *Demo) loadIcon() {
	img, err := d.decodeImage(dirTextures, "android_2.png")
	if err == nil {
		err = d.window.SetIcon(img)
	}
	if err != nil {
		logger.Warn("window icon not set", zap.Error(err))
	}
}

// loadMeshProgram prefers the Phong shaders in the resource tree and falls back to the built-in ones.
func (d *Demo) loadMeshProgram() (*shader.Program, error) {
	program, err := shader.LoadProgram("model", d.files.Reader(dirShader), "mesh_vert_phong.glsl", "mesh_frag_phong.glsl")
	if errors.Is(err, os.ErrNotExist) {
		logger.Debug("using built-in mesh shader")
		program, err = shader.NewProgram("model", shaders.MeshVertexShader, shaders.MeshFragmentShader)
	}
	if err != nil {
		return nil, err
	}
	if err := d.programs.Add(program.Name(), program); err != nil {
		program.Delete()
		return nil, err
	}

	unlit, err := shader.NewProgram("unlit", shaders.MeshVertexShader, shaders.BasicFragmentShader)
	if err != nil {
		return nil, err
	}
	if err := d.programs.Add(unlit.Name(), unlit); err != nil {
		unlit.Delete()
		return nil, err
	}
	return program, nil
}

// loadTexture uploads file from the textures directory and registers it as name.
func (d *Demo) loadTexture(name, file string) (*renderer.Texture, error) {
	if tex, err := d.textures.Get(name); err == nil {
		return tex, nil
	}
	data, err := d.files.Read(dirTextures, file)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", name, err)
	}
	tex, err := d.ctx.LoadTexture2D(data, file, renderer.DefaultTextureOptions())
	if err != nil {
		return nil, err
	}
	if err := d.textures.Add(name, tex); err != nil {
		tex.Delete()
		return nil, err
	}
	return tex, nil
}

func (d *Demo) decodeImage(dir, name string) (*image.RGBA, error) {
	data, err := d.files.Read(dir, name)
	if err != nil {
		return nil, err
	}
	return texture.Decode(data, name)
}

func (d *Demo) loadObject(src meshSource) error {
	tex, err := d.loadTexture(src.name, src.texture)
	if err != nil {
		return err
	}
	path, err := d.files.Path(dirModels, src.file)
	if err != nil {
		return err
	}

	m := mesh.New(d.ctx, d.scene.Program().ID())
	m.SetBuildOptions(model.BuildOptions{GenerateNormals: true})
	if err := m.Load(path, formats.Triangles); err != nil {
		return err
	}

	return d.scene.Add(&scene.Object{
		Name:      src.name,
		Mesh:      m,
		Texture:   tex,
		Model:     mgl32.Ident4(),
		Instances: instances,
	})
}

func (d *Demo) loadSkybox() error {
	faces := make([]*image.RGBA, len(texture.CubemapFaces))
	for i, face := range texture.CubemapFaces {
		img, err := d.decodeImage(dirTextures, "skybox/"+face+".jpg")
		if err != nil {
			return fmt.Errorf("skybox face %s: %w", face, err)
		}
		faces[i] = img
	}

	sb, err := scene.NewSkyboxRenderer(d.ctx, faces)
	if err != nil {
		return err
	}
	d.scene.SetSkybox(sb)
	return nil
}

// loadText builds the glyph atlas from the configured font, or the built-in Go font if it is missing.
func (d *Demo) loadText() error {
	cfg := d.config.Text
	data, err := d.files.Read(dirFonts, cfg.Font)
	if err != nil {
		logger.Warn("font not found, using built-in font", zap.String("font", cfg.Font), zap.Error(err))
		data = goregular.TTF
	}

	face, err := text.LoadFace(data, cfg.PixelSize)
	if err != nil {
		return fmt.Errorf("font %s: %w", cfg.Font, err)
	}
	defer face.Close()

	atlas, err := text.BuildAtlas(face, cfg.Glyphs)
	if err != nil {
		return fmt.Errorf("font %s: %w", cfg.Font, err)
	}

	w, h := d.ctx.Viewport()
	d.text, err = scene.NewTextRenderer(d.ctx, atlas, w, h)
	return err
}

func (d *Demo) loadSprite() error {
	if _, err := d.loadTexture("donut", "donut_icon.png"); err != nil {
		return err
	}

	w, h := d.ctx.Viewport()
	var err error
	d.sprites, err = scene.NewSpriteRenderer(d.ctx, w, h)
	if err != nil {
		return err
	}

	d.donut = sprite.New(mgl32.Vec2{}, mgl32.Vec2{100, 100})
	d.donut.Offsets = []mgl32.Vec2{{-100, 0}, {-200, 0}}
	d.placeSprite(w, h)
	return nil
}

// placeSprite keeps the sprite in the bottom-right corner.
func (d *Demo) placeSprite(width, height int) {
	d.donut.Position = mgl32.Vec2{float32(width) - 100, float32(height) - 100}
}

// loadAudio starts the audio device and opens the music and sound effect.
// Audio failures leave the demo silent rather than stopping it.
func (d *Demo) loadAudio() {
	cfg := d.config.Audio
	d.audio = audio.New()
	if err := d.audio.Init(); err != nil {
		logger.Warn("audio disabled", zap.Error(err))
		d.audio = nil
		return
	}
	d.audio.SetMasterVolume(float64(cfg.MasterVolume))
	d.audio.SetMusicVolume(float64(cfg.MusicVolume))
	d.audio.SetSFXVolume(float64(cfg.SFXVolume))
	d.audio.SetMuted(cfg.Muted)

	music := d.audio.NewMusic()
	path, err := d.files.Path(dirAudio, "throne.ogg")
	if err == nil {
		err = music.Open(path)
	}
	if err == nil {
		err = music.SetPitch(float64(cfg.MusicPitch))
	}
	if err != nil {
		logger.Warn("music unavailable", zap.Error(err))
	} else {
		d.music = music
	}

	d.sound = d.audio.NewSound()
	d.openSound(soundDefault)
}

func (d *Demo) openSound(name string) {
	if d.sound == nil {
		return
	}
	path, err := d.files.Path(dirAudio, name)
	if err == nil {
		err = d.sound.Open(path)
	}
	d.frameErrs.Error("sound open failed", err, zap.String("sound", name))
}
