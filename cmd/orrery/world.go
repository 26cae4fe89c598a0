package main

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/scene"
)

// shipRadius is the bounding radius loaded ship models are normalized to,
// matching the built-in ship.
const shipRadius = 2.0

// world is everything one frontend renders: the framebuffer, the pipeline
// drawing into it, the camera and the scene.
type world struct {
	fb       *render.Framebuffer
	pipeline *render.Pipeline
	cam      *render.Camera
	scene    *scene.Scene

	cfg config.Config
	log *log.Logger
}

// newWorld builds a world of width x height pixels from a resolved config.
func newWorld(cfg config.Config, width, height int, logger *log.Logger) (*world, error) {
	planets, err := cfg.ScenePlanets()
	if err != nil {
		return nil, err
	}
	ship, err := cfg.SceneShip()
	if err != nil {
		return nil, err
	}
	mesh, err := loadShipMesh(cfg.Ship.Model)
	if err != nil {
		return nil, err
	}

	w := &world{
		cfg: cfg,
		log: logger,
		cam: cfg.NewCamera(),
	}
	if err := w.resize(width, height); err != nil {
		return nil, err
	}
	w.scene = scene.New(scene.Options{
		Width:     width,
		Height:    height,
		Seed:      cfg.Seed,
		StarCount: cfg.StarCount,
		Planets:   planets,
		Ship:      &ship,
		ShipMesh:  mesh,
		Orbits:    cfg.Orbits,
	})

	logger.Info("world ready",
		"size", fmt.Sprintf("%dx%d", width, height),
		"planets", len(planets),
		"workers", cfg.Workers,
		"seed", cfg.Seed)
	return w, nil
}

// resize replaces the framebuffer and pipeline with ones of the new size.
// The scene, if any, gets a new star field.
func (w *world) resize(width, height int) error {
	bg, err := w.cfg.BackgroundColor()
	if err != nil {
		return err
	}
	w.fb = render.NewFramebuffer(width, height)
	w.fb.SetBackgroundColor(bg)
	w.pipeline = render.NewPipeline(w.fb, w.cfg.PipelineOptions())
	if height > 0 {
		w.cam.SetAspectRatio(float64(width) / float64(height))
	}
	if w.scene != nil {
		w.scene.Resize(width, height)
	}
	return nil
}

// render draws one frame and swaps it into the presented buffer.
func (w *world) render() *scene.State {
	if w.cam.CheckIfChanged() {
		w.log.Debug("camera moved", "eye", w.cam.Eye(), "center", w.cam.Center())
	}
	return w.scene.Render(w.pipeline, w.cam)
}

// reload applies a changed config file. Planets, ship, orbit display, sky and
// pipeline settings are replaced; the camera and frame counter carry on.
// Window size, frame rate and the initial camera only apply at startup.
func (w *world) reload(cfg config.Config, flags config.Flags) {
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		w.log.Error("config rejected", "err", err)
		return
	}
	planets, err := cfg.ScenePlanets()
	if err != nil {
		w.log.Error("config rejected", "err", err)
		return
	}
	ship, err := cfg.SceneShip()
	if err != nil {
		w.log.Error("config rejected", "err", err)
		return
	}

	var mesh *models.Mesh
	if cfg.Ship.Model != w.cfg.Ship.Model {
		if mesh, err = loadShipMesh(cfg.Ship.Model); err != nil {
			w.log.Error("ship model rejected", "err", err)
			return
		}
	}

	if bg, err := cfg.BackgroundColor(); err == nil {
		w.fb.SetBackgroundColor(bg)
	}
	w.scene.SetPlanets(planets)
	w.scene.SetShip(ship, mesh)
	w.scene.SetOrbits(cfg.Orbits)
	if cfg.Seed != w.cfg.Seed || cfg.StarCount != w.cfg.StarCount {
		w.scene.SetSky(cfg.Seed, cfg.StarCount)
	}
	if opts := cfg.PipelineOptions(); opts != w.cfg.PipelineOptions() {
		w.pipeline = render.NewPipeline(w.fb, opts)
	}
	if ignored := restartFields(w.cfg, cfg); len(ignored) > 0 {
		w.log.Warn("config change needs a restart", "fields", ignored)
	}
	w.cfg = cfg
	w.log.Info("config reloaded", "planets", len(planets))
}

// restartFields names the settings that differ between old and next but are
// only read at startup.
func restartFields(old, next config.Config) []string {
	var fields []string
	if old.Width != next.Width || old.Height != next.Height {
		fields = append(fields, "size")
	}
	if old.FPS != next.FPS {
		fields = append(fields, "fps")
	}
	if old.Camera != next.Camera {
		fields = append(fields, "camera")
	}
	return fields
}

// loadShipMesh loads path normalized to shipRadius, or returns the built-in
// ship for an empty path.
func loadShipMesh(path string) (*models.Mesh, error) {
	if path == "" {
		return models.Ship(), nil
	}
	mesh, err := models.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load ship model: %w", err)
	}
	mesh.Normalize(shipRadius)
	return mesh, nil
}
