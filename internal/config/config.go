// Package config loads the orrery JSON configuration and merges command
// line overrides into it.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
	"github.com/taigrr/orrery/pkg/scene"
)

// Defaults applied by Resolve.
const (
	DefaultWidth      = 800
	DefaultHeight     = 600
	DefaultFPS        = 60
	DefaultBackground = "#000000"
)

// Vec is an [x, y, z] triple.
type Vec [3]float64

// Vec3 converts v.
func (v Vec) Vec3() math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

func (v Vec) isZero() bool {
	return v == Vec{}
}

func vecOf(v math3d.Vec3) Vec {
	return Vec{v.X, v.Y, v.Z}
}

// Config holds the scene description and render settings.
type Config struct {
	// Output
	Width  int `json:"width"`
	Height int `json:"height"`
	FPS    int `json:"fps"`

	// Render settings
	Seed       int64  `json:"seed"`
	Background string `json:"background"`
	Workers    int    `json:"workers"`
	Bands      int    `json:"bands"`
	Cull       *bool  `json:"cull,omitempty"`
	StarCount  int    `json:"star_count"`
	Orbits     bool   `json:"orbits"`
	Light      Vec    `json:"light"`

	Camera  Camera   `json:"camera"`
	Ship    Ship     `json:"ship"`
	Planets []Planet `json:"planets"`
}

// Camera is the initial eye, center and up vector.
type Camera struct {
	Eye    Vec `json:"eye"`
	Center Vec `json:"center"`
	Up     Vec `json:"up"`
}

// Ship describes the player model. Model is an OBJ, STL or GLB path; empty
// uses the built-in ship.
type Ship struct {
	Model    string         `json:"model,omitempty"`
	Position *Vec           `json:"position,omitempty"`
	Scale    float64        `json:"scale"`
	Shader   *render.Shader `json:"shader,omitempty"`
	Color    string         `json:"color"`
}

// Planet is one orbiting body. Shader is a shader name such as "earth" or an
// integer selector; omitted means "base".
type Planet struct {
	Name       string         `json:"name"`
	Radius     float64        `json:"radius"`
	Distance   float64        `json:"distance"`
	OrbitSpeed float64        `json:"orbit_speed"`
	SpinSpeed  float64        `json:"spin_speed"`
	Angle      float64        `json:"angle,omitempty"`
	Color      string         `json:"color"`
	Shader     *render.Shader `json:"shader,omitempty"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Width     int
	Height    int
	FPS       int
	Seed      int64
	Workers   int
	StarCount int
	Orbits    bool
	Model     string
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or returns an empty Config when path is empty.
func LoadOrDefault(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	return Load(path)
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.FPS > 0 {
		c.FPS = flags.FPS
	}
	if flags.Seed != 0 {
		c.Seed = flags.Seed
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.StarCount != 0 {
		c.StarCount = flags.StarCount
	}
	if flags.Orbits {
		c.Orbits = true
	}
	if flags.Model != "" {
		c.Ship.Model = flags.Model
	}

	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.FPS <= 0 {
		c.FPS = DefaultFPS
	}
	if c.Seed == 0 {
		c.Seed = render.DefaultSeed
	}
	if c.Background == "" {
		c.Background = DefaultBackground
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.StarCount == 0 {
		c.StarCount = scene.DefaultStarCount
	}
	if c.Light.isZero() {
		c.Light = vecOf(render.DefaultLightDir)
	}

	// The camera starts above the ecliptic looking at the sun.
	if c.Camera.Eye.isZero() {
		c.Camera.Eye = Vec{0, 10, 30}
	}
	if c.Camera.Up.isZero() {
		c.Camera.Up = Vec{0, 1, 0}
	}

	ship := scene.DefaultShip()
	if c.Ship.Position == nil {
		p := vecOf(ship.Position)
		c.Ship.Position = &p
	}
	if c.Ship.Scale <= 0 {
		c.Ship.Scale = ship.Scale
	}
	if c.Ship.Shader == nil {
		c.Ship.Shader = &ship.Shader
	}
	if c.Ship.Color == "" {
		c.Ship.Color = hexOf(ship.Color)
	}

	if len(c.Planets) == 0 {
		for _, p := range scene.SolarSystem() {
			c.Planets = append(c.Planets, planetOf(p))
		}
	}
}

// Validate reports every setting that cannot be turned into a scene.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("size %dx%d must be positive", c.Width, c.Height))
	}
	if _, err := parseColor(c.Background); err != nil {
		errs = append(errs, fmt.Errorf("background: %w", err))
	}
	if _, err := parseColor(c.Ship.Color); err != nil {
		errs = append(errs, fmt.Errorf("ship color: %w", err))
	}
	for i, p := range c.Planets {
		if p.Radius <= 0 {
			errs = append(errs, fmt.Errorf("planet %d (%s): radius %v must be positive", i, p.Name, p.Radius))
		}
		if p.Distance < 0 {
			errs = append(errs, fmt.Errorf("planet %d (%s): negative distance %v", i, p.Name, p.Distance))
		}
		if _, err := parseColor(p.Color); err != nil {
			errs = append(errs, fmt.Errorf("planet %d (%s) color: %w", i, p.Name, err))
		}
	}
	return errors.Join(errs...)
}

// BackgroundColor returns the packed background color.
func (c *Config) BackgroundColor() (uint32, error) {
	col, err := parseColor(c.Background)
	if err != nil {
		return 0, fmt.Errorf("background: %w", err)
	}
	return render.Pack(col), nil
}

// ScenePlanets converts the configured planets.
func (c *Config) ScenePlanets() ([]scene.Planet, error) {
	planets := make([]scene.Planet, 0, len(c.Planets))
	for _, p := range c.Planets {
		col, err := parseColor(p.Color)
		if err != nil {
			return nil, fmt.Errorf("planet %s: %w", p.Name, err)
		}
		shader := render.ShaderBase
		if p.Shader != nil {
			shader = *p.Shader
		}
		planets = append(planets, scene.Planet{
			Name:       p.Name,
			Radius:     p.Radius,
			Distance:   p.Distance,
			OrbitSpeed: p.OrbitSpeed,
			SpinSpeed:  p.SpinSpeed,
			Angle:      p.Angle,
			Color:      col,
			Shader:     shader,
		})
	}
	return planets, nil
}

// SceneShip converts the configured ship. Call Resolve first.
func (c *Config) SceneShip() (scene.Ship, error) {
	ship := scene.DefaultShip()
	col, err := parseColor(c.Ship.Color)
	if err != nil {
		return ship, fmt.Errorf("ship: %w", err)
	}
	ship.Color = col
	if c.Ship.Position != nil {
		ship.Position = c.Ship.Position.Vec3()
	}
	if c.Ship.Scale > 0 {
		ship.Scale = c.Ship.Scale
	}
	if c.Ship.Shader != nil {
		ship.Shader = *c.Ship.Shader
	}
	return ship, nil
}

// NewCamera builds the configured camera with the aspect ratio of the
// configured size.
func (c *Config) NewCamera() *render.Camera {
	cam := render.NewCamera(c.Camera.Eye.Vec3(), c.Camera.Center.Vec3(), c.Camera.Up.Vec3())
	if c.Height > 0 {
		cam.SetAspectRatio(float64(c.Width) / float64(c.Height))
	}
	return cam
}

// PipelineOptions returns the render pipeline settings.
func (c *Config) PipelineOptions() render.Options {
	cull := true
	if c.Cull != nil {
		cull = *c.Cull
	}
	return render.Options{
		Workers:  c.Workers,
		Bands:    c.Bands,
		LightDir: c.Light.Vec3(),
		Cull:     cull,
	}
}

func parseColor(s string) (render.Color, error) {
	col, err := colorful.Hex(s)
	if err != nil {
		return render.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := col.RGB255()
	return render.RGB(r, g, b), nil
}

func hexOf(c render.Color) string {
	return colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
}

func planetOf(p scene.Planet) Planet {
	shader := p.Shader
	return Planet{
		Name:       p.Name,
		Radius:     p.Radius,
		Distance:   p.Distance,
		OrbitSpeed: p.OrbitSpeed,
		SpinSpeed:  p.SpinSpeed,
		Angle:      p.Angle,
		Color:      hexOf(p.Color),
		Shader:     &shader,
	}
}
