// Package scene holds the orrery's mutable world: planets on their orbits,
// the ship, the star field and the frame counter. It turns that state into
// draw calls for the render pipeline once per frame.
package scene

import (
	"sync"

	"github.com/barkimedes/go-deepcopy"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/render"
)

// Defaults for Options fields left zero.
const (
	DefaultStarCount    = 500
	DefaultSphereStacks = 16
	DefaultOrbitColor   = uint32(0x303040)
	orbitSegments       = 96
)

// Options configures a Scene.
type Options struct {
	Width, Height int          // Framebuffer size the star field is scattered over
	Seed          int64        // Star field and shader noise seed
	StarCount     int          // 0 uses DefaultStarCount; negative disables stars
	Planets       []Planet     // nil uses SolarSystem
	Ship          *Ship        // nil uses DefaultShip
	ShipMesh      *models.Mesh // nil uses models.Ship
	SphereStacks  int          // Sphere tessellation; 0 uses DefaultSphereStacks
	Orbits        bool         // Draw orbit rings
	OrbitColor    uint32       // 0 uses DefaultOrbitColor
}

// State is the part of the scene that changes from frame to frame.
type State struct {
	Planets []Planet
	Ship    Ship
	Time    uint32 // Frame counter, one per rendered frame
}

// Frame is everything needed to draw one frame: a private copy of the state
// and the vertex arrays that go with it.
type Frame struct {
	State       *State
	planetVerts [][]render.Vertex
	shipVerts   []render.Vertex
}

// Scene is safe for concurrent use: input handlers may move the ship or
// replace planets while a frame is being drawn from an earlier Frame.
type Scene struct {
	mu    sync.Mutex
	state State

	seed          int64
	starCount     int
	width, height int
	stars         Stars

	sphere       *models.Mesh
	sphereBounds render.Sphere
	planetVerts  [][]render.Vertex

	shipMesh   *models.Mesh
	shipBounds render.Sphere
	shipVerts  []render.Vertex

	orbits     bool
	orbitColor uint32
}

// New builds a scene from opts.
func New(opts Options) *Scene {
	if opts.StarCount == 0 {
		opts.StarCount = DefaultStarCount
	}
	if opts.Planets == nil {
		opts.Planets = SolarSystem()
	}
	ship := DefaultShip()
	if opts.Ship != nil {
		ship = *opts.Ship
	}
	if opts.ShipMesh == nil {
		opts.ShipMesh = models.Ship()
	}
	if opts.SphereStacks <= 0 {
		opts.SphereStacks = DefaultSphereStacks
	}
	if opts.OrbitColor == 0 {
		opts.OrbitColor = DefaultOrbitColor
	}

	sphere := models.UVSphere(opts.SphereStacks, opts.SphereStacks*2)
	s := &Scene{
		seed:         opts.Seed,
		starCount:    max(opts.StarCount, 0),
		sphere:       sphere,
		sphereBounds: sphere.BoundingSphere(),
		orbits:       opts.Orbits,
		orbitColor:   opts.OrbitColor,
	}
	s.Resize(opts.Width, opts.Height)
	s.SetPlanets(opts.Planets)
	s.SetShip(ship, opts.ShipMesh)
	return s
}

// Resize scatters a new star field for a width x height framebuffer.
func (s *Scene) Resize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
	s.stars = GenerateStars(s.starCount, width, height, uint64(s.seed))
}

// SetSky reseeds the star field and the shader noise. starCount follows
// Options.StarCount: 0 uses DefaultStarCount and negative disables stars.
func (s *Scene) SetSky(seed int64, starCount int) {
	if starCount == 0 {
		starCount = DefaultStarCount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seed = seed
	s.starCount = max(starCount, 0)
	s.stars = GenerateStars(s.starCount, s.width, s.height, uint64(seed))
}

// Sky returns the current seed and star field.
func (s *Scene) Sky() (int64, Stars) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seed, s.stars
}

// SetPlanets replaces every planet. Orbit angles start from each planet's
// own Angle field.
func (s *Scene) SetPlanets(planets []Planet) {
	planets = append([]Planet(nil), planets...)
	verts := make([][]render.Vertex, len(planets))
	for i, p := range planets {
		verts[i] = s.sphere.VertexArray(p.Color)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Planets = planets
	s.planetVerts = verts
}

// SetShip replaces the ship and, when mesh is non-nil, its model.
func (s *Scene) SetShip(ship Ship, mesh *models.Mesh) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mesh != nil {
		s.shipMesh = mesh
		s.shipBounds = mesh.BoundingSphere()
	}
	s.state.Ship = ship
	s.shipVerts = s.shipMesh.VertexArray(ship.Color)
}

// SetOrbits turns the orbit rings on or off.
func (s *Scene) SetOrbits(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orbits = on
}

// Orbits reports whether orbit rings are drawn.
func (s *Scene) Orbits() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orbits
}

// MoveShip moves the ship one step along dir.
func (s *Scene) MoveShip(dir math3d.Vec3) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Ship.Move(dir)
}

// Snapshot returns a deep copy of the current state.
func (s *Scene) Snapshot() *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deepcopy.MustAnything(&s.state).(*State)
}

// Advance moves every planet one frame along its orbit and returns the
// frame to draw. The frame counter is read for the returned frame and then
// incremented, so the first frame has time 0.
func (s *Scene) Advance() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Planets {
		s.state.Planets[i].Update()
	}
	f := Frame{
		State:       deepcopy.MustAnything(&s.state).(*State),
		planetVerts: s.planetVerts,
		shipVerts:   s.shipVerts,
	}
	s.state.Time++
	return f
}

// Draw renders f into the pipeline's write target: stars first, then each
// planet, the ship and, if enabled, the orbit rings. The caller clears and
// swaps the framebuffer.
func (s *Scene) Draw(p *render.Pipeline, cam *render.Camera, f Frame) {
	s.mu.Lock()
	seed, stars, orbits, orbitColor := s.seed, s.stars, s.orbits, s.orbitColor
	sphereBounds, shipBounds := s.sphereBounds, s.shipBounds
	s.mu.Unlock()

	fb := p.Framebuffer()
	stars.Draw(fb)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	viewport := math3d.Viewport(float64(fb.Width), float64(fb.Height))
	uniforms := func(model math3d.Mat4) *render.Uniforms {
		return &render.Uniforms{
			Model:      model,
			View:       view,
			Projection: proj,
			Viewport:   viewport,
			Time:       f.State.Time,
			Noise:      render.NewNoise(seed),
		}
	}

	for i := range f.State.Planets {
		planet := &f.State.Planets[i]
		p.Draw(render.Object{
			Uniforms: uniforms(planet.ModelMatrix()),
			Vertices: f.planetVerts[i],
			Shader:   planet.Shader,
			Bounds:   &sphereBounds,
		})
	}

	ship := &f.State.Ship
	p.Draw(render.Object{
		Uniforms: uniforms(ship.ModelMatrix()),
		Vertices: f.shipVerts,
		Shader:   ship.Shader,
		Bounds:   &shipBounds,
	})

	if orbits {
		w := render.NewWireframe(fb, view, proj)
		for _, planet := range f.State.Planets {
			w.DrawCircle(math3d.Vec3{}, planet.Distance, orbitSegments, orbitColor)
		}
	}
}

// Render produces one complete frame: it advances the scene, clears the
// write target, draws and swaps so the new frame becomes presentable.
func (s *Scene) Render(p *render.Pipeline, cam *render.Camera) *State {
	f := s.Advance()
	fb := p.Framebuffer()
	fb.Clear()
	s.Draw(p, cam, f)
	fb.SwitchBuffers()
	return f.State
}
