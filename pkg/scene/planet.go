package scene

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// Planet is a sphere on a circular orbit in the XZ plane around the origin.
type Planet struct {
	Name       string
	Radius     float64 // Uniform scale of the unit sphere
	Distance   float64 // Orbit radius
	OrbitSpeed float64 // Radians per frame
	SpinSpeed  float64 // Radians per frame about the Y axis
	Color      render.Color
	Shader     render.Shader

	Angle float64 // Current orbit angle
	Spin  float64 // Current rotation about Y
}

// Update advances the planet by one frame.
func (p *Planet) Update() {
	p.Angle = math.Mod(p.Angle+p.OrbitSpeed, 2*math.Pi)
	p.Spin = math.Mod(p.Spin+p.SpinSpeed, 2*math.Pi)
}

// Position returns the planet's center for the current orbit angle.
func (p *Planet) Position() math3d.Vec3 {
	return math3d.V3(p.Distance*math.Cos(p.Angle), 0, p.Distance*math.Sin(p.Angle))
}

// ModelMatrix places the unit sphere at Position, scaled to Radius and
// spun about Y.
func (p *Planet) ModelMatrix() math3d.Mat4 {
	return math3d.ModelMatrix(p.Position(), p.Radius, math3d.V3(0, p.Spin, 0))
}

// ShipStep is how far one move command carries the ship.
const ShipStep = 0.1

// Ship is the player-controlled model.
type Ship struct {
	Position math3d.Vec3
	Scale    float64
	Rotation math3d.Vec3 // Euler angles in radians
	Color    render.Color
	Shader   render.Shader
}

// Move translates the ship by ShipStep along each nonzero axis of dir.
func (s *Ship) Move(dir math3d.Vec3) {
	s.Position = s.Position.Add(math3d.V3(step(dir.X), step(dir.Y), step(dir.Z)))
}

func step(v float64) float64 {
	switch {
	case v > 0:
		return ShipStep
	case v < 0:
		return -ShipStep
	default:
		return 0
	}
}

// ModelMatrix returns translate · scale · rotation for the ship.
func (s *Ship) ModelMatrix() math3d.Mat4 {
	return math3d.ModelMatrix(s.Position, s.Scale, s.Rotation)
}

// SolarSystem returns the default planets: a sun and six planets, each with
// its own shader.
func SolarSystem() []Planet {
	return []Planet{
		{Name: "Sun", Radius: 4, Distance: 0, Color: render.Hex(0xFFFF00), Shader: render.ShaderSun},
		{Name: "Mercury", Radius: 0.5, Distance: 2, OrbitSpeed: 0.04, SpinSpeed: 0.1, Color: render.Hex(0xFFC300), Shader: render.ShaderRipple},
		{Name: "Venus", Radius: 1, Distance: 3.5, OrbitSpeed: 0.03, SpinSpeed: 0.08, Color: render.Hex(0xE24E42), Shader: render.ShaderEarth},
		{Name: "Earth", Radius: 1.2, Distance: 5, OrbitSpeed: 0.02, SpinSpeed: 0.07, Color: render.Hex(0x0077BE), Shader: render.ShaderMoon},
		{Name: "Mars", Radius: 0.8, Distance: 6.8, OrbitSpeed: 0.01, SpinSpeed: 0.05, Color: render.Hex(0xD95D39), Shader: render.ShaderCellular},
		{Name: "Jupiter", Radius: 4, Distance: 12, OrbitSpeed: 0.005, SpinSpeed: 0.03, Color: render.Hex(0xFFF9A6), Shader: render.ShaderDisks},
		{Name: "Saturn", Radius: 3.5, Distance: 16, OrbitSpeed: 0.004, SpinSpeed: 0.02, Color: render.Hex(0xC49C48), Shader: render.ShaderRippleAlt},
	}
}

// DefaultShip returns the ship parked just outside Earth's orbit.
func DefaultShip() Ship {
	return Ship{
		Position: math3d.V3(5.5, 1.5, 0),
		Scale:    0.15,
		Color:    render.RGB(200, 200, 210),
		Shader:   render.ShaderBase,
	}
}
