package render

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Shader selects the procedural color function for an object's fragments.
type Shader int

// Known shaders. Any value outside [ShaderSun, ShaderBase) shades with the
// fragment's own base color.
const (
	ShaderSun       Shader = iota // Noise-driven star surface
	ShaderRipple                  // Radial sine ripple
	ShaderEarth                   // Land/desert/ocean bands with clouds
	ShaderMoon                    // Cratered surface with a pulsing threshold
	ShaderCellular                // Banded 3D noise energy
	ShaderDisks                   // Grid of drifting disks
	ShaderRippleAlt               // Second ripple slot
	ShaderBase                    // Base color pass-through
)

type shadeFunc func(f *Fragment, u *Uniforms) Color

// shaders is indexed by Shader.
var shaders = [...]shadeFunc{
	ShaderSun:       sunShader,
	ShaderRipple:    rippleShader,
	ShaderEarth:     earthShader,
	ShaderMoon:      moonShader,
	ShaderCellular:  cellularShader,
	ShaderDisks:     diskShader,
	ShaderRippleAlt: rippleShader,
	ShaderBase:      baseShader,
}

var shaderNames = [...]string{
	ShaderSun:       "sun",
	ShaderRipple:    "ripple",
	ShaderEarth:     "earth",
	ShaderMoon:      "moon",
	ShaderCellular:  "cellular",
	ShaderDisks:     "disks",
	ShaderRippleAlt: "ripple-alt",
	ShaderBase:      "base",
}

// String returns the shader name, or "base(n)" for values that fall back.
func (s Shader) String() string {
	if s >= 0 && int(s) < len(shaderNames) {
		return shaderNames[s]
	}
	return fmt.Sprintf("base(%d)", int(s))
}

// ParseShader returns the shader named name, as printed by String. A
// decimal selector such as "2" or "9" is accepted too, as is the "base(n)"
// form String uses for fallback values.
func ParseShader(name string) (Shader, error) {
	for i, n := range shaderNames {
		if n == name {
			return Shader(i), nil
		}
	}
	if inner, ok := strings.CutPrefix(name, "base("); ok {
		if digits, ok := strings.CutSuffix(inner, ")"); ok {
			if n, err := strconv.Atoi(digits); err == nil {
				return Shader(n), nil
			}
		}
	}
	if n, err := strconv.Atoi(name); err == nil {
		return Shader(n), nil
	}
	return 0, fmt.Errorf("unknown shader %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Shader) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shader) UnmarshalText(text []byte) error {
	v, err := ParseShader(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// UnmarshalJSON accepts a shader name or a bare integer selector.
func (s *Shader) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		return s.UnmarshalText([]byte(name))
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("shader must be a name or an integer: %s", data)
	}
	*s = Shader(n)
	return nil
}

// Shade returns the color of f under shader s. It never fails: an unknown
// shader returns f.Color unchanged. Shade is a pure function of its inputs
// and safe to call from many goroutines with the same Uniforms.
func Shade(f *Fragment, u *Uniforms, s Shader) Color {
	if s < 0 || int(s) >= len(shaders) {
		return baseShader(f, u)
	}
	return shaders[s](f, u)
}

func sunShader(f *Fragment, u *Uniforms) Color {
	const (
		zoom      = 50.0
		threshold = 0.6
	)
	var (
		bright = RGB(255, 255, 102)
		dark   = RGB(139, 0, 0)
		base   = RGB(255, 69, 0)
	)

	t := float64(u.Time) * 0.01
	n := u.Noise.Eval2(f.Position.X*zoom+t, f.Position.Y*zoom+t)

	accent := bright
	if n >= threshold {
		accent = dark
	}
	return MultiplyColor(LerpColor(base, accent, n), f.Intensity)
}

func rippleShader(f *Fragment, u *Uniforms) Color {
	const (
		speed     = 0.3
		frequency = 10.0
		amplitude = 0.05
	)
	var (
		base  = RGB(70, 130, 180)
		crest = RGB(173, 216, 230)
	)

	t := float64(u.Time) * speed
	d := math.Hypot(f.Position.X, f.Position.Y)
	ripple := math.Sin(frequency*(d-t)) * amplitude

	return MultiplyColor(LerpColor(base, crest, ripple), f.Intensity)
}

func earthShader(f *Fragment, u *Uniforms) Color {
	const (
		zoom      = 80.0
		cloudZoom = 100.0
		snowLat   = 0.7
		landLevel = 0.4
		sandLevel = 0.3
	)
	var (
		ocean  = RGB(0, 105, 148)
		land   = RGB(34, 139, 34)
		desert = RGB(210, 180, 140)
		snow   = RGB(255, 250, 250)
		sky    = RGB(135, 206, 250)
	)

	x, y := f.Position.X, f.Position.Y
	t := float64(u.Time) * 0.1

	var surface Color
	switch n := u.Noise.Eval2(x*zoom+t, y*zoom); {
	case math.Abs(y) > snowLat:
		surface = snow
	case n > landLevel:
		surface = land
	case n > sandLevel:
		surface = desert
	default:
		surface = ocean
	}

	cloud := u.Noise.Eval2(x*cloudZoom+t*0.5, y*cloudZoom+t*0.5)
	var c Color
	if cloud > 0.6 {
		c = LerpColor(surface, ColorWhite, (clamp(cloud, 0.4, 0.7)-0.4)*0.5)
	} else {
		c = LerpColor(surface, sky, 0.1)
	}
	return MultiplyColor(c, f.Intensity)
}

func moonShader(f *Fragment, u *Uniforms) Color {
	const zoom = 50.0

	t := float64(u.Time) * 0.1
	threshold := 0.4 + math.Sin(t*0.5)*0.05
	n := u.Noise.Eval2(f.Position.X*zoom+t, f.Position.Y*zoom+t)

	var c Color
	switch {
	case n > threshold:
		c = RGB(200, 200, 200)
	case n > threshold-0.1:
		c = RGB(220, 220, 220)
	default:
		c = RGB(250, 250, 250)
	}
	return MultiplyColor(c, f.Intensity)
}

func cellularShader(f *Fragment, u *Uniforms) Color {
	const zoom = 30.0

	t := float64(u.Time) * 0.1
	n := math.Abs(u.Noise.Eval3(f.Position.X*zoom, f.Position.Y*zoom, t))

	var c Color
	switch {
	case n < 0.2:
		c = RGB(255, 69, 0)
	case n < 0.5:
		c = RGB(255, 140, 0)
	case n < 0.8:
		c = RGB(255, 215, 0)
	default:
		c = RGB(255, 255, 153)
	}
	return MultiplyColor(c, f.Intensity)
}

// diskLight is the fixed light the disk grid is lit by, independent of the
// scene light.
var diskLight = math3d.V3(1, 1, 1).Normalize()

func diskShader(f *Fragment, u *Uniforms) Color {
	const (
		radius = 0.1
		speed  = 0.2
		step   = 0.3
	)

	t := float64(u.Time) * 0.01
	intensity := math.Max(0, f.Normal.Normalize().Dot(diskLight))

	for i := -3; i <= 3; i++ {
		for j := -3; j <= 3; j++ {
			cx := float64(i)*step + t*speed
			cy := float64(j)*step + t*speed*0.5
			if math.Hypot(f.Position.X-cx, f.Position.Y-cy) < radius {
				// Pure black is the framebuffer's empty marker, so disks
				// are drawn near-black instead.
				return RGB(16, 16, 16)
			}
		}
	}
	return MultiplyColor(ColorWhite, 0.5+0.5*intensity)
}

func baseShader(f *Fragment, _ *Uniforms) Color {
	return f.Color
}
