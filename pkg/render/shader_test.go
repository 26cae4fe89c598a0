package render

import (
	"encoding/json"
	"testing"

	"github.com/taigrr/orrery/pkg/math3d"
)

// constNoise returns the same value everywhere.
type constNoise float64

func (n constNoise) Eval2(x, y float64) float64    { return float64(n) }
func (n constNoise) Eval3(x, y, z float64) float64 { return float64(n) }

func litFragment(pos math3d.Vec3) Fragment {
	return Fragment{
		Position:  pos,
		Normal:    math3d.V3(0, 0, 1),
		Color:     RGB(12, 34, 56),
		Intensity: 1,
	}
}

func TestShadeFallback(t *testing.T) {
	u := &Uniforms{Noise: NewNoise(DefaultSeed)}
	f := litFragment(math3d.V3(0.3, 0.2, 0))

	for _, s := range []Shader{ShaderBase, -1, 8, 100} {
		t.Run(s.String(), func(t *testing.T) {
			if got := Shade(&f, u, s); got != f.Color {
				t.Errorf("Shade(%d) = %v, want base color %v", s, got, f.Color)
			}
		})
	}
}

func TestShaderString(t *testing.T) {
	tests := []struct {
		s    Shader
		want string
	}{
		{ShaderSun, "sun"},
		{ShaderEarth, "earth"},
		{ShaderRippleAlt, "ripple-alt"},
		{ShaderBase, "base"},
		{42, "base(42)"},
		{-3, "base(-3)"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("Shader(%d).String() = %q, want %q", int(tt.s), got, tt.want)
		}
	}
}

func TestParseShader(t *testing.T) {
	// Every selector, known or fallback, survives String and back.
	for s := Shader(-3); s <= ShaderBase+5; s++ {
		got, err := ParseShader(s.String())
		if err != nil || got != s {
			t.Errorf("ParseShader(%q) = %v, %v", s.String(), got, err)
		}
	}

	tests := []struct {
		in      string
		want    Shader
		wantErr bool
	}{
		{"moon", ShaderMoon, false},
		{"2", ShaderEarth, false},
		{"9", 9, false},
		{"-1", -1, false},
		{"base(9)", 9, false},
		{"plasma", 0, true},
		{"base(x)", 0, true},
		{"base(9", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShader(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseShader(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseShader(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestShaderJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    Shader
		wantErr bool
	}{
		{`"earth"`, ShaderEarth, false},
		{`2`, ShaderEarth, false},
		{`9`, 9, false},
		{`"base(9)"`, 9, false},
		{`"7"`, ShaderBase, false},
		{`1.5`, 0, true},
		{`true`, 0, true},
		{`"plasma"`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s Shader
			err := json.Unmarshal([]byte(tt.in), &s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && s != tt.want {
				t.Errorf("Unmarshal(%s) = %d, want %d", tt.in, s, tt.want)
			}
		})
	}

	out, err := json.Marshal(Shader(9))
	if err != nil {
		t.Fatal(err)
	}
	var back Shader
	if err := json.Unmarshal(out, &back); err != nil || back != 9 {
		t.Errorf("round trip of %s = %d, %v", out, back, err)
	}
}

func TestShadeDeterministic(t *testing.T) {
	positions := []math3d.Vec3{
		math3d.V3(0, 0, 0),
		math3d.V3(0.5, -0.25, 0.8),
		math3d.V3(-0.9, 0.1, 0.4),
		math3d.V3(0.12, 0.95, -0.3),
	}

	for s := ShaderSun; s <= ShaderBase; s++ {
		t.Run(s.String(), func(t *testing.T) {
			a := &Uniforms{Time: 57, Noise: NewNoise(DefaultSeed)}
			b := &Uniforms{Time: 57, Noise: NewNoise(DefaultSeed)}
			for _, p := range positions {
				f := litFragment(p)
				g := litFragment(p)
				if ca, cb := Shade(&f, a, s), Shade(&g, b, s); ca != cb {
					t.Errorf("position %v: %v != %v", p, ca, cb)
				}
			}
		})
	}
}

func TestRippleSlotsMatch(t *testing.T) {
	u := &Uniforms{Time: 13, Noise: NewNoise(DefaultSeed)}
	for _, p := range []math3d.Vec3{math3d.V3(0.1, 0.2, 0), math3d.V3(-0.7, 0.4, 0)} {
		f := litFragment(p)
		if a, b := Shade(&f, u, ShaderRipple), Shade(&f, u, ShaderRippleAlt); a != b {
			t.Errorf("position %v: ripple %v != ripple-alt %v", p, a, b)
		}
	}
}

func TestShadeUnlit(t *testing.T) {
	u := &Uniforms{Noise: constNoise(0.1)}
	for _, s := range []Shader{ShaderSun, ShaderRipple, ShaderEarth, ShaderMoon, ShaderCellular} {
		t.Run(s.String(), func(t *testing.T) {
			f := litFragment(math3d.V3(0.2, 0.1, 0))
			f.Intensity = 0
			if got := Shade(&f, u, s); got != ColorBlack {
				t.Errorf("unlit fragment = %v, want black", got)
			}
		})
	}
}

func TestCellularBands(t *testing.T) {
	tests := []struct {
		noise float64
		want  Color
	}{
		{0.1, RGB(255, 69, 0)},
		{-0.1, RGB(255, 69, 0)},
		{0.3, RGB(255, 140, 0)},
		{-0.6, RGB(255, 215, 0)},
		{0.9, RGB(255, 255, 153)},
	}
	for _, tt := range tests {
		u := &Uniforms{Noise: constNoise(tt.noise)}
		f := litFragment(math3d.V3(0, 0, 0))
		if got := Shade(&f, u, ShaderCellular); got != tt.want {
			t.Errorf("noise %v: got %v, want %v", tt.noise, got, tt.want)
		}
	}
}

func TestMoonBands(t *testing.T) {
	// At time 0 the crater threshold is exactly 0.4.
	tests := []struct {
		noise float64
		want  Color
	}{
		{0.5, RGB(200, 200, 200)},
		{0.35, RGB(220, 220, 220)},
		{0.0, RGB(250, 250, 250)},
	}
	for _, tt := range tests {
		u := &Uniforms{Noise: constNoise(tt.noise)}
		f := litFragment(math3d.V3(0, 0, 0))
		if got := Shade(&f, u, ShaderMoon); got != tt.want {
			t.Errorf("noise %v: got %v, want %v", tt.noise, got, tt.want)
		}
	}
}

func TestEarthPoles(t *testing.T) {
	// Low clouds leave the surface tinted 10% towards the sky.
	u := &Uniforms{Noise: constNoise(0)}
	f := litFragment(math3d.V3(0, 0.9, 0))
	want := LerpColor(RGB(255, 250, 250), RGB(135, 206, 250), 0.1)
	if got := Shade(&f, u, ShaderEarth); got != want {
		t.Errorf("polar fragment = %v, want snow %v", got, want)
	}

	f = litFragment(math3d.V3(0, 0.1, 0))
	want = LerpColor(RGB(0, 105, 148), RGB(135, 206, 250), 0.1)
	if got := Shade(&f, u, ShaderEarth); got != want {
		t.Errorf("equatorial fragment = %v, want ocean %v", got, want)
	}
}

func TestSunThreshold(t *testing.T) {
	tests := []struct {
		name  string
		noise float64
		want  Color
	}{
		{"bright", 0.5, LerpColor(RGB(255, 69, 0), RGB(255, 255, 102), 0.5)},
		{"dark", 0.8, LerpColor(RGB(255, 69, 0), RGB(139, 0, 0), 0.8)},
		{"negative clamps", -0.5, RGB(255, 69, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &Uniforms{Noise: constNoise(tt.noise)}
			f := litFragment(math3d.V3(0, 0, 0))
			if got := Shade(&f, u, ShaderSun); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiskShader(t *testing.T) {
	u := &Uniforms{Noise: constNoise(0)}

	// At time 0 a disk is centered on the origin.
	f := litFragment(math3d.V3(0, 0, 0))
	got := Shade(&f, u, ShaderDisks)
	if got == ColorBlack || Pack(got) == Empty {
		t.Fatal("disk pixel must not be the empty marker")
	}
	if got.R > 32 || got.G > 32 || got.B > 32 {
		t.Errorf("disk pixel = %v, want near black", got)
	}

	// Between disks the surface is lit by the fixed diagonal light.
	f = litFragment(math3d.V3(0.15, 0.15, 0))
	if got := Shade(&f, u, ShaderDisks); got.R < 128 {
		t.Errorf("background pixel = %v, want at least half white", got)
	}
}

func BenchmarkShade(b *testing.B) {
	u := &Uniforms{Time: 10, Noise: NewNoise(DefaultSeed)}
	f := litFragment(math3d.V3(0.3, 0.2, 0.1))
	for s := ShaderSun; s <= ShaderBase; s++ {
		b.Run(s.String(), func(b *testing.B) {
			for b.Loop() {
				_ = Shade(&f, u, s)
			}
		})
	}
}
