package render

import (
	"fmt"
	"image"
	"math"
	"testing"

	"github.com/taigrr/orrery/pkg/math3d"
)

func flat(x0, y0, x1, y1, x2, y2, z float64, c Color) Triangle {
	v := func(x, y float64) Vertex {
		out := sv(x, y, z)
		out.Color = c
		return out
	}
	return Triangle{V: [3]Vertex{v(x0, y0), v(x1, y1), v(x2, y2)}}
}

func TestPipelineOverlappingTriangles(t *testing.T) {
	red, green := RGB(200, 0, 0), RGB(0, 200, 0)
	first := flat(10, 10, 20, 10, 10, 20, 0.5, red)
	second := flat(15, 10, 25, 10, 15, 20, 0.3, green)

	inFirst := func(x, y int) bool { return x >= 10 && y >= 10 && x+y <= 28 }
	inSecond := func(x, y int) bool { return x >= 15 && y >= 10 && x+y <= 33 }

	orders := []struct {
		name string
		tris [][]Triangle
	}{
		{"far first", [][]Triangle{{first}, {second}}},
		{"near first", [][]Triangle{{second}, {first}}},
		{"one call", [][]Triangle{{first, second}}},
	}

	for _, bands := range []int{1, 3, 30} {
		for _, o := range orders {
			t.Run(fmt.Sprintf("%s bands=%d", o.name, bands), func(t *testing.T) {
				fb := NewFramebuffer(30, 30)
				fb.Clear()
				p := NewPipeline(fb, Options{Workers: 4, Bands: bands})
				u := &Uniforms{Noise: constNoise(0)}
				for _, tris := range o.tris {
					p.DrawTriangles(tris, u, ShaderBase)
				}
				fb.SwitchBuffers()

				for y := range 30 {
					for x := range 30 {
						var want uint32
						wantDepth := math.Inf(1)
						switch {
						case inSecond(x, y):
							want, wantDepth = Pack(green), 0.3
						case inFirst(x, y):
							want, wantDepth = Pack(red), 0.5
						}
						if got := fb.Pixel(x, y); got != want {
							t.Fatalf("bands=%d pixel (%d,%d) = %06x, want %06x", bands, x, y, got, want)
						}
						if got := fb.Depth(x, y); got != wantDepth && math.Abs(got-wantDepth) > 1e-9 {
							t.Fatalf("bands=%d depth (%d,%d) = %v, want %v", bands, x, y, got, wantDepth)
						}
					}
				}
			})
		}
	}
}

func TestPipelineStats(t *testing.T) {
	fb := NewFramebuffer(30, 30)
	p := NewPipeline(fb, Options{Workers: 2})
	u := &Uniforms{Noise: constNoise(0)}

	p.DrawTriangles([]Triangle{flat(10, 10, 20, 10, 10, 20, 0.5, RGB(9, 9, 9))}, u, ShaderBase)
	p.DrawTriangles([]Triangle{flat(10, 10, 20, 10, 10, 20, 0.7, RGB(9, 9, 9))}, u, ShaderBase)

	s := p.Stats()
	if s.Triangles != 2 || s.Fragments != 90 || s.Written != 45 {
		t.Errorf("stats = %+v, want 2 triangles, 90 fragments, 45 written", s)
	}

	p.ResetStats()
	if s := p.Stats(); s != (Stats{}) {
		t.Errorf("stats after reset = %+v", s)
	}
}

func TestTransformAllPreservesOrder(t *testing.T) {
	u := screenUniforms(math3d.RotateY(0.3))
	verts := make([]Vertex, 2000)
	for i := range verts {
		f := float64(i)
		verts[i] = Vertex{
			Position: math3d.V3(math.Sin(f), math.Cos(f*0.7), math.Sin(f*1.3)),
			Normal:   math3d.V3(0, 1, 0),
		}
	}
	before := make([]Vertex, len(verts))
	copy(before, verts)

	for _, workers := range []int{1, 3, 8} {
		p := NewPipeline(NewFramebuffer(8, 8), Options{Workers: workers})
		got := p.TransformAll(u, verts)
		if len(got) != len(verts) {
			t.Fatalf("workers=%d: got %d vertices, want %d", workers, len(got), len(verts))
		}
		for i := range verts {
			if want := TransformVertex(verts[i], u); got[i] != want {
				t.Fatalf("workers=%d: vertex %d = %+v, want %+v", workers, i, got[i], want)
			}
		}
	}
	for i := range verts {
		if verts[i] != before[i] {
			t.Fatalf("input vertex %d modified", i)
		}
	}
}

func TestPipelineParallelMatchesSequential(t *testing.T) {
	render := func(workers int) []uint32 {
		fb := NewFramebuffer(64, 48)
		fb.Clear()
		p := NewPipeline(fb, Options{Workers: workers})
		u := screenUniforms(math3d.RotateY(0.4).Mul(math3d.RotateX(0.2)))
		u.Viewport = math3d.Viewport(64, 48)
		u.Noise = NewNoise(DefaultSeed)
		p.Draw(Object{Uniforms: u, Vertices: cube(), Shader: ShaderEarth})
		fb.SwitchBuffers()
		out := make([]uint32, len(fb.ReadTarget()))
		copy(out, fb.ReadTarget())
		return out
	}

	want := render(1)
	written := 0
	for _, px := range want {
		if px != Empty {
			written++
		}
	}
	if written == 0 {
		t.Fatal("sequential render drew nothing")
	}

	for _, workers := range []int{2, 5, 16} {
		got := render(workers)
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("workers=%d: pixel %d = %06x, want %06x", workers, i, got[i], want[i])
			}
		}
	}
}

func TestPipelineCulling(t *testing.T) {
	tests := []struct {
		name     string
		offset   math3d.Vec3
		wantDraw bool
	}{
		{"in view", math3d.V3(0, 0, 0), true},
		{"behind eye", math3d.V3(0, 0, 50), false},
		{"far left", math3d.V3(-500, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(80, 60)
			p := NewPipeline(fb, Options{Workers: 2, Cull: true})
			u := screenUniforms(math3d.Translate(tt.offset))
			u.Viewport = math3d.Viewport(80, 60)

			verts := cube()
			bounds := BoundingSphere(verts)
			p.Draw(Object{Uniforms: u, Vertices: verts, Shader: ShaderBase, Bounds: &bounds})

			s := p.Stats()
			if drawn := s.Culled == 0; drawn != tt.wantDraw {
				t.Errorf("drawn = %v, want %v (stats %+v)", drawn, tt.wantDraw, s)
			}
			if s.Objects != 1 {
				t.Errorf("objects = %d, want 1", s.Objects)
			}
		})
	}
}

func TestSplitRows(t *testing.T) {
	tests := []struct {
		name  string
		h, n  int
		bands int
	}{
		{"even", 600, 4, 4},
		{"uneven", 31, 4, 4},
		{"more bands than rows", 3, 10, 3},
		{"zero bands", 10, 0, 1},
		{"one row", 1, 8, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := image.Rect(0, 0, 7, tt.h)
			bands := splitRows(r, tt.n)
			if len(bands) != tt.bands {
				t.Fatalf("got %d bands, want %d", len(bands), tt.bands)
			}
			y := 0
			for _, b := range bands {
				if b.Min.Y != y || b.Dx() != 7 || b.Empty() {
					t.Fatalf("band %v does not continue at row %d", b, y)
				}
				y = b.Max.Y
			}
			if y != tt.h {
				t.Errorf("bands end at row %d, want %d", y, tt.h)
			}
		})
	}
}

func TestWireframe(t *testing.T) {
	fb := NewFramebuffer(80, 60)
	fb.Clear()
	view := math3d.LookAt(math3d.V3(0, 10, 10), math3d.Vec3{}, math3d.Up())
	proj := math3d.Perspective(math.Pi/3, 80.0/60.0, 0.1, 1000)
	w := NewWireframe(fb, view, proj)

	if _, ok := w.Project(math3d.V3(0, 10, 30)); ok {
		t.Error("point behind the eye projected")
	}
	p, ok := w.Project(math3d.Vec3{})
	if !ok || math.Abs(p.X-40) > 1e-9 || math.Abs(p.Y-30) > 1e-9 {
		t.Errorf("origin projects to %v, %v; want viewport center", p, ok)
	}

	w.DrawCircle(math3d.Vec3{}, 3, 32, 0x404040)
	n := 0
	for _, px := range fb.WriteTarget() {
		if px == 0x404040 {
			n++
		}
	}
	if n == 0 {
		t.Error("circle drew nothing")
	}
	if fb.WriteTarget()[30*80+40] == 0x404040 {
		t.Error("circle filled its center")
	}
}

// cube returns a unit cube centered at the origin as a flat triangle list.
func cube() []Vertex {
	faces := []struct {
		n, u, v math3d.Vec3
	}{
		{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0)},
		{math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0)},
		{math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, 1, 0)},
		{math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, 1, 0)},
		{math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1)},
		{math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1)},
	}
	var out []Vertex
	for i, f := range faces {
		c := f.n.Scale(0.5)
		corner := func(su, sv float64) Vertex {
			return Vertex{
				Position: c.Add(f.u.Scale(su * 0.5)).Add(f.v.Scale(sv * 0.5)),
				Normal:   f.n,
				Color:    RGB(uint8(40*i+30), 120, 200),
			}
		}
		a, b, cc, d := corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)
		out = append(out, a, b, cc, a, cc, d)
	}
	return out
}

func BenchmarkPipelineDraw(b *testing.B) {
	fb := NewFramebuffer(320, 240)
	p := NewPipeline(fb, Options{})
	u := screenUniforms(math3d.RotateY(0.5))
	u.Viewport = math3d.Viewport(320, 240)
	u.Noise = NewNoise(DefaultSeed)
	obj := Object{Uniforms: u, Vertices: cube(), Shader: ShaderSun}

	for b.Loop() {
		fb.Clear()
		p.Draw(obj)
	}
}
