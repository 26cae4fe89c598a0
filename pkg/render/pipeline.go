package render

import (
	"image"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/taigrr/orrery/pkg/math3d"
)

// minChunk is the smallest slice of vertices handed to one vertex worker.
const minChunk = 256

// Options configures a Pipeline.
type Options struct {
	Workers  int         // Goroutines per stage; 0 uses GOMAXPROCS
	Bands    int         // Horizontal bands for rasterization; 0 uses Workers
	LightDir math3d.Vec3 // Zero uses DefaultLightDir
	Cull     bool        // Skip objects whose bounds miss the view frustum
}

// Stats counts the work done by draw calls since the last ResetStats.
type Stats struct {
	Objects   int64
	Culled    int64
	Vertices  int64
	Triangles int64
	Fragments int64
	Written   int64
}

// Object is one draw call: a vertex array, its uniforms and its shader.
type Object struct {
	Uniforms *Uniforms
	Vertices []Vertex
	Shader   Shader
	Bounds   *Sphere // Object-space bounds for culling; nil disables culling
}

// Pipeline runs the vertex stage, rasterizer and shading stage for draw
// calls and composites the results into a Framebuffer.
//
// The vertex stage fans out over chunks of the vertex array. Rasterization
// fans out over horizontal bands of the framebuffer; each band goroutine is
// the only writer of its rows, so the depth test needs no locking.
type Pipeline struct {
	fb      *Framebuffer
	raster  Rasterizer
	workers int
	bands   int
	cull    bool
	opts    Options

	objects, culled, vertices, triangles, fragments, written atomic.Int64
}

// NewPipeline creates a pipeline drawing into fb.
func NewPipeline(fb *Framebuffer, opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Bands <= 0 {
		opts.Bands = opts.Workers
	}
	if opts.LightDir == (math3d.Vec3{}) {
		opts.LightDir = DefaultLightDir
	}
	return &Pipeline{
		fb:      fb,
		raster:  NewRasterizer(opts.LightDir),
		workers: opts.Workers,
		bands:   opts.Bands,
		cull:    opts.Cull,
		opts:    opts,
	}
}

// Options returns the settings the pipeline was built with, defaults filled.
func (p *Pipeline) Options() Options {
	return p.opts
}

// Framebuffer returns the draw target.
func (p *Pipeline) Framebuffer() *Framebuffer {
	return p.fb
}

// Stats returns the counters accumulated since the last ResetStats.
func (p *Pipeline) Stats() Stats {
	return Stats{
		Objects:   p.objects.Load(),
		Culled:    p.culled.Load(),
		Vertices:  p.vertices.Load(),
		Triangles: p.triangles.Load(),
		Fragments: p.fragments.Load(),
		Written:   p.written.Load(),
	}
}

// ResetStats zeroes the counters.
func (p *Pipeline) ResetStats() {
	for _, c := range []*atomic.Int64{&p.objects, &p.culled, &p.vertices, &p.triangles, &p.fragments, &p.written} {
		c.Store(0)
	}
}

// Visible reports whether obj may produce fragments. Objects without bounds
// are always visible.
func (p *Pipeline) Visible(obj Object) bool {
	if obj.Bounds == nil {
		return true
	}
	u := obj.Uniforms
	frustum := ExtractFrustum(u.Projection.Mul(u.View))
	return frustum.IntersectsSphere(obj.Bounds.Transform(u.Model))
}

// Draw renders one object into the write target of the framebuffer. It
// returns once every fragment of the object has been composited.
func (p *Pipeline) Draw(obj Object) {
	p.objects.Add(1)
	if p.cull && !p.Visible(obj) {
		p.culled.Add(1)
		return
	}

	transformed := p.TransformAll(obj.Uniforms, obj.Vertices)
	p.DrawTriangles(Triangles(transformed), obj.Uniforms, obj.Shader)
}

// TransformAll runs the vertex stage over vertices in parallel. The result
// has the same order as the input regardless of which worker finishes
// first; the input slice is not modified.
func (p *Pipeline) TransformAll(u *Uniforms, vertices []Vertex) []Vertex {
	stage := NewVertexStage(u)
	out := make([]Vertex, len(vertices))
	p.vertices.Add(int64(len(vertices)))

	chunk := max(minChunk, (len(vertices)+p.workers-1)/p.workers)

	var g errgroup.Group
	g.SetLimit(p.workers)
	for start := 0; start < len(vertices); start += chunk {
		end := min(start+chunk, len(vertices))
		g.Go(func() error {
			for i := start; i < end; i++ {
				out[i] = stage.Transform(vertices[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// DrawTriangles rasterizes and shades already transformed triangles and
// writes the fragments through the framebuffer depth test.
func (p *Pipeline) DrawTriangles(tris []Triangle, u *Uniforms, s Shader) {
	p.triangles.Add(int64(len(tris)))
	if len(tris) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(p.workers)
	for _, band := range p.Bands() {
		g.Go(func() error {
			p.drawBand(tris, u, s, band)
			return nil
		})
	}
	_ = g.Wait()
}

func (p *Pipeline) drawBand(tris []Triangle, u *Uniforms, s Shader, band image.Rectangle) {
	fb := p.fb
	var frags, written int64
	for i := range tris {
		t := &tris[i]
		p.raster.Rasterize(t.V[0], t.V[1], t.V[2], band, func(f Fragment) {
			frags++
			color := Pack(Shade(&f, u, s))
			if fb.SetPixel(f.X, f.Y, color, f.Depth) {
				written++
			}
		})
	}
	p.fragments.Add(frags)
	p.written.Add(written)
}

// Bands splits the framebuffer into horizontal strips, one per raster
// worker.
func (p *Pipeline) Bands() []image.Rectangle {
	return splitRows(p.fb.Bounds(), p.bands)
}

func splitRows(r image.Rectangle, n int) []image.Rectangle {
	h := r.Dy()
	n = max(1, min(n, h))
	step := (h + n - 1) / n

	bands := make([]image.Rectangle, 0, n)
	for y := r.Min.Y; y < r.Max.Y; y += step {
		bands = append(bands, image.Rect(r.Min.X, y, r.Max.X, min(y+step, r.Max.Y)))
	}
	return bands
}
