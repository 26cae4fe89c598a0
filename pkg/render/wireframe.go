package render

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Wireframe draws depth-tested world-space lines, such as orbit paths, on
// top of the rasterized scene.
type Wireframe struct {
	fb       *Framebuffer
	viewProj math3d.Mat4
	viewport math3d.Mat4
}

// NewWireframe creates a line renderer for the given view and projection.
func NewWireframe(fb *Framebuffer, view, projection math3d.Mat4) *Wireframe {
	return &Wireframe{
		fb:       fb,
		viewProj: projection.Mul(view),
		viewport: math3d.Viewport(float64(fb.Width), float64(fb.Height)),
	}
}

// Project maps a world point to pixel coordinates and depth. It reports
// false for points at or behind the eye.
func (w *Wireframe) Project(p math3d.Vec3) (math3d.Vec3, bool) {
	clip := w.viewProj.MulVec4(math3d.Point(p))
	if clip.W <= 0 {
		return math3d.Vec3{}, false
	}
	return w.viewport.MulVec4(clip.PerspectiveDivide()).Vec3(), true
}

// DrawLine3D draws the segment a-b in color. Segments with an endpoint
// behind the eye are skipped; there is no near-plane clipping.
func (w *Wireframe) DrawLine3D(a, b math3d.Vec3, color uint32) {
	pa, okA := w.Project(a)
	pb, okB := w.Project(b)
	if !okA || !okB {
		return
	}
	const limit = 1 << 15
	if math.Abs(pa.X) > limit || math.Abs(pa.Y) > limit || math.Abs(pb.X) > limit || math.Abs(pb.Y) > limit {
		return
	}
	w.fb.DrawLineDepth(
		int(math.Round(pa.X)), int(math.Round(pa.Y)), pa.Z,
		int(math.Round(pb.X)), int(math.Round(pb.Y)), pb.Z,
		color,
	)
}

// DrawCircle draws a horizontal circle (constant Y) of the given radius
// around center as a polygon with segments sides.
func (w *Wireframe) DrawCircle(center math3d.Vec3, radius float64, segments int, color uint32) {
	if segments < 3 || radius <= 0 {
		return
	}
	point := func(i int) math3d.Vec3 {
		a := 2 * math.Pi * float64(i) / float64(segments)
		return center.Add(math3d.V3(radius*math.Cos(a), 0, radius*math.Sin(a)))
	}
	prev := point(0)
	for i := 1; i <= segments; i++ {
		next := point(i)
		w.DrawLine3D(prev, next, color)
		prev = next
	}
}
