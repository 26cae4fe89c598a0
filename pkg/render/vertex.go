package render

import (
	"github.com/taigrr/orrery/pkg/math3d"
)

// Vertex is one mesh vertex. Position, Normal, UV and Color come from the
// model; Screen, WorldNormal and InvW are filled in by the vertex stage.
type Vertex struct {
	Position math3d.Vec3 // Object-space position
	Normal   math3d.Vec3 // Object-space normal
	UV       math3d.Vec2 // Texture coordinates (carried, not sampled)
	Color    Color       // Base color

	Screen      math3d.Vec3 // x, y in pixels; z is normalized device depth
	WorldNormal math3d.Vec3 // Normal after the normal matrix
	InvW        float64     // 1/w of the clip position; 0 means affine interpolation
}

// Uniforms is the per-draw-call bundle shared by every vertex and fragment
// of one object. Build a fresh one for each object each frame and do not
// modify it while a draw is in flight.
type Uniforms struct {
	Model      math3d.Mat4
	View       math3d.Mat4
	Projection math3d.Mat4
	Viewport   math3d.Mat4
	Time       uint32 // Frame counter, advanced once per frame
	Noise      Noise
}

// VertexStage holds the matrices derived from a Uniforms bundle so that
// they are computed once per draw call instead of once per vertex.
type VertexStage struct {
	mvp      math3d.Mat4
	viewport math3d.Mat4
	normal   math3d.Mat3
}

// NewVertexStage derives the combined clip transform and the normal matrix
// from u.
func NewVertexStage(u *Uniforms) VertexStage {
	return VertexStage{
		mvp:      u.Projection.Mul(u.View).Mul(u.Model),
		viewport: u.Viewport,
		normal:   math3d.NormalMatrix(u.Model),
	}
}

// Transform maps v to screen space and returns the result as a new vertex;
// v itself is never modified. A clip w of zero is divided through unguarded
// and leaves non-finite screen coordinates, which the rasterizer skips.
func (s VertexStage) Transform(v Vertex) Vertex {
	clip := s.mvp.MulVec4(math3d.Point(v.Position))
	ndc := clip.PerspectiveDivide()

	out := v
	out.Screen = s.viewport.MulVec4(ndc).Vec3()
	out.WorldNormal = s.normal.MulVec3(v.Normal)
	out.InvW = 1 / clip.W
	return out
}

// TransformVertex runs the vertex stage for a single vertex.
func TransformVertex(v Vertex, u *Uniforms) Vertex {
	return NewVertexStage(u).Transform(v)
}
