package render

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Plane is the set of points p with Normal·p + D = 0.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// Normalize scales the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance to point, positive on the side
// the normal points to.
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds the six view planes (left, right, bottom, top, near, far)
// with normals pointing inward.
type Frustum [6]Plane

// ExtractFrustum derives the frustum planes from a projection·view matrix
// using the Gribb/Hartmann row combinations.
func ExtractFrustum(m math3d.Mat4) Frustum {
	row := func(i int) (math3d.Vec3, float64) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	w, wd := row(3)

	var f Frustum
	for axis := range 3 {
		r, rd := row(axis)
		f[axis*2] = Plane{Normal: w.Add(r), D: wd + rd}
		f[axis*2+1] = Plane{Normal: w.Sub(r), D: wd - rd}
	}
	for i := range f {
		f[i].Normalize()
	}
	return f
}

// ContainsPoint reports whether p is inside every plane.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, pl := range f {
		if pl.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere reports whether any part of s may be inside the frustum.
func (f Frustum) IntersectsSphere(s Sphere) bool {
	for _, pl := range f {
		if pl.DistanceToPoint(s.Center) < -s.Radius {
			return false
		}
	}
	return true
}

// Sphere is a bounding sphere.
type Sphere struct {
	Center math3d.Vec3
	Radius float64
}

// Transform returns a sphere bounding s after the affine transform m.
func (s Sphere) Transform(m math3d.Mat4) Sphere {
	return Sphere{
		Center: m.MulPoint(s.Center),
		Radius: s.Radius * m.MaxScale(),
	}
}

// BoundingSphere returns a sphere enclosing the object-space positions of
// vertices, centered on their bounding box.
func BoundingSphere(vertices []Vertex) Sphere {
	if len(vertices) == 0 {
		return Sphere{}
	}
	lo, hi := vertices[0].Position, vertices[0].Position
	for _, v := range vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	c := lo.Add(hi).Scale(0.5)

	var r2 float64
	for _, v := range vertices {
		r2 = max(r2, v.Position.Sub(c).LenSq())
	}
	return Sphere{Center: c, Radius: math.Sqrt(r2)}
}
