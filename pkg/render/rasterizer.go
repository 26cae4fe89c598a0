// Package render implements the orrery software rendering pipeline: an orbit
// camera, the vertex stage, triangle rasterization, procedural fragment
// shading and a double-buffered, depth-tested framebuffer.
package render

import (
	"image"
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// DefaultLightDir is the world-space direction towards the light used for
// fragment intensity.
var DefaultLightDir = math3d.V3(0, 0, 1)

// Fragment is one candidate pixel produced by rasterizing a triangle.
type Fragment struct {
	X, Y      int         // Pixel position
	Depth     float64     // Normalized device depth, smaller is nearer
	Normal    math3d.Vec3 // Interpolated world normal, unit length
	Position  math3d.Vec3 // Interpolated object-space position
	Color     Color       // Interpolated base color
	Intensity float64     // max(0, normal · light)
}

// Triangle is three vertices rasterized together.
type Triangle struct {
	V [3]Vertex
}

// Rasterizer turns screen-space triangles into fragments.
//
// Coverage follows the top-left fill rule with pixel centers at (x+0.5,
// y+0.5): a center strictly inside the triangle is covered, and a center
// exactly on an edge is covered only when that edge is a top or a left edge.
// Two triangles sharing an edge therefore never both cover a pixel on it.
// Triangles are not culled by winding.
type Rasterizer struct {
	LightDir math3d.Vec3
}

// NewRasterizer creates a rasterizer lighting fragments from lightDir.
func NewRasterizer(lightDir math3d.Vec3) Rasterizer {
	return Rasterizer{LightDir: lightDir.Normalize()}
}

// edgeCoeffs returns A, B, C such that A*x + B*y + C is the signed
// parallelogram area of (x0,y0)->(x1,y1) and the point (x, y).
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// isTopLeft reports whether the edge a->b of a triangle with positive area
// (clockwise on a y-down screen) is a top edge or a left edge.
func isTopLeft(a, b math3d.Vec3) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	return (dy == 0 && dx > 0) || dy < 0
}

// covered applies the fill rule to one edge function value.
func covered(w float64, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

// Rasterize calls emit once for every pixel inside clip that the triangle
// a, b, c covers. Triangles with zero area or non-finite screen positions
// produce nothing.
func (r Rasterizer) Rasterize(a, b, c Vertex, clip image.Rectangle, emit func(Fragment)) {
	p0, p1, p2 := a.Screen, b.Screen, c.Screen
	if !p0.IsFinite() || !p1.IsFinite() || !p2.IsFinite() {
		return
	}

	area := (p1.X-p0.X)*(p2.Y-p0.Y) - (p1.Y-p0.Y)*(p2.X-p0.X)
	if area == 0 {
		return
	}
	if area < 0 {
		// Normalize winding so "inside" is always w >= 0.
		b, c = c, b
		p1, p2 = p2, p1
		area = -area
	}

	minX := max(clip.Min.X, toPixel(math.Floor(min(p0.X, p1.X, p2.X))))
	maxX := min(clip.Max.X-1, toPixel(math.Ceil(max(p0.X, p1.X, p2.X))))
	minY := max(clip.Min.Y, toPixel(math.Floor(min(p0.Y, p1.Y, p2.Y))))
	maxY := min(clip.Max.Y-1, toPixel(math.Ceil(max(p0.Y, p1.Y, p2.Y))))
	if minX > maxX || minY > maxY {
		return
	}

	// Edge k is opposite vertex k, so its value is vertex k's weight.
	A0, B0, C0 := edgeCoeffs(p1.X, p1.Y, p2.X, p2.Y)
	A1, B1, C1 := edgeCoeffs(p2.X, p2.Y, p0.X, p0.Y)
	A2, B2, C2 := edgeCoeffs(p0.X, p0.Y, p1.X, p1.Y)
	tl0, tl1, tl2 := isTopLeft(p1, p2), isTopLeft(p2, p0), isTopLeft(p0, p1)

	invArea := 1 / area
	q0, q1, q2 := a.InvW, b.InvW, c.InvW
	perspective := q0 != 0 && q1 != 0 && q2 != 0

	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5

			w0 := A0*px + B0*py + C0
			w1 := A1*px + B1*py + C1
			w2 := A2*px + B2*py + C2
			if !covered(w0, tl0) || !covered(w1, tl1) || !covered(w2, tl2) {
				continue
			}

			l0, l1, l2 := w0*invArea, w1*invArea, w2*invArea

			// Screen-space depth is affine; other attributes are weighted
			// by 1/w so they do not swim under perspective.
			depth := l0*p0.Z + l1*p1.Z + l2*p2.Z
			k0, k1, k2 := l0, l1, l2
			if perspective {
				k0, k1, k2 = l0*q0, l1*q1, l2*q2
				if sum := k0 + k1 + k2; sum != 0 {
					k0, k1, k2 = k0/sum, k1/sum, k2/sum
				} else {
					k0, k1, k2 = l0, l1, l2
				}
			}

			normal := math3d.Blend3(a.WorldNormal, b.WorldNormal, c.WorldNormal, k0, k1, k2).Normalize()
			emit(Fragment{
				X:         x,
				Y:         y,
				Depth:     depth,
				Normal:    normal,
				Position:  math3d.Blend3(a.Position, b.Position, c.Position, k0, k1, k2),
				Color:     blendColor(a.Color, b.Color, c.Color, k0, k1, k2),
				Intensity: math.Max(0, normal.Dot(r.LightDir)),
			})
		}
	}
}

// Fragments collects the fragments of one triangle into a slice.
func (r Rasterizer) Fragments(tri Triangle, clip image.Rectangle) []Fragment {
	var frags []Fragment
	r.Rasterize(tri.V[0], tri.V[1], tri.V[2], clip, func(f Fragment) {
		frags = append(frags, f)
	})
	return frags
}

// Triangles groups a flat vertex list into consecutive triples. A trailing
// group of one or two vertices is dropped.
func Triangles(vertices []Vertex) []Triangle {
	tris := make([]Triangle, len(vertices)/3)
	for i := range tris {
		copy(tris[i].V[:], vertices[i*3:i*3+3])
	}
	return tris
}

// toPixel converts a bounding-box coordinate to int without overflowing for
// vertices projected far off screen.
func toPixel(v float64) int {
	const limit = 1 << 30
	return int(clamp(v, -limit, limit))
}

func blendColor(a, b, c Color, wa, wb, wc float64) Color {
	return Color{
		R: channel(float64(a.R)*wa + float64(b.R)*wb + float64(c.R)*wc + 0.5),
		G: channel(float64(a.G)*wa + float64(b.G)*wb + float64(c.G)*wc + 0.5),
		B: channel(float64(a.B)*wa + float64(b.B)*wb + float64(c.B)*wc + 0.5),
		A: 255,
	}
}
