package models

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// UVSphere builds a unit sphere from stacks rings of slices segments. The
// normal of every vertex is its position, so the sphere shades smoothly.
// stacks is raised to at least 2 and slices to at least 3.
func UVSphere(stacks, slices int) *Mesh {
	stacks = max(stacks, 2)
	slices = max(slices, 3)

	mesh := NewMesh("sphere")
	for i := 0; i <= stacks; i++ {
		phi := math.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * math.Pi * float64(j) / float64(slices)
			p := math3d.V3(
				math.Sin(phi)*math.Cos(theta),
				math.Cos(phi),
				math.Sin(phi)*math.Sin(theta),
			)
			mesh.Vertices = append(mesh.Vertices, MeshVertex{
				Position: p,
				Normal:   p,
				UV:       math3d.V2(float64(j)/float64(slices), 1-float64(i)/float64(stacks)),
			})
		}
	}

	row := slices + 1
	for i := range stacks {
		for j := range slices {
			a := i*row + j
			b := a + row
			// The first and last rings collapse to the poles; skip the
			// degenerate half of their quads.
			if i != 0 {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{a, b, a + 1}, Material: -1})
			}
			if i != stacks-1 {
				mesh.Faces = append(mesh.Faces, Face{V: [3]int{a + 1, b, b + 1}, Material: -1})
			}
		}
	}

	mesh.CalculateBounds()
	return mesh
}

// Ship builds the default low-poly spaceship, nose along +Z, roughly 4 units
// long. Faces without a material take the caller's base color; the cockpit
// is tinted.
func Ship() *Mesh {
	var (
		nose    = math3d.V3(0, 0, 2)
		tail    = math3d.V3(0, 0, -1.5)
		wingL   = math3d.V3(-1.8, 0, -1.2)
		wingR   = math3d.V3(1.8, 0, -1.2)
		top     = math3d.V3(0, 0.5, -0.6)
		bottom  = math3d.V3(0, -0.3, -0.6)
		canopy  = math3d.V3(0, 0.55, 0.4)
		finTop  = math3d.V3(0, 1.1, -1.5)
		cockpit = 0
		hull    = -1
	)

	mesh := NewMesh("ship")
	mesh.Materials = []Material{{Name: "cockpit", Color: render.RGB(120, 200, 255)}}

	tris := []struct {
		a, b, c  math3d.Vec3
		material int
	}{
		// Upper hull
		{nose, wingR, canopy, hull},
		{nose, canopy, wingL, hull},
		{canopy, wingR, top, cockpit},
		{canopy, top, wingL, cockpit},
		{top, wingR, tail, hull},
		{top, tail, wingL, hull},
		// Lower hull
		{nose, bottom, wingR, hull},
		{nose, wingL, bottom, hull},
		{bottom, tail, wingR, hull},
		{bottom, wingL, tail, hull},
		// Tail fin, both sides
		{top, finTop, tail, hull},
		{top, tail, finTop, hull},
	}
	for _, t := range tris {
		n := t.b.Sub(t.a).Cross(t.c.Sub(t.a)).Normalize()
		mesh.AddTriangle(
			MeshVertex{Position: t.a, Normal: n},
			MeshVertex{Position: t.b, Normal: n},
			MeshVertex{Position: t.c, Normal: n},
			t.material,
		)
	}

	mesh.CalculateBounds()
	return mesh
}
