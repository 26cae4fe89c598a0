// Package models loads and builds the meshes orrery draws: OBJ, STL and GLB
// files plus procedural spheres and the ship. A Mesh is flattened into the
// vertex array the render pipeline consumes.
package models

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name      string
	Vertices  []MeshVertex
	Faces     []Face
	Materials []Material

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds the model attributes of one vertex.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is a triangle of vertex indices with an optional material.
type Face struct {
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials (-1 for no material)
}

// Material is the flat base color of a group of faces.
type Material struct {
	Name  string
	Color render.Color
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddTriangle appends three unshared vertices and a face over them.
func (m *Mesh) AddTriangle(a, b, c MeshVertex, material int) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, a, b, c)
	m.Faces = append(m.Faces, Face{V: [3]int{base, base + 1, base + 2}, Material: material})
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		m.BoundsMin, m.BoundsMax = math3d.Vec3{}, math3d.Vec3{}
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of indexed vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// HasNormals reports whether any vertex carries a usable normal.
func (m *Mesh) HasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.LenSq() > 1e-6 {
			return true
		}
	}
	return false
}

// faceNormal returns the unnormalized normal of face f; its length is twice
// the face area.
func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// CalculateNormals assigns each face's normal to its vertices (flat
// shading). Vertices shared between faces keep the last face's normal.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, i := range f.V {
			m.Vertices[i].Normal = n
		}
	}
}

// CalculateSmoothNormals sets every vertex normal to the area-weighted
// average of the faces that use it.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}
	for _, f := range m.Faces {
		n := m.faceNormal(f)
		for _, i := range f.V {
			m.Vertices[i].Normal = m.Vertices[i].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform applies mat to every position and its normal matrix to every
// normal, then recomputes the bounds.
func (m *Mesh) Transform(mat math3d.Mat4) {
	nm := math3d.NormalMatrix(mat)
	for i := range m.Vertices {
		m.Vertices[i].Position = mat.MulPoint(m.Vertices[i].Position)
		m.Vertices[i].Normal = nm.MulVec3(m.Vertices[i].Normal).Normalize()
	}
	m.CalculateBounds()
}

// Normalize centers the mesh on the origin and scales it so that its
// farthest vertex lies at distance radius. Empty and single-point meshes
// are only centered.
func (m *Mesh) Normalize(radius float64) {
	m.CalculateBounds()
	m.Transform(math3d.Translate(m.Center().Negate()))

	var far float64
	for _, v := range m.Vertices {
		far = math.Max(far, v.Position.Len())
	}
	if far > 0 {
		m.Transform(math3d.ScaleUniform(radius / far))
	}
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]MeshVertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}

// GetFaceMaterial returns the material index for face i, or -1.
func (m *Mesh) GetFaceMaterial(i int) int {
	return m.Faces[i].Material
}

// GetMaterial returns the material at index i, or nil when i is out of
// range.
func (m *Mesh) GetMaterial(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return nil
	}
	return &m.Materials[i]
}

// MaterialCount returns the number of materials.
func (m *Mesh) MaterialCount() int {
	return len(m.Materials)
}

// FaceColor returns the color of face i: its material color, or base when
// the face has none.
func (m *Mesh) FaceColor(i int, base render.Color) render.Color {
	if mat := m.GetMaterial(m.Faces[i].Material); mat != nil {
		return mat.Color
	}
	return base
}

// BoundingSphere returns a sphere around the bounding box, in object space.
func (m *Mesh) BoundingSphere() render.Sphere {
	return render.Sphere{
		Center: m.Center(),
		Radius: m.Size().Len() / 2,
	}
}

// VertexArray flattens the mesh into the pipeline's vertex list: three
// vertices per face, in face order, colored by material or base. Faces
// referencing missing vertices are skipped.
func (m *Mesh) VertexArray(base render.Color) []render.Vertex {
	out := make([]render.Vertex, 0, len(m.Faces)*3)
	for i, f := range m.Faces {
		if !m.validFace(f) {
			continue
		}
		c := m.FaceColor(i, base)
		for _, idx := range f.V {
			v := m.Vertices[idx]
			out = append(out, render.Vertex{
				Position: v.Position,
				Normal:   v.Normal,
				UV:       v.UV,
				Color:    c,
			})
		}
	}
	return out
}

func (m *Mesh) validFace(f Face) bool {
	for _, i := range f.V {
		if i < 0 || i >= len(m.Vertices) {
			return false
		}
	}
	return true
}
