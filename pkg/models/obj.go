package models

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fogleman/fauxgl"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

// smoothAngle is the crease angle (radians) below which OBJ and STL normals
// are averaged across faces.
const smoothAngle = 0.5

// LoadOBJ loads a Wavefront OBJ file.
func LoadOBJ(path string) (*Mesh, error) {
	m, err := fauxgl.LoadOBJ(path)
	if err != nil {
		return nil, fmt.Errorf("load obj: %w", err)
	}
	return fromFauxgl(filepath.Base(path), m), nil
}

// LoadSTL loads a binary or ASCII STL file. STL carries no smooth normals,
// so they are rebuilt with a crease angle.
func LoadSTL(path string) (*Mesh, error) {
	m, err := fauxgl.LoadSTL(path)
	if err != nil {
		return nil, fmt.Errorf("load stl: %w", err)
	}
	m.SmoothNormalsThreshold(smoothAngle)
	return fromFauxgl(filepath.Base(path), m), nil
}

// Load picks a loader from the file extension.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".stl":
		return LoadSTL(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("unsupported model format %q", ext)
	}
}

// fromFauxgl converts a triangle soup into a Mesh. Distinct vertex colors
// become materials; uncolored triangles get none.
func fromFauxgl(name string, src *fauxgl.Mesh) *Mesh {
	mesh := NewMesh(name)
	materials := make(map[fauxgl.Color]int)

	for _, t := range src.Triangles {
		material := -1
		if c := t.V1.Color; c.A > 0 {
			idx, ok := materials[c]
			if !ok {
				idx = len(mesh.Materials)
				materials[c] = idx
				mesh.Materials = append(mesh.Materials, Material{
					Name:  fmt.Sprintf("color%d", idx),
					Color: render.RGB(unit8(c.R), unit8(c.G), unit8(c.B)),
				})
			}
			material = idx
		}
		mesh.AddTriangle(fauxglVertex(t.V1), fauxglVertex(t.V2), fauxglVertex(t.V3), material)
	}

	if !mesh.HasNormals() {
		mesh.CalculateNormals()
	}
	mesh.CalculateBounds()
	return mesh
}

func fauxglVertex(v fauxgl.Vertex) MeshVertex {
	return MeshVertex{
		Position: math3d.V3(v.Position.X, v.Position.Y, v.Position.Z),
		Normal:   math3d.V3(v.Normal.X, v.Normal.Y, v.Normal.Z),
		UV:       math3d.V2(v.Texture.X, v.Texture.Y),
	}
}
