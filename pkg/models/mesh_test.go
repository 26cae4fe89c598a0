package models

import (
	"math"
	"testing"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/render"
)

func quadMesh() *Mesh {
	m := NewMesh("quad")
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(2, 0, 0)},
		{Position: math3d.V3(2, 2, 0)},
		{Position: math3d.V3(0, 2, 0)},
	}
	m.Faces = []Face{
		{V: [3]int{0, 1, 2}, Material: 0},
		{V: [3]int{0, 2, 3}, Material: -1},
	}
	m.Materials = []Material{{Name: "red", Color: render.RGB(255, 0, 0)}}
	m.CalculateBounds()
	return m
}

func TestFaceMaterialIndex(t *testing.T) {
	mesh := quadMesh()

	if mesh.GetFaceMaterial(0) != 0 {
		t.Errorf("Face 0 should have material 0, got %d", mesh.GetFaceMaterial(0))
	}
	if mesh.GetFaceMaterial(1) != -1 {
		t.Errorf("Face 1 should have material -1, got %d", mesh.GetFaceMaterial(1))
	}
	if mat := mesh.GetMaterial(0); mat == nil || mat.Name != "red" {
		t.Errorf("GetMaterial(0) should return 'red' material")
	}
	if mesh.GetMaterial(-1) != nil || mesh.GetMaterial(99) != nil {
		t.Errorf("GetMaterial should return nil out of range")
	}
}

func TestVertexArray(t *testing.T) {
	mesh := quadMesh()
	base := render.RGB(0, 0, 200)
	verts := mesh.VertexArray(base)

	if len(verts) != 6 {
		t.Fatalf("got %d vertices, want 6", len(verts))
	}
	order := []int{0, 1, 2, 0, 2, 3}
	for i, v := range verts {
		if v.Position != mesh.Vertices[order[i]].Position {
			t.Errorf("vertex %d position = %v, want %v", i, v.Position, mesh.Vertices[order[i]].Position)
		}
		want := base
		if i < 3 {
			want = render.RGB(255, 0, 0)
		}
		if v.Color != want {
			t.Errorf("vertex %d color = %v, want %v", i, v.Color, want)
		}
	}
}

func TestVertexArraySkipsBrokenFaces(t *testing.T) {
	mesh := quadMesh()
	mesh.Faces = append(mesh.Faces, Face{V: [3]int{0, 1, 9}, Material: -1})
	if got := len(mesh.VertexArray(render.ColorWhite)); got != 6 {
		t.Errorf("got %d vertices, want 6", got)
	}
}

func TestBounds(t *testing.T) {
	mesh := quadMesh()
	if mesh.Center() != math3d.V3(1, 1, 0) {
		t.Errorf("Center = %v, want (1,1,0)", mesh.Center())
	}
	if mesh.Size() != math3d.V3(2, 2, 0) {
		t.Errorf("Size = %v, want (2,2,0)", mesh.Size())
	}
	s := mesh.BoundingSphere()
	for _, v := range mesh.Vertices {
		if d := v.Position.Sub(s.Center).Len(); d > s.Radius+1e-9 {
			t.Errorf("vertex %v outside bounding sphere %+v", v.Position, s)
		}
	}
}

func TestCalculateNormals(t *testing.T) {
	tests := []struct {
		name   string
		smooth bool
	}{
		{"flat", false},
		{"smooth", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := quadMesh()
			if mesh.HasNormals() {
				t.Fatal("quad should start without normals")
			}
			if tt.smooth {
				mesh.CalculateSmoothNormals()
			} else {
				mesh.CalculateNormals()
			}
			for i, v := range mesh.Vertices {
				if math.Abs(v.Normal.Z-1) > 1e-9 {
					t.Errorf("vertex %d normal = %v, want +Z", i, v.Normal)
				}
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	mesh := quadMesh()
	mesh.Normalize(1)

	var far float64
	for _, v := range mesh.Vertices {
		far = math.Max(far, v.Position.Len())
	}
	if math.Abs(far-1) > 1e-9 {
		t.Errorf("farthest vertex at %v, want 1", far)
	}
	if c := mesh.Center(); c.Len() > 1e-9 {
		t.Errorf("center = %v, want origin", c)
	}
}

func TestTransformNormals(t *testing.T) {
	mesh := quadMesh()
	mesh.CalculateNormals()
	mesh.Transform(math3d.Translate(math3d.V3(5, 0, 0)).Mul(math3d.RotateX(math.Pi / 2)))

	for i, v := range mesh.Vertices {
		if math.Abs(v.Normal.Y+1) > 1e-9 {
			t.Errorf("vertex %d normal = %v, want -Y", i, v.Normal)
		}
	}
	if mesh.BoundsMin.X != 5 {
		t.Errorf("BoundsMin.X = %v, want 5", mesh.BoundsMin.X)
	}
}

func TestMeshClonePreservesMaterials(t *testing.T) {
	mesh := quadMesh()
	clone := mesh.Clone()

	if clone.MaterialCount() != mesh.MaterialCount() {
		t.Errorf("Clone should have %d materials, got %d", mesh.MaterialCount(), clone.MaterialCount())
	}

	clone.Materials[0].Name = "modified"
	clone.Vertices[0].Position = math3d.V3(9, 9, 9)
	if mesh.Materials[0].Name == "modified" || mesh.Vertices[0].Position.X == 9 {
		t.Errorf("Clone should not share storage with the original")
	}
}
