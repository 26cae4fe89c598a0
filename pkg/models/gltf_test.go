package models

import (
	"testing"

	"github.com/qmuntal/gltf"

	"github.com/taigrr/orrery/pkg/render"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if !loader.CalculateNormals {
		t.Error("CalculateNormals should default to true")
	}
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
}

func TestConvertMaterial(t *testing.T) {
	tests := []struct {
		name string
		mat  *gltf.Material
		want render.Color
	}{
		{"no pbr", &gltf.Material{Name: "plain"}, render.ColorWhite},
		{"no factor", &gltf.Material{PBRMetallicRoughness: &gltf.PBRMetallicRoughness{}}, render.ColorWhite},
		{"red", &gltf.Material{PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{1, 0, 0, 1}}}, render.RGB(255, 0, 0)},
		{"clamped", &gltf.Material{PBRMetallicRoughness: &gltf.PBRMetallicRoughness{BaseColorFactor: &[4]float64{2, -1, 0.5, 1}}}, render.RGB(255, 0, 128)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertMaterial(tt.mat).Color; got != tt.want {
				t.Errorf("color = %v, want %v", got, tt.want)
			}
		})
	}
}
