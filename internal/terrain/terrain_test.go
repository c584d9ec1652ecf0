package terrain

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/spacecore/internal/sysdesc"
)

func randomDirs(n int) []mgl64.Vec3 {
	rng := rand.New(rand.NewSource(1))
	dirs := make([]mgl64.Vec3, n)
	for i := range dirs {
		dirs[i] = mgl64.Vec3{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}.Normalize()
	}
	return dirs
}

func TestRidgedBounds(t *testing.T) {
	r := NewRidged(6.371e6, 8000, 8, 3)
	sea, land := 0, 0
	for _, dir := range randomDirs(500) {
		h := r.Height(dir)
		if h < 6.371e6 || h > 6.371e6+8000 {
			t.Fatalf("height %f out of [radius, radius+amplitude]", h)
		}
		if h == 6.371e6 {
			sea++
		} else {
			land++
		}
	}
	if sea == 0 || land == 0 {
		t.Errorf("expected both sea and land, got sea=%d land=%d", sea, land)
	}
}

func TestRidgedDeterministic(t *testing.T) {
	a := NewRidged(1000, 50, 4, 42)
	b := NewRidged(1000, 50, 4, 42)
	for _, dir := range randomDirs(20) {
		if a.Height(dir) != b.Height(dir) {
			t.Fatalf("same seed produced different heights at %v", dir)
		}
	}
}

func TestForBody(t *testing.T) {
	tests := []struct {
		name   string
		body   *sysdesc.Body
		sphere bool
	}{
		{"no terrain", &sysdesc.Body{Radius: 100}, true},
		{"explicit sphere", &sysdesc.Body{Radius: 100, Terrain: &sysdesc.TerrainSpec{Kind: "sphere"}}, true},
		{"flat ridged", &sysdesc.Body{Radius: 100, Terrain: &sysdesc.TerrainSpec{Kind: "ridged"}}, true},
		{"ridged", &sysdesc.Body{Radius: 100, Seed: 9, Terrain: &sysdesc.TerrainSpec{Kind: "ridged", Amplitude: 10}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ForBody(tt.body)
			_, isSphere := h.(Sphere)
			if isSphere != tt.sphere {
				t.Errorf("sphere = %v, want %v", isSphere, tt.sphere)
			}
			if got := h.Height(mgl64.Vec3{0, 1, 0}); got < 100 || math.IsNaN(got) {
				t.Errorf("height %f below radius", got)
			}
		})
	}
}
