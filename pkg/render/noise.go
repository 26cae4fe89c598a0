package render

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// DefaultSeed seeds the noise generator when no seed is configured.
const DefaultSeed int64 = 1337

// Noise is a deterministic coherent noise source. Eval2 and Eval3 return
// values roughly in [-1, 1] and must be safe for concurrent calls.
type Noise interface {
	Eval2(x, y float64) float64
	Eval3(x, y, z float64) float64
}

// NewNoise returns an OpenSimplex generator. Two generators with the same
// seed produce identical output.
func NewNoise(seed int64) Noise {
	return opensimplex.New(seed)
}
