package scene

import (
	"image"
	"math/rand/v2"

	"github.com/taigrr/orrery/pkg/render"
)

// StarDepth is the depth stars are written at, behind every visible object.
const StarDepth = 1.0

// StarColor is the packed color of every star.
const StarColor uint32 = 0xFFFFFF

// Stars is a fixed set of background pixels.
type Stars []image.Point

// GenerateStars scatters count stars over a width x height image. The same
// seed always yields the same sky.
func GenerateStars(count, width, height int, seed uint64) Stars {
	if width <= 0 || height <= 0 {
		return nil
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	stars := make(Stars, count)
	for i := range stars {
		stars[i] = image.Pt(rng.IntN(width), rng.IntN(height))
	}
	return stars
}

// Draw writes the stars into the write target at StarDepth. Stars outside
// fb are ignored.
func (s Stars) Draw(fb *render.Framebuffer) {
	for _, p := range s {
		fb.SetPixel(p.X, p.Y, StarColor, StarDepth)
	}
}
