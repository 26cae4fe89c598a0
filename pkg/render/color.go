package render

import (
	"image/color"
	"math"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Empty is the packed color the framebuffer treats as "no write".
const Empty uint32 = 0x000000

// Named colors used by the shaders and the scene.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
)

// RGB creates an opaque color.
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

// Hex unpacks a 0xRRGGBB value into an opaque color. Bits above 24 are
// ignored.
func Hex(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}

// Pack returns c as 0x00RRGGBB, the pixel format of the framebuffer.
func Pack(c Color) uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// LerpColor blends from a to b by t, with t clamped to [0, 1].
func LerpColor(a, b Color, t float64) Color {
	t = clamp01(t)
	return Color{
		R: channel(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: channel(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: channel(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}

// MultiplyColor scales each channel by f, saturating at 0 and 255.
func MultiplyColor(c Color, f float64) Color {
	return Color{
		R: channel(float64(c.R) * f),
		G: channel(float64(c.G) * f),
		B: channel(float64(c.B) * f),
		A: c.A,
	}
}

func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func clamp01(v float64) float64 {
	return clamp(v, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
