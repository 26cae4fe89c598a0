package render

import (
	"image"
	"image/color"
	"math"
	"sync/atomic"
)

// Framebuffer is a double-buffered 0x00RRGGBB pixel target with one shared
// depth buffer. Drawing goes to the write target; presentation reads the
// read target, which holds the last completed frame. SwitchBuffers swaps the
// two.
//
// Writes are not synchronized. Concurrent drawers must touch disjoint pixel
// indices, e.g. by each owning a band of rows.
type Framebuffer struct {
	Width  int
	Height int

	buffers [2][]uint32
	depth   []float64
	frame   atomic.Uint32 // low bit selects the write target

	background uint32
	current    uint32
}

// NewFramebuffer allocates a width x height framebuffer with a black
// background, a white draw color and depth at +Inf.
func NewFramebuffer(width, height int) *Framebuffer {
	n := width * height
	fb := &Framebuffer{
		Width:   width,
		Height:  height,
		buffers: [2][]uint32{make([]uint32, n), make([]uint32, n)},
		depth:   make([]float64, n),
		current: 0xFFFFFF,
	}
	fill(fb.depth, math.Inf(1))
	return fb
}

// Bounds returns the pixel rectangle of the framebuffer.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// WriteTarget returns the buffer currently being drawn into.
func (fb *Framebuffer) WriteTarget() []uint32 {
	return fb.buffers[fb.frame.Load()&1]
}

// ReadTarget returns the buffer safe to present: the opposite of the write
// target.
func (fb *Framebuffer) ReadTarget() []uint32 {
	return fb.buffers[(fb.frame.Load()+1)&1]
}

// ActiveBuffer returns the presentable buffer. It is the same as ReadTarget.
func (fb *Framebuffer) ActiveBuffer() []uint32 {
	return fb.ReadTarget()
}

// SwitchBuffers exposes the just-drawn buffer for presentation and makes the
// previously presented one the new write target.
func (fb *Framebuffer) SwitchBuffers() {
	fb.frame.Add(1)
}

// Clear fills the write target with the background color and resets every
// depth to +Inf. The read target is left untouched.
func (fb *Framebuffer) Clear() {
	fill(fb.WriteTarget(), fb.background)
	fill(fb.depth, math.Inf(1))
}

// fill sets every element of s to v, doubling the copied prefix each pass.
func fill[T any](s []T, v T) {
	if len(s) == 0 {
		return
	}
	s[0] = v
	for i := 1; i < len(s); i *= 2 {
		copy(s[i:], s[:i])
	}
}

// SetColorAtIndex writes color at pixel index i of the write target if depth
// is nearer than the stored depth and color is not Empty. It reports whether
// the pixel was written. Out-of-range indices are ignored.
func (fb *Framebuffer) SetColorAtIndex(i int, color uint32, depth float64) bool {
	if i < 0 || i >= len(fb.depth) {
		return false
	}
	if color == Empty || !(depth < fb.depth[i]) {
		return false
	}
	fb.WriteTarget()[i] = color
	fb.depth[i] = depth
	return true
}

// SetPixel is SetColorAtIndex addressed by coordinates.
func (fb *Framebuffer) SetPixel(x, y int, color uint32, depth float64) bool {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return false
	}
	return fb.SetColorAtIndex(y*fb.Width+x, color, depth)
}

// Depth returns the stored depth at (x, y), or +Inf outside the buffer.
func (fb *Framebuffer) Depth(x, y int) float64 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return math.Inf(1)
	}
	return fb.depth[y*fb.Width+x]
}

// Pixel returns the presented color at (x, y), or Empty outside the buffer.
func (fb *Framebuffer) Pixel(x, y int) uint32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Empty
	}
	return fb.ReadTarget()[y*fb.Width+x]
}

// SetBackgroundColor sets the color Clear fills with.
func (fb *Framebuffer) SetBackgroundColor(c uint32) {
	fb.background = c
}

// BackgroundColor returns the clear color.
func (fb *Framebuffer) BackgroundColor() uint32 {
	return fb.background
}

// SetCurrentColor sets the color used by DrawPoint and DrawLine.
func (fb *Framebuffer) SetCurrentColor(c uint32) {
	fb.current = c
}

// CurrentColor returns the draw color.
func (fb *Framebuffer) CurrentColor() uint32 {
	return fb.current
}

// DrawPoint plots the current color at (x, y) with depth 0.
func (fb *Framebuffer) DrawPoint(x, y int) {
	fb.SetPixel(x, y, fb.current, 0)
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's
// algorithm in the current color at depth 0. Off-screen parts are clipped
// per pixel.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int) {
	fb.DrawLineDepth(x0, y0, 0, x1, y1, 0, fb.current)
}

// DrawLineDepth draws a depth-tested line in color, interpolating depth
// linearly from z0 to z1 along the major axis.
func (fb *Framebuffer) DrawLineDepth(x0, y0 int, z0 float64, x1, y1 int, z1 float64, color uint32) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	steps := max(dx, -dy)
	for i := 0; ; i++ {
		z := z0
		if steps > 0 {
			z = z0 + (z1-z0)*float64(i)/float64(steps)
		}
		fb.SetPixel(x0, y0, color, z)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage copies the read target into an opaque image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for i, p := range fb.ReadTarget() {
		img.Pix[i*4+0] = uint8(p >> 16)
		img.Pix[i*4+1] = uint8(p >> 8)
		img.Pix[i*4+2] = uint8(p)
		img.Pix[i*4+3] = 0xFF
	}
	return img
}

// ColorModel implements image.Image over the read target.
func (fb *Framebuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// At returns the presented color at (x, y).
func (fb *Framebuffer) At(x, y int) color.Color {
	return Hex(fb.Pixel(x, y))
}
