package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// CellSize returns the framebuffer size that fills a terminal of cols x rows
// cells. Each cell shows two vertically stacked pixels.
func CellSize(cols, rows int) (width, height int) {
	return cols, rows * 2
}

// Draw paints the presented buffer onto scr using upper half blocks: the
// foreground is the top pixel of a cell and the background the bottom one.
// It makes Framebuffer a uv.Drawable.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	src := fb.ReadTarget()
	for row := area.Min.Y; row < area.Max.Y; row++ {
		top := row * 2
		if top >= fb.Height {
			break
		}
		for col := area.Min.X; col < area.Max.X && col < fb.Width; col++ {
			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(src[top*fb.Width+col]),
					Bg: cellColor(fb.Pixel(col, top+1)),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

func cellColor(p uint32) color.Color {
	return Hex(p)
}
