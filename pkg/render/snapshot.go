package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

// Format is an image encoding for snapshots.
type Format string

// Supported snapshot formats.
const (
	FormatPNG  Format = "png"
	FormatWebP Format = "webp"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return FormatPNG, nil
	case ".webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("unsupported snapshot format %q (use .png or .webp)", ext)
	}
}

// SnapshotOptions controls how the presented frame is exported.
type SnapshotOptions struct {
	Scale  int  // Integer upscale factor; values below 2 keep the native size
	Smooth bool // CatmullRom filtering instead of nearest neighbor when scaling
}

// Snapshot returns the presented buffer as an image, scaled per opts.
func (fb *Framebuffer) Snapshot(opts SnapshotOptions) image.Image {
	src := fb.ToImage()
	if opts.Scale < 2 {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*opts.Scale, fb.Height*opts.Scale))
	var scaler draw.Scaler = draw.NearestNeighbor
	if opts.Smooth {
		scaler = draw.CatmullRom
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img image.Image, f Format) error {
	switch f {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatWebP:
		return nativewebp.Encode(w, img, nil)
	default:
		return fmt.Errorf("unsupported snapshot format %q", f)
	}
}

// SaveSnapshot writes the presented buffer to path, choosing the format from
// the extension.
func (fb *Framebuffer) SaveSnapshot(path string, opts SnapshotOptions) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := Encode(f, fb.Snapshot(opts), format); err != nil {
		f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}
