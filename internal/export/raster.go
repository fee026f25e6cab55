// Package export turns a rendered QR code into downloadable files.
package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/qrcraft/qrcraft/internal/qrcode"
)

// Options control rasterization of the preview frame.
type Options struct {
	Scale   int
	Padding int
	// Fill paints the frame behind the code. Nil leaves it transparent.
	Fill color.Color
}

// Rasterize draws src inside a padded frame and upscales the whole frame by
// Scale with nearest-neighbor sampling, keeping module edges sharp.
func Rasterize(src image.Image, opts Options) (*image.NRGBA, error) {
	if src == nil {
		return nil, fmt.Errorf("rasterize: nil image")
	}
	if opts.Scale < 1 {
		return nil, fmt.Errorf("rasterize: scale %d < 1", opts.Scale)
	}
	if opts.Padding < 0 {
		return nil, fmt.Errorf("rasterize: padding %d < 0", opts.Padding)
	}

	sb := src.Bounds()
	frameW := sb.Dx() + 2*opts.Padding
	frameH := sb.Dy() + 2*opts.Padding
	dst := image.NewNRGBA(image.Rect(0, 0, frameW*opts.Scale, frameH*opts.Scale))

	if opts.Fill != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Fill), image.Point{}, draw.Src)
	}

	p := opts.Padding * opts.Scale
	target := image.Rect(p, p, p+sb.Dx()*opts.Scale, p+sb.Dy()*opts.Scale)
	draw.NearestNeighbor.Scale(dst, target, src, sb, draw.Over, nil)
	return dst, nil
}

// Exporter produces PNG downloads of rendered codes.
type Exporter struct {
	opts Options
}

// NewExporter creates an exporter with fixed rasterization options.
func NewExporter(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Export rasterizes img and encodes it as PNG.
func (e *Exporter) Export(ctx context.Context, img *qrcode.Image) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if img == nil || img.Bitmap == nil {
		return nil, fmt.Errorf("export: nothing rendered")
	}
	out, err := Rasterize(img.Bitmap, e.opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("export: png encode: %w", err)
	}
	return buf.Bytes(), nil
}
