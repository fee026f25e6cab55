// Package qrcode turns a payload and its visual parameters into a raster
// QR code image.
package qrcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"

	qrterminal "github.com/mdp/qrterminal/v3"
	goqr "github.com/skip2/go-qrcode"
	"rsc.io/qr"
)

// ErrEmptyPayload is returned when there is nothing to encode.
var ErrEmptyPayload = errors.New("empty payload")

// Spec is the full input of one encode.
type Spec struct {
	Payload    string
	Size       int
	Foreground string
	Background string
}

// Image is the result of a successful encode.
type Image struct {
	Spec    Spec
	Bitmap  *image.NRGBA
	PNG     []byte
	Modules [][]bool

	// Terminal is a half-block rendering of the same payload for previews.
	Terminal string
}

// Encoder renders QR codes with a fixed recovery level and quiet zone.
type Encoder struct {
	level  Level
	margin int
}

// NewEncoder creates an encoder. margin is the quiet zone in modules.
func NewEncoder(level Level, margin int) *Encoder {
	if margin < 0 {
		margin = 0
	}
	return &Encoder{level: level, margin: margin}
}

// Level returns the recovery level every rendering uses.
func (e *Encoder) Level() Level { return e.level }

// Margin returns the quiet zone in modules.
func (e *Encoder) Margin() int { return e.margin }

// Encode renders spec into a Size x Size image. When the code plus quiet
// zone has more modules than Size has pixels, the image grows to one pixel
// per module instead, since a code squeezed below that cannot scan. The
// result depends only on spec and the encoder settings.
func (e *Encoder) Encode(ctx context.Context, spec Spec) (*Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(spec.Payload) == "" {
		return nil, ErrEmptyPayload
	}
	if spec.Size < 1 {
		return nil, fmt.Errorf("invalid size %d", spec.Size)
	}
	fg, err := ParseColor(spec.Foreground)
	if err != nil {
		return nil, fmt.Errorf("foreground: %w", err)
	}
	bg, err := ParseColor(spec.Background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}

	q, err := goqr.New(spec.Payload, e.level)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	q.DisableBorder = true
	modules := q.Bitmap()

	side := max(spec.Size, len(modules)+2*e.margin)
	bitmap := render(modules, side, e.margin, fg, bg)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, bitmap); err != nil {
		return nil, fmt.Errorf("png encode: %w", err)
	}

	return &Image{
		Spec:     spec,
		Bitmap:   bitmap,
		PNG:      buf.Bytes(),
		Modules:  modules,
		Terminal: halfBlock(spec.Payload, e.level),
	}, nil
}

// render maps every pixel to a module by integer scaling over the module grid
// plus quiet zone.
func render(modules [][]bool, size, margin int, fg, bg color.NRGBA) *image.NRGBA {
	n := len(modules)
	total := n + 2*margin
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		my := y*total/size - margin
		for x := 0; x < size; x++ {
			mx := x*total/size - margin
			c := bg
			if my >= 0 && my < n && mx >= 0 && mx < n && modules[my][mx] {
				c = fg
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func halfBlock(payload string, level Level) string {
	var buf bytes.Buffer
	qrterminal.GenerateHalfBlock(payload, VectorLevel(level), &buf)
	return strings.TrimRight(buf.String(), "\n")
}

// VectorLevel maps level onto rsc.io/qr, which backs the terminal and SVG
// renderings. skip2's High is 25% recovery, rsc's Q.
func VectorLevel(level Level) qr.Level {
	switch level {
	case goqr.Low:
		return qr.L
	case goqr.High:
		return qr.Q
	case goqr.Highest:
		return qr.H
	default:
		return qr.M
	}
}
