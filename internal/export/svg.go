package export

import (
	"fmt"
	"strings"

	"rsc.io/qr"

	"github.com/qrcraft/qrcraft/internal/qrcode"
)

// SVG produces a self-contained vector QR code for payload at the given
// recovery level. margin is the quiet zone in modules.
func SVG(payload string, size, margin int, level qrcode.Level, fg, bg string) (string, error) {
	if strings.TrimSpace(payload) == "" {
		return "", qrcode.ErrEmptyPayload
	}
	fc, err := qrcode.ParseColor(fg)
	if err != nil {
		return "", fmt.Errorf("foreground: %w", err)
	}
	bc, err := qrcode.ParseColor(bg)
	if err != nil {
		return "", fmt.Errorf("background: %w", err)
	}

	code, err := qr.Encode(payload, qrcode.VectorLevel(level))
	if err != nil {
		return "", fmt.Errorf("failed to encode QR: %w", err)
	}
	n := code.Size
	if n == 0 {
		return "", fmt.Errorf("empty QR code")
	}
	total := n + 2*margin

	var sb strings.Builder
	fmt.Fprintf(&sb,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" shape-rendering="crispEdges">`,
		total, total, size, size,
	)
	fmt.Fprintf(&sb, `<rect width="%d" height="%d" fill="%s" fill-opacity="%s"/>`,
		total, total, qrcode.HexString(bc), opacity(bc.A))

	sb.WriteString(`<path fill="` + qrcode.HexString(fc) + `" fill-opacity="` + opacity(fc.A) + `" d="`)
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if code.Black(x, y) {
				fmt.Fprintf(&sb, "M%d %dh1v1h-1z", x+margin, y+margin)
			}
		}
	}
	sb.WriteString(`"/></svg>`)
	return sb.String(), nil
}

func opacity(a uint8) string {
	return fmt.Sprintf("%.3g", float64(a)/255)
}
