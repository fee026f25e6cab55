package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/qrcraft/qrcraft/internal/qrcode"
)

const (
	placeholderText = "QR code will appear here"
	tooSmallText    = "Terminal too small to show the code. Enlarge the window."
)

// panelChrome is the rows the preview panel uses around the code: title,
// status and border.
const panelChrome = 4

// previewState is everything the preview panel needs from the session.
type previewState struct {
	image   *qrcode.Image
	busy    bool
	stalled bool
	spinner string
	link    string
}

// colorize paints the half-block rendering with the image's colors. Full
// blocks are light modules, so the foreground color becomes the cell
// background and vice versa.
func colorize(img *qrcode.Image) string {
	style := lipgloss.NewStyle()
	if fg, err := qrcode.ParseColor(img.Spec.Foreground); err == nil {
		style = style.Background(lipgloss.Color(qrcode.HexString(fg)))
	}
	if bg, err := qrcode.ParseColor(img.Spec.Background); err == nil {
		style = style.Foreground(lipgloss.Color(qrcode.HexString(bg)))
	}
	lines := strings.Split(img.Terminal, "\n")
	for i, l := range lines {
		lines[i] = style.Render(l)
	}
	return strings.Join(lines, "\n")
}

func previewView(s previewState, maxW, maxH int) string {
	title := panelTitleStyle.Render("Preview")

	fits := s.image == nil || codeFits(s.image.Terminal, maxW, maxH)

	var status string
	switch {
	case s.stalled:
		status = s.spinner + " " + warningStyle.Render("Still generating... this is taking longer than usual")
	case s.busy:
		status = s.spinner + " " + labelStyle.Render("Generating...")
	case s.image != nil && fits:
		status = statusReady.Render("Scan me")
	}

	var body string
	switch {
	case s.image == nil:
		body = "\n" + placeholderStyle.Render(placeholderText) + "\n"
	case !fits:
		// A clipped code does not scan.
		body = "\n" + warningStyle.Render(tooSmallText) + "\n"
	default:
		body = colorize(s.image)
	}

	content := title + "\n" + status + "\n" + body
	if s.link != "" {
		content += "\n" + labelStyle.Render("Share link: ") + linkStyle.Render(s.link)
	}

	w := maxW
	if w <= 0 {
		w = 40
	}
	return panelStyle.
		BorderForeground(colorPrimary).
		Width(w).
		Render(content)
}

// codeFits reports whether the half-block code fits the panel whole. Zero
// bounds are unbounded; the panel's border and padding take two columns.
func codeFits(code string, maxW, maxH int) bool {
	lines := strings.Split(code, "\n")
	if maxH > 0 && len(lines) > maxH-panelChrome {
		return false
	}
	if maxW > 0 {
		for _, l := range lines {
			if lipgloss.Width(l) > maxW-2 {
				return false
			}
		}
	}
	return true
}
