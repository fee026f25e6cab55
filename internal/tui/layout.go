package tui

// LayoutMode describes the responsive layout tier.
type LayoutMode int

const (
	LayoutCompact LayoutMode = iota // < 60 cols: form above preview
	LayoutNormal                    // 60-100 cols: form 45%, preview 55%
	LayoutWide                      // > 100 cols: form 40%, preview 60%
)

const (
	// header, help line and panel borders
	chromeRows = 6
	logsRows   = 8
	// below this height the logs panel would squeeze the code unreadable
	logsMinHeight = 36
)

// layout is the geometry of one frame.
type layout struct {
	mode     LayoutMode
	formW    int
	previewW int
	// previewH bounds the code's height; 0 leaves it unbounded.
	previewH int
	// logsH is the logs panel height; 0 hides it.
	logsH int
}

func layoutMode(width int) LayoutMode {
	switch {
	case width < 60:
		return LayoutCompact
	case width <= 100:
		return LayoutNormal
	default:
		return LayoutWide
	}
}

func computeLayout(width, height int, withLogs bool) layout {
	l := layout{mode: layoutMode(width)}
	if withLogs && height >= logsMinHeight {
		l.logsH = logsRows
	}

	switch l.mode {
	case LayoutCompact:
		l.formW, l.previewW = width, width
		return l
	case LayoutNormal:
		l.formW = width * 45 / 100
	default:
		l.formW = width * 40 / 100
	}
	l.previewW = width - l.formW
	l.previewH = max(height-chromeRows-l.logsH, 1)
	return l
}
