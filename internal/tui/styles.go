package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	colorPrimary   = lipgloss.Color("#7C3AED") // Purple
	colorSecondary = lipgloss.Color("#06B6D4") // Cyan
	colorSuccess   = lipgloss.Color("#10B981") // Green
	colorWarning   = lipgloss.Color("#F59E0B") // Amber
	colorError     = lipgloss.Color("#EF4444") // Red
	colorMuted     = lipgloss.Color("#6B7280") // Gray
	colorBorder    = lipgloss.Color("#374151") // Border gray

	// Header bar style
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#F9FAFB")).
			Bold(true).
			Padding(0, 1)

	statusReady = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	statusBusy = lipgloss.NewStyle().
			Foreground(colorWarning).
			Bold(true)

	// Panel styles
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Bold(true)

	// Form styles
	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	sliderFilled = lipgloss.NewStyle().
			Foreground(colorPrimary)

	sliderEmpty = lipgloss.NewStyle().
			Foreground(colorBorder)

	copiedStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Italic(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	linkStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			Underline(true)

	// Toasts
	toastSuccess = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSuccess).
			Padding(0, 1)

	toastError = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorError).
			Padding(0, 1)

	toastTitleSuccess = lipgloss.NewStyle().
				Foreground(colorSuccess).
				Bold(true)

	toastTitleError = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	// Log styles
	logTimestamp = lipgloss.NewStyle().
			Foreground(colorMuted)

	logInfo = lipgloss.NewStyle().
		Foreground(colorSuccess)

	logWarn = lipgloss.NewStyle().
		Foreground(colorWarning)

	logError = lipgloss.NewStyle().
			Foreground(colorError)

	logDebug = lipgloss.NewStyle().
			Foreground(colorMuted)

	// Help bar
	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)
)
