package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type headerModel struct {
	width   int
	title   string
	busy    bool
	stalled bool
	size    int
}

func newHeaderModel(title string) headerModel {
	if title == "" {
		title = "qrcraft"
	}
	return headerModel{title: title}
}

func (h headerModel) View() string {
	if h.width < 60 {
		return h.viewCompact()
	}
	return h.viewFull()
}

func (h headerModel) statusDot() string {
	switch {
	case h.stalled:
		return warningStyle.Render("●")
	case h.busy:
		return statusBusy.Render("●")
	}
	return statusReady.Render("●")
}

func (h headerModel) viewCompact() string {
	title := headerStyle.Render(h.title)
	bar := lipgloss.JoinHorizontal(lipgloss.Top, title, " ", h.statusDot())

	return lipgloss.NewStyle().
		Width(h.width).
		Background(lipgloss.Color("#1F2937")).
		Render(bar)
}

func (h headerModel) viewFull() string {
	title := headerStyle.Render(" " + h.title + " ")

	status := " "
	switch {
	case h.stalled:
		status += warningStyle.Render("● Stalled")
	case h.busy:
		status += statusBusy.Render("● Generating")
	default:
		status += statusReady.Render("● Ready")
	}

	size := fmt.Sprintf(" %dx%d px ", h.size, h.size)

	bar := lipgloss.JoinHorizontal(lipgloss.Top, title, status, size)

	return lipgloss.NewStyle().
		Width(h.width).
		Background(lipgloss.Color("#1F2937")).
		Render(bar)
}
