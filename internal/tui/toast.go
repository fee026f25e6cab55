package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/qrcraft/qrcraft/internal/preview"
)

const (
	toastTTL  = 3 * time.Second
	maxToasts = 3
)

type toast struct {
	id int
	n  preview.Notification
}

// toastExpiredMsg removes a toast once its time is up.
type toastExpiredMsg struct{ id int }

type toastsModel struct {
	nextID int
	items  []toast
}

// push adds n and returns the command that expires it.
func (t *toastsModel) push(n preview.Notification) tea.Cmd {
	t.nextID++
	id := t.nextID
	t.items = append(t.items, toast{id: id, n: n})
	if len(t.items) > maxToasts {
		t.items = t.items[len(t.items)-maxToasts:]
	}
	return tea.Tick(toastTTL, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

func (t *toastsModel) expire(id int) {
	for i, it := range t.items {
		if it.id == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

func (t toastsModel) View(width int) string {
	if len(t.items) == 0 {
		return ""
	}
	var parts []string
	for _, it := range t.items {
		box, title := toastSuccess, toastTitleSuccess
		if it.n.Failure() {
			box, title = toastError, toastTitleError
		}
		w := width - 2
		if w < 20 {
			w = 20
		}
		parts = append(parts, box.Width(w).Render(title.Render(it.n.Title)+"  "+it.n.Description))
	}
	return strings.Join(parts, "\n")
}
