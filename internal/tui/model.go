package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qrcraft/qrcraft/internal/clipboard"
	"github.com/qrcraft/qrcraft/internal/preview"
	"github.com/qrcraft/qrcraft/internal/share"
)

// Deps are the adapters and settings a Model works with.
type Deps struct {
	Title     string
	Defaults  preview.Defaults
	Encoder   preview.Encoder
	Exporter  preview.Exporter
	Saver     preview.Saver
	Clipboard clipboard.Writer
	Opener    share.Opener
	Logger    *slog.Logger

	// Bus feeds the logs panel. Nil hides the panel.
	Bus *EventBus

	// Clock replaces time.Now in the session, for tests.
	Clock func() time.Time
}

// Model is the root Bubble Tea model. It owns one preview session; every
// session mutation happens inside Update.
type Model struct {
	deps     Deps
	logger   *slog.Logger
	session  *preview.Session
	eventSub <-chan LogEvent
	unsub    func()

	header  headerModel
	form    formModel
	spinner spinner.Model
	help    help.Model
	toasts  toastsModel
	logs    logsModel

	lastLink string
	width    int
	height   int
	ready    bool
}

// New creates a model with a fresh preview session.
func New(deps Deps) Model {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var opts []preview.Option
	if deps.Clock != nil {
		opts = append(opts, preview.WithClock(deps.Clock))
	}
	session := preview.NewSession(deps.Defaults, opts...)

	var sub <-chan LogEvent
	unsub := func() {}
	if deps.Bus != nil {
		sub, unsub = deps.Bus.Subscribe()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		deps:     deps,
		logger:   logger,
		session:  session,
		eventSub: sub,
		unsub:    unsub,
		header:   newHeaderModel(deps.Title),
		form:     newFormModel(session.Input()),
		spinner:  sp,
		help:     help.New(),
	}
}

// SetSize sets the terminal dimensions before the first WindowSizeMsg.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = width > 0 && height > 0
}

// Session exposes the preview session, for surfaces and tests.
func (m Model) Session() *preview.Session {
	return m.session
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.startEncode(m.session.Refresh()),
		listenForEvents(m.eventSub),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case encodeResultMsg:
		cmd := m.applyEncode(preview.Result(msg))
		return m, cmd

	case copyResultMsg:
		n, err := m.session.CopyFinished(msg.err)
		if preview.IsClipboardFailure(err) {
			m.logger.Warn("clipboard write failed", "error", err)
			return m, nil
		}
		m.logger.Debug("payload copied")
		toastCmd := m.toasts.push(*n)
		return m, tea.Batch(
			toastCmd,
			tea.Tick(m.session.CopyAckRemaining(), func(time.Time) tea.Msg { return copyAckExpiredMsg{} }),
		)

	case copyAckExpiredMsg:
		return m, nil

	case exportResultMsg:
		if msg.err != nil {
			m.logger.Error("download failed", "error", msg.err)
		} else {
			m.logger.Info("download saved", "path", msg.path)
		}
		cmd := m.toasts.push(preview.DownloadFinished(msg.err))
		return m, cmd

	case shareResultMsg:
		if msg.err != nil {
			m.logger.Error("share failed", "platform", string(msg.platform), "error", msg.err)
			return m, nil
		}
		m.lastLink = msg.url
		m.logger.Info("share link opened", "platform", string(msg.platform), "url", msg.url)
		return m, nil

	case stallCheckMsg:
		if msg.seq == m.session.Seq() && m.session.Stalled() {
			m.logger.Warn("encode stalled", "seq", msg.seq)
		}
		return m, nil

	case toastExpiredMsg:
		m.toasts.expire(msg.id)
		return m, nil

	case spinner.TickMsg:
		if !m.session.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.logs.addEntry(LogEvent(msg))
		return m, listenForEvents(m.eventSub)
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Quit):
		m.unsub()
		return m, tea.Quit
	case key.Matches(msg, keys.Next):
		cmd := m.form.setFocus(m.form.focus + 1)
		return m, cmd
	case key.Matches(msg, keys.Prev):
		cmd := m.form.setFocus(m.form.focus - 1)
		return m, cmd
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, keys.Copy):
		return m, copyCmd(m.deps.Clipboard, m.session.Input().Payload)
	case key.Matches(msg, keys.Download):
		job, ok := m.session.ExportJob()
		if !ok {
			m.logger.Debug("download skipped, nothing rendered")
			return m, nil
		}
		return m, exportCmd(job, m.deps.Exporter, m.deps.Saver)
	case key.Matches(msg, keys.Twitter):
		return m, m.share(share.Twitter)
	case key.Matches(msg, keys.Facebook):
		return m, m.share(share.Facebook)
	case key.Matches(msg, keys.LinkedIn):
		return m, m.share(share.LinkedIn)
	case key.Matches(msg, keys.Instagram):
		return m, m.share(share.Instagram)
	}

	if m.form.focus == fieldSize {
		switch {
		case key.Matches(msg, keys.Smaller):
			return m, m.startEncode(m.session.StepSize(-1))
		case key.Matches(msg, keys.Larger):
			return m, m.startEncode(m.session.StepSize(1))
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, tea.Batch(cmd, m.syncFocused())
}

// syncFocused pushes the focused text input's value into the session.
func (m Model) syncFocused() tea.Cmd {
	switch m.form.focus {
	case fieldPayload:
		return m.startEncode(m.session.SetPayload(m.form.payload.Value()))
	case fieldForeground:
		return m.startEncode(m.session.SetForeground(m.form.foreground.Value()))
	case fieldBackground:
		return m.startEncode(m.session.SetBackground(m.form.background.Value()))
	}
	return nil
}

func (m Model) startEncode(req preview.Request, ok bool) tea.Cmd {
	if !ok {
		return nil
	}
	m.logger.Debug("encode requested", "seq", req.Seq, "size", req.Input.Size)
	return tea.Batch(
		encodeCmd(m.deps.Encoder, req),
		m.spinner.Tick,
		stallCmd(m.deps.Defaults.EncodeStallAfter, req.Seq),
	)
}

func (m *Model) applyEncode(res preview.Result) tea.Cmd {
	outcome, n := m.session.Complete(res)
	switch outcome {
	case preview.OutcomeStale:
		m.logger.Debug("encode result superseded", "seq", res.Seq, "latest", m.session.Seq())
	case preview.OutcomeFailed:
		m.logger.Error("encode failed", "seq", res.Seq, "error", res.Err)
		return m.toasts.push(*n)
	case preview.OutcomeApplied:
		m.logger.Debug("preview updated", "seq", res.Seq)
	}
	return nil
}

func (m Model) share(p share.Platform) tea.Cmd {
	return shareCmd(m.deps.Opener, p, m.session.Input().Payload)
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing qrcraft..."
	}

	m.header.width = m.width
	m.header.busy = m.session.Busy()
	m.header.stalled = m.session.Stalled()
	m.header.size = m.session.Input().Size

	lay := computeLayout(m.width, m.height, m.deps.Bus != nil)

	state := previewState{
		image:   m.session.Rendered(),
		busy:    m.session.Busy(),
		stalled: m.session.Stalled(),
		spinner: m.spinner.View(),
		link:    m.lastLink,
	}

	m.form.setWidth(lay.formW - 2)
	form := m.form.View(m.session.Input(), m.session.Limits(), m.session.CopyAcknowledged())
	qr := previewView(state, lay.previewW-2, lay.previewH)

	var body string
	if lay.mode == LayoutCompact {
		body = lipgloss.JoinVertical(lipgloss.Left, form, qr)
	} else {
		body = lipgloss.JoinHorizontal(lipgloss.Top, form, qr)
	}

	parts := []string{m.header.View(), body}
	if t := m.toasts.View(m.width); t != "" {
		parts = append(parts, t)
	}
	if lay.logsH > 0 {
		m.logs.width = m.width - 4
		m.logs.height = lay.logsH
		parts = append(parts, m.logs.View())
	}
	parts = append(parts, helpStyle.Render(m.help.View(keys)))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
