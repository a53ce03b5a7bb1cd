package ui

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"vidscribe/internal/i18n"
	"vidscribe/internal/session"
	"vidscribe/internal/util"
)

type mode int

const (
	modePrompt mode = iota
	modeRunning
	modeDone
)

// Config configures the TUI.
type Config struct {
	NewSession SessionFactory
	Catalog    *i18n.Catalog
	// URLs are processed one after the other.
	URLs []string
	// Interactive keeps the program open and lets the user submit new URLs.
	Interactive bool
}

type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	ctrl   *session.Controller
	gate   *startGate
	cat    *i18n.Catalog

	interactive bool
	queue       []string
	mode        mode
	gen         int
	current     *taskState
	finished    []*taskState

	// UI
	input    textinput.Model
	inputErr error
	spinner  spinner.Model
	width    int
	styles   Styles

	// Internal event channel used by reporter to feed tea messages
	eventCh chan tea.Msg
}

func NewModel(ctx context.Context, cfg Config) Model {
	c, cancel := context.WithCancel(ctx)
	sty := defaultStyles()
	cat := cfg.Catalog
	if cat == nil {
		cat = i18n.New("")
	}

	eventCh := make(chan tea.Msg, 256)
	ctrl := session.NewController(genRunner{ctx: c, ch: eventCh, newSession: cfg.NewSession})

	in := textinput.New()
	in.Placeholder = "https://www.youtube.com/watch?v=..."
	in.Prompt = sty.Prompt.Render(cat.T(i18n.KeyPromptURL)) + " › "
	in.CharLimit = 2048
	in.Width = 60

	m := Model{
		ctx:         c,
		cancel:      cancel,
		ctrl:        ctrl,
		gate:        &startGate{},
		cat:         cat,
		interactive: cfg.Interactive || len(cfg.URLs) == 0,
		queue:       append([]string(nil), cfg.URLs...),
		input:       in,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(sty.Spinner)),
		styles:      sty,
		eventCh:     eventCh,
	}

	if len(m.queue) > 0 {
		m.mode = modeRunning
		m.gen = 1
		m.current = newTaskState(m.queue[0])
		m.queue = m.queue[1:]
	} else {
		m.mode = modePrompt
		m.input.Focus()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.listenEventsCmd()}
	if m.mode == modePrompt {
		cmds = append(cmds, textinput.Blink)
	}
	if m.current != nil {
		cmds = append(cmds, m.startCmd(m.current.url, m.gen))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case jobUpdateMsg:
		if msg.Gen == m.gen && m.current != nil && !m.current.done {
			m.current.apply(msg.U)
		}
		return m, m.listenEventsCmd()

	case jobResultMsg:
		if msg.Gen != m.gen || m.current == nil || m.current.done {
			return m, m.listenEventsCmd()
		}
		m.current.finish(msg.R)
		return m.next()

	case allDoneMsg:
		return m, tea.Quit
	}

	if m.mode == modePrompt {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m.quit()
	}

	if m.mode == modePrompt {
		switch key {
		case "enter":
			raw := strings.TrimSpace(m.input.Value())
			if _, err := util.DetectSource(raw); err != nil {
				m.inputErr = err
				return m, nil
			}
			m.inputErr = nil
			m.input.Reset()
			m.input.Blur()
			return m.begin(raw)
		case "esc":
			if m.current == nil {
				return m.quit()
			}
			m.input.Blur()
			m.inputErr = nil
			m.mode = modeRunning
			if m.current.done {
				m.mode = modeDone
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch key {
	case "q", "esc":
		return m.quit()
	case "ctrl+n":
		if m.interactive {
			return m.prompt()
		}
	case "enter":
		if m.mode == modeDone {
			return m.prompt()
		}
	}
	return m, nil
}

// begin starts a session for url, replacing the current one.
func (m Model) begin(url string) (Model, tea.Cmd) {
	if m.current != nil {
		if !m.current.done {
			m.current.done = true
			m.current.err = context.Canceled
		}
		m.finished = append(m.finished, m.current)
	}
	m.gen++
	m.current = newTaskState(url)
	m.mode = modeRunning
	return m, m.startCmd(url, m.gen)
}

// next moves on once the current session has ended.
func (m Model) next() (tea.Model, tea.Cmd) {
	if len(m.queue) > 0 {
		url := m.queue[0]
		m.queue = m.queue[1:]
		var cmd tea.Cmd
		m, cmd = m.begin(url)
		return m, tea.Batch(cmd, m.listenEventsCmd())
	}
	if !m.interactive {
		m.cancel()
		return m, tea.Quit
	}
	if m.mode != modePrompt {
		m.mode = modeDone
	}
	return m, m.listenEventsCmd()
}

func (m Model) prompt() (tea.Model, tea.Cmd) {
	m.mode = modePrompt
	m.inputErr = nil
	return m, tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.ctrl.Cancel()
	m.cancel()
	return m, tea.Quit
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	if m.current != nil {
		b.WriteString(m.viewTask(m.current))
		b.WriteString("\n")
	}
	if m.mode == modePrompt {
		b.WriteString(m.viewPrompt())
		b.WriteString("\n")
	}
	if s := m.viewFinished(); s != "" {
		b.WriteString("\n")
		b.WriteString(s)
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Faint.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

// startGate drops starts overtaken by a newer generation.
type startGate struct {
	mu     sync.Mutex
	latest int
}

// startCmd hands url to the controller. Start blocks until the previous
// session is torn down, so it never runs on the update loop.
func (m Model) startCmd(url string, gen int) tea.Cmd {
	ctrl, gate, ctx := m.ctrl, m.gate, m.ctx
	return func() tea.Msg {
		gate.mu.Lock()
		defer gate.mu.Unlock()
		if gen < gate.latest {
			return nil
		}
		gate.latest = gen
		ctrl.Start(withGen(ctx, gen), url)
		return nil
	}
}

func (m Model) listenEventsCmd() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.ctx.Done():
			return allDoneMsg{}
		case msg := <-m.eventCh:
			return msg
		}
	}
}
