package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	eruntime "github.com/gosuda/erakit/runtime"
)

type model struct {
	cfg      appConfig
	viewport viewport.Model
	input    textinput.Model
	ready    bool
	status   string
	running  bool
	events   <-chan tea.Msg
	cancel   context.CancelFunc
	pending  *pendingInput
	history  []string
	tail     string
}

var (
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	inputStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func newModel(cfg appConfig) model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 4096
	return model{
		cfg:      cfg,
		viewport: viewport.New(80, 20),
		input:    ti,
		status:   "starting",
	}
}

func startVM(cfg appConfig) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(context.Background())
		events := make(chan tea.Msg, 256)
		go runVM(ctx, cfg, events)
		return vmStartedMsg{events: events, cancel: cancel}
	}
}

func waitVMEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}

func (m model) Init() tea.Cmd {
	return startVM(m.cfg)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-3, 1)
		m.input.Width = max(msg.Width-4, 1)
		m.ready = true
		m.rebuildContent()
		return m, nil

	case vmStartedMsg:
		m.events = msg.events
		m.cancel = msg.cancel
		m.running = true
		m.status = "running"
		return m, waitVMEvent(m.events)

	case vmOutputMsg:
		m.appendOutput(msg.out)
		return m, waitVMEvent(m.events)

	case vmPromptMsg:
		m.pending = &pendingInput{req: msg.req, resp: msg.resp}
		m.input.SetValue("")
		m.setPromptStatus()
		if msg.req.Wait {
			m.input.Blur()
			return m, nil
		}
		return m, m.input.Focus()

	case vmDoneMsg:
		m.running = false
		m.pending = nil
		m.input.Blur()
		if m.cancel != nil {
			m.cancel()
		}
		if msg.err != nil {
			m.status = "failed"
			m.appendOutput(eruntime.Output{Text: errStyle.Render(msg.err.Error()), NewLine: true})
		} else {
			m.status = "done"
		}
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.stop()
			return m, tea.Quit
		}
		if m.pending != nil {
			if m.pending.req.Wait {
				m.reply(vmInputResp{})
				return m, waitVMEvent(m.events)
			}
			switch msg.Type {
			case tea.KeyEnter:
				m.reply(vmInputResp{value: strings.TrimSpace(m.input.Value())})
				return m, waitVMEvent(m.events)
			case tea.KeyCtrlD:
				m.reply(vmInputResp{closed: true})
				return m, waitVMEvent(m.events)
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "q":
			m.stop()
			return m, tea.Quit
		case "r":
			if m.running {
				return m, nil
			}
			m.history = nil
			m.tail = ""
			m.rebuildContent()
			m.status = "restarting"
			return m, startVM(m.cfg)
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if !m.ready {
		return "initializing..."
	}
	parts := []string{m.viewport.View()}
	if m.pending != nil && !m.pending.req.Wait {
		parts = append(parts, inputStyle.Render(m.input.View()))
	}
	parts = append(parts, statusStyle.Render(m.status))
	return strings.Join(parts, "\n")
}

func (m *model) reply(resp vmInputResp) {
	m.pending.resp <- resp
	m.pending = nil
	m.input.Blur()
	m.input.SetValue("")
	m.status = "running"
}

func (m *model) stop() {
	if m.pending != nil {
		m.reply(vmInputResp{closed: true})
	}
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *model) appendOutput(out eruntime.Output) {
	if out.NewLine {
		m.history = append(m.history, m.tail+out.Text)
		m.tail = ""
	} else {
		m.tail += out.Text
	}
	m.rebuildContent()
}

func (m *model) rebuildContent() {
	content := strings.Join(m.history, "\n")
	if m.tail != "" {
		if content != "" {
			content += "\n"
		}
		content += m.tail
	}
	if content == "" {
		content = "(no output yet)"
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *model) setPromptStatus() {
	if m.pending == nil {
		return
	}
	cmd := strings.ToUpper(strings.TrimSpace(m.pending.req.Command))
	switch {
	case m.pending.req.Wait:
		m.status = fmt.Sprintf("%s: press any key", cmd)
	case m.pending.req.Numeric:
		m.status = fmt.Sprintf("%s: enter a number", cmd)
	default:
		m.status = fmt.Sprintf("%s: input wait", cmd)
	}
}
