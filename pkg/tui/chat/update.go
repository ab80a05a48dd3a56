package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/logger"
	"github.com/killallgit/vaultchat/pkg/tui/chat/status"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleWindowResize(msg.Width, msg.Height)
		m.statusBar, _ = m.statusBar.Update(msg)
		return m, nil

	case tea.KeyMsg:
		// All key handling happens in handleKeyMsg
		return handleKeyMsg(m, msg)

	case OpMsg:
		return m.applyOp(msg.Op)

	case PhaseMsg:
		var cmd tea.Cmd
		m.statusBar, cmd = m.statusBar.Update(status.PhaseMsg{State: msg.State})
		return m, cmd

	case DisconnectedMsg:
		m.disconnected = msg.Err
		if m.disconnected == nil {
			m.disconnected = chatui.ErrTransportClosed
		}
		m.textinput.Blur()
		return m, nil

	case spinner.TickMsg:
		// both spinners share the tick type; each ignores foreign ids
		var spinCmd, statusCmd tea.Cmd
		m.spinner, spinCmd = m.spinner.Update(msg)
		m.statusBar, statusCmd = m.statusBar.Update(msg)
		if m.hasLiveTrace() {
			m.updateViewportContent()
		}
		return m, tea.Batch(spinCmd, statusCmd)

	default:
		var statusCmd tea.Cmd
		m.statusBar, statusCmd = m.statusBar.Update(msg)
		cmds = append(cmds, statusCmd)

		var tiCmd tea.Cmd
		m.textinput, tiCmd = m.textinput.Update(msg)
		cmds = append(cmds, tiCmd)

		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
	}

	return m, tea.Batch(cmds...)
}

// applyOp mirrors the operation onto the page and the bubbles components
func (m Model) applyOp(op chatui.ViewOp) (tea.Model, tea.Cmd) {
	m.page.Apply(op)

	var cmd tea.Cmd
	switch op := op.(type) {
	case chatui.HideOverlay:
		m.updateViewportHeight()
	case chatui.EnableInput:
		m.textinput.Placeholder = op.Placeholder
		cmd = m.textinput.Focus()
	case chatui.ClearInput:
		m.textinput.Reset()
	case chatui.FadeStatus, chatui.SetStatus:
		m.statusBar, _ = m.statusBar.Update(status.IndicatorMsg{
			Text:   m.page.Status.Text,
			Fading: m.page.Status.Fading,
		})
	case chatui.Alert:
		logger.Warn("alert: %s", op.Message)
		m.alerts = append(m.alerts, op.Message)
		m.textinput.Blur()
	}

	m.updateViewportContent()
	if _, ok := op.(chatui.ScrollToBottom); ok {
		m.viewport.GotoBottom()
	}
	return m, cmd
}
