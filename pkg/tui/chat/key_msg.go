package chat

import (
	tea "github.com/charmbracelet/bubbletea"
)

func handleKeyMsg(m Model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// a blocking alert swallows the key that dismisses it
	if len(m.alerts) > 0 {
		m.alerts = m.alerts[1:]
		if len(m.alerts) == 0 && m.page.Input.Enabled && m.disconnected == nil {
			return m, m.textinput.Focus()
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		if m.disconnected != nil || !m.page.Overlay.Hidden {
			return m, tea.Quit
		}
		m.textinput.Reset()
		return m, nil
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.KeyEnter:
		if !m.page.Input.Enabled || m.disconnected != nil || m.submit == nil {
			return m, nil
		}
		// the controller applies the submit guard and clears the input
		submit, text := m.submit, m.textinput.Value()
		return m, func() tea.Msg {
			submit(text)
			return nil
		}
	}

	if !m.page.Input.Enabled || m.disconnected != nil {
		return m, nil
	}

	var cmd tea.Cmd
	m.textinput, cmd = m.textinput.Update(msg)
	m.page.Input.Value = m.textinput.Value()
	return m, cmd
}
