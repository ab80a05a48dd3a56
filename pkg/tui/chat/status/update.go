package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.phase.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case IndicatorMsg:
		m.text = msg.Text
		m.fading = msg.Fading
		return m, nil

	case PhaseMsg:
		wasBusy := m.phase.Busy()
		m.phase = msg.State
		if m.phase.Busy() && !wasBusy {
			m.startTime = time.Now()
			m.timer = 0
			return m, tea.Batch(m.spinner.Tick, tickEvery())
		}
		if !m.phase.Busy() {
			m.timer = 0
		}
		return m, nil

	case TickMsg:
		if m.phase.Busy() {
			m.timer = time.Since(m.startTime)
			return m, tickEvery()
		}
		return m, nil
	}

	return m, nil
}

// tickEvery returns a command that sends a tick message every second
func tickEvery() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
