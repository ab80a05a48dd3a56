package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if len(m.alerts) > 0 {
		return m.center(m.styles.Alert.Render(m.alerts[0]) + "\n\n" + m.styles.Hint.Render("press any key to continue"))
	}
	if !m.page.Overlay.Hidden {
		return m.center(m.overlayView())
	}

	var input string
	switch {
	case m.disconnected != nil:
		input = m.styles.InputDisabled.Render(fmt.Sprintf("disconnected: %v (esc to quit)", m.disconnected))
	case m.page.Input.Enabled:
		input = m.styles.InputFocused.Render(m.textinput.View())
	default:
		input = m.styles.InputDisabled.Render(m.textinput.View())
	}

	return strings.Join([]string{
		m.viewport.View(),
		m.statusBar.View(),
		input,
	}, "\n")
}

func (m Model) overlayView() string {
	label := m.page.Overlay.Label
	if label == "" {
		label = "Starting..."
	}
	body := m.styles.OverlayLabel.Render(label) + "\n\n" + m.progress.ViewAs(float64(m.page.Overlay.Percent) / 100)
	if m.page.Overlay.Fading {
		return m.styles.OverlayFaded.Render(body)
	}
	return m.styles.Overlay.Render(body)
}

func (m Model) center(content string) string {
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
