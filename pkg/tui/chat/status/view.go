package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/vaultchat/pkg/tui/theme"
)

func (m StatusModel) View() string {
	if m.width == 0 {
		return ""
	}

	var components []string

	if m.phase.Busy() {
		components = append(components, m.spinner.View())
	}

	if m.text != "" {
		style := lipgloss.NewStyle().Foreground(theme.ColorBase07)
		if m.fading {
			style = m.styles.StatusFading
		}
		components = append(components, style.Render(m.text))
	}

	if m.phase.Busy() {
		phaseStyle := lipgloss.NewStyle().Foreground(theme.ColorOrange)
		components = append(components, phaseStyle.Render(m.phase.GetIcon()+" "+m.phase.GetDisplayName()))
	}

	if m.phase.Busy() && m.timer > 0 {
		minutes := int(m.timer.Minutes())
		seconds := int(m.timer.Seconds()) % 60
		timerStyle := lipgloss.NewStyle().Foreground(theme.ColorBase04)
		components = append(components, timerStyle.Render(fmt.Sprintf("%02d:%02d", minutes, seconds)))
	}

	separator := lipgloss.NewStyle().Foreground(theme.ColorBase03).Render(" | ")
	return m.styles.StatusBar.Width(m.width).Render(strings.Join(components, separator))
}
