package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/vaultchat/pkg/chatui"
)

func (m Model) renderEntries() string {
	var rendered []string

	availableWidth := m.viewport.Width
	if availableWidth <= 0 {
		availableWidth = 80
	}

	for _, entry := range m.page.History {
		var block string
		switch entry.Kind {
		case chatui.EntryMessage:
			if entry.Role == chatui.RoleUser {
				block = m.styles.SenderLabel.Render("You") + "\n" + m.styles.UserMessage.Render(m.text(entry.Markup))
			} else {
				block = m.styles.SenderLabel.Render("Vault") + "\n" + m.styles.AssistantMessage.Render(m.text(entry.Markup))
			}
		case chatui.EntryPreview:
			block = m.styles.Preview.Render(m.text(entry.Markup))
		case chatui.EntryTrace:
			if entry.Markup == "" {
				continue
			}
			if entry.Sealed {
				block = m.styles.SealedTrace.Render(m.text(entry.Markup))
			} else {
				block = m.spinner.View() + " " + m.styles.Trace.Render(m.text(entry.Markup))
			}
		case chatui.EntryStream:
			if !m.page.Stream.Visible || m.page.Stream.Markup == "" {
				continue
			}
			// the bubble changes on every chunk, so it bypasses the cache
			block = m.styles.SenderLabel.Render("Vault") + "\n" + m.styles.Streaming.Render(m.renderer.Text(m.page.Stream.Markup))
		}

		rendered = append(rendered, lipgloss.NewStyle().Width(availableWidth).Render(block))
	}

	return strings.Join(rendered, "\n\n")
}

// text renders markup once per width
func (m Model) text(markup string) string {
	if out, ok := m.rendered[markup]; ok {
		return out
	}
	out := m.renderer.Text(markup)
	m.rendered[markup] = out
	return out
}

func (m Model) hasLiveTrace() bool {
	for _, e := range m.page.Traces() {
		if !e.Sealed && e.Markup != "" {
			return true
		}
	}
	return false
}

func (m *Model) updateViewportContent() {
	m.viewport.SetContent(m.renderEntries())
}
