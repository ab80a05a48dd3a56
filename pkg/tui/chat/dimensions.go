package chat

import (
	"github.com/killallgit/vaultchat/pkg/logger"
)

const (
	statusBarHeight = 1
	inputHeight     = 3 // bordered single line
	minViewport     = 3
)

// handleWindowResize updates all dimensions when window size changes
func (m *Model) handleWindowResize(width, height int) {
	m.width = width
	m.height = height

	// Account for the input border and prompt
	m.textinput.Width = width - 6
	m.progress.Width = min(60, width-10)

	m.viewport.Width = width
	m.updateViewportHeight()

	if m.renderer != nil {
		if err := m.renderer.SetWidth(width - 4); err != nil {
			logger.Warn("failed to rewrap markdown: %v", err)
		}
		clear(m.rendered)
	}
	m.updateViewportContent()
}

// updateViewportHeight gives the history whatever the input and status bar leave
func (m *Model) updateViewportHeight() {
	if m.height <= 0 {
		return
	}
	m.viewport.Height = max(minViewport, m.height-inputHeight-statusBarHeight-1)
}
