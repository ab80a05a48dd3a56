package status

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/vaultchat/pkg/process"
	"github.com/killallgit/vaultchat/pkg/tui/theme"
)

// StatusModel represents the status bar component
type StatusModel struct {
	spinner   spinner.Model
	text      string // indicator text, e.g. "✅ Ready"
	fading    bool
	phase     process.State
	timer     time.Duration // time spent in the current turn
	startTime time.Time
	width     int
	styles    *theme.Styles
}

// NewStatusModel creates a new status bar model
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(theme.ColorViolet)

	return StatusModel{
		spinner: s,
		styles:  theme.DefaultStyles(),
	}
}

// Phase returns the last reported turn phase
func (m StatusModel) Phase() process.State {
	return m.phase
}

// Text returns the indicator text
func (m StatusModel) Text() string {
	return m.text
}
