package chat

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/render"
	"github.com/killallgit/vaultchat/pkg/tui/chat/status"
	"github.com/killallgit/vaultchat/pkg/tui/theme"
)

// SubmitFunc receives the input text when the user presses enter
type SubmitFunc func(text string)

// Model is the bubbletea chat screen. It renders a chatui.Page kept in sync
// through OpMsg.
type Model struct {
	page     *chatui.Page
	submit   SubmitFunc
	renderer *render.Renderer
	rendered map[string]string

	viewport  viewport.Model
	textinput textinput.Model
	progress  progress.Model
	spinner   spinner.Model
	statusBar status.StatusModel

	alerts       []string
	disconnected error
	width        int
	height       int
	styles       *theme.Styles
}

// NewModel creates the chat screen. submit is called with the raw input on enter.
func NewModel(renderer *render.Renderer, submit SubmitFunc) Model {
	ti := textinput.New()
	ti.Placeholder = "Waiting for the vault..."
	ti.CharLimit = 0
	ti.Prompt = "> "

	p := progress.New(
		progress.WithGradient(string(theme.ColorOrange), string(theme.ColorYellow)),
		progress.WithWidth(40),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = s.Style.Foreground(theme.ColorViolet)

	return Model{
		page:      chatui.NewPage(),
		submit:    submit,
		renderer:  renderer,
		rendered:  make(map[string]string),
		viewport:  viewport.New(80, 20),
		textinput: ti,
		progress:  p,
		spinner:   s,
		statusBar: status.NewStatusModel(),
		styles:    theme.DefaultStyles(),
	}
}

// Page returns the page the screen currently shows
func (m Model) Page() *chatui.Page {
	return m.page
}

// Alerting reports whether a blocking alert is on screen
func (m Model) Alerting() bool {
	return len(m.alerts) > 0
}
