package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Autumn base16 palette: warm browns with orange and yellow accents
var (
	ColorBase00 = lipgloss.Color("#1a1816") // Dark background
	ColorBase01 = lipgloss.Color("#282420") // Lighter background
	ColorBase02 = lipgloss.Color("#36302a") // Selection background
	ColorBase03 = lipgloss.Color("#5c5044") // Comments, invisibles
	ColorBase04 = lipgloss.Color("#83715f") // Dark foreground
	ColorBase05 = lipgloss.Color("#ab937b") // Default foreground
	ColorBase07 = lipgloss.Color("#f5d7b9") // Lightest foreground

	ColorRed    = lipgloss.Color("#d95f5f")
	ColorOrange = lipgloss.Color("#eb8755")
	ColorYellow = lipgloss.Color("#f5b761")
	ColorGreen  = lipgloss.Color("#93b56b")
	ColorCyan   = lipgloss.Color("#61afaf")
	ColorBlue   = lipgloss.Color("#6b93b5")
	ColorViolet = lipgloss.Color("#6c71c4")

	ColorBorder  = ColorBase03
	ColorFocus   = ColorOrange
	ColorSuccess = ColorGreen
	ColorError   = ColorRed
	ColorMuted   = ColorBase03
)

// Styles defines the Lipgloss styles for the chat screen
type Styles struct {
	// Processing overlay
	Overlay      lipgloss.Style
	OverlayLabel lipgloss.Style
	OverlayFaded lipgloss.Style

	// History entries
	UserMessage      lipgloss.Style
	AssistantMessage lipgloss.Style
	Preview          lipgloss.Style
	Trace            lipgloss.Style
	SealedTrace      lipgloss.Style
	Streaming        lipgloss.Style
	SenderLabel      lipgloss.Style

	// Input
	InputFocused  lipgloss.Style
	InputDisabled lipgloss.Style

	// Status bar and alert
	StatusBar    lipgloss.Style
	StatusFading lipgloss.Style
	Alert        lipgloss.Style
	Hint         lipgloss.Style
}

// DefaultStyles returns the default Lipgloss styles
func DefaultStyles() *Styles {
	return &Styles{
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFocus).
			Padding(1, 3),
		OverlayLabel: lipgloss.NewStyle().
			Foreground(ColorBase07).
			Bold(true),
		OverlayFaded: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBase03).
			Foreground(ColorBase04).
			Padding(1, 3),

		UserMessage: lipgloss.NewStyle().
			Foreground(ColorGreen),
		AssistantMessage: lipgloss.NewStyle().
			Foreground(ColorBase05),
		Preview: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorYellow).
			PaddingLeft(1),
		Trace: lipgloss.NewStyle().
			Foreground(ColorCyan).
			Italic(true),
		SealedTrace: lipgloss.NewStyle().
			Foreground(ColorMuted),
		Streaming: lipgloss.NewStyle().
			Foreground(ColorBlue),
		SenderLabel: lipgloss.NewStyle().
			Foreground(ColorOrange).
			Bold(true),

		InputFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFocus),
		InputDisabled: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBase03).
			Foreground(ColorMuted),

		StatusBar: lipgloss.NewStyle().
			Background(ColorBase01).
			Foreground(ColorBase05).
			Padding(0, 1),
		StatusFading: lipgloss.NewStyle().
			Foreground(ColorBase03),
		Alert: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(ColorError).
			Foreground(ColorError).
			Bold(true).
			Padding(1, 2),
		Hint: lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true),
	}
}
