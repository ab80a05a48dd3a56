package status

import (
	"time"

	"github.com/killallgit/vaultchat/pkg/process"
)

// IndicatorMsg mirrors the page status indicator
type IndicatorMsg struct {
	Text   string
	Fading bool
}

// PhaseMsg reports the turn phase of the controller
type PhaseMsg struct {
	State process.State
}

// TickMsg updates the timer
type TickMsg time.Time
