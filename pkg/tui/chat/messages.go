package chat

import (
	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/process"
)

// OpMsg carries one controller view operation into the program
type OpMsg struct {
	Op chatui.ViewOp
}

// PhaseMsg reports the controller's turn phase
type PhaseMsg struct {
	State process.State
}

// DisconnectedMsg is sent when the controller stops
type DisconnectedMsg struct {
	Err error
}
