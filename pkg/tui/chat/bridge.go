package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/process"
)

// Bridge forwards controller output into a bubbletea program. Operations
// applied before Attach are replayed in order once a program is attached.
type Bridge struct {
	mu      sync.Mutex
	send    func(tea.Msg)
	backlog []tea.Msg
	phase   process.State
}

// NewBridge creates a detached bridge
func NewBridge() *Bridge {
	return &Bridge{}
}

// Attach starts delivering to p
func (b *Bridge) Attach(p *tea.Program) {
	b.attach(p.Send)
}

func (b *Bridge) attach(send func(tea.Msg)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, msg := range b.backlog {
		send(msg)
	}
	b.backlog = nil
	b.send = send
}

// Apply implements chatui.View
func (b *Bridge) Apply(op chatui.ViewOp) {
	b.deliver(OpMsg{Op: op})
}

// Observe is a chatui.Observer that reports phase changes
func (b *Bridge) Observe(_ chatui.Event, s chatui.State) {
	b.mu.Lock()
	changed := s.Phase != b.phase
	b.phase = s.Phase
	b.mu.Unlock()

	if changed {
		b.deliver(PhaseMsg{State: s.Phase})
	}
}

// Disconnected tells the program the controller has stopped
func (b *Bridge) Disconnected(err error) {
	b.deliver(DisconnectedMsg{Err: err})
}

// deliver sends under the lock so backlog and live messages keep their order
func (b *Bridge) deliver(msg tea.Msg) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.send == nil {
		b.backlog = append(b.backlog, msg)
		return
	}
	b.send(msg)
}
