package chatui

import (
	"fmt"
	"strings"

	"github.com/killallgit/vaultchat/pkg/process"
)

// Role identifies who authored a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// normalize maps anything that is not the user onto the assistant bubble
func (r Role) normalize() Role {
	if r == RoleUser {
		return RoleUser
	}
	return RoleAssistant
}

// Message is one rendered chat turn. Content is markup.
type Message struct {
	Content string
	Role    Role
}

// CursorMarker trails the in-flight assistant reply
const CursorMarker = `<span class="streaming-cursor">▋</span>`

// StreamBuffer accumulates streamed answer markup
type StreamBuffer struct {
	content string
}

// Reset leaves just the cursor marker in the buffer
func (b *StreamBuffer) Reset() {
	b.content = CursorMarker
}

// Append adds chunk before the cursor marker
func (b *StreamBuffer) Append(chunk string) {
	b.content = strings.TrimSuffix(b.content, CursorMarker) + chunk + CursorMarker
}

// Finalize strips the cursor marker and returns the accumulated content
func (b *StreamBuffer) Finalize() string {
	b.content = strings.TrimSuffix(b.content, CursorMarker)
	return b.content
}

// Clear empties the buffer
func (b *StreamBuffer) Clear() {
	b.content = ""
}

// String returns the buffer including the cursor marker, if present
func (b StreamBuffer) String() string {
	return b.content
}

// State is the controller state threaded through Reduce
type State struct {
	Processing bool
	Streaming  bool
	Phase      process.State
	// Status is the text the status indicator settles on once its fade completes
	Status string

	Stream    StreamBuffer
	streamSeq int

	liveTrace string
	traceSeq  int
}

// NewState returns the page-load state: processing, not streaming
func NewState() State {
	return State{Processing: true, Phase: process.StateIdle}
}

// AcceptsInput reports whether a submission would be handled
func (s State) AcceptsInput() bool {
	return !s.Processing && !s.Streaming
}

// LiveTrace returns the id of the unsealed trace, if any
func (s State) LiveTrace() (string, bool) {
	return s.liveTrace, s.liveTrace != ""
}

func (s *State) newTrace() string {
	s.traceSeq++
	s.liveTrace = fmt.Sprintf("process-%d", s.traceSeq)
	return s.liveTrace
}
