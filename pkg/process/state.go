package process

// State represents where the current chat turn is
type State string

const (
	// StateIdle indicates no turn is in flight
	StateIdle State = ""

	// StateAwaiting indicates a message was sent and no server event has answered it yet
	StateAwaiting State = "awaiting_response"

	// StateThinking indicates the server is deconstructing the query
	StateThinking State = "thinking"

	// StateIndexing indicates the server has shown the retrieved evidence
	StateIndexing State = "indexing"

	// StateStreaming indicates answer tokens are arriving
	StateStreaming State = "streaming"
)

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// GetIcon returns the appropriate icon for a given turn state
func (s State) GetIcon() string {
	switch s {
	case StateAwaiting:
		return "↑"
	case StateThinking:
		return "🤔"
	case StateIndexing:
		return "🔍"
	case StateStreaming:
		return "↓"
	default:
		return ""
	}
}

// GetDisplayName returns a human-readable name for the state
func (s State) GetDisplayName() string {
	switch s {
	case StateAwaiting:
		return "Sending"
	case StateThinking:
		return "Thinking"
	case StateIndexing:
		return "Indexing"
	case StateStreaming:
		return "Receiving"
	case StateIdle:
		return "Idle"
	default:
		return ""
	}
}

// Busy reports whether a turn is in flight
func (s State) Busy() bool {
	return s != StateIdle
}
