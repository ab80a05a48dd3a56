package chatui

// Event is anything the controller reacts to: server events, user actions and
// deferred continuations scheduled by earlier handlers.
type Event interface {
	eventName() string
}

// Inbound server event names
const (
	EventConnect       = "connect"
	EventStatus        = "status"
	EventReady         = "ready"
	EventProcessStatus = "process_status"
	EventStreamStart   = "stream_start"
	EventStreamChunk   = "stream_chunk"
	EventStreamEnd     = "stream_end"
	EventResponse      = "response"
	EventError         = "error"
)

// Outbound event names
const (
	EmitProcessFile = "process_file"
	EmitChatMessage = "chat_message"
)

// Process steps understood by the trace renderer
const (
	StepThinking = "thinking"
	StepIndexing = "indexing"
)

type Connect struct{}

type Status struct {
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

type Ready struct {
	Preview string `json:"preview,omitempty"`
}

// IndexCard is one retrieved-evidence snippet
type IndexCard struct {
	ID      FlexString `json:"id"`
	Page    FlexString `json:"page"`
	Content string     `json:"content"`
}

type ProcessStatus struct {
	Step    string      `json:"step"`
	Message string      `json:"message"`
	Data    []IndexCard `json:"data,omitempty"`
}

type StreamStart struct{}

type StreamChunk struct {
	Chunk string `json:"chunk"`
}

type StreamEnd struct {
	Sources string `json:"sources,omitempty"`
}

type Response struct {
	Content string `json:"content"`
	Role    Role   `json:"role"`
}

type Error struct {
	Message string `json:"message"`
}

// Submit is the chat form submission
type Submit struct {
	Text string
}

// Deferred continuations. They are only produced by After effects.
type (
	statusSwap struct {
		text string
	}
	overlayFade    struct{ preview string }
	overlayDismiss struct {
		preview string
	}
	streamCommit struct {
		seq    int
		markup string
	}
)

func (Connect) eventName() string       { return EventConnect }
func (Status) eventName() string        { return EventStatus }
func (Ready) eventName() string         { return EventReady }
func (ProcessStatus) eventName() string { return EventProcessStatus }
func (StreamStart) eventName() string   { return EventStreamStart }
func (StreamChunk) eventName() string   { return EventStreamChunk }
func (StreamEnd) eventName() string     { return EventStreamEnd }
func (Response) eventName() string      { return EventResponse }
func (Error) eventName() string         { return EventError }
func (Submit) eventName() string        { return "submit" }

func (statusSwap) eventName() string     { return "status_swap" }
func (overlayFade) eventName() string    { return "overlay_fade" }
func (overlayDismiss) eventName() string { return "overlay_dismiss" }
func (streamCommit) eventName() string   { return "stream_commit" }

// Name returns the event name used in logs
func Name(ev Event) string {
	return ev.eventName()
}

// InputUnlocked reports whether ev is the continuation that ends initial processing
func InputUnlocked(ev Event) bool {
	_, ok := ev.(overlayDismiss)
	return ok
}

// TurnSettled reports whether ev ends a chat turn: the answer is in the
// history or the server reported an error
func TurnSettled(ev Event) bool {
	switch ev.(type) {
	case Response, Error, streamCommit:
		return true
	}
	return false
}
