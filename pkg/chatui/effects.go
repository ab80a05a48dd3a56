package chatui

import "time"

// Effect is an instruction produced by Reduce. View effects are applied to the
// view handle, Emit goes to the transport and After is scheduled on the clock.
type Effect interface {
	effect()
}

// Emit sends one outbound message
type Emit struct {
	Event   string
	Payload any
}

// After feeds Event back into the controller once Delay has elapsed.
// Scheduled continuations cannot be cancelled.
type After struct {
	Delay time.Duration
	Event Event
}

func (Emit) effect()  {}
func (After) effect() {}

// ViewOp is an effect applied to the render tree
type ViewOp interface {
	Effect
	viewOp()
}

type (
	// SetOverlay updates the processing overlay label and progress bar
	SetOverlay struct {
		Label   string
		Percent int
	}
	// FadeOverlay starts the overlay opacity transition
	FadeOverlay struct {
		Duration time.Duration
	}
	HideOverlay struct{}

	// EnableInput enables the input field and send control, sets the
	// placeholder and focuses the field
	EnableInput struct {
		Placeholder string
	}
	ClearInput struct{}

	// FadeStatus starts the status indicator fade-out
	FadeStatus struct {
		Duration time.Duration
	}
	// SetStatus swaps the status indicator text and fades it back in
	SetStatus struct {
		Text string
	}

	AppendMessage struct {
		Message Message
	}
	// InsertPreview pins a preview block at the start or end of the history
	InsertPreview struct {
		Markup    string
		Placement PreviewPlacement
	}

	// CreateTrace adds a fresh trace container and makes it the live one
	CreateTrace struct {
		ID string
	}
	// RenderTrace replaces the content of a trace container
	RenderTrace struct {
		ID     string
		Markup string
	}
	// SealTrace releases the live identity; the node stays in history
	SealTrace struct {
		ID string
	}

	// ShowStream reveals the streaming bubble, moving it to the end of the
	// history first when Relocate is set
	ShowStream struct {
		Relocate bool
	}
	SetStreamContent struct {
		Markup string
	}
	ClearStreamSources struct{}
	// HideStream hides the streaming bubble and clears its content
	HideStream struct{}

	ScrollToBottom struct{}

	// Alert is a blocking user-facing notice
	Alert struct {
		Message string
	}
)

func (SetOverlay) effect()         {}
func (FadeOverlay) effect()        {}
func (HideOverlay) effect()        {}
func (EnableInput) effect()        {}
func (ClearInput) effect()         {}
func (FadeStatus) effect()         {}
func (SetStatus) effect()          {}
func (AppendMessage) effect()      {}
func (InsertPreview) effect()      {}
func (CreateTrace) effect()        {}
func (RenderTrace) effect()        {}
func (SealTrace) effect()          {}
func (ShowStream) effect()         {}
func (SetStreamContent) effect()   {}
func (ClearStreamSources) effect() {}
func (HideStream) effect()         {}
func (ScrollToBottom) effect()     {}
func (Alert) effect()              {}

func (SetOverlay) viewOp()         {}
func (FadeOverlay) viewOp()        {}
func (HideOverlay) viewOp()        {}
func (EnableInput) viewOp()        {}
func (ClearInput) viewOp()         {}
func (FadeStatus) viewOp()         {}
func (SetStatus) viewOp()          {}
func (AppendMessage) viewOp()      {}
func (InsertPreview) viewOp()      {}
func (CreateTrace) viewOp()        {}
func (RenderTrace) viewOp()        {}
func (SealTrace) viewOp()          {}
func (ShowStream) viewOp()         {}
func (SetStreamContent) viewOp()   {}
func (ClearStreamSources) viewOp() {}
func (HideStream) viewOp()         {}
func (ScrollToBottom) viewOp()     {}
func (Alert) viewOp()              {}

// View is the render tree handle the controller drives
type View interface {
	Apply(op ViewOp)
}

// ViewFunc adapts a function to View
type ViewFunc func(op ViewOp)

func (f ViewFunc) Apply(op ViewOp) { f(op) }
