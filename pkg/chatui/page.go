package chatui

// EntryKind tells history entries apart
type EntryKind int

const (
	EntryMessage EntryKind = iota
	EntryPreview
	EntryTrace
	// EntryStream marks where the streaming bubble sits in the history
	EntryStream
)

// Entry is one node of the chat history
type Entry struct {
	Kind    EntryKind
	Role    Role
	Markup  string
	TraceID string
	Sealed  bool
}

// Overlay is the full-screen processing overlay
type Overlay struct {
	Label   string
	Percent int
	Fading  bool
	Hidden  bool
}

// Input is the message field together with its send control
type Input struct {
	Enabled     bool
	Placeholder string
	Focused     bool
	Value       string
}

// Indicator is the persistent status indicator
type Indicator struct {
	Text   string
	Fading bool
}

// Bubble is the live streaming bubble
type Bubble struct {
	Visible bool
	Markup  string
	Sources string
}

// Page is the render tree the view operations act on. It holds no locks;
// renderers serialize access themselves.
type Page struct {
	Overlay Overlay
	Status  Indicator
	Input   Input
	History []Entry
	Stream  Bubble
	Alerts  []string
	Scrolls int
}

// NewPage returns the page as first loaded: overlay up, input disabled and the
// hidden streaming bubble as the only history node
func NewPage() *Page {
	return &Page{
		History: []Entry{{Kind: EntryStream}},
	}
}

// Apply mutates the page according to op
func (p *Page) Apply(op ViewOp) {
	switch op := op.(type) {
	case SetOverlay:
		p.Overlay.Label = op.Label
		p.Overlay.Percent = op.Percent
	case FadeOverlay:
		p.Overlay.Fading = true
	case HideOverlay:
		p.Overlay.Fading = false
		p.Overlay.Hidden = true

	case EnableInput:
		p.Input.Enabled = true
		p.Input.Placeholder = op.Placeholder
		p.Input.Focused = true
	case ClearInput:
		p.Input.Value = ""

	case FadeStatus:
		p.Status.Fading = true
	case SetStatus:
		p.Status.Text = op.Text
		p.Status.Fading = false

	case AppendMessage:
		p.History = append(p.History, Entry{Kind: EntryMessage, Role: op.Message.Role, Markup: op.Message.Content})
	case InsertPreview:
		entry := Entry{Kind: EntryPreview, Role: RoleAssistant, Markup: op.Markup}
		if op.Placement == PreviewAppend {
			p.History = append(p.History, entry)
		} else {
			p.History = append([]Entry{entry}, p.History...)
		}

	case CreateTrace:
		p.History = append(p.History, Entry{Kind: EntryTrace, Role: RoleAssistant, TraceID: op.ID})
	case RenderTrace:
		if i := p.traceIndex(op.ID); i >= 0 {
			p.History[i].Markup = op.Markup
		}
	case SealTrace:
		if i := p.traceIndex(op.ID); i >= 0 {
			p.History[i].Sealed = true
		}

	case ShowStream:
		if op.Relocate {
			p.relocateStream()
		}
		p.Stream.Visible = true
	case SetStreamContent:
		p.Stream.Markup = op.Markup
	case ClearStreamSources:
		p.Stream.Sources = ""
	case HideStream:
		p.Stream.Visible = false
		p.Stream.Markup = ""

	case ScrollToBottom:
		p.Scrolls++
	case Alert:
		p.Alerts = append(p.Alerts, op.Message)
	}
}

func (p *Page) traceIndex(id string) int {
	for i := len(p.History) - 1; i >= 0; i-- {
		if p.History[i].Kind == EntryTrace && p.History[i].TraceID == id {
			return i
		}
	}
	return -1
}

// StreamIndex returns the position of the streaming bubble in the history
func (p *Page) StreamIndex() int {
	for i, e := range p.History {
		if e.Kind == EntryStream {
			return i
		}
	}
	return -1
}

func (p *Page) relocateStream() {
	i := p.StreamIndex()
	if i < 0 || i == len(p.History)-1 {
		return
	}
	stream := p.History[i]
	p.History = append(p.History[:i], p.History[i+1:]...)
	p.History = append(p.History, stream)
}

// Messages returns the committed chat messages in history order
func (p *Page) Messages() []Message {
	var out []Message
	for _, e := range p.History {
		if e.Kind == EntryMessage {
			out = append(out, Message{Content: e.Markup, Role: e.Role})
		}
	}
	return out
}

// Traces returns the trace entries in history order
func (p *Page) Traces() []Entry {
	var out []Entry
	for _, e := range p.History {
		if e.Kind == EntryTrace {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns a deep copy that is safe to read while p keeps changing
func (p *Page) Clone() *Page {
	c := *p
	c.History = append([]Entry(nil), p.History...)
	c.Alerts = append([]string(nil), p.Alerts...)
	return &c
}
