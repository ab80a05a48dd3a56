package chatui

import (
	"strings"
	"time"

	"github.com/killallgit/vaultchat/pkg/process"
)

// Presentation delays of the deferred continuations
const (
	StatusFadeDelay   = 200 * time.Millisecond
	ReadyHoldDelay    = 800 * time.Millisecond
	OverlayFadeDelay  = 500 * time.Millisecond
	StreamSettleDelay = 100 * time.Millisecond
)

// ProcessFilePayload is sent once the connection is up
type ProcessFilePayload struct{}

// ChatMessagePayload carries one user question
type ChatMessagePayload struct {
	Message string `json:"message"`
}

// Reduce applies one event to the state and returns the new state together
// with the effects the runtime must perform, in order.
func Reduce(opts Options, s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Connect:
		return s, []Effect{
			Emit{Event: EmitProcessFile, Payload: ProcessFilePayload{}},
			SetOverlay{Label: LabelConnecting, Percent: 10},
		}

	case Status:
		effects := setStatus(&s, StatusLine(ev.Icon, ev.Message))
		if s.Processing {
			effects = append(effects, SetOverlay{Label: ev.Message, Percent: OverlayPercent(ev.Message)})
		}
		return s, effects

	case statusSwap:
		return s, []Effect{SetStatus{Text: ev.text}}

	case Ready:
		effects := []Effect{
			SetOverlay{Label: LabelComplete, Percent: 100},
			After{Delay: ReadyHoldDelay, Event: overlayFade{preview: ev.Preview}},
		}
		return s, append(effects, setStatus(&s, StatusLine(IconReady, StatusReady))...)

	case overlayFade:
		return s, []Effect{
			FadeOverlay{Duration: OverlayFadeDelay},
			After{Delay: OverlayFadeDelay, Event: overlayDismiss{preview: ev.preview}},
		}

	case overlayDismiss:
		return dismissOverlay(opts, s, ev.preview)

	case ProcessStatus:
		return processStatus(s, ev)

	case StreamStart:
		var effects []Effect
		if id, ok := s.LiveTrace(); ok {
			effects = append(effects, SealTrace{ID: id})
			s.liveTrace = ""
		}
		s.Stream.Reset()
		s.Streaming = true
		s.streamSeq++
		s.Phase = process.StateStreaming
		return s, append(effects,
			ShowStream{Relocate: opts.RelocateStreamBubble},
			SetStreamContent{Markup: s.Stream.String()},
			ClearStreamSources{},
			ScrollToBottom{},
		)

	case StreamChunk:
		s.Stream.Append(ev.Chunk)
		return s, []Effect{SetStreamContent{Markup: s.Stream.String()}, ScrollToBottom{}}

	case StreamEnd:
		return streamEnd(s, ev)

	case streamCommit:
		var effects []Effect
		if ev.markup != "" {
			effects = append(effects, AppendMessage{Message: Message{Content: ev.markup, Role: RoleAssistant}}, ScrollToBottom{})
		}
		// a newer stream owns the bubble once it has started
		if ev.seq == s.streamSeq && !s.Streaming {
			effects = append(effects, HideStream{})
		}
		return s, effects

	case Response:
		s.Phase = process.StateIdle
		return s, []Effect{
			AppendMessage{Message: Message{Content: ev.Content, Role: ev.Role.normalize()}},
			ScrollToBottom{},
		}

	case Error:
		s.Streaming = false
		s.Phase = process.StateIdle
		effects := []Effect{Alert{Message: "Error: " + ev.Message}}
		return s, append(effects, setStatus(&s, StatusLine(IconError, StatusError))...)

	case Submit:
		return submit(s, ev)
	}

	return s, nil
}

func setStatus(s *State, text string) []Effect {
	s.Status = text
	return []Effect{
		FadeStatus{Duration: StatusFadeDelay},
		After{Delay: StatusFadeDelay, Event: statusSwap{text: text}},
	}
}

func dismissOverlay(opts Options, s State, preview string) (State, []Effect) {
	// a second ready races its own dismissal; only the first one unlocks input
	if !s.Processing {
		return s, nil
	}
	s.Processing = false
	effects := []Effect{
		HideOverlay{},
		EnableInput{Placeholder: opts.Placeholder()},
		AppendMessage{Message: Message{Content: WelcomeMarkup(opts), Role: RoleAssistant}},
		ScrollToBottom{},
	}
	if preview != "" {
		effects = append(effects, InsertPreview{Markup: PreviewMarkup(preview), Placement: opts.PreviewPlacement})
	}
	return s, effects
}

func processStatus(s State, ev ProcessStatus) (State, []Effect) {
	var effects []Effect
	id, live := s.LiveTrace()
	if !live || ev.Step == StepThinking {
		id = s.newTrace()
		effects = append(effects, CreateTrace{ID: id})
	}

	switch ev.Step {
	case StepThinking:
		s.Phase = process.StateThinking
		effects = append(effects, RenderTrace{ID: id, Markup: ThinkingMarkup(ev.Message)})
	case StepIndexing:
		s.Phase = process.StateIndexing
		effects = append(effects, RenderTrace{ID: id, Markup: IndexingMarkup(ev.Message, ev.Data)})
	}

	return s, append(effects, ScrollToBottom{})
}

func streamEnd(s State, ev StreamEnd) (State, []Effect) {
	// a repeated stream_end has nothing left to finalize
	if !s.Streaming {
		return s, nil
	}
	s.Streaming = false
	s.Phase = process.StateIdle

	content := s.Stream.Finalize()
	committed := content + SourcesMarkup(ev.Sources)
	s.Stream.Clear()
	return s, []Effect{
		SetStreamContent{Markup: content},
		After{Delay: StreamSettleDelay, Event: streamCommit{seq: s.streamSeq, markup: committed}},
	}
}

func submit(s State, ev Submit) (State, []Effect) {
	text := strings.TrimSpace(ev.Text)
	if text == "" || s.Streaming || s.Processing {
		return s, nil
	}

	s.Phase = process.StateAwaiting
	effects := []Effect{
		AppendMessage{Message: Message{Content: UserMarkup(text), Role: RoleUser}},
		ScrollToBottom{},
		ClearInput{},
		Emit{Event: EmitChatMessage, Payload: ChatMessagePayload{Message: text}},
	}
	return s, append(effects, setStatus(&s, StatusLine(IconThinking, StatusThinking))...)
}
