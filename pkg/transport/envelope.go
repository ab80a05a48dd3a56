package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/logger"
)

// ErrUnknownEvent is returned by Decode for event names the client does not handle
var ErrUnknownEvent = errors.New("unknown event")

// Envelope is one websocket frame: an event name and its JSON payload
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Encode wraps payload into an envelope frame
func Encode(event string, payload any) ([]byte, error) {
	env := Envelope{Event: event}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", event, err)
		}
		env.Data = data
	}
	return json.Marshal(env)
}

// Decode turns an inbound envelope into a controller event. Malformed
// payloads decode to the zero value of the event; only unknown names fail.
func Decode(env Envelope) (chatui.Event, error) {
	switch env.Event {
	case chatui.EventConnect:
		return chatui.Connect{}, nil
	case chatui.EventStatus:
		var ev chatui.Status
		lenient(env, &ev)
		return ev, nil
	case chatui.EventReady:
		var ev chatui.Ready
		lenient(env, &ev)
		return ev, nil
	case chatui.EventProcessStatus:
		var ev chatui.ProcessStatus
		lenient(env, &ev)
		return ev, nil
	case chatui.EventStreamStart:
		return chatui.StreamStart{}, nil
	case chatui.EventStreamChunk:
		if s, ok := bareString(env.Data); ok {
			return chatui.StreamChunk{Chunk: s}, nil
		}
		var ev chatui.StreamChunk
		lenient(env, &ev)
		return ev, nil
	case chatui.EventStreamEnd:
		var ev chatui.StreamEnd
		lenient(env, &ev)
		return ev, nil
	case chatui.EventResponse:
		var ev chatui.Response
		lenient(env, &ev)
		return ev, nil
	case chatui.EventError:
		if s, ok := bareString(env.Data); ok {
			return chatui.Error{Message: s}, nil
		}
		var ev chatui.Error
		lenient(env, &ev)
		return ev, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
}

// lenient decodes what it can. encoding/json keeps the well-typed fields
// when another field has the wrong type.
func lenient(env Envelope, v any) {
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		logger.Debug("malformed %s payload: %v", env.Event, err)
	}
}

func bareString(data json.RawMessage) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return "", false
	}
	return s, true
}
