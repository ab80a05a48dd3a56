package replay

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/killallgit/vaultchat/pkg/chatui"
)

// SnippetLength is how much of a card's text the server sends before the ellipsis
const SnippetLength = 150

// StreamEvent is the pseudo event expanding into a stream_start, chunk, stream_end run
const StreamEvent = "stream"

// QueryPlaceholder is replaced by the user's message in every string of a chat step
const QueryPlaceholder = "{{message}}"

//go:embed scripts/*.yaml
var builtin embed.FS

// ErrInvalidScript wraps every script validation failure
var ErrInvalidScript = errors.New("invalid replay script")

// Card is an evidence snippet shown by an indexing step
type Card struct {
	Page    string `yaml:"page"`
	Content string `yaml:"content"`
}

// Step is one scripted server event
type Step struct {
	Event string         `yaml:"event"`
	Delay time.Duration  `yaml:"delay,omitempty"`
	Data  map[string]any `yaml:"data,omitempty"`
	Cards []Card         `yaml:"cards,omitempty"`

	// stream steps only
	Text       string        `yaml:"text,omitempty"`
	ChunkDelay time.Duration `yaml:"chunk_delay,omitempty"`
	Sources    string        `yaml:"sources,omitempty"`
}

// Script is what the replay server answers with
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	ProcessFile []Step `yaml:"process_file"`
	ChatMessage []Step `yaml:"chat_message"`
}

// Frame is one event ready to be written to a session
type Frame struct {
	Delay   time.Duration
	Event   string
	Payload any
}

// ParseScript decodes and validates a YAML script
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse replay script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScript reads a script file
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read replay script: %w", err)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Builtin returns one of the bundled scripts, "pdf" or "csv"
func Builtin(name string) (*Script, error) {
	data, err := BuiltinSource(name)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

// BuiltinSource returns the YAML text of a bundled script
func BuiltinSource(name string) ([]byte, error) {
	data, err := builtin.ReadFile("scripts/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("no builtin replay script %q", name)
	}
	return data, nil
}

// BuiltinNames lists the bundled scripts
func BuiltinNames() []string {
	entries, _ := builtin.ReadDir("scripts")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	return names
}

// Validate checks every step of both sequences
func (s *Script) Validate() error {
	if len(s.ProcessFile) == 0 {
		return fmt.Errorf("%w: process_file has no steps", ErrInvalidScript)
	}
	for name, steps := range map[string][]Step{"process_file": s.ProcessFile, "chat_message": s.ChatMessage} {
		for i, st := range steps {
			if err := st.validate(); err != nil {
				return fmt.Errorf("%w: %s step %d: %v", ErrInvalidScript, name, i+1, err)
			}
		}
	}
	return nil
}

func (st Step) validate() error {
	switch {
	case st.Event == "":
		return errors.New("missing event")
	case st.Delay < 0 || st.ChunkDelay < 0:
		return errors.New("negative delay")
	case st.Event == StreamEvent && st.Text == "":
		return errors.New("stream step without text")
	}
	return nil
}

// Processing returns the frames answering process_file
func (s *Script) Processing() []Frame {
	return expand(s.ProcessFile, "")
}

// Answer returns the frames answering a chat message
func (s *Script) Answer(query string) []Frame {
	return expand(s.ChatMessage, query)
}

func expand(steps []Step, query string) []Frame {
	var frames []Frame
	for _, st := range steps {
		if st.Event != StreamEvent {
			frames = append(frames, Frame{Delay: st.Delay, Event: st.Event, Payload: st.payload(query)})
			continue
		}

		frames = append(frames, Frame{Delay: st.Delay, Event: chatui.EventStreamStart, Payload: map[string]any{}})
		for _, chunk := range Chunks(substitute(st.Text, query)) {
			frames = append(frames, Frame{
				Delay:   st.ChunkDelay,
				Event:   chatui.EventStreamChunk,
				Payload: map[string]any{"chunk": chunk},
			})
		}
		frames = append(frames, Frame{
			Event:   chatui.EventStreamEnd,
			Payload: map[string]any{"sources": substitute(st.Sources, query)},
		})
	}
	return frames
}

func (st Step) payload(query string) any {
	if st.Data == nil && len(st.Cards) == 0 {
		return nil
	}
	out := make(map[string]any, len(st.Data)+1)
	for k, v := range st.Data {
		out[k] = substituteAny(v, query)
	}
	if len(st.Cards) > 0 {
		cards := make([]map[string]any, 0, len(st.Cards))
		for i, c := range st.Cards {
			cards = append(cards, map[string]any{
				"id":      i + 1,
				"page":    c.Page,
				"content": Snippet(substitute(c.Content, query)),
			})
		}
		out["data"] = cards
	}
	return out
}

// Snippet cuts text to SnippetLength runes and appends an ellipsis
func Snippet(text string) string {
	r := []rune(text)
	if len(r) > SnippetLength {
		r = r[:SnippetLength]
	}
	return string(r) + "..."
}

// Chunks splits text into word-sized stream chunks; joined they give text back
func Chunks(text string) []string {
	var chunks []string
	for _, c := range strings.SplitAfter(text, " ") {
		if c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks
}

func substitute(s, query string) string {
	return strings.ReplaceAll(s, QueryPlaceholder, query)
}

func substituteAny(v any, query string) any {
	switch v := v.(type) {
	case string:
		return substitute(v, query)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = substituteAny(e, query)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = substituteAny(e, query)
		}
		return out
	default:
		return v
	}
}
