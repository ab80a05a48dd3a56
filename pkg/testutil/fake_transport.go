package testutil

import (
	"context"
	"sync"

	"github.com/killallgit/vaultchat/pkg/chatui"
)

// Emitted is one outbound event recorded by FakeTransport
type Emitted struct {
	Event   string
	Payload any
}

// FakeTransport implements chatui.Transport for testing. Events are pushed
// by the test; emits are recorded.
type FakeTransport struct {
	events chan chatui.Event

	mu      sync.Mutex
	emitted []Emitted
	emitErr error
	closed  bool
	replies map[string][][]chatui.Event
}

// NewFakeTransport creates a fake transport with a buffered event channel
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{events: make(chan chatui.Event, 64)}
}

// Events implements chatui.Transport
func (f *FakeTransport) Events() <-chan chatui.Event {
	return f.events
}

// Emit implements chatui.Transport
func (f *FakeTransport) Emit(ctx context.Context, event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.emitErr != nil {
		return f.emitErr
	}
	f.emitted = append(f.emitted, Emitted{Event: event, Payload: payload})
	if queue := f.replies[event]; len(queue) > 0 && !f.closed {
		f.replies[event] = queue[1:]
		for _, ev := range queue[0] {
			f.events <- ev
		}
	}
	return nil
}

// Reply queues events delivered the next time event is emitted. Each call
// answers one emit.
func (f *FakeTransport) Reply(event string, events ...chatui.Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.replies == nil {
		f.replies = make(map[string][][]chatui.Event)
	}
	f.replies[event] = append(f.replies[event], events)
}

// Push delivers server events in order
func (f *FakeTransport) Push(events ...chatui.Event) {
	for _, ev := range events {
		f.events <- ev
	}
}

// FailEmits makes every following Emit return err
func (f *FakeTransport) FailEmits(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emitErr = err
}

// Emitted returns a copy of the recorded emits
func (f *FakeTransport) Emitted() []Emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Emitted(nil), f.emitted...)
}

// EmittedNames returns the recorded event names in order
func (f *FakeTransport) EmittedNames() []string {
	var names []string
	for _, e := range f.Emitted() {
		names = append(names, e.Event)
	}
	return names
}

// Close closes the event channel once
func (f *FakeTransport) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.events)
	}
}
