package chatui

import (
	"context"
	"errors"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/killallgit/vaultchat/pkg/logger"
)

// ErrTransportClosed is returned by Run when the event source goes away
var ErrTransportClosed = errors.New("transport closed")

// Transport is the realtime connection the controller consumes
type Transport interface {
	Events() <-chan Event
	Emit(ctx context.Context, event string, payload any) error
}

// Observer is notified after every handled event with the resulting state
type Observer func(ev Event, s State)

// Controller runs the chat UI state machine on a single event loop. Server
// events, submissions and timer continuations are handled one at a time in
// arrival order.
type Controller struct {
	opts      Options
	view      View
	transport Transport
	clock     clock.Clock
	observers []Observer

	inbox chan Event
	done  chan struct{}

	mu    sync.RWMutex
	state State
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithClock replaces the wall clock used for deferred continuations
func WithClock(c clock.Clock) ControllerOption {
	return func(ctrl *Controller) {
		ctrl.clock = c
	}
}

// WithObserver registers fn to be called after each event
func WithObserver(fn Observer) ControllerOption {
	return func(ctrl *Controller) {
		ctrl.observers = append(ctrl.observers, fn)
	}
}

// NewController creates a controller in the page-load state
func NewController(view View, transport Transport, opts Options, options ...ControllerOption) *Controller {
	c := &Controller{
		opts:      opts,
		view:      view,
		transport: transport,
		clock:     clock.New(),
		inbox:     make(chan Event, 64),
		done:      make(chan struct{}),
		state:     NewState(),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Run processes events until ctx is cancelled or the transport closes.
// It must be called once.
func (c *Controller) Run(ctx context.Context) error {
	defer close(c.done)

	events := c.transport.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				logger.Warn("transport closed, stopping controller")
				return ErrTransportClosed
			}
			c.handle(ctx, ev)
		case ev := <-c.inbox:
			c.handle(ctx, ev)
		}
	}
}

// Submit queues a chat form submission
func (c *Controller) Submit(text string) {
	c.post(Submit{Text: text})
}

// State returns a snapshot of the current state
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) post(ev Event) {
	select {
	case c.inbox <- ev:
	case <-c.done:
	}
}

func (c *Controller) handle(ctx context.Context, ev Event) {
	c.mu.Lock()
	next, effects := Reduce(c.opts, c.state, ev)
	c.state = next
	c.mu.Unlock()

	logger.Debug("event %s: %d effects", Name(ev), len(effects))
	for _, eff := range effects {
		c.perform(ctx, eff)
	}
	for _, fn := range c.observers {
		fn(ev, next)
	}
}

func (c *Controller) perform(ctx context.Context, eff Effect) {
	switch eff := eff.(type) {
	case Emit:
		if err := c.transport.Emit(ctx, eff.Event, eff.Payload); err != nil {
			logger.Error("emit %s: %v", eff.Event, err)
		}
	case After:
		ev := eff.Event
		c.clock.AfterFunc(eff.Delay, func() { c.post(ev) })
	case ViewOp:
		c.view.Apply(eff)
	}
}

// Tee fans view operations out to every view in order
func Tee(views ...View) View {
	return ViewFunc(func(op ViewOp) {
		for _, v := range views {
			v.Apply(op)
		}
	})
}
