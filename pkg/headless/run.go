package headless

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/logger"
	"github.com/killallgit/vaultchat/pkg/process"
	"github.com/killallgit/vaultchat/pkg/render"
)

// Config describes one headless session
type Config struct {
	Transport chatui.Transport
	Options   chatui.Options
	// Prompt, when set, is submitted once the vault is ready; the session
	// ends when its turn settles. Without it lines are read from In.
	Prompt  string
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	Verbose bool
	// Views receive every view operation next to the console
	Views             []chatui.View
	ControllerOptions []chatui.ControllerOption
}

// ErrServer is returned when the turn of a one-shot prompt ends in a server error
var ErrServer = errors.New("server error")

// session tracks turns from the controller's observer callbacks
type session struct {
	mu        sync.Mutex
	unlocked  chan struct{}
	ready     bool
	submitted int
	settled   int
	lastError string
	idle      chan struct{}
	// failed closes when the server reports an error before the vault is ready
	failed chan struct{}
}

func newSession() *session {
	return &session{
		unlocked: make(chan struct{}),
		idle:     make(chan struct{}, 1),
		failed:   make(chan struct{}),
	}
}

func (s *session) observe(ev chatui.Event, st chatui.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if chatui.InputUnlocked(ev) && !s.ready {
		s.ready = true
		close(s.unlocked)
	}
	if e, ok := ev.(chatui.Error); ok && st.Processing && s.lastError == "" {
		s.lastError = e.Message
		close(s.failed)
		return
	}
	if sub, ok := ev.(chatui.Submit); ok && !accepted(sub, st) {
		// the controller ignored it; nothing will settle
		s.submitted--
		s.signal()
	}
	if chatui.TurnSettled(ev) && s.settled < s.submitted {
		s.settled++
		if e, ok := ev.(chatui.Error); ok {
			s.lastError = e.Message
		}
		s.signal()
	}
}

func (s *session) signal() {
	if s.settled < s.submitted {
		return
	}
	select {
	case s.idle <- struct{}{}:
	default:
	}
}

func accepted(sub chatui.Submit, st chatui.State) bool {
	return strings.TrimSpace(sub.Text) != "" && st.Phase == process.StateAwaiting && !st.Streaming
}

// expect marks a submission as in flight before the controller sees it
func (s *session) expect() {
	s.mu.Lock()
	s.submitted++
	s.mu.Unlock()
}

func (s *session) pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settled < s.submitted
}

// RunHeadless executes a session without the terminal UI
func RunHeadless(ctx context.Context, cfg Config) error {
	if cfg.Transport == nil {
		return fmt.Errorf("headless mode needs a transport")
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Err == nil {
		cfg.Err = os.Stderr
	}
	if cfg.In == nil {
		cfg.In = os.Stdin
	}

	renderer, err := render.New(render.WithStyle(render.StylePlain))
	if err != nil {
		return fmt.Errorf("failed to initialize headless mode: %w", err)
	}
	output := NewOutput(cfg.Out, cfg.Err, renderer, cfg.Verbose)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := newSession()
	views := append([]chatui.View{output}, cfg.Views...)
	ctrlOpts := append([]chatui.ControllerOption{chatui.WithObserver(sess.observe)}, cfg.ControllerOptions...)
	ctrl := chatui.NewController(chatui.Tee(views...), cfg.Transport, cfg.Options, ctrlOpts...)

	runErr := make(chan error, 1)
	go func() { runErr <- ctrl.Run(ctx) }()

	select {
	case <-sess.unlocked:
	case <-sess.failed:
		cancel()
		<-runErr
		return fmt.Errorf("%w: %s", ErrServer, sess.lastError)
	case err := <-runErr:
		return stopped(err)
	}

	if prompt := strings.TrimSpace(cfg.Prompt); prompt != "" {
		logger.Debug("headless prompt: %s", prompt)
		sess.expect()
		ctrl.Submit(prompt)
		return waitIdle(ctx, sess, runErr, cancel)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(cfg.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			output.Error(fmt.Sprintf("failed to read input: %v", err))
		}
	}()

	for {
		select {
		case line, ok := <-lines:
			if !ok {
				// input is exhausted; let the last answer land before leaving
				if err := waitIdle(ctx, sess, runErr, nil); err != nil && !errors.Is(err, ErrServer) {
					return err
				}
				cancel()
				return stopped(<-runErr)
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if err := waitIdle(ctx, sess, runErr, nil); err != nil && !errors.Is(err, ErrServer) {
				return err
			}
			sess.expect()
			ctrl.Submit(line)
		case err := <-runErr:
			return stopped(err)
		}
	}
}

// waitIdle blocks until every submitted turn has settled. With cancel set
// it also stops the controller.
func waitIdle(ctx context.Context, sess *session, runErr <-chan error, cancel context.CancelFunc) error {
	for sess.pending() {
		select {
		case <-sess.idle:
		case err := <-runErr:
			return stopped(err)
		case <-ctx.Done():
			return stopped(ctx.Err())
		}
	}

	if cancel != nil {
		cancel()
		<-runErr
	}

	sess.mu.Lock()
	msg := sess.lastError
	sess.lastError = ""
	sess.mu.Unlock()
	if msg != "" {
		return fmt.Errorf("%w: %s", ErrServer, msg)
	}
	return nil
}

func stopped(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return fmt.Errorf("session ended: %w", err)
}
