package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/logger"
	"github.com/killallgit/vaultchat/pkg/render"
	"github.com/killallgit/vaultchat/pkg/tui/chat"
	"golang.org/x/sync/errgroup"
)

// Config wires the chat screen to a connection
type Config struct {
	Transport chatui.Transport
	Options   chatui.Options
	// Views receive every view operation next to the screen, e.g. a transcript
	Views []chatui.View
	// ProgramOptions are passed to tea.NewProgram, tests use them to swap I/O
	ProgramOptions []tea.ProgramOption
}

// StartApp runs the chat screen until the user quits. A closed connection
// leaves the screen up in a disconnected state.
func StartApp(ctx context.Context, cfg Config) error {
	renderer, err := render.New(render.WithStyle(render.StyleAuto))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	bridge := chat.NewBridge()
	var ctrl *chatui.Controller
	model := chat.NewModel(renderer, func(text string) { ctrl.Submit(text) })

	views := append([]chatui.View{bridge}, cfg.Views...)
	ctrl = chatui.NewController(chatui.Tee(views...), cfg.Transport, cfg.Options,
		chatui.WithObserver(bridge.Observe),
	)

	opts := append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, cfg.ProgramOptions...)
	p := tea.NewProgram(model, opts...)
	bridge.Attach(p)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := ctrl.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		logger.Warn("controller stopped: %v", err)
		bridge.Disconnected(err)
		return nil
	})
	g.Go(func() error {
		defer cancel()
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("chat screen failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}
