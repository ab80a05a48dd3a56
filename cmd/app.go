package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/config"
	"github.com/killallgit/vaultchat/pkg/headless"
	"github.com/killallgit/vaultchat/pkg/logger"
	"github.com/killallgit/vaultchat/pkg/render"
	"github.com/killallgit/vaultchat/pkg/transport"
	"github.com/killallgit/vaultchat/pkg/tui"
)

// Connection is a transport the application owns and closes
type Connection interface {
	chatui.Transport
	Close() error
}

// DialFunc opens the connection to the vault server
type DialFunc func(ctx context.Context, url string) (Connection, error)

// AppConfig contains all configuration needed to run the application
type AppConfig struct {
	Settings        *config.Settings
	Files           []string
	Prompt          string
	Headless        bool
	Verbose         bool
	ContinueHistory bool

	In  io.Reader
	Out io.Writer
	Err io.Writer

	// Dial defaults to a websocket connection
	Dial DialFunc
}

func dialWebsocket(ctx context.Context, url string) (Connection, error) {
	return transport.Dial(ctx, url)
}

// RunApplication is the main entry point for the application logic
func RunApplication(ctx context.Context, appCfg *AppConfig) error {
	if err := logger.Init(); err != nil {
		return err
	}
	defer logger.Close()

	settings := appCfg.Settings
	headlessMode := appCfg.Headless || appCfg.Prompt != ""
	logger.MirrorErrors(headlessMode)
	logger.Info("vaultchat starting (server %s, headless %t)", settings.Server.URL, headlessMode)

	var views []chatui.View
	if settings.History.Enabled {
		transcript, err := openTranscript(settings.History.File, appCfg.ContinueHistory)
		if err != nil {
			return err
		}
		views = append(views, transcript)
	}

	dial := appCfg.Dial
	if dial == nil {
		dial = dialWebsocket
	}
	conn, err := dial(ctx, settings.Server.URL)
	if err != nil {
		return err
	}
	defer conn.Close()

	opts := chatOptions(settings, appCfg.Files)
	if headlessMode {
		return headless.RunHeadless(ctx, headless.Config{
			Transport: conn,
			Options:   opts,
			Prompt:    appCfg.Prompt,
			In:        appCfg.In,
			Out:       appCfg.Out,
			Err:       appCfg.Err,
			Verbose:   appCfg.Verbose,
			Views:     views,
		})
	}
	return tui.StartApp(ctx, tui.Config{
		Transport: conn,
		Options:   opts,
		Views:     views,
	})
}

// chatOptions maps settings onto controller options. Files given on the
// command line replace the configured documents.
func chatOptions(settings *config.Settings, files []string) chatui.Options {
	opts := chatui.Options{
		PreviewPlacement:     chatui.ParsePreviewPlacement(settings.UI.PreviewPlacement),
		SourceLabel:          chatui.ParseSourceLabel(settings.UI.SourceLabel),
		RelocateStreamBubble: settings.UI.RelocateStreamBubble,
	}
	if len(files) > 0 {
		for _, f := range files {
			opts.Documents = append(opts.Documents, chatui.NewDocument(f))
		}
		return opts
	}
	for _, d := range settings.Documents {
		opts.Documents = append(opts.Documents, chatui.Document{Name: d.Name, Type: d.Type})
	}
	return opts
}

// transcript writes every committed chat message to the history file
type transcript struct {
	renderer *render.Renderer
}

func openTranscript(file string, continueHistory bool) (*transcript, error) {
	path := file
	if !filepath.IsAbs(path) {
		path = config.BuildSettingsPath(path)
	}
	if err := logger.InitHistoryFile(path, continueHistory); err != nil {
		return nil, err
	}
	r, err := render.New(render.WithStyle(render.StylePlain), render.WithWordWrap(0))
	if err != nil {
		return nil, fmt.Errorf("failed to create transcript renderer: %w", err)
	}
	return &transcript{renderer: r}, nil
}

func (t *transcript) Apply(op chatui.ViewOp) {
	msg, ok := op.(chatui.AppendMessage)
	if !ok {
		return
	}
	if err := logger.LogChatHistory(string(msg.Message.Role), t.renderer.Text(msg.Message.Content)); err != nil {
		logger.Warn("failed to write transcript: %v", err)
	}
}
