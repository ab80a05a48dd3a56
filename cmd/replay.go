package cmd

import (
	"os"

	"github.com/killallgit/vaultchat/pkg/config"
	"github.com/killallgit/vaultchat/pkg/logger"
	"github.com/killallgit/vaultchat/pkg/replay"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var replayCmd = &cobra.Command{
	Use:   "replay [script]",
	Short: "Run a scripted vault server for development",
	Long: `replay speaks the vault event protocol and answers with a YAML script.
The script is a file path or the name of a bundled script (pdf, csv).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(); err != nil {
			return err
		}
		defer logger.Close()
		logger.MirrorErrors(true)

		settings := config.Get()
		source := settings.Replay.Script
		if len(args) == 1 {
			source = args[0]
		}
		script, path, err := resolveScript(source)
		if err != nil {
			return err
		}

		srv := replay.NewServer(script)
		watch, _ := cmd.Flags().GetBool("watch")

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			return srv.ListenAndServe(ctx, settings.Replay.Addr)
		})
		if watch && path != "" {
			g.Go(func() error {
				return srv.Watch(ctx, path)
			})
		}
		cmd.Printf("replaying %q on %s\n", script.Name, settings.Replay.Addr)
		return g.Wait()
	},
}

// resolveScript loads a script by path, falling back to the bundled ones.
// The returned path is empty for bundled scripts.
func resolveScript(source string) (*replay.Script, string, error) {
	if source == "" {
		source = "pdf"
	}
	if _, err := os.Stat(source); err == nil {
		s, err := replay.LoadScript(source)
		return s, source, err
	}
	s, err := replay.Builtin(source)
	return s, "", err
}

func init() {
	replayCmd.Flags().String("addr", ":5000", "listen address")
	viper.BindPFlag("replay.addr", replayCmd.Flags().Lookup("addr"))
	replayCmd.Flags().Bool("watch", false, "reload the script file when it changes")
}
