package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/killallgit/vaultchat/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vaultchat",
	Short: "Chat with your documents from the terminal",
	Long: `vaultchat connects to a Founders Vault server, waits for the uploaded
documents to be processed and then lets you ask questions about them.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, _ := cmd.Flags().GetStringSlice("file")
		appCfg := &AppConfig{
			Settings:        config.Get(),
			Files:           files,
			Prompt:          viper.GetString("prompt"),
			Headless:        viper.GetBool("headless"),
			Verbose:         viper.GetBool("verbose"),
			ContinueHistory: viper.GetBool("continue"),
			In:              cmd.InOrStdin(),
			Out:             cmd.OutOrStdout(),
			Err:             cmd.ErrOrStderr(),
		}
		return RunApplication(cmd.Context(), appCfg)
	},
}

// Execute runs the root command until it finishes or the process is interrupted
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is .vaultchat/settings.yaml)")

	flags.StringP("log-level", "l", "info", "log level")
	viper.BindPFlag("logging.level", flags.Lookup("log-level"))

	rootCmd.Flags().StringP("server", "s", "ws://localhost:5000/ws", "vault server websocket url")
	viper.BindPFlag("server.url", rootCmd.Flags().Lookup("server"))

	rootCmd.Flags().String("preview-placement", "prepend", "where the data preview is pinned: prepend or append")
	viper.BindPFlag("ui.preview_placement", rootCmd.Flags().Lookup("preview-placement"))

	rootCmd.Flags().String("source-label", "file", "wording for the indexed sources: file or vault")
	viper.BindPFlag("ui.source_label", rootCmd.Flags().Lookup("source-label"))

	rootCmd.Flags().StringSliceP("file", "f", nil, "name of a processed document, repeatable (overrides the settings file)")

	rootCmd.Flags().Bool("continue", false, "append to the previous chat transcript instead of starting fresh")
	viper.BindPFlag("continue", rootCmd.Flags().Lookup("continue"))

	rootCmd.Flags().StringP("prompt", "p", "", "ask one question without entering the TUI")
	viper.BindPFlag("prompt", rootCmd.Flags().Lookup("prompt"))

	rootCmd.Flags().BoolP("headless", "H", false, "run without TUI, reading questions from stdin")
	viper.BindPFlag("headless", rootCmd.Flags().Lookup("headless"))

	rootCmd.Flags().BoolP("verbose", "v", false, "print status changes and retrieval traces in headless mode")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))

	rootCmd.AddCommand(replayCmd, scriptCmd, initCmd)
}

func initConfig() {
	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}
