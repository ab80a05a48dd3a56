package cmd

import (
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initAnswers are the values collected by the init form
type initAnswers struct {
	ServerURL        string
	SourceLabel      string
	PreviewPlacement string
	Documents        string
	History          bool
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a settings file interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := config.Get()
		answers := initAnswers{
			ServerURL:        settings.Server.URL,
			SourceLabel:      settings.UI.SourceLabel,
			PreviewPlacement: settings.UI.PreviewPlacement,
			History:          settings.History.Enabled,
		}
		var names []string
		for _, d := range settings.Documents {
			names = append(names, d.Name)
		}
		answers.Documents = strings.Join(names, ", ")

		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			if err := newInitForm(&answers).Run(); err != nil {
				return err
			}
		}

		applyInitAnswers(answers)
		if err := config.WriteDefaultConfig(); err != nil {
			return err
		}
		cmd.Printf("settings written to %s\n", settings.ConfigFile)
		return config.Load()
	},
}

func newInitForm(a *initAnswers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Vault server").
				Description("websocket url of the document chat server").
				Value(&a.ServerURL),
			huh.NewSelect[string]().
				Title("Sources").
				Options(
					huh.NewOption("A single file", "file"),
					huh.NewOption("A multi-document vault", "vault"),
				).
				Value(&a.SourceLabel),
			huh.NewSelect[string]().
				Title("Data preview").
				Options(
					huh.NewOption("Pinned above the conversation", "prepend"),
					huh.NewOption("After the welcome message", "append"),
				).
				Value(&a.PreviewPlacement),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Documents").
				Description("comma separated file names shown in the welcome message").
				Value(&a.Documents),
			huh.NewConfirm().
				Title("Keep a chat transcript?").
				Value(&a.History),
		),
	)
}

func applyInitAnswers(a initAnswers) {
	viper.Set("server.url", strings.TrimSpace(a.ServerURL))
	viper.Set("ui.source_label", a.SourceLabel)
	viper.Set("ui.preview_placement", a.PreviewPlacement)
	viper.Set("history.enabled", a.History)

	var docs []map[string]string
	for _, name := range strings.Split(a.Documents, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		doc := chatui.NewDocument(name)
		docs = append(docs, map[string]string{"name": doc.Name, "type": doc.Type})
	}
	viper.Set("documents", docs)
}

func init() {
	initCmd.Flags().BoolP("yes", "y", false, "write the current settings without asking")
}
