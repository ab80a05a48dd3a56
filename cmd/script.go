package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/killallgit/vaultchat/pkg/replay"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var scriptCmd = &cobra.Command{
	Use:   "script [name|path]",
	Short: "Print a replay script",
	Long:  `script prints a bundled replay script, or validates and prints a script file.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			for _, name := range replay.BuiltinNames() {
				cmd.Println(name)
			}
			return nil
		}

		source := "pdf"
		if len(args) == 1 {
			source = args[0]
		}
		src, err := scriptSource(source)
		if err != nil {
			return err
		}
		if _, err := replay.ParseScript(src); err != nil {
			return err
		}

		style, _ := cmd.Flags().GetString("style")
		plain, _ := cmd.Flags().GetBool("no-color")
		out := cmd.OutOrStdout()
		if plain || !isTerminal(out) {
			_, err := out.Write(src)
			return err
		}
		return quick.Highlight(out, string(src), "yaml", "terminal256", style)
	},
}

func scriptSource(source string) ([]byte, error) {
	if _, err := os.Stat(source); err == nil {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read script: %w", err)
		}
		return data, nil
	}
	return replay.BuiltinSource(source)
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func init() {
	scriptCmd.Flags().String("style", "monokai", "chroma style used for highlighting")
	scriptCmd.Flags().Bool("no-color", false, "print without highlighting")
	scriptCmd.Flags().Bool("list", false, "list the bundled scripts")
}
