package headless

import (
	"fmt"
	"io"
	"strings"

	"github.com/killallgit/vaultchat/pkg/chatui"
	"github.com/killallgit/vaultchat/pkg/logger"
	"github.com/killallgit/vaultchat/pkg/render"
)

// Output is a line oriented chatui.View. Committed history, overlay
// progress and status changes go to out; alerts go to errOut.
type Output struct {
	out      io.Writer
	errOut   io.Writer
	renderer *render.Renderer
	verbose  bool

	lastOverlay chatui.SetOverlay
	lastStatus  string
}

// NewOutput creates a new output handler
func NewOutput(out, errOut io.Writer, renderer *render.Renderer, verbose bool) *Output {
	return &Output{out: out, errOut: errOut, renderer: renderer, verbose: verbose}
}

// Apply implements chatui.View
func (o *Output) Apply(op chatui.ViewOp) {
	switch op := op.(type) {
	case chatui.SetOverlay:
		if op == o.lastOverlay {
			return
		}
		o.lastOverlay = op
		o.printf("[%3d%%] %s\n", op.Percent, op.Label)

	case chatui.SetStatus:
		if op.Text == o.lastStatus || !o.verbose {
			o.lastStatus = op.Text
			return
		}
		o.lastStatus = op.Text
		o.printf("-- %s\n", op.Text)

	case chatui.AppendMessage:
		label := "Vault"
		if op.Message.Role == chatui.RoleUser {
			label = "You"
		}
		o.printf("\n%s:\n%s\n", label, o.text(op.Message.Content))

	case chatui.InsertPreview:
		o.printf("\n%s\n", o.text(op.Markup))

	case chatui.RenderTrace:
		if o.verbose {
			o.printf("  %s\n", indent(o.text(op.Markup)))
		}

	case chatui.Alert:
		logger.Error("%s", op.Message)
		fmt.Fprintln(o.errOut, op.Message)
	}
}

// Error prints an error message using the logger
func (o *Output) Error(msg string) {
	logger.Error("%s", msg)
	fmt.Fprintln(o.errOut, msg)
}

func (o *Output) text(markup string) string {
	return strings.TrimSpace(o.renderer.Text(markup))
}

func (o *Output) printf(format string, args ...any) {
	fmt.Fprintf(o.out, format, args...)
}

func indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
