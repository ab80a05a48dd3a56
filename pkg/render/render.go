// Package render turns server markup into terminal text: the HTML is
// sanitized, converted to markdown and laid out by glamour.
package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"
)

// Glamour style names
const (
	StylePlain = "notty"
	StyleAuto  = "auto"
	StyleDark  = "dark"
	StyleLight = "light"
)

const defaultWidth = 80

// Renderer is safe for concurrent use
type Renderer struct {
	policy *bluemonday.Policy
	conv   *converter.Converter

	mu    sync.Mutex
	style string
	width int
	term  *glamour.TermRenderer
}

// Option configures a Renderer
type Option func(*Renderer)

// WithStyle selects the glamour style, StylePlain for uncolored output
func WithStyle(style string) Option {
	return func(r *Renderer) { r.style = style }
}

// WithWordWrap sets the wrap width
func WithWordWrap(width int) Option {
	return func(r *Renderer) { r.width = width }
}

// New creates a renderer. The default is plain style wrapped at 80 columns.
func New(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		policy: bluemonday.UGCPolicy(),
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
		style: StylePlain,
		width: defaultWidth,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.rebuild(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) rebuild() error {
	styleOpt := glamour.WithStylePath(r.style)
	if r.style == StyleAuto {
		styleOpt = glamour.WithAutoStyle()
	}
	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(r.width))
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	r.term = term
	return nil
}

// SetWidth rewraps future output at width columns
func (r *Renderer) SetWidth(width int) error {
	if width <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if width == r.width {
		return nil
	}
	r.width = width
	return r.rebuild()
}

// Width returns the current wrap width
func (r *Renderer) Width() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width
}

// Markdown sanitizes markup and converts it to markdown
func (r *Renderer) Markdown(markup string) (string, error) {
	if strings.TrimSpace(markup) == "" {
		return "", nil
	}
	clean := r.policy.Sanitize(markup)
	md, err := r.conv.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("failed to convert markup: %w", err)
	}
	return strings.TrimSpace(md), nil
}

// Render returns markup laid out for the terminal
func (r *Renderer) Render(markup string) (string, error) {
	md, err := r.Markdown(markup)
	if err != nil || md == "" {
		return "", err
	}

	r.mu.Lock()
	out, err := r.term.Render(md)
	r.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

// Text renders markup and falls back to the sanitized markdown, or the raw
// markup, when rendering fails
func (r *Renderer) Text(markup string) string {
	out, err := r.Render(markup)
	if err == nil {
		return out
	}
	if md, mdErr := r.Markdown(markup); mdErr == nil {
		return md
	}
	return markup
}
