package chatui

import (
	"fmt"
	"html"
	"strings"

	"github.com/mattn/go-runewidth"
)

// CardSnippetWidth is the display width an index card snippet is cut to
const CardSnippetWidth = 100

// Overlay labels and status texts set by the controller itself
const (
	LabelConnecting = "Connecting to secure vault..."
	LabelComplete   = "Analysis Complete"

	StatusReady    = "Ready"
	StatusThinking = "Thinking..."
	StatusError    = "Error occurred"

	IconReady    = "✅"
	IconThinking = "🤔"
	IconError    = "⚠️"
)

// StatusLine formats the indicator text for an icon and message
func StatusLine(icon, message string) string {
	if icon == "" {
		return message
	}
	return icon + " " + message
}

// OverlayPercent maps a status message onto a progress percentage. Rules run
// in a fixed order and every match overwrites the previous value.
func OverlayPercent(message string) int {
	percent := 50
	if strings.Contains(message, "Vector") {
		percent = 70
	}
	if strings.Contains(message, "Finalizing") {
		percent = 90
	}
	if strings.Contains(message, "Loading") {
		percent = 40
	}
	return percent
}

// WelcomeMarkup is the synthesized assistant message shown once the overlay closes
func WelcomeMarkup(opts Options) string {
	if opts.SourceLabel == SourceVault {
		names := make([]string, 0, len(opts.Documents))
		for _, d := range opts.Documents {
			names = append(names, "<em>"+html.EscapeString(d.Name)+"</em>")
		}
		indexed := "your documents"
		if len(names) > 0 {
			indexed = strings.Join(names, ", ")
		}
		return fmt.Sprintf("<strong>System Ready.</strong><br>I have indexed %s into your vault. You can now ask questions across all of them.", indexed)
	}
	return fmt.Sprintf("<strong>System Ready.</strong><br>I have processed <em>%s</em>. You can now ask questions about its content.",
		html.EscapeString(opts.primary().Name))
}

// PreviewMarkup wraps a server-rendered preview fragment
func PreviewMarkup(fragment string) string {
	return `<div class="data-preview"><strong>📊 Data Preview</strong><div class="preview-body">` + fragment + `</div></div>`
}

// UserMarkup escapes user input for insertion into the history
func UserMarkup(text string) string {
	return html.EscapeString(text)
}

// ThinkingMarkup renders the pulsing indicator of a thinking step
func ThinkingMarkup(message string) string {
	return `<div class="process-step thinking"><span class="pulse"></span> <span class="process-message">` +
		html.EscapeString(message) + `</span></div>`
}

// IndexingMarkup renders the caption and the horizontally scrolling card strip
func IndexingMarkup(message string, cards []IndexCard) string {
	var b strings.Builder
	b.WriteString(`<div class="process-step indexing"><div class="text-success small">`)
	b.WriteString(html.EscapeString(message))
	b.WriteString(`</div><div class="index-strip">`)
	for _, c := range cards {
		b.WriteString(CardMarkup(c))
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

// CardMarkup renders one fixed-size evidence card
func CardMarkup(c IndexCard) string {
	snippet := runewidth.Truncate(strings.TrimSpace(c.Content), CardSnippetWidth, "…")
	return fmt.Sprintf(`<div class="index-card"><span class="badge">Ref #%s</span> <span class="page">%s</span><div class="snippet">%s</div></div>`,
		html.EscapeString(c.ID.String()), html.EscapeString(c.Page.String()), html.EscapeString(snippet))
}

// SourcesMarkup turns newline separated plain text into a subordinate block
func SourcesMarkup(sources string) string {
	if strings.TrimSpace(sources) == "" {
		return ""
	}
	body := strings.ReplaceAll(html.EscapeString(sources), "\n", "<br>")
	return `<div class="sources small text-muted">` + body + `</div>`
}
