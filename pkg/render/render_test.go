package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdown(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	tests := []struct {
		name     string
		markup   string
		contains []string
		excludes []string
	}{
		{
			name:     "welcome message",
			markup:   "<strong>System Ready.</strong><br>I have processed <em>q3.pdf</em>.",
			contains: []string{"**System Ready.**", "q3.pdf"},
		},
		{
			name:     "scripts are dropped",
			markup:   `<p>hi</p><script>alert("x")</script>`,
			contains: []string{"hi"},
			excludes: []string{"alert", "script"},
		},
		{
			name:     "preview table",
			markup:   "<table><tr><th>region</th><th>revenue</th></tr><tr><td>EU</td><td>4.1M</td></tr></table>",
			contains: []string{"|", "region", "EU", "4.1M"},
		},
		{
			name:     "streaming cursor keeps its glyph",
			markup:   `Revenue grew<span class="streaming-cursor">▋</span>`,
			contains: []string{"Revenue grew", "▋"},
			excludes: []string{"span"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md, err := r.Markdown(tt.markup)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, md, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, md, unwanted)
			}
		})
	}
}

func TestMarkdownEmpty(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	md, err := r.Markdown("  ")
	require.NoError(t, err)
	assert.Empty(t, md)

	out, err := r.Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRenderWraps(t *testing.T) {
	text := "<p>The quarterly revenue grew by twelve percent compared to the previous year.</p>"

	narrow, err := New(WithWordWrap(30))
	require.NoError(t, err)
	wide, err := New(WithWordWrap(120))
	require.NoError(t, err)

	n, err := narrow.Render(text)
	require.NoError(t, err)
	w, err := wide.Render(text)
	require.NoError(t, err)

	assert.Contains(t, n, "quarterly")
	assert.Greater(t, strings.Count(n, "\n"), strings.Count(w, "\n"))
}

func TestSetWidth(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Equal(t, 80, r.Width())

	require.NoError(t, r.SetWidth(120))
	assert.Equal(t, 120, r.Width())

	require.NoError(t, r.SetWidth(0))
	assert.Equal(t, 120, r.Width())
}

func TestText(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Contains(t, r.Text("<em>hello</em>"), "hello")
}
