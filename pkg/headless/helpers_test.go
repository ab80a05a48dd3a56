package headless

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/killallgit/vaultchat/pkg/render"
)

func plainRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	r, err := render.New(render.WithStyle(render.StylePlain))
	require.NoError(t, err)
	return r
}
