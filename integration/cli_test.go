package integration

import (
	"context"
	"net/http/httptest"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/killallgit/vaultchat/pkg/replay"
)

func buildBinary(t *testing.T) string {
	tempDir := t.TempDir()
	binaryPath := filepath.Join(tempDir, "vaultchat-test")

	cmd := exec.Command("go", "build", "-o", binaryPath, "..")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to build binary: %v\nOutput: %s", err, output)
	}

	return binaryPath
}

// startReplay serves a bundled script with its delays stripped
func startReplay(t *testing.T, name string) string {
	t.Helper()
	script, err := replay.Builtin(name)
	require.NoError(t, err)
	for _, steps := range [][]replay.Step{script.ProcessFile, script.ChatMessage} {
		for i := range steps {
			steps[i].Delay = 0
			steps[i].ChunkDelay = 0
		}
	}

	srv := replay.NewServer(script)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
	})
	return ts.URL + "/ws"
}

func runCLI(t *testing.T, binary string, stdin string, args ...string) (string, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	dir := t.TempDir()
	args = append(args, "--config", filepath.Join(dir, ".vaultchat", "settings.yaml"))
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = dir
	cmd.Stdin = strings.NewReader(stdin)
	output, err := cmd.CombinedOutput()
	require.NoError(t, ctx.Err(), "command timed out; output: %s", output)
	return string(output), err
}

func TestCLIPromptFlag(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)

	t.Run("It answers one prompt from the pdf script and exits", func(t *testing.T) {
		url := startReplay(t, "pdf")
		output, err := runCLI(t, binary, "", "--server", url, "--file", "q3-report.pdf", "--prompt", "How was Q3?")
		require.NoError(t, err, output)

		assert.Contains(t, output, "[100%] Analysis Complete")
		assert.Contains(t, output, "q3-report.pdf")
		assert.Contains(t, output, `You asked: "How was Q3?"`)
		assert.Contains(t, output, "Page 7: Operating margin")
	})

	t.Run("It reads questions from stdin in headless mode", func(t *testing.T) {
		url := startReplay(t, "csv")
		output, err := runCLI(t, binary, "Which region leads?\nAnd the fastest?\n", "--server", url, "--headless")
		require.NoError(t, err, output)

		assert.Contains(t, output, "(query: Which region leads?)")
		assert.Contains(t, output, "(query: And the fastest?)")
		assert.Contains(t, output, "APAC")
	})

	t.Run("It fails when the server is unreachable", func(t *testing.T) {
		output, err := runCLI(t, binary, "", "--server", "ws://127.0.0.1:1/ws", "--prompt", "hi")
		assert.Error(t, err)
		assert.Contains(t, output, "failed to connect")
	})
}

func TestCLIScriptCommand(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	binary := buildBinary(t)

	output, err := runCLI(t, binary, "", "script", "--list")
	require.NoError(t, err, output)
	assert.Contains(t, output, "csv")
	assert.Contains(t, output, "pdf")
}
