package output_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitdemo.dev/gitdemo/internal/output"
)

func TestSplog(t *testing.T) {
	t.Run("writes plain messages to a non-terminal writer", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := output.NewSplogWithOptions(output.Options{Writer: &buf})
		require.NoError(t, err)

		splog.Info("hello %s", "git")
		splog.Warn("careful")
		splog.Step(2, 5, "Commit changes")

		out := buf.String()
		require.Contains(t, out, "hello git\n")
		require.Contains(t, out, "⚠️  careful\n")
		require.Contains(t, out, "[2/5] Commit changes\n")
		require.NotContains(t, out, "\x1b[")
	})

	t.Run("hides debug messages unless enabled", func(t *testing.T) {
		t.Setenv("DEBUG", "")

		var quiet bytes.Buffer
		splog, err := output.NewSplogWithOptions(output.Options{Writer: &quiet})
		require.NoError(t, err)
		splog.Debug("hidden")
		require.Empty(t, quiet.String())

		var loud bytes.Buffer
		splog, err = output.NewSplogWithOptions(output.Options{Writer: &loud, Debug: true})
		require.NoError(t, err)
		splog.Debug("shown")
		require.Equal(t, "shown\n", loud.String())
	})

	t.Run("indents command output and skips blank output", func(t *testing.T) {
		var buf bytes.Buffer
		splog, err := output.NewSplogWithOptions(output.Options{Writer: &buf})
		require.NoError(t, err)

		splog.Output("  \n")
		require.Empty(t, buf.String())

		splog.Output("a1b2c3 Initial commit\n")
		require.Equal(t, "    a1b2c3 Initial commit\n", buf.String())
	})

	t.Run("records everything in the log file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "logs", "gitdemo.log")

		var buf bytes.Buffer
		splog, err := output.NewSplogWithOptions(output.Options{Writer: &buf, LogFile: logFile})
		require.NoError(t, err)

		splog.Info("visible")
		splog.Debug("file only")
		require.NoError(t, splog.Close())

		data, err := os.ReadFile(logFile)
		require.NoError(t, err)
		require.Contains(t, string(data), "msg=visible")
		require.Contains(t, string(data), `msg="file only"`)
		require.NotContains(t, buf.String(), "file only")
	})
}
