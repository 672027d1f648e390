package cli_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"gitdemo.dev/gitdemo/testhelpers"
)

func TestConfigCommands(t *testing.T) {
	t.Run("show prints defaults without a file", func(t *testing.T) {
		base := testhelpers.NewBaseDir(t)

		out, err := execute(t, "config", "show", "--dir", base)
		require.NoError(t, err, out)
		require.Contains(t, out, "built-in defaults")
		require.Contains(t, out, "conflictPolicy: keep-local")
		require.Contains(t, out, "initialBranch: main")
	})

	t.Run("init writes a file that show then reads", func(t *testing.T) {
		base := testhelpers.NewBaseDir(t)

		out, err := execute(t, "config", "init", "--dir", base)
		require.NoError(t, err, out)
		require.FileExists(t, filepath.Join(base, ".gitdemo.yaml"))

		_, err = execute(t, "config", "init", "--dir", base)
		require.ErrorContains(t, err, "--force")

		out, err = execute(t, "config", "init", "--dir", base, "--force")
		require.NoError(t, err, out)

		out, err = execute(t, "config", "show", "--dir", base)
		require.NoError(t, err, out)
		require.Contains(t, out, filepath.Join(base, ".gitdemo.yaml"))
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		base := testhelpers.NewBaseDir(t)
		t.Setenv("GITDEMO_CONFLICT_POLICY", "union")

		out, err := execute(t, "config", "show", "--dir", base)
		require.NoError(t, err, out)
		require.Contains(t, out, "conflictPolicy: union")
	})
}
