package output_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"gitdemo.dev/gitdemo/internal/output"
)

func TestBranchList(t *testing.T) {
	styles := output.NewStyles(&bytes.Buffer{})

	t.Run("marks the current branch", func(t *testing.T) {
		lines := styles.BranchList([]string{"feature", "main"}, "main")
		require.Equal(t, []string{
			"◯ feature",
			"◉ main (current)",
		}, lines)
	})

	t.Run("renders remote branches without a current one", func(t *testing.T) {
		lines := styles.BranchList([]string{"origin/feature", "origin/main"}, "")
		require.Equal(t, []string{"◯ origin/feature", "◯ origin/main"}, lines)
	})

	t.Run("renders nothing for no branches", func(t *testing.T) {
		require.Empty(t, styles.BranchList(nil, "main"))
	})

	t.Run("palette cycles", func(t *testing.T) {
		require.Equal(t, styles.BranchColor(0).GetForeground(), styles.BranchColor(9).GetForeground())
		require.NotEqual(t, styles.BranchColor(0).GetForeground(), styles.BranchColor(1).GetForeground())
	})
}

func TestLogLines(t *testing.T) {
	styles := output.NewStyles(&bytes.Buffer{})

	lines := styles.LogLines([]string{"a1b2c3d Merge feature into main", "oddline"})
	require.Equal(t, []string{"a1b2c3d Merge feature into main", "oddline"}, lines)
}
