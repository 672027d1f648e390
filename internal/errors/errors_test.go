package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	demoerrors "gitdemo.dev/gitdemo/internal/errors"
)

func TestSentinels(t *testing.T) {
	cause := errors.New("exec: not found")

	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"environment", demoerrors.NewEnvironmentError("/tmp/x", "git executable not found", cause), demoerrors.ErrEnvironment},
		{"no changes", demoerrors.NewNoChangesError("Initial commit"), demoerrors.ErrNoChanges},
		{"branch exists", demoerrors.NewBranchExistsError("feature"), demoerrors.ErrBranchExists},
		{"merge conflict", demoerrors.NewMergeConflictError("feature", nil), demoerrors.ErrMergeConflict},
		{"remote", demoerrors.NewRemoteOperationError("push", "origin", "main", "", cause), demoerrors.ErrRemoteOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("step failed: %w", tt.err)
			require.ErrorIs(t, wrapped, tt.sentinel)
			for _, other := range tests {
				if other.sentinel != tt.sentinel {
					require.NotErrorIs(t, wrapped, other.sentinel)
				}
			}
		})
	}
}

func TestEnvironmentError(t *testing.T) {
	cause := errors.New("exec: not found")
	err := demoerrors.NewEnvironmentError("/tmp/x", "git executable not found", cause)

	require.Equal(t, "git executable not found (/tmp/x): exec: not found", err.Error())
	require.ErrorIs(t, err, cause)
	require.Equal(t, "cannot create working directory", demoerrors.NewEnvironmentError("", "cannot create working directory", nil).Error())
}

func TestMergeConflictError(t *testing.T) {
	err := demoerrors.NewMergeConflictError("feature", []demoerrors.ConflictedFile{
		{Path: "a.txt", Content: "<<<<<<< HEAD\n"},
		{Path: "b.txt"},
	})

	require.Equal(t, []string{"a.txt", "b.txt"}, err.Paths())
	require.Contains(t, err.Error(), "feature")

	var target *demoerrors.MergeConflictError
	require.ErrorAs(t, fmt.Errorf("merge: %w", err), &target)
	require.Equal(t, "feature", target.Branch)
}

func TestRemoteOperationError(t *testing.T) {
	stderr := " ! [rejected]        main -> main (fetch first)\nerror: failed to push some refs\n"
	err := demoerrors.NewRemoteOperationError("push", "origin", "main", stderr, errors.New("exit status 1"))

	require.Equal(t, demoerrors.RemoteFailureRejected, err.Reason)
	require.Contains(t, err.Error(), "push origin/main rejected")
	require.Contains(t, err.Error(), "failed to push some refs")
}

func TestClassifyRemoteFailure(t *testing.T) {
	tests := []struct {
		stderr string
		want   demoerrors.RemoteFailureReason
	}{
		{"! [rejected] main -> main (non-fast-forward)", demoerrors.RemoteFailureRejected},
		{"Updates were rejected because the remote contains work (fetch first)", demoerrors.RemoteFailureRejected},
		{"fatal: 'nowhere' does not appear to be a git repository", demoerrors.RemoteFailureUnreachable},
		{"fatal: unable to access 'https://example.invalid/': Could not resolve host", demoerrors.RemoteFailureUnreachable},
		{"fatal: couldn't find remote ref missing", demoerrors.RemoteFailureUnreachable},
		{"fatal: Authentication failed for 'https://example.com/'", demoerrors.RemoteFailureAuthentication},
		{"git@example.com: Permission denied (publickey).", demoerrors.RemoteFailureAuthentication},
		{"error: something unexpected", demoerrors.RemoteFailureOther},
		{"", demoerrors.RemoteFailureOther},
	}

	for _, tt := range tests {
		t.Run(tt.want.String()+"/"+tt.stderr, func(t *testing.T) {
			require.Equal(t, tt.want, demoerrors.ClassifyRemoteFailure(tt.stderr))
		})
	}
}

func TestGitCommandError(t *testing.T) {
	cause := errors.New("exit status 128")
	err := demoerrors.NewGitCommandError("git", []string{"rev-parse", "nope"}, 128, "", "fatal: bad revision", cause)

	require.Contains(t, err.Error(), "git command failed: git [rev-parse nope]")
	require.Contains(t, err.Error(), "stderr: fatal: bad revision")
	require.ErrorIs(t, err, cause)
}
