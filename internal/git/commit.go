package git

import (
	"context"
	"fmt"

	demoerrors "gitdemo.dev/gitdemo/internal/errors"
)

// Stage adds the named paths to the index, or every change when none are named
func (r *Repo) Stage(ctx context.Context, paths ...string) error {
	args := []string{"add", "-A"}
	if len(paths) > 0 {
		args = append([]string{"add", "--"}, paths...)
	}
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}
	return nil
}

// HasStagedChanges checks if the index differs from HEAD
func (r *Repo) HasStagedChanges(ctx context.Context) (bool, error) {
	res, err := r.runner.Exec(ctx, "diff", "--cached", "--quiet")
	switch {
	case err == nil:
		return false, nil
	case res.ExitCode == 1:
		return true, nil
	default:
		return false, fmt.Errorf("failed to check staged changes: %w", err)
	}
}

// Commit stages paths (everything when none are named) and records a commit.
// It returns the new commit SHA, or a NoChangesError when nothing is staged.
func (r *Repo) Commit(ctx context.Context, message string, paths ...string) (string, error) {
	if err := r.Stage(ctx, paths...); err != nil {
		return "", err
	}

	staged, err := r.HasStagedChanges(ctx)
	if err != nil {
		return "", err
	}
	if !staged {
		return "", demoerrors.NewNoChangesError(message)
	}

	if _, err := r.runner.Run(ctx, "commit", "-m", message); err != nil {
		return "", fmt.Errorf("failed to commit: %w", err)
	}
	return r.Revision(ctx, "HEAD")
}

// FinalizeMerge records the merge commit for an in-progress merge whose
// conflicts have been resolved and staged. An empty message keeps git's
// prepared merge message. The resolved tree may equal HEAD, so there is no
// empty-stage check here.
func (r *Repo) FinalizeMerge(ctx context.Context, message string) (string, error) {
	if !r.MergeInProgress(ctx) {
		return "", fmt.Errorf("no merge in progress")
	}
	unmerged, err := r.UnmergedFiles(ctx)
	if err != nil {
		return "", err
	}
	if len(unmerged) > 0 {
		return "", fmt.Errorf("cannot finalize merge, unresolved paths remain: %v", unmerged)
	}
	args := []string{"commit", "--no-edit"}
	if message != "" {
		args = []string{"commit", "-m", message}
	}
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return "", fmt.Errorf("failed to commit merge: %w", err)
	}
	return r.Revision(ctx, "HEAD")
}
