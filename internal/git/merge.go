package git

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	demoerrors "gitdemo.dev/gitdemo/internal/errors"
)

// MergeOptions controls a merge
type MergeOptions struct {
	// NoFastForward always records a merge commit
	NoFastForward bool
	// Message overrides git's default merge commit message
	Message string
}

// MergeResult describes a clean merge
type MergeResult struct {
	Commit      string
	FastForward bool
	Output      string
}

// Merge merges branch into the current branch.
// A merge that stops on conflicts returns a *MergeConflictError listing every
// conflicted path with its content; the merge is left in progress.
// Merging while an earlier merge is unresolved is a hard error.
func (r *Repo) Merge(ctx context.Context, branch string, opts MergeOptions) (MergeResult, error) {
	if r.MergeInProgress(ctx) {
		return MergeResult{}, errMergePending("merge "+branch)
	}

	args := []string{"merge"}
	if opts.NoFastForward {
		args = append(args, "--no-ff")
	}
	if opts.Message != "" {
		args = append(args, "-m", opts.Message)
	}
	args = append(args, branch)

	res, err := r.runner.Exec(ctx, args...)
	if err != nil {
		// git exits 1 when the merge stopped on conflicts; refusals exit 128
		if res.ExitCode != 1 {
			return MergeResult{}, fmt.Errorf("failed to merge %s: %w", branch, err)
		}
		paths, uerr := r.UnmergedFiles(ctx)
		if uerr != nil {
			return MergeResult{}, fmt.Errorf("failed to merge %s: %w", branch, err)
		}
		if len(paths) == 0 {
			paths = parseConflictLines(res.Stdout)
		}
		if len(paths) == 0 {
			return MergeResult{}, fmt.Errorf("failed to merge %s: %w", branch, err)
		}
		return MergeResult{Output: res.Stdout}, r.conflictError(branch, paths)
	}

	head, err := r.Revision(ctx, "HEAD")
	if err != nil {
		return MergeResult{}, err
	}
	return MergeResult{
		Commit:      head,
		FastForward: strings.Contains(res.Stdout, "Fast-forward"),
		Output:      strings.TrimSpace(res.Stdout),
	}, nil
}

// conflictError snapshots the content of each conflicted path.
// A path deleted on one side has no worktree file and is reported with empty content.
func (r *Repo) conflictError(branch string, paths []string) *demoerrors.MergeConflictError {
	files := make([]demoerrors.ConflictedFile, 0, len(paths))
	for _, p := range paths {
		content, _ := r.ReadFile(p)
		files = append(files, demoerrors.ConflictedFile{Path: p, Content: content})
	}
	return demoerrors.NewMergeConflictError(branch, files)
}

// parseConflictLines extracts paths from "CONFLICT (...): Merge conflict in <path>" lines
func parseConflictLines(output string) []string {
	var paths []string
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "CONFLICT") {
			continue
		}
		if idx := strings.Index(line, "Merge conflict in "); idx >= 0 {
			paths = append(paths, strings.TrimSpace(line[idx+len("Merge conflict in "):]))
		}
	}
	return paths
}

// errMergePending reports an operation refused because MERGE_HEAD exists
func errMergePending(operation string) error {
	return fmt.Errorf("cannot %s: a previous merge is still in progress", operation)
}

// UnmergedFiles returns the paths git currently marks as unmerged
func (r *Repo) UnmergedFiles(ctx context.Context) ([]string, error) {
	files, err := r.runner.Lines(ctx, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, fmt.Errorf("failed to list unmerged files: %w", err)
	}
	return files, nil
}

// MergeInProgress reports whether MERGE_HEAD exists
func (r *Repo) MergeInProgress(ctx context.Context) bool {
	_, err := r.runner.Run(ctx, "rev-parse", "-q", "--verify", "MERGE_HEAD")
	return err == nil
}

// MergeAbort aborts an in-progress merge
func (r *Repo) MergeAbort(ctx context.Context) error {
	if _, err := r.runner.Run(ctx, "merge", "--abort"); err != nil {
		return fmt.Errorf("merge abort failed: %w", err)
	}
	return nil
}

// CheckoutSide replaces a conflicted path with one side of the merge
// ("ours" when ours is set, "theirs" otherwise).
func (r *Repo) CheckoutSide(ctx context.Context, path string, ours bool) error {
	side := "--theirs"
	if ours {
		side = "--ours"
	}
	if _, err := r.runner.Run(ctx, "checkout", side, "--", path); err != nil {
		return fmt.Errorf("failed to check out %s side of %s: %w", strings.TrimPrefix(side, "--"), path, err)
	}
	return nil
}

// RemovePath deletes a path from the index and working tree
func (r *Repo) RemovePath(ctx context.Context, path string) error {
	if _, err := r.runner.Run(ctx, "rm", "-f", "--", path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
