package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	demoerrors "gitdemo.dev/gitdemo/internal/errors"
)

// Remote is a named reference to another repository
type Remote struct {
	Name string
	URL  string
}

// remoteError converts a failed git invocation into a RemoteOperationError.
// Environment failures pass through unchanged.
func remoteError(operation, remote, branch string, err error) error {
	var envErr *demoerrors.EnvironmentError
	if errors.As(err, &envErr) {
		return err
	}
	return demoerrors.NewRemoteOperationError(operation, remote, branch, commandStderr(err), err)
}

// AddRemote registers a remote under name
func (r *Repo) AddRemote(ctx context.Context, name, url string) error {
	if _, err := r.runner.Run(ctx, "remote", "add", name, url); err != nil {
		return remoteError("add remote", name, "", err)
	}
	return nil
}

// RemoveRemote deletes a remote and its tracking branches
func (r *Repo) RemoveRemote(ctx context.Context, name string) error {
	if _, err := r.runner.Run(ctx, "remote", "remove", name); err != nil {
		return remoteError("remove remote", name, "", err)
	}
	return nil
}

// Remotes returns the configured remotes with their fetch URLs
func (r *Repo) Remotes(ctx context.Context) ([]Remote, error) {
	lines, err := r.runner.Lines(ctx, "remote", "-v")
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}

	var remotes []Remote
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if len(fields) == 3 && fields[2] != "(fetch)" {
			continue
		}
		remotes = append(remotes, Remote{Name: fields[0], URL: fields[1]})
	}
	return remotes, nil
}

// Push pushes branch to remote, recording it as upstream when setUpstream is set.
// Rejections are surfaced verbatim; nothing is retried.
func (r *Repo) Push(ctx context.Context, remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return remoteError("push", remote, branch, err)
	}
	return nil
}

// Pull fetches branch from remote and merges it into the current branch.
// A conflicting merge returns a *MergeConflictError like Merge does.
func (r *Repo) Pull(ctx context.Context, remote, branch string) error {
	if r.MergeInProgress(ctx) {
		return errMergePending("pull " + remote + "/" + branch)
	}
	res, err := r.runner.Exec(ctx, "pull", "--no-rebase", "--no-edit", remote, branch)
	if err == nil {
		return nil
	}
	if res.ExitCode == 1 {
		if paths, uerr := r.UnmergedFiles(ctx); uerr == nil && len(paths) > 0 {
			return r.conflictError(remote+"/"+branch, paths)
		}
	}
	return remoteError("pull", remote, branch, err)
}

// Fetch updates remote-tracking branches for remote, pruning deleted ones
func (r *Repo) Fetch(ctx context.Context, remote string) error {
	if _, err := r.runner.Run(ctx, "fetch", "--prune", remote); err != nil {
		return remoteError("fetch", remote, "", err)
	}
	return nil
}

// RemoteBranches returns the sorted remote-tracking branch names (e.g. origin/main).
// Symbolic HEAD entries are omitted.
func (r *Repo) RemoteBranches(ctx context.Context) ([]string, error) {
	lines, err := r.runner.Lines(ctx, "branch", "-r", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list remote branches: %w", err)
	}

	branches := make([]string, 0, len(lines))
	for _, line := range lines {
		name := strings.TrimSpace(line)
		if name == "" || !strings.Contains(name, "/") || strings.HasSuffix(name, "/HEAD") {
			continue
		}
		branches = append(branches, name)
	}
	sort.Strings(branches)
	return branches, nil
}

// TrackBranch creates a local branch tracking remote/branch and checks it out
func (r *Repo) TrackBranch(ctx context.Context, branch, remote string) error {
	exists, err := r.BranchExists(ctx, branch)
	if err != nil {
		return err
	}
	if exists {
		return demoerrors.NewBranchExistsError(branch)
	}
	if _, err := r.runner.Run(ctx, "checkout", "-b", branch, "--track", remote+"/"+branch); err != nil {
		return fmt.Errorf("failed to track branch %s: %w", branch, err)
	}
	return nil
}

// CloneOptions controls Clone
type CloneOptions struct {
	// Branch is checked out instead of the remote HEAD when set
	Branch string
	// Runner overrides the command runner; the clone inherits it
	Runner *CommandRunner
}

// Clone clones url into dir, optionally checking out a branch.
// dir must not exist or be empty.
func Clone(ctx context.Context, url, dir string, opts CloneOptions) (*Repo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, demoerrors.NewEnvironmentError(dir, "failed to resolve path", err)
	}
	if entries, err := os.ReadDir(absDir); err == nil && len(entries) > 0 {
		return nil, demoerrors.NewEnvironmentError(absDir, "directory is not empty", nil)
	}

	args := []string{"clone"}
	if opts.Branch != "" {
		args = append(args, "-b", opts.Branch)
	}
	args = append(args, url, absDir)

	if _, err := bindRunner(opts.Runner, filepath.Dir(absDir)).Run(ctx, args...); err != nil {
		return nil, remoteError("clone", url, opts.Branch, err)
	}
	return &Repo{dir: absDir, runner: bindRunner(opts.Runner, absDir)}, nil
}
