package git

import (
	"context"
	"fmt"

	demoerrors "gitdemo.dev/gitdemo/internal/errors"
)

// BranchExists checks whether a local branch with the given name exists
func (r *Repo) BranchExists(ctx context.Context, name string) (bool, error) {
	res, err := r.runner.Exec(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	switch {
	case err == nil:
		return true, nil
	case res.ExitCode == 1:
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up branch %s: %w", name, err)
	}
}

// CreateBranch creates a branch at HEAD, switching to it when checkout is set.
// It fails with a BranchExistsError if the name is taken.
func (r *Repo) CreateBranch(ctx context.Context, name string, checkout bool) error {
	exists, err := r.BranchExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return demoerrors.NewBranchExistsError(name)
	}

	args := []string{"branch", name}
	if checkout {
		args = []string{"checkout", "-b", name}
	}
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// Switch checks out an existing branch
func (r *Repo) Switch(ctx context.Context, name string) error {
	if _, err := r.runner.Run(ctx, "checkout", name); err != nil {
		return fmt.Errorf("failed to switch to branch %s: %w", name, err)
	}
	return nil
}

// CurrentBranch returns the checked-out branch name
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	name, err := r.runner.Run(ctx, "branch", "--show-current")
	if err != nil {
		return "", fmt.Errorf("failed to get current branch: %w", err)
	}
	if name == "" {
		return "", fmt.Errorf("HEAD is not on a branch")
	}
	return name, nil
}

// Branches returns all local branch names
func (r *Repo) Branches(ctx context.Context) ([]string, error) {
	names, err := r.runner.Lines(ctx, "branch", "--format=%(refname:short)")
	if err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}
	return names, nil
}
