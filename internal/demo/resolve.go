package demo

import (
	"context"
	"fmt"

	"gitdemo.dev/gitdemo/internal/conflict"
	demoerrors "gitdemo.dev/gitdemo/internal/errors"
)

// Repository is what the resolution step needs from a repository handle.
// *git.Repo satisfies it.
type Repository interface {
	WriteFile(name, content string) error
	Stage(ctx context.Context, paths ...string) error
	CheckoutSide(ctx context.Context, path string, ours bool) error
	RemovePath(ctx context.Context, path string) error
	FinalizeMerge(ctx context.Context, message string) (string, error)
}

// ResolutionMethod is how one conflicted file was resolved
type ResolutionMethod string

const (
	// MethodMarkers rewrote the conflict marker regions in place
	MethodMarkers ResolutionMethod = "markers"
	// MethodCheckout took one side's version of the whole file
	MethodCheckout ResolutionMethod = "checkout"
	// MethodRemoved deleted the file because the chosen side deleted it
	MethodRemoved ResolutionMethod = "removed"
)

// ResolvedFile describes one resolved path
type ResolvedFile struct {
	Path   string
	Method ResolutionMethod
	Hunks  int
}

// Resolution is the outcome of ResolveConflicts
type Resolution struct {
	Branch string
	Policy conflict.Policy
	Files  []ResolvedFile
	Commit string
}

// ResolveConflicts applies policy to every file in conflictErr, stages the
// results and records the merge commit. Any marker left behind is an error and
// no commit is made. Nothing is retried.
func ResolveConflicts(ctx context.Context, repo Repository, conflictErr *demoerrors.MergeConflictError, policy conflict.Policy) (*Resolution, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("cannot resolve conflicts with unknown policy %s", policy)
	}
	if len(conflictErr.Files) == 0 {
		return nil, fmt.Errorf("merge of %s reported no conflicted files", conflictErr.Branch)
	}

	resolution := &Resolution{Branch: conflictErr.Branch, Policy: policy}
	var toStage []string

	for _, file := range conflictErr.Files {
		resolved, err := resolveFile(ctx, repo, file, policy)
		if err != nil {
			return nil, err
		}
		if resolved.Method != MethodRemoved {
			toStage = append(toStage, file.Path)
		}
		resolution.Files = append(resolution.Files, resolved)
	}

	if len(toStage) > 0 {
		if err := repo.Stage(ctx, toStage...); err != nil {
			return nil, err
		}
	}

	commit, err := repo.FinalizeMerge(ctx, fmt.Sprintf("Resolve merge conflict with %s (%s)", conflictErr.Branch, policy))
	if err != nil {
		return nil, err
	}
	resolution.Commit = commit
	return resolution, nil
}

// resolveFile rewrites one conflicted file. Files without textual markers
// (modify/delete, binary) take the chosen side wholesale; union keeps the
// local side for them.
func resolveFile(ctx context.Context, repo Repository, file demoerrors.ConflictedFile, policy conflict.Policy) (ResolvedFile, error) {
	if conflict.HasMarkers(file.Content) {
		doc, err := conflict.Parse(file.Content)
		if err != nil {
			return ResolvedFile{}, fmt.Errorf("failed to parse %s: %w", file.Path, err)
		}
		content := doc.Render(policy)
		if conflict.HasMarkers(content) {
			return ResolvedFile{}, fmt.Errorf("conflict markers remain in %s after resolution", file.Path)
		}
		if err := repo.WriteFile(file.Path, content); err != nil {
			return ResolvedFile{}, err
		}
		return ResolvedFile{Path: file.Path, Method: MethodMarkers, Hunks: len(doc.Hunks())}, nil
	}

	ours := policy != conflict.KeepIncoming
	if err := repo.CheckoutSide(ctx, file.Path, ours); err != nil {
		// The chosen side has no version of the file: it was deleted there.
		if rmErr := repo.RemovePath(ctx, file.Path); rmErr != nil {
			return ResolvedFile{}, fmt.Errorf("failed to resolve %s: %w", file.Path, err)
		}
		return ResolvedFile{Path: file.Path, Method: MethodRemoved}, nil
	}
	return ResolvedFile{Path: file.Path, Method: MethodCheckout}, nil
}
