package demo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"gitdemo.dev/gitdemo/internal/conflict"
	"gitdemo.dev/gitdemo/internal/demo"
	demoerrors "gitdemo.dev/gitdemo/internal/errors"
)

// fakeRepo records the calls made by the resolution step
type fakeRepo struct {
	calls       []string
	written     map[string]string
	staged      []string
	checkoutErr error
	finalizeErr error
}

func (f *fakeRepo) WriteFile(name, content string) error {
	if f.written == nil {
		f.written = map[string]string{}
	}
	f.written[name] = content
	f.calls = append(f.calls, "write "+name)
	return nil
}

func (f *fakeRepo) Stage(_ context.Context, paths ...string) error {
	f.staged = append(f.staged, paths...)
	f.calls = append(f.calls, "stage")
	return nil
}

func (f *fakeRepo) CheckoutSide(_ context.Context, path string, ours bool) error {
	side := "theirs"
	if ours {
		side = "ours"
	}
	f.calls = append(f.calls, "checkout "+side+" "+path)
	return f.checkoutErr
}

func (f *fakeRepo) RemovePath(_ context.Context, path string) error {
	f.calls = append(f.calls, "rm "+path)
	return nil
}

func (f *fakeRepo) FinalizeMerge(_ context.Context, _ string) (string, error) {
	f.calls = append(f.calls, "finalize")
	if f.finalizeErr != nil {
		return "", f.finalizeErr
	}
	return "merge-sha", nil
}

const conflicted = "top\n<<<<<<< HEAD\nMain branch changes\n=======\nFeature branch changes\n>>>>>>> feature\nbottom\n"

func TestResolveConflicts(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		policy conflict.Policy
		want   string
	}{
		{"keep local", conflict.KeepLocal, "top\nMain branch changes\nbottom\n"},
		{"keep incoming", conflict.KeepIncoming, "top\nFeature branch changes\nbottom\n"},
		{"union", conflict.Union, "top\nMain branch changes\nFeature branch changes\nbottom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepo{}
			conflictErr := demoerrors.NewMergeConflictError("feature", []demoerrors.ConflictedFile{
				{Path: "shared.txt", Content: conflicted},
				{Path: "other.txt", Content: "<<<<<<< HEAD\n1\n=======\n2\n>>>>>>> feature\n"},
			})

			resolution, err := demo.ResolveConflicts(ctx, repo, conflictErr, tt.policy)
			require.NoError(t, err)
			require.Equal(t, tt.want, repo.written["shared.txt"])
			require.False(t, conflict.HasMarkers(repo.written["other.txt"]))
			require.Equal(t, []string{"shared.txt", "other.txt"}, repo.staged)
			require.Equal(t, []string{"write shared.txt", "write other.txt", "stage", "finalize"}, repo.calls)

			require.Equal(t, "merge-sha", resolution.Commit)
			require.Equal(t, tt.policy, resolution.Policy)
			require.Len(t, resolution.Files, 2)
			require.Equal(t, demo.MethodMarkers, resolution.Files[0].Method)
			require.Equal(t, 1, resolution.Files[0].Hunks)
		})
	}

	t.Run("files without markers take a whole side", func(t *testing.T) {
		repo := &fakeRepo{}
		conflictErr := demoerrors.NewMergeConflictError("feature", []demoerrors.ConflictedFile{{Path: "image.png"}})

		resolution, err := demo.ResolveConflicts(ctx, repo, conflictErr, conflict.KeepIncoming)
		require.NoError(t, err)
		require.Equal(t, []string{"checkout theirs image.png", "stage", "finalize"}, repo.calls)
		require.Equal(t, demo.MethodCheckout, resolution.Files[0].Method)
	})

	t.Run("a side that deleted the file removes it", func(t *testing.T) {
		repo := &fakeRepo{checkoutErr: errors.New("does not have our version")}
		conflictErr := demoerrors.NewMergeConflictError("feature", []demoerrors.ConflictedFile{{Path: "gone.txt"}})

		resolution, err := demo.ResolveConflicts(ctx, repo, conflictErr, conflict.KeepLocal)
		require.NoError(t, err)
		require.Equal(t, []string{"checkout ours gone.txt", "rm gone.txt", "finalize"}, repo.calls)
		require.Equal(t, demo.MethodRemoved, resolution.Files[0].Method)
	})

	t.Run("malformed markers stop before anything is committed", func(t *testing.T) {
		repo := &fakeRepo{}
		conflictErr := demoerrors.NewMergeConflictError("feature", []demoerrors.ConflictedFile{
			{Path: "broken.txt", Content: "<<<<<<< HEAD\nA\n=======\nB\n"},
		})

		_, err := demo.ResolveConflicts(ctx, repo, conflictErr, conflict.KeepLocal)
		require.Error(t, err)
		require.ErrorIs(t, err, conflict.ErrMalformed)
		require.NotContains(t, repo.calls, "finalize")
	})

	t.Run("commit failures are not retried", func(t *testing.T) {
		repo := &fakeRepo{finalizeErr: errors.New("hook rejected")}
		conflictErr := demoerrors.NewMergeConflictError("feature", []demoerrors.ConflictedFile{
			{Path: "shared.txt", Content: conflicted},
		})

		_, err := demo.ResolveConflicts(ctx, repo, conflictErr, conflict.KeepLocal)
		require.EqualError(t, err, "hook rejected")
		require.Equal(t, []string{"write shared.txt", "stage", "finalize"}, repo.calls)
	})

	t.Run("unknown policies are rejected", func(t *testing.T) {
		repo := &fakeRepo{}
		conflictErr := demoerrors.NewMergeConflictError("feature", []demoerrors.ConflictedFile{{Path: "shared.txt", Content: conflicted}})

		_, err := demo.ResolveConflicts(ctx, repo, conflictErr, conflict.Policy(42))
		require.Error(t, err)
		require.Empty(t, repo.calls)
	})
}
