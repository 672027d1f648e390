package git_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	demoerrors "gitdemo.dev/gitdemo/internal/errors"
	"gitdemo.dev/gitdemo/internal/git"
	"gitdemo.dev/gitdemo/testhelpers"
)

func TestMerge(t *testing.T) {
	t.Run("fast-forwards when the branch is ahead", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CommitFile("feature.txt", "feature\n", "Add feature"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))

		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)

		result, err := repo.Merge(context.Background(), "feature", git.MergeOptions{})
		require.NoError(t, err)
		require.True(t, result.FastForward)
		require.Equal(t, testhelpers.Inspect(t, scene.Repo.Dir).BranchHash("feature"), result.Commit)
	})

	t.Run("records a merge commit with --no-ff", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		require.NoError(t, scene.Repo.CreateAndCheckoutBranch("feature"))
		require.NoError(t, scene.Repo.CommitFile("feature.txt", "feature\n", "Add feature"))
		require.NoError(t, scene.Repo.CheckoutBranch("main"))
		mainTip, err := scene.Repo.GetRevision("main")
		require.NoError(t, err)
		featureTip, err := scene.Repo.GetRevision("feature")
		require.NoError(t, err)

		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)

		result, err := repo.Merge(context.Background(), "feature", git.MergeOptions{
			NoFastForward: true,
			Message:       "Merge feature",
		})
		require.NoError(t, err)
		require.False(t, result.FastForward)
		testhelpers.ExpectMergeCommit(t, scene.Repo.Dir, mainTip, featureTip)
		testhelpers.ExpectCommits(t, scene.Repo.Dir, []string{"Merge feature"})
	})

	t.Run("stops on conflicts and lists the conflicted files", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.DivergedSceneSetup)
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)
		ctx := context.Background()

		_, err = repo.Merge(ctx, "feature", git.MergeOptions{})
		require.ErrorIs(t, err, demoerrors.ErrMergeConflict)

		var conflictErr *demoerrors.MergeConflictError
		require.ErrorAs(t, err, &conflictErr)
		require.Equal(t, "feature", conflictErr.Branch)
		require.Equal(t, []string{"file.txt"}, conflictErr.Paths())
		require.Contains(t, conflictErr.Files[0].Content, "<<<<<<<")

		require.True(t, repo.MergeInProgress(ctx))
		unmerged, err := repo.UnmergedFiles(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"file.txt"}, unmerged)

		require.NoError(t, repo.MergeAbort(ctx))
		require.False(t, repo.MergeInProgress(ctx))
		content, err := repo.ReadFile("file.txt")
		require.NoError(t, err)
		require.Equal(t, "A\n", content)
	})
}

func TestMergeRefusals(t *testing.T) {
	t.Run("merging over an unresolved merge is a hard error", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.DivergedSceneSetup)
		require.NoError(t, scene.Repo.RunGitCommand("branch", "other"))
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)
		ctx := context.Background()

		_, err = repo.Merge(ctx, "feature", git.MergeOptions{})
		require.ErrorIs(t, err, demoerrors.ErrMergeConflict)

		_, err = repo.Merge(ctx, "other", git.MergeOptions{})
		require.Error(t, err)
		require.NotErrorIs(t, err, demoerrors.ErrMergeConflict)
		require.ErrorContains(t, err, "previous merge is still in progress")

		// the first merge is untouched
		require.True(t, repo.MergeInProgress(ctx))
		unmerged, err := repo.UnmergedFiles(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"file.txt"}, unmerged)
	})

	t.Run("an unknown branch is not a conflict", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)

		_, err = repo.Merge(context.Background(), "no-such-branch", git.MergeOptions{})
		require.Error(t, err)
		require.NotErrorIs(t, err, demoerrors.ErrMergeConflict)
	})
}

func TestFinalizeMerge(t *testing.T) {
	t.Run("commits the resolution with both parents", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.DivergedSceneSetup)
		mainTip, err := scene.Repo.GetRevision("main")
		require.NoError(t, err)
		featureTip, err := scene.Repo.GetRevision("feature")
		require.NoError(t, err)

		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)
		ctx := context.Background()

		_, err = repo.Merge(ctx, "feature", git.MergeOptions{})
		require.ErrorIs(t, err, demoerrors.ErrMergeConflict)

		_, err = repo.FinalizeMerge(ctx, "too early")
		require.ErrorContains(t, err, "unresolved paths remain")

		require.NoError(t, repo.CheckoutSide(ctx, "file.txt", true))
		require.NoError(t, repo.Stage(ctx, "file.txt"))

		sha, err := repo.FinalizeMerge(ctx, "Resolve file.txt")
		require.NoError(t, err)
		require.False(t, repo.MergeInProgress(ctx))

		parents, err := repo.HeadParents(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{mainTip, featureTip}, parents)
		testhelpers.ExpectMergeCommit(t, scene.Repo.Dir, mainTip, featureTip)

		inspect := testhelpers.Inspect(t, scene.Repo.Dir)
		require.Equal(t, sha, inspect.Head().Hash.String())
		require.Equal(t, "A\n", inspect.FileAtHead("file.txt"))
		require.Equal(t, "Resolve file.txt", inspect.Messages()[0])
	})

	t.Run("keeps the prepared message when none is given", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.DivergedSceneSetup)
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)
		ctx := context.Background()

		_, err = repo.Merge(ctx, "feature", git.MergeOptions{})
		require.Error(t, err)
		require.NoError(t, repo.CheckoutSide(ctx, "file.txt", false))
		require.NoError(t, repo.Stage(ctx, "file.txt"))

		_, err = repo.FinalizeMerge(ctx, "")
		require.NoError(t, err)

		inspect := testhelpers.Inspect(t, scene.Repo.Dir)
		require.Equal(t, "B\n", inspect.FileAtHead("file.txt"))
		require.Contains(t, inspect.Messages()[0], "Merge branch 'feature'")
	})

	t.Run("fails without a merge in progress", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)

		_, err = repo.FinalizeMerge(context.Background(), "Nothing to finish")
		require.ErrorContains(t, err, "no merge in progress")
	})
}
