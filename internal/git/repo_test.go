package git_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	demoerrors "gitdemo.dev/gitdemo/internal/errors"
	"gitdemo.dev/gitdemo/internal/git"
	"gitdemo.dev/gitdemo/testhelpers"
)

func TestInit(t *testing.T) {
	t.Run("creates the directory and configures the author", func(t *testing.T) {
		base := testhelpers.NewBaseDir(t)
		dir := filepath.Join(base, "nested", "repo")

		repo, created, err := git.Init(context.Background(), dir, git.InitOptions{
			InitialBranch: "trunk",
			AuthorName:    "Ada",
			AuthorEmail:   "ada@example.com",
		})
		require.NoError(t, err)
		require.True(t, created)
		require.Equal(t, dir, repo.Dir())
		require.True(t, git.IsRepository(dir))

		name, err := repo.Runner().Run(context.Background(), "config", "user.name")
		require.NoError(t, err)
		require.Equal(t, "Ada", name)

		_, err = repo.Commit(context.Background(), "First", "a.txt")
		require.Error(t, err)

		require.NoError(t, repo.WriteFile("a.txt", "a\n"))
		_, err = repo.Commit(context.Background(), "First")
		require.NoError(t, err)
		branch, err := repo.CurrentBranch(context.Background())
		require.NoError(t, err)
		require.Equal(t, "trunk", branch)
	})

	t.Run("reuses an existing repository", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		repo, created, err := git.Init(context.Background(), scene.Repo.Dir, git.InitOptions{})
		require.NoError(t, err)
		require.False(t, created)

		count, err := repo.CommitCount(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("reports a missing git executable", func(t *testing.T) {
		base := testhelpers.NewBaseDir(t)

		_, _, err := git.Init(context.Background(), filepath.Join(base, "repo"), git.InitOptions{
			Runner: git.NewCommandRunner("").WithBinary("gitdemo-no-such-git"),
		})
		require.ErrorIs(t, err, demoerrors.ErrEnvironment)
		require.ErrorContains(t, err, "git executable not found")
	})

	t.Run("reports an unusable path", func(t *testing.T) {
		base := testhelpers.NewBaseDir(t)
		file := filepath.Join(base, "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0600))

		_, _, err := git.Init(context.Background(), filepath.Join(file, "repo"), git.InitOptions{})
		require.ErrorIs(t, err, demoerrors.ErrEnvironment)
	})

	t.Run("creates bare repositories", func(t *testing.T) {
		base := testhelpers.NewBaseDir(t)
		dir := filepath.Join(base, "origin.git")

		_, err := git.InitBare(context.Background(), dir, "main")
		require.NoError(t, err)
		require.True(t, git.IsRepository(dir))
		require.NoFileExists(t, filepath.Join(dir, ".git"))
	})
}

func TestOpen(t *testing.T) {
	base := testhelpers.NewBaseDir(t)

	_, err := git.Open(base)
	require.ErrorIs(t, err, demoerrors.ErrEnvironment)

	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo, err := git.Open(scene.Repo.Dir)
	require.NoError(t, err)

	head, err := repo.Revision(context.Background(), "HEAD")
	require.NoError(t, err)
	expected, err := scene.Repo.GetRevision("HEAD")
	require.NoError(t, err)
	require.Equal(t, expected, head)
}

func TestOpenWith(t *testing.T) {
	t.Run("keeps the runner's environment and rebinds its directory", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		runner := git.NewCommandRunner(scene.Dir).WithEnv("GIT_AUTHOR_NAME=From Env")

		repo, err := git.OpenWith(scene.Repo.Dir, runner)
		require.NoError(t, err)
		require.Equal(t, scene.Repo.Dir, repo.Runner().WorkingDir())
		require.Equal(t, scene.Dir, runner.WorkingDir())

		ident, err := repo.Runner().Run(context.Background(), "var", "GIT_AUTHOR_IDENT")
		require.NoError(t, err)
		require.Contains(t, ident, "From Env")
	})

	t.Run("keeps the runner's binary", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		repo, err := git.OpenWith(scene.Repo.Dir, git.NewCommandRunner("").WithBinary("gitdemo-no-such-git"))
		require.NoError(t, err)

		_, err = repo.Status(context.Background())
		require.ErrorIs(t, err, demoerrors.ErrEnvironment)
	})

	t.Run("a nil runner behaves like Open", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)

		repo, err := git.OpenWith(scene.Repo.Dir, nil)
		require.NoError(t, err)
		count, err := repo.CommitCount(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})
}

func TestCommit(t *testing.T) {
	t.Run("records a commit and returns its SHA", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)

		require.NoError(t, repo.WriteFile("notes/todo.txt", "write tests\n"))
		sha, err := repo.Commit(context.Background(), "Add todo", "notes/todo.txt")
		require.NoError(t, err)

		inspect := testhelpers.Inspect(t, scene.Repo.Dir)
		require.Equal(t, sha, inspect.Head().Hash.String())
		require.Equal(t, 2, inspect.CommitCount())
		require.Equal(t, "write tests\n", inspect.FileAtHead("notes/todo.txt"))

		log, err := repo.Log(context.Background())
		require.NoError(t, err)
		require.Len(t, log, 2)
		require.Contains(t, log[0], "Add todo")
	})

	t.Run("refuses to record an empty commit", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)

		_, err = repo.Commit(context.Background(), "Nothing")
		require.ErrorIs(t, err, demoerrors.ErrNoChanges)

		var noChanges *demoerrors.NoChangesError
		require.ErrorAs(t, err, &noChanges)
		require.Equal(t, "Nothing", noChanges.Message)
		require.Equal(t, 1, testhelpers.Inspect(t, scene.Repo.Dir).CommitCount())
	})

	t.Run("status shows untracked files", func(t *testing.T) {
		scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
		repo, err := git.Open(scene.Repo.Dir)
		require.NoError(t, err)

		require.NoError(t, repo.WriteFile("new.txt", "new\n"))
		status, err := repo.Status(context.Background())
		require.NoError(t, err)
		require.Contains(t, status, "new.txt")

		staged, err := repo.HasStagedChanges(context.Background())
		require.NoError(t, err)
		require.False(t, staged)

		require.NoError(t, repo.Stage(context.Background(), "new.txt"))
		staged, err = repo.HasStagedChanges(context.Background())
		require.NoError(t, err)
		require.True(t, staged)
	})
}

func TestBranches(t *testing.T) {
	scene := testhelpers.NewScene(t, testhelpers.BasicSceneSetup)
	repo, err := git.Open(scene.Repo.Dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, repo.CreateBranch(ctx, "feature", true))
	current, err := repo.CurrentBranch(ctx)
	require.NoError(t, err)
	require.Equal(t, "feature", current)

	require.NoError(t, repo.CreateBranch(ctx, "later", false))
	current, err = repo.CurrentBranch(ctx)
	require.NoError(t, err)
	require.Equal(t, "feature", current)

	err = repo.CreateBranch(ctx, "feature", false)
	require.ErrorIs(t, err, demoerrors.ErrBranchExists)

	require.NoError(t, repo.Switch(ctx, "main"))
	require.Error(t, repo.Switch(ctx, "missing"))

	branches, err := repo.Branches(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"main", "feature", "later"}, branches)
	testhelpers.ExpectBranches(t, scene.Repo.Dir, []string{"feature", "later", "main"})
}
