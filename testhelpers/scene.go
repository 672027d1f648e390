package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene: an isolated base directory, optionally
// holding a Git repository in Dir/repo.
type Scene struct {
	Dir  string
	Repo *GitRepo
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// Isolate keeps git and gitdemo from reading the developer's configuration
// and disables interactive prompts for the rest of the test.
func Isolate(t *testing.T) {
	t.Helper()
	t.Setenv("GIT_CONFIG_GLOBAL", os.DevNull)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GITDEMO_NO_INTERACTIVE", "1")
	t.Setenv("GITDEMO_CONFIG", "")
	t.Setenv("GITDEMO_CONFLICT_POLICY", "")
	t.Setenv("GITDEMO_INITIAL_BRANCH", "")
	t.Setenv("GITDEMO_REMOTE_URL", "")
	t.Setenv("GITDEMO_LOG_FILE", "")
}

// NewBaseDir returns an isolated, empty directory for demos to create their repositories in.
func NewBaseDir(t *testing.T) string {
	t.Helper()
	Isolate(t)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}
	return dir
}

// NewScene creates a new test scene with a temporary directory and Git repository.
// Cleanup is handled by t.TempDir.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()
	dir := NewBaseDir(t)

	repo, err := NewGitRepo(filepath.Join(dir, "repo"))
	if err != nil {
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:  dir,
		Repo: repo,
	}

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// BasicSceneSetup is a setup function that creates a basic scene with a single commit.
func BasicSceneSetup(scene *Scene) error {
	return scene.Repo.CreateChangeAndCommit("1", "1")
}

// DivergedSceneSetup leaves main and feature with different edits to the
// same line of file.txt, checked out on main: feature writes "B", main writes "A".
func DivergedSceneSetup(scene *Scene) error {
	repo := scene.Repo
	if err := repo.CommitFile("file.txt", "base\n", "Add file.txt"); err != nil {
		return err
	}
	if err := repo.CreateAndCheckoutBranch("feature"); err != nil {
		return err
	}
	if err := repo.CommitFile("file.txt", "B\n", "Write B"); err != nil {
		return err
	}
	if err := repo.CheckoutBranch("main"); err != nil {
		return err
	}
	return repo.CommitFile("file.txt", "A\n", "Write A")
}

// DivergedRemoteSceneSetup publishes file.txt to a bare origin, then lets a
// collaborator clone (Dir/collaborator) push "B" while the local main commits
// "A" to the same line. Pulling origin/main into the scene repo conflicts.
func DivergedRemoteSceneSetup(scene *Scene) error {
	repo := scene.Repo
	if err := repo.CommitFile("file.txt", "base\n", "Add file.txt"); err != nil {
		return err
	}
	origin, err := repo.CreateBareRemote("origin")
	if err != nil {
		return err
	}
	if err := repo.PushBranch("origin", "main"); err != nil {
		return err
	}

	collaborator, err := CloneGitRepo(origin, filepath.Join(scene.Dir, "collaborator"))
	if err != nil {
		return err
	}
	if err := collaborator.CommitFile("file.txt", "B\n", "Write B"); err != nil {
		return err
	}
	if err := collaborator.PushBranch("origin", "main"); err != nil {
		return err
	}
	return repo.CommitFile("file.txt", "A\n", "Write A")
}
