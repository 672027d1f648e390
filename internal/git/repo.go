package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	demoerrors "gitdemo.dev/gitdemo/internal/errors"
)

// Repo is a handle on a working directory under version control.
// All state lives in git; the handle only remembers where it is.
type Repo struct {
	dir    string
	runner *CommandRunner
}

// InitOptions controls repository creation
type InitOptions struct {
	InitialBranch string
	AuthorName    string
	AuthorEmail   string
	Bare          bool
	// Runner overrides the command runner (tests use it to point at a fake git).
	Runner *CommandRunner
}

// IsRepository reports whether dir itself holds a git repository (worktree or bare).
// Parent directories are not searched.
func IsRepository(dir string) bool {
	_, err := gogit.PlainOpen(dir)
	return err == nil
}

// Init creates a repository at path, creating the directory if needed.
// An existing repository is reused; created reports whether git init ran.
// InitialBranch is passed as `git init -b`, which needs git 2.28 or newer.
func Init(ctx context.Context, path string, opts InitOptions) (repo *Repo, created bool, err error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false, demoerrors.NewEnvironmentError(path, "failed to resolve path", err)
	}

	if err := os.MkdirAll(absPath, 0750); err != nil {
		return nil, false, demoerrors.NewEnvironmentError(absPath, "cannot create working directory", err)
	}
	if err := checkWritable(absPath); err != nil {
		return nil, false, err
	}

	runner := bindRunner(opts.Runner, absPath)
	repo = &Repo{dir: absPath, runner: runner}

	if !IsRepository(absPath) {
		args := []string{"init"}
		if opts.Bare {
			args = append(args, "--bare")
		}
		if opts.InitialBranch != "" {
			args = append(args, "-b", opts.InitialBranch)
		}
		if _, err := runner.Run(ctx, args...); err != nil {
			var envErr *demoerrors.EnvironmentError
			if errors.As(err, &envErr) {
				return nil, false, err
			}
			return nil, false, demoerrors.NewEnvironmentError(absPath, "git init failed", err)
		}
		created = true
	}

	if !opts.Bare {
		if err := repo.ConfigureAuthor(ctx, opts.AuthorName, opts.AuthorEmail); err != nil {
			return nil, created, err
		}
	}

	return repo, created, nil
}

// InitBare creates a bare repository at path, suitable as a local remote.
func InitBare(ctx context.Context, path, initialBranch string) (*Repo, error) {
	repo, _, err := Init(ctx, path, InitOptions{Bare: true, InitialBranch: initialBranch})
	return repo, err
}

// Open returns a handle on an existing repository
func Open(path string) (*Repo, error) {
	return OpenWith(path, nil)
}

// OpenWith is Open with a custom command runner, rebound to the repository.
// A nil runner behaves like Open.
func OpenWith(path string, runner *CommandRunner) (*Repo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, demoerrors.NewEnvironmentError(path, "failed to resolve path", err)
	}
	if !IsRepository(absPath) {
		return nil, demoerrors.NewEnvironmentError(absPath, "not a git repository", nil)
	}
	return &Repo{dir: absPath, runner: bindRunner(runner, absPath)}, nil
}

// bindRunner rebinds runner to dir, defaulting to a plain git runner
func bindRunner(runner *CommandRunner, dir string) *CommandRunner {
	if runner == nil {
		return NewCommandRunner(dir)
	}
	return runner.In(dir)
}

// checkWritable verifies files can be created in dir
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".gitdemo-write-*")
	if err != nil {
		return demoerrors.NewEnvironmentError(dir, "working directory is not writable", err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}

// Dir returns the repository's working directory
func (r *Repo) Dir() string {
	return r.dir
}

// Runner returns the command runner bound to the repository
func (r *Repo) Runner() *CommandRunner {
	return r.runner
}

// ConfigureAuthor sets the repository-local commit identity. Empty values are skipped.
func (r *Repo) ConfigureAuthor(ctx context.Context, name, email string) error {
	if name != "" {
		if _, err := r.runner.Run(ctx, "config", "user.name", name); err != nil {
			return fmt.Errorf("failed to configure user.name: %w", err)
		}
	}
	if email != "" {
		if _, err := r.runner.Run(ctx, "config", "user.email", email); err != nil {
			return fmt.Errorf("failed to configure user.email: %w", err)
		}
	}
	return nil
}

// Status returns the long-form `git status` output
func (r *Repo) Status(ctx context.Context) (string, error) {
	output, err := r.runner.Run(ctx, "status")
	if err != nil {
		return "", fmt.Errorf("failed to get status: %w", err)
	}
	return output, nil
}

// Log returns `git log --oneline` for HEAD, newest first
func (r *Repo) Log(ctx context.Context) ([]string, error) {
	lines, err := r.runner.Lines(ctx, "log", "--oneline")
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	return lines, nil
}

// CommitCount returns the number of commits reachable from HEAD
func (r *Repo) CommitCount(ctx context.Context) (int, error) {
	output, err := r.runner.Run(ctx, "rev-list", "--count", "HEAD")
	if err != nil {
		return 0, fmt.Errorf("failed to count commits: %w", err)
	}
	count, err := strconv.Atoi(output)
	if err != nil {
		return 0, fmt.Errorf("failed to parse commit count %q: %w", output, err)
	}
	return count, nil
}

// Revision resolves rev to a commit SHA
func (r *Repo) Revision(ctx context.Context, rev string) (string, error) {
	sha, err := r.runner.Run(ctx, "rev-parse", rev)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", rev, err)
	}
	return sha, nil
}

// HeadParents returns the parent SHAs of HEAD (two for a merge commit)
func (r *Repo) HeadParents(ctx context.Context) ([]string, error) {
	output, err := r.runner.Run(ctx, "rev-list", "--parents", "-n", "1", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to read HEAD parents: %w", err)
	}
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return nil, fmt.Errorf("unexpected rev-list output %q", output)
	}
	return fields[1:], nil
}

// ReadFile reads a file relative to the working directory
func (r *Repo) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(r.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

// WriteFile creates or replaces a file relative to the working directory
func (r *Repo) WriteFile(name, content string) error {
	path := filepath.Join(r.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
