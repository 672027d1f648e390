package git

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	demoerrors "gitdemo.dev/gitdemo/internal/errors"
)

// DefaultCommandTimeout is the default timeout for git commands
const DefaultCommandTimeout = 5 * time.Minute

// nonInteractiveEnv keeps git from opening editors or prompting for credentials,
// and pins its messages to English so output can be matched.
var nonInteractiveEnv = []string{
	"GIT_MERGE_AUTOEDIT=no",
	"GIT_TERMINAL_PROMPT=0",
	"LC_ALL=C",
}

// Result is the outcome of a single git invocation
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// CommandRunner handles execution of git commands
type CommandRunner struct {
	workingDir string
	binary     string
	env        []string
}

// NewCommandRunner creates a new CommandRunner
func NewCommandRunner(workingDir string) *CommandRunner {
	return &CommandRunner{workingDir: workingDir, binary: "git"}
}

// WithBinary returns a copy of the runner that executes the given git binary.
func (r *CommandRunner) WithBinary(binary string) *CommandRunner {
	c := *r
	c.binary = binary
	return &c
}

// WithEnv returns a copy of the runner that adds env to every invocation.
func (r *CommandRunner) WithEnv(env ...string) *CommandRunner {
	c := *r
	c.env = append(append([]string{}, r.env...), env...)
	return &c
}

// In returns a copy of the runner bound to dir, keeping its binary and env.
func (r *CommandRunner) In(dir string) *CommandRunner {
	c := *r
	c.workingDir = dir
	return &c
}

// WorkingDir returns the directory commands run in
func (r *CommandRunner) WorkingDir() string {
	return r.workingDir
}

// Exec runs git with args and returns its exit code and captured output.
// A non-zero exit is also reported as a *GitCommandError; a missing binary or
// working directory is reported as an *EnvironmentError.
func (r *CommandRunner) Exec(ctx context.Context, args ...string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	// If no timeout/deadline is set in the context, add the default one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	binary := r.binary
	if binary == "" {
		binary = "git"
	}

	cmd := exec.CommandContext(ctx, binary, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	cmd.Env = append(append(os.Environ(), nonInteractiveEnv...), r.env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		res.ExitCode = -1
		return res, demoerrors.NewGitCommandError(binary, args, res.ExitCode, res.Stdout, res.Stderr, ctx.Err())
	case errors.As(err, &exitErr):
		res.ExitCode = exitErr.ExitCode()
		return res, demoerrors.NewGitCommandError(binary, args, res.ExitCode, res.Stdout, res.Stderr, err)
	case errors.Is(err, exec.ErrNotFound):
		res.ExitCode = -1
		return res, demoerrors.NewEnvironmentError("", "git executable not found, please install Git", err)
	default:
		res.ExitCode = -1
		return res, demoerrors.NewEnvironmentError(r.workingDir, "cannot run git in working directory", err)
	}
}

// Run executes a git command with the given context and returns the trimmed output
func (r *CommandRunner) Run(ctx context.Context, args ...string) (string, error) {
	res, err := r.Exec(ctx, args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Lines executes a git command and returns output as lines
func (r *CommandRunner) Lines(ctx context.Context, args ...string) ([]string, error) {
	output, err := r.Run(ctx, args...)
	if err != nil {
		return nil, err
	}
	if output == "" {
		return []string{}, nil
	}
	return strings.Split(output, "\n"), nil
}

// commandStderr returns the captured stderr of a failed git command, if any
func commandStderr(err error) string {
	var gitErr *demoerrors.GitCommandError
	if errors.As(err, &gitErr) {
		if gitErr.Stderr != "" {
			return gitErr.Stderr
		}
		return gitErr.Stdout
	}
	return ""
}
