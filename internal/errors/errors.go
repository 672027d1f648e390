// Package errors provides sentinel errors and custom error types for gitdemo.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common conditions
var (
	// ErrEnvironment indicates that git is missing or the working directory is unusable
	ErrEnvironment = errors.New("environment error")

	// ErrNoChanges indicates that a commit was requested with nothing staged
	ErrNoChanges = errors.New("no changes to commit")

	// ErrBranchExists indicates that a branch could not be created because the name is taken
	ErrBranchExists = errors.New("branch already exists")

	// ErrMergeConflict indicates that a merge stopped with conflicted files
	ErrMergeConflict = errors.New("merge conflict")

	// ErrRemoteOperation indicates that a remote operation (add, push, pull, fetch) failed
	ErrRemoteOperation = errors.New("remote operation failed")
)

// EnvironmentError represents a missing git executable or an unusable path
type EnvironmentError struct {
	Path    string
	Message string
	Err     error
}

func (e *EnvironmentError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is returns true if the target error is ErrEnvironment
func (e *EnvironmentError) Is(target error) bool {
	return target == ErrEnvironment
}

func (e *EnvironmentError) Unwrap() error {
	return e.Err
}

// NewEnvironmentError creates a new EnvironmentError
func NewEnvironmentError(path, message string, err error) *EnvironmentError {
	return &EnvironmentError{Path: path, Message: message, Err: err}
}

// NoChangesError represents a commit attempt with an empty stage
type NoChangesError struct {
	Message string
}

func (e *NoChangesError) Error() string {
	return fmt.Sprintf("nothing staged for commit %q", e.Message)
}

// Is returns true if the target error is ErrNoChanges
func (e *NoChangesError) Is(target error) bool {
	return target == ErrNoChanges
}

// NewNoChangesError creates a new NoChangesError
func NewNoChangesError(message string) *NoChangesError {
	return &NoChangesError{Message: message}
}

// BranchExistsError represents an attempt to create a branch whose name is taken
type BranchExistsError struct {
	BranchName string
}

func (e *BranchExistsError) Error() string {
	return fmt.Sprintf("branch %s already exists", e.BranchName)
}

// Is returns true if the target error is ErrBranchExists
func (e *BranchExistsError) Is(target error) bool {
	return target == ErrBranchExists
}

// NewBranchExistsError creates a new BranchExistsError
func NewBranchExistsError(branchName string) *BranchExistsError {
	return &BranchExistsError{BranchName: branchName}
}

// ConflictedFile is a path left conflicted by a merge together with its
// content as written by git, conflict markers included.
type ConflictedFile struct {
	Path    string
	Content string
}

// MergeConflictError represents a merge that stopped on conflicts.
// It is recoverable: the caller resolves the files and finalizes the merge.
type MergeConflictError struct {
	Branch string
	Files  []ConflictedFile
}

func (e *MergeConflictError) Error() string {
	return fmt.Sprintf("merge of %s stopped on conflicts in: %s", e.Branch, strings.Join(e.Paths(), ", "))
}

// Is returns true if the target error is ErrMergeConflict
func (e *MergeConflictError) Is(target error) bool {
	return target == ErrMergeConflict
}

// Paths returns the conflicted paths in the order git reported them
func (e *MergeConflictError) Paths() []string {
	paths := make([]string, 0, len(e.Files))
	for _, f := range e.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// NewMergeConflictError creates a new MergeConflictError
func NewMergeConflictError(branch string, files []ConflictedFile) *MergeConflictError {
	return &MergeConflictError{Branch: branch, Files: files}
}

// RemoteFailureReason classifies why a remote operation failed
type RemoteFailureReason int

const (
	// RemoteFailureOther is any failure not matched by a more specific reason
	RemoteFailureOther RemoteFailureReason = iota
	// RemoteFailureRejected is a push refused by the remote (e.g. non-fast-forward)
	RemoteFailureRejected
	// RemoteFailureUnreachable is a remote that could not be contacted or does not exist
	RemoteFailureUnreachable
	// RemoteFailureAuthentication is a remote that refused the credentials
	RemoteFailureAuthentication
)

func (r RemoteFailureReason) String() string {
	switch r {
	case RemoteFailureRejected:
		return "rejected"
	case RemoteFailureUnreachable:
		return "unreachable"
	case RemoteFailureAuthentication:
		return "authentication failed"
	default:
		return "failed"
	}
}

// RemoteOperationError represents a failed add-remote, push, pull or fetch.
// Stderr carries git's output verbatim.
type RemoteOperationError struct {
	Operation string
	Remote    string
	Branch    string
	Reason    RemoteFailureReason
	Stderr    string
	Err       error
}

func (e *RemoteOperationError) Error() string {
	target := e.Remote
	if e.Branch != "" {
		target += "/" + e.Branch
	}
	msg := fmt.Sprintf("%s %s %s", e.Operation, target, e.Reason)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

// Is returns true if the target error is ErrRemoteOperation
func (e *RemoteOperationError) Is(target error) bool {
	return target == ErrRemoteOperation
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}

// NewRemoteOperationError creates a new RemoteOperationError, classifying
// the failure from git's stderr.
func NewRemoteOperationError(operation, remote, branch, stderr string, err error) *RemoteOperationError {
	return &RemoteOperationError{
		Operation: operation,
		Remote:    remote,
		Branch:    branch,
		Reason:    ClassifyRemoteFailure(stderr),
		Stderr:    strings.TrimSpace(stderr),
		Err:       err,
	}
}

// ClassifyRemoteFailure maps git's stderr for a remote command to a reason
func ClassifyRemoteFailure(stderr string) RemoteFailureReason {
	s := strings.ToLower(stderr)
	switch {
	case strings.Contains(s, "authentication failed"),
		strings.Contains(s, "permission denied"),
		strings.Contains(s, "could not read username"):
		return RemoteFailureAuthentication
	case strings.Contains(s, "non-fast-forward"),
		strings.Contains(s, "[rejected]"),
		strings.Contains(s, "fetch first"):
		return RemoteFailureRejected
	case strings.Contains(s, "does not appear to be a git repository"),
		strings.Contains(s, "could not read from remote"),
		strings.Contains(s, "unable to access"),
		strings.Contains(s, "repository not found"),
		strings.Contains(s, "couldn't find remote ref"),
		strings.Contains(s, "could not resolve host"):
		return RemoteFailureUnreachable
	default:
		return RemoteFailureOther
	}
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command  string
	Args     []string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Stdout != "" {
		msg += fmt.Sprintf("\nstdout: %s", e.Stdout)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, exitCode int, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command:  command,
		Args:     args,
		ExitCode: exitCode,
		Stdout:   stdout,
		Stderr:   stderr,
		Err:      err,
	}
}
