// Package git provides low-level Git operations.
//
// It wraps git command execution and provides a Go-friendly interface for:
//   - Repository setup (init, bare remotes, clone, author identity)
//   - Branch management (create, switch, list)
//   - Commit and merge operations, including conflict detection
//   - Remote operations (add, push, fetch, pull, tracking branches)
//
// This package should be the only place where git commands are executed.
// Repository state is never cached: every query asks git again.
//
// Requires git 2.28 or newer, for `git init -b`.
//
// Repo constructors take an optional *CommandRunner (InitOptions.Runner,
// CloneOptions.Runner, OpenWith). It is rebound to the repository directory
// and keeps its binary and extra environment.
package git
