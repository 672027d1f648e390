// Package testhelpers provides testing utilities for gitdemo, including a
// scene system, Git repository helpers, go-git inspection and custom assertions.
package testhelpers

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value. This is useful for test setup code
// where errors are not expected and should halt execution immediately.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// ExpectBranches asserts that the repository at dir has exactly the expected local branches.
func ExpectBranches(t *testing.T, dir string, expected []string) {
	t.Helper()

	sorted := append([]string(nil), expected...)
	sort.Strings(sorted)
	require.Equal(t, sorted, Inspect(t, dir).Branches(), "Branches do not match")
}

// ExpectCommits asserts that the newest commit subjects reachable from HEAD
// start with expected.
func ExpectCommits(t *testing.T, dir string, expected []string) {
	t.Helper()

	messages := Inspect(t, dir).Messages()
	if len(messages) < len(expected) {
		require.Fail(t, "Not enough commits", "Expected %d commits, got %d", len(expected), len(messages))
		return
	}
	require.Equal(t, expected, messages[:len(expected)], "Commits do not match")
}

// ExpectMergeCommit asserts that HEAD is a merge of the two given commits.
func ExpectMergeCommit(t *testing.T, dir string, firstParent, secondParent string) {
	t.Helper()

	parents := Inspect(t, dir).HeadParents()
	require.Equal(t, []string{firstParent, secondParent}, parents, "HEAD is not the expected merge commit")
}

// ExpectNoConflictMarkers asserts that content carries no conflict marker lines.
func ExpectNoConflictMarkers(t *testing.T, content string) {
	t.Helper()

	for _, line := range strings.Split(content, "\n") {
		for _, marker := range []string{"<<<<<<<", "=======", ">>>>>>>", "|||||||"} {
			require.False(t, strings.HasPrefix(line, marker), "conflict marker %q left in:\n%s", marker, content)
		}
	}
}
