package testhelpers

import (
	"sort"
	"strings"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Inspector reads a repository through go-git, so assertions do not depend on
// the git wrapper being tested.
type Inspector struct {
	t    *testing.T
	repo *gogit.Repository
}

// Inspect opens the repository at dir for inspection.
func Inspect(t *testing.T, dir string) *Inspector {
	t.Helper()
	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err, "failed to open %s", dir)
	return &Inspector{t: t, repo: repo}
}

// Head returns the commit HEAD points at.
func (i *Inspector) Head() *object.Commit {
	i.t.Helper()
	ref, err := i.repo.Head()
	require.NoError(i.t, err)
	commit, err := i.repo.CommitObject(ref.Hash())
	require.NoError(i.t, err)
	return commit
}

// HeadBranch returns the short name of the checked-out branch.
func (i *Inspector) HeadBranch() string {
	i.t.Helper()
	ref, err := i.repo.Head()
	require.NoError(i.t, err)
	require.True(i.t, ref.Name().IsBranch(), "HEAD is detached")
	return ref.Name().Short()
}

// CommitCount returns the number of commits reachable from HEAD.
func (i *Inspector) CommitCount() int {
	i.t.Helper()
	iter, err := i.repo.Log(&gogit.LogOptions{From: i.Head().Hash})
	require.NoError(i.t, err)
	count := 0
	require.NoError(i.t, iter.ForEach(func(*object.Commit) error {
		count++
		return nil
	}))
	return count
}

// HeadParents returns the parent hashes of HEAD.
func (i *Inspector) HeadParents() []string {
	i.t.Helper()
	parents := make([]string, 0, 2)
	for _, h := range i.Head().ParentHashes {
		parents = append(parents, h.String())
	}
	return parents
}

// BranchHash returns the commit a local branch points at.
func (i *Inspector) BranchHash(name string) string {
	i.t.Helper()
	ref, err := i.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	require.NoError(i.t, err, "branch %s not found", name)
	return ref.Hash().String()
}

// Branches returns the sorted local branch names.
func (i *Inspector) Branches() []string {
	i.t.Helper()
	iter, err := i.repo.Branches()
	require.NoError(i.t, err)
	var names []string
	require.NoError(i.t, iter.ForEach(func(ref *plumbing.Reference) error {
		names = append(names, ref.Name().Short())
		return nil
	}))
	sort.Strings(names)
	return names
}

// RemoteBranches returns the sorted remote-tracking branch names, e.g. origin/main.
func (i *Inspector) RemoteBranches() []string {
	i.t.Helper()
	iter, err := i.repo.References()
	require.NoError(i.t, err)
	var names []string
	require.NoError(i.t, iter.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsRemote() && ref.Type() == plumbing.HashReference {
			names = append(names, ref.Name().Short())
		}
		return nil
	}))
	sort.Strings(names)
	return names
}

// FileAtHead returns the content of path in the HEAD commit.
func (i *Inspector) FileAtHead(path string) string {
	i.t.Helper()
	file, err := i.Head().File(path)
	require.NoError(i.t, err, "%s not found at HEAD", path)
	content, err := file.Contents()
	require.NoError(i.t, err)
	return content
}

// Messages returns the commit subjects reachable from HEAD in pre-order, HEAD first.
func (i *Inspector) Messages() []string {
	i.t.Helper()
	iter, err := i.repo.Log(&gogit.LogOptions{From: i.Head().Hash})
	require.NoError(i.t, err)
	var messages []string
	require.NoError(i.t, iter.ForEach(func(c *object.Commit) error {
		messages = append(messages, firstLine(c.Message))
		return nil
	}))
	return messages
}

// Remotes returns the configured remote names mapped to their first URL.
func (i *Inspector) Remotes() map[string]string {
	i.t.Helper()
	remotes, err := i.repo.Remotes()
	require.NoError(i.t, err)
	urls := make(map[string]string, len(remotes))
	for _, r := range remotes {
		cfg := r.Config()
		if len(cfg.URLs) > 0 {
			urls[cfg.Name] = cfg.URLs[0]
		}
	}
	return urls
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
