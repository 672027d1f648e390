package demo

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"gitdemo.dev/gitdemo/internal/git"
)

const (
	remoteName      = "origin"
	remoteOriginDir = "remote_ops_demo_origin.git"
	remoteCloneDir  = "remote_ops_demo_clone"
)

// buildRemote publishes the repository to a remote, lets a collaborator clone
// it and push work back, then fetches, tracks and pulls that work.
func buildRemote(s *session) {
	trunk := s.mainBranch()
	s.runner.
		Add("Initialize repository", s.initRepository(true)).
		Add("Prepare the remote repository", s.prepareOrigin).
		Add("Add remote "+remoteName, s.addOrigin).
		Add("List remotes", s.showRemotes).
		Add("Create remote_test.txt", s.writeAndCommit("remote_test.txt", "Testing remote operations\n", "Add remote test file")).
		Add("Push "+trunk+" to "+remoteName, func(ctx context.Context) error {
			return s.push(ctx, s.repo, trunk, true)
		}).
		Add("List remote branches", func(ctx context.Context) error {
			branches, err := s.listRemoteBranches(ctx)
			if err != nil {
				return err
			}
			s.remoteBranches = branches
			return nil
		}).
		Add("List remote branches again", func(ctx context.Context) error {
			branches, err := s.listRemoteBranches(ctx)
			if err != nil {
				return err
			}
			if !slices.Equal(branches, s.remoteBranches) {
				return fmt.Errorf("remote branch listing changed without remote updates: %v then %v", s.remoteBranches, branches)
			}
			s.splog().Info("Listing unchanged: %d remote branch(es)", len(branches))
			return nil
		}).
		Add("Clone a collaborator copy", s.cloneCollaborator).
		Add("Collaborator pushes to "+trunk, func(ctx context.Context) error {
			if err := s.clone.WriteFile("collaborator.txt", "Notes from a collaborator\n"); err != nil {
				return err
			}
			if err := commitIn(ctx, s.splog(), s.clone, "Add collaborator notes"); err != nil {
				return err
			}
			return s.push(ctx, s.clone, trunk, false)
		}).
		Add("Collaborator pushes a feature branch", func(ctx context.Context) error {
			if err := s.clone.CreateBranch(ctx, "feature", true); err != nil {
				return err
			}
			if err := s.clone.WriteFile("feature.txt", "Feature work from a collaborator\n"); err != nil {
				return err
			}
			if err := commitIn(ctx, s.splog(), s.clone, "Add collaborator feature"); err != nil {
				return err
			}
			return s.push(ctx, s.clone, "feature", true)
		}).
		Add("Fetch from "+remoteName, func(ctx context.Context) error {
			if err := s.repo.Fetch(ctx, remoteName); err != nil {
				return err
			}
			s.splog().Info("Fetched %s", remoteName)
			_, err := s.listRemoteBranches(ctx)
			return err
		}).
		Add("Track "+remoteName+"/feature", func(ctx context.Context) error {
			if err := s.repo.TrackBranch(ctx, "feature", remoteName); err != nil {
				return err
			}
			styles := s.splog().Styles()
			s.splog().Info("Branch %s now tracks %s", styles.Branch.Render("feature"), styles.Branch.Render(remoteName+"/feature"))
			return s.switchTo(trunk)(ctx)
		}).
		Add("Pull "+trunk+" from "+remoteName, func(ctx context.Context) error {
			if err := s.repo.Pull(ctx, remoteName, trunk); err != nil {
				return err
			}
			s.splog().Info("Pulled %s from %s", s.splog().Styles().Branch.Render(trunk), remoteName)
			return nil
		}).
		Add("Show commit log", s.showLog)
}

// prepareOrigin uses the configured remote URL, or creates a local bare
// repository next to the demo directory.
func (s *session) prepareOrigin(ctx context.Context) error {
	if url := s.cfg().RemoteURL; url != "" {
		s.remoteURL = url
		s.splog().Info("Using configured remote %s", url)
		return nil
	}

	originDir := filepath.Join(s.settings.BaseDir, remoteOriginDir)
	origin, _, err := git.Init(ctx, originDir, git.InitOptions{
		Bare:          true,
		InitialBranch: s.mainBranch(),
		Runner:        s.repo.Runner(),
	})
	if err != nil {
		return err
	}
	s.remoteURL = origin.Dir()
	s.splog().Info("Created bare repository %s to act as %s", s.splog().Styles().Path.Render(origin.Dir()), remoteName)
	return nil
}

// addOrigin registers the remote; an identical existing registration is kept
func (s *session) addOrigin(ctx context.Context) error {
	remotes, err := s.repo.Remotes(ctx)
	if err != nil {
		return err
	}
	for _, r := range remotes {
		if r.Name == remoteName && r.URL == s.remoteURL {
			s.splog().Info("Remote %s already points at %s", remoteName, s.remoteURL)
			return nil
		}
	}
	if err := s.repo.AddRemote(ctx, remoteName, s.remoteURL); err != nil {
		return err
	}
	s.splog().Info("Added remote %s -> %s", remoteName, s.remoteURL)
	return nil
}

func (s *session) showRemotes(ctx context.Context) error {
	remotes, err := s.repo.Remotes(ctx)
	if err != nil {
		return err
	}
	lines := make([]string, len(remotes))
	for i, r := range remotes {
		lines[i] = r.Name + "\t" + r.URL
	}
	s.splog().Output(strings.Join(lines, "\n"))
	return nil
}

func (s *session) push(ctx context.Context, repo *git.Repo, branch string, setUpstream bool) error {
	if err := repo.Push(ctx, remoteName, branch, setUpstream); err != nil {
		return err
	}
	s.splog().Info("Pushed %s to %s", s.splog().Styles().Branch.Render(branch), remoteName)
	return nil
}

func (s *session) listRemoteBranches(ctx context.Context) ([]string, error) {
	branches, err := s.repo.RemoteBranches(ctx)
	if err != nil {
		return nil, err
	}
	s.splog().Output(strings.Join(s.splog().Styles().BranchList(branches, ""), "\n"))
	return branches, nil
}

func (s *session) cloneCollaborator(ctx context.Context) error {
	cloneDir := filepath.Join(s.settings.BaseDir, remoteCloneDir)
	clone, err := git.Clone(ctx, s.remoteURL, cloneDir, git.CloneOptions{
		Branch: s.mainBranch(),
		Runner: s.repo.Runner(),
	})
	if err != nil {
		return err
	}
	author := s.cfg().Author
	if err := clone.ConfigureAuthor(ctx, author.Name, author.Email); err != nil {
		return err
	}
	s.clone = clone
	s.splog().Info("Cloned %s into %s", remoteName, s.splog().Styles().Path.Render(clone.Dir()))
	return nil
}
