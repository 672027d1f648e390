package demo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gitdemo.dev/gitdemo/internal/config"
	"gitdemo.dev/gitdemo/internal/conflict"
	"gitdemo.dev/gitdemo/internal/git"
	"gitdemo.dev/gitdemo/internal/output"
)

// Settings are the inputs shared by every demo script
type Settings struct {
	BaseDir string
	Config  *config.Config
	Splog   *output.Splog
	// Policy overrides Config.ConflictPolicy when set
	Policy *conflict.Policy
}

func (s Settings) policy() conflict.Policy {
	if s.Policy != nil {
		return *s.Policy
	}
	if s.Config != nil {
		return s.Config.ConflictPolicy
	}
	return conflict.DefaultPolicy
}

// Script is a demonstration with a fixed working directory below the base directory
type Script struct {
	Name  string
	Dir   string
	Short string
	// ExtraDirs are sibling directories the script also creates
	ExtraDirs []string
	// ResolvesConflicts makes the runner hand merge conflicts to the resolution step
	ResolvesConflicts bool

	build func(s *session)
}

// Scripts returns every demo in the order `all` runs them
func Scripts() []Script {
	return []Script{
		{
			Name:  "basics",
			Dir:   "git_basics_demo",
			Short: "Initialize a repository and record a first commit",
			build: buildBasics,
		},
		{
			Name:  "branching",
			Dir:   "branch_demo",
			Short: "Work on two branches and merge them back together",
			build: buildBranching,
		},
		{
			Name:              "conflict",
			Dir:               "conflict_demo",
			Short:             "Merge two branches that edit the same line and resolve the conflict",
			ResolvesConflicts: true,
			build:             buildConflict,
		},
		{
			Name:              "remote",
			Dir:               "remote_ops_demo",
			Short:             "Push, fetch, clone and pull through a remote",
			ExtraDirs:         []string{remoteOriginDir, remoteCloneDir},
			ResolvesConflicts: true,
			build:             buildRemote,
		},
	}
}

// Lookup finds a script by name
func Lookup(name string) (Script, bool) {
	for _, sc := range Scripts() {
		if sc.Name == name {
			return sc, true
		}
	}
	return Script{}, false
}

// Dirs returns every directory the script writes to
func (sc Script) Dirs(baseDir string) []string {
	dirs := []string{filepath.Join(baseDir, sc.Dir)}
	for _, d := range sc.ExtraDirs {
		dirs = append(dirs, filepath.Join(baseDir, d))
	}
	return dirs
}

// Existing returns the script directories that already exist
func (sc Script) Existing(baseDir string) []string {
	var existing []string
	for _, d := range sc.Dirs(baseDir) {
		if _, err := os.Stat(d); err == nil {
			existing = append(existing, d)
		}
	}
	return existing
}

// Reset removes the script's directories so it can start from scratch
func (sc Script) Reset(baseDir string) error {
	for _, d := range sc.Dirs(baseDir) {
		if filepath.Clean(d) == filepath.Clean(baseDir) {
			return fmt.Errorf("refusing to remove base directory %s", baseDir)
		}
		if err := os.RemoveAll(d); err != nil {
			return fmt.Errorf("failed to remove %s: %w", d, err)
		}
	}
	return nil
}

// Runner builds the runner for this script
func (sc Script) Runner(settings Settings) *Runner {
	if settings.Config == nil {
		settings.Config = config.Default()
	}
	if settings.Splog == nil {
		settings.Splog = output.NewSplog()
	}

	s := &session{
		settings: settings,
		runner:   NewRunner(sc.Name, settings.Splog),
		dir:      filepath.Join(settings.BaseDir, sc.Dir),
	}
	if sc.ResolvesConflicts {
		s.runner.WithPolicy(settings.policy())
	}
	sc.build(s)
	return s.runner
}

// Run executes the script and logs its summary
func (sc Script) Run(ctx context.Context, settings Settings) (*Runner, error) {
	runner := sc.Runner(settings)
	err := runner.Run(ctx)
	runner.Report()
	return runner, err
}

// session is the state shared by the steps of one script run
type session struct {
	settings Settings
	runner   *Runner
	dir      string
	repo     *git.Repo

	// remote demo
	remoteURL      string
	remoteBranches []string
	clone          *git.Repo
}

func (s *session) cfg() *config.Config {
	return s.settings.Config
}

func (s *session) splog() *output.Splog {
	return s.settings.Splog
}

func (s *session) mainBranch() string {
	return s.cfg().InitialBranch
}

// initRepository creates or reuses the script's repository and attaches it to the runner
func (s *session) initRepository(configureAuthor bool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		opts := git.InitOptions{InitialBranch: s.mainBranch()}
		if configureAuthor {
			opts.AuthorName = s.cfg().Author.Name
			opts.AuthorEmail = s.cfg().Author.Email
		}

		repo, created, err := git.Init(ctx, s.dir, opts)
		if err != nil {
			return err
		}
		s.repo = repo
		s.runner.Attach(repo)

		path := s.splog().Styles().Path.Render(repo.Dir())
		if created {
			s.splog().Info("Initialized empty Git repository in %s", path)
		} else {
			s.splog().Info("Reusing existing repository in %s", path)
		}
		return nil
	}
}

func (s *session) write(name, content string) error {
	if err := s.repo.WriteFile(name, content); err != nil {
		return err
	}
	s.splog().Info("Wrote %s", s.splog().Styles().Path.Render(name))
	return nil
}

func (s *session) commit(ctx context.Context, message string, paths ...string) error {
	return commitIn(ctx, s.splog(), s.repo, message, paths...)
}

func commitIn(ctx context.Context, splog *output.Splog, repo *git.Repo, message string, paths ...string) error {
	sha, err := repo.Commit(ctx, message, paths...)
	if err != nil {
		return err
	}
	splog.Info("Committed %s %s", splog.Styles().Muted.Render(shortSHA(sha)), message)
	return nil
}

// writeAndCommit returns a step that writes one file and commits it
func (s *session) writeAndCommit(name, content, message string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := s.write(name, content); err != nil {
			return err
		}
		return s.commit(ctx, message, name)
	}
}

func (s *session) createBranch(name string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := s.repo.CreateBranch(ctx, name, true); err != nil {
			return err
		}
		s.splog().Info("Created and switched to branch %s", s.splog().Styles().Branch.Render(name))
		return nil
	}
}

func (s *session) switchTo(name string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if err := s.repo.Switch(ctx, name); err != nil {
			return err
		}
		s.splog().Info("Switched to branch %s", s.splog().Styles().Branch.Render(name))
		return nil
	}
}

// merge returns a step merging branch into the current branch.
// A conflict is returned unchanged so the runner can resolve it.
func (s *session) merge(branch string) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		current, err := s.repo.CurrentBranch(ctx)
		if err != nil {
			return err
		}
		res, err := s.repo.Merge(ctx, branch, git.MergeOptions{})
		if err != nil {
			return err
		}
		s.splog().Output(res.Output)

		styles := s.splog().Styles()
		if res.FastForward {
			s.splog().Info("Fast-forwarded %s to %s", styles.Branch.Render(current), styles.Branch.Render(branch))
		} else {
			s.splog().Info("Merged %s into %s with merge commit %s",
				styles.Branch.Render(branch), styles.Branch.Render(current), styles.Muted.Render(shortSHA(res.Commit)))
		}
		return nil
	}
}

func (s *session) showStatus(ctx context.Context) error {
	status, err := s.repo.Status(ctx)
	if err != nil {
		return err
	}
	s.splog().Output(status)
	return nil
}

func (s *session) showLog(ctx context.Context) error {
	lines, err := s.repo.Log(ctx)
	if err != nil {
		return err
	}
	s.splog().Output(strings.Join(s.splog().Styles().LogLines(lines), "\n"))
	return nil
}

func (s *session) showBranches(ctx context.Context) error {
	current, err := s.repo.CurrentBranch(ctx)
	if err != nil {
		return err
	}
	branches, err := s.repo.Branches(ctx)
	if err != nil {
		return err
	}
	s.splog().Output(strings.Join(s.splog().Styles().BranchList(branches, current), "\n"))
	return nil
}

func (s *session) showFile(name string) func(ctx context.Context) error {
	return func(_ context.Context) error {
		content, err := s.repo.ReadFile(name)
		if err != nil {
			return err
		}
		s.splog().Info("%s:", s.splog().Styles().Path.Render(name))
		s.splog().Output(content)
		return nil
	}
}
