package demo

import (
	"context"
)

// buildBasics: init, create a file, inspect status, stage, set the author, commit, show the log
func buildBasics(s *session) {
	s.runner.
		Add("Initialize repository", s.initRepository(false)).
		Add("Create sample.txt", func(_ context.Context) error {
			return s.write("sample.txt", "Hello, Git!\n")
		}).
		Add("Check repository status", s.showStatus).
		Add("Stage sample.txt", func(ctx context.Context) error {
			if err := s.repo.Stage(ctx, "sample.txt"); err != nil {
				return err
			}
			s.splog().Info("Staged %s", s.splog().Styles().Path.Render("sample.txt"))
			return nil
		}).
		Add("Configure author", func(ctx context.Context) error {
			author := s.cfg().Author
			if err := s.repo.ConfigureAuthor(ctx, author.Name, author.Email); err != nil {
				return err
			}
			s.splog().Info("Commits will be recorded as %s <%s>", author.Name, author.Email)
			return nil
		}).
		Add("Commit changes", func(ctx context.Context) error {
			return s.commit(ctx, "Initial commit")
		}).
		Add("Show commit log", s.showLog)
}
