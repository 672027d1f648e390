package demo

// buildConflict edits the same line of shared.txt on two branches so the
// merge stops on a conflict, which the runner resolves with its policy.
func buildConflict(s *session) {
	trunk := s.mainBranch()
	s.runner.
		Add("Initialize repository", s.initRepository(true)).
		Add("Create shared.txt", s.writeAndCommit("shared.txt", "Initial content\n", "Initial commit")).
		Add("Create feature branch", s.createBranch("feature")).
		Add("Change shared.txt on feature", s.writeAndCommit("shared.txt", "Feature branch changes\n", "Feature branch modifications")).
		Add("Switch back to "+trunk, s.switchTo(trunk)).
		Add("Change shared.txt on "+trunk, s.writeAndCommit("shared.txt", "Main branch changes\n", "Main branch modifications")).
		Add("Merge feature into "+trunk, s.merge("feature")).
		Add("Show resolved shared.txt", s.showFile("shared.txt")).
		Add("Show commit log", s.showLog)
}
