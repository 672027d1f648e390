package demo

// buildBranching commits on main and on a feature branch in parallel, then
// merges the feature branch back into main.
func buildBranching(s *session) {
	trunk := s.mainBranch()
	s.runner.
		Add("Initialize repository", s.initRepository(true)).
		Add("Create content on "+trunk, s.writeAndCommit("main.txt", "Main branch content\n", "Initial commit on main")).
		Add("Create feature branch", s.createBranch("feature")).
		Add("Add feature work", s.writeAndCommit("feature.txt", "Feature branch content\n", "Add feature")).
		Add("Switch back to "+trunk, s.switchTo(trunk)).
		Add("Add parallel work on "+trunk, s.writeAndCommit("parallel.txt", "Parallel main branch work\n", "Parallel work on main")).
		Add("Merge feature into "+trunk, s.merge("feature")).
		Add("Show branches", s.showBranches).
		Add("Check repository status", s.showStatus)
}
