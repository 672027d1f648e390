// Package tui provides the interactive prompts used by gitdemo.
//
// It handles:
//   - Terminal detection for deciding whether prompts may be shown
//   - Yes/no confirmation (using bubbletea)
//   - Conflict policy selection (using survey)
package tui
