package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitdemo.dev/gitdemo/internal/conflict"
)

// confirmModel is a simple yes/no confirmation prompt model
type confirmModel struct {
	prompt string
	choice bool
	done   bool
	err    error
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.err = fmt.Errorf("canceled")
			m.done = true
			return m, tea.Quit
		case tea.KeyRunes:
			switch strings.ToLower(string(msg.Runes)) {
			case "y", "yes":
				m.choice = true
				m.done = true
				return m, tea.Quit
			case "n", "no":
				m.choice = false
				m.done = true
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

func (m confirmModel) View() string {
	if m.done {
		return ""
	}
	styleObj := lipgloss.NewStyle().Margin(1, 0)
	yesNo := "[y/N]"
	if m.choice {
		yesNo = "[Y/n]"
	}
	return styleObj.Render(fmt.Sprintf("%s %s\n\n(Press y/yes or n/no, Enter to confirm, Ctrl+C to cancel)", m.prompt, yesNo))
}

// PromptConfirm prompts the user for yes/no confirmation
func PromptConfirm(prompt string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	m := confirmModel{
		prompt: prompt,
		choice: defaultValue,
	}

	p := tea.NewProgram(m, tea.WithInput(os.Stdin), tea.WithOutput(os.Stdout))
	model, err := p.Run()
	if err != nil {
		return false, err
	}

	if finalModel, ok := model.(confirmModel); ok {
		if finalModel.err != nil {
			return false, finalModel.err
		}
		return finalModel.choice, nil
	}

	return false, fmt.Errorf("unexpected model type")
}

// policyOptions renders each policy as "name - description" for the picker
func policyOptions() []string {
	policies := conflict.Policies()
	options := make([]string, len(policies))
	for i, p := range policies {
		options[i] = fmt.Sprintf("%s - %s", p, p.Description())
	}
	return options
}

// policyFromOption maps a picker option back to its policy
func policyFromOption(option string) (conflict.Policy, error) {
	name, _, _ := strings.Cut(option, " - ")
	return conflict.ParsePolicy(name)
}

// SelectPolicy asks the user which conflict policy to apply, starting at current
func SelectPolicy(current conflict.Policy) (conflict.Policy, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return current, err
	}

	options := policyOptions()
	defaultOption := options[0]
	for _, option := range options {
		if p, err := policyFromOption(option); err == nil && p == current {
			defaultOption = option
		}
	}

	var selected string
	prompt := &survey.Select{
		Message: "How should conflicting hunks be resolved?",
		Options: options,
		Default: defaultOption,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return current, fmt.Errorf("canceled")
	}
	return policyFromOption(selected)
}
