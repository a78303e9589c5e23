package ui

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmModel is a single-question yes/no prompt
type ConfirmModel struct {
	question  string
	selection int // 0=Yes, 1=No
	done      bool
	confirmed bool
}

// NewConfirmModel creates a prompt with "No" preselected
func NewConfirmModel(question string) ConfirmModel {
	return ConfirmModel{question: question, selection: 1}
}

func (m ConfirmModel) Init() tea.Cmd {
	return nil
}

func (m ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "left", "right", "h", "l", "tab":
		m.selection = 1 - m.selection
	case "y", "Y":
		m.selection = 0
		return m.finish()
	case "n", "N", "q", "esc", "ctrl+c":
		m.selection = 1
		return m.finish()
	case "enter":
		return m.finish()
	}
	return m, nil
}

func (m ConfirmModel) finish() (tea.Model, tea.Cmd) {
	m.done = true
	m.confirmed = m.selection == 0
	return m, tea.Quit
}

func (m ConfirmModel) View() string {
	if m.done {
		return ""
	}
	question := lipgloss.NewStyle().Foreground(ColorYellow).Bold(true).Render("  " + m.question)
	help := lipgloss.NewStyle().Foreground(ColorDarkGray).Render("  ←/→ select • enter confirm • y/n")
	return fmt.Sprintf("\n%s\n\n%s\n\n%s\n", question, YesNoButtons(m.selection), help)
}

// Confirmed reports whether the user chose Yes
func (m ConfirmModel) Confirmed() bool {
	return m.confirmed
}

// Confirm runs the prompt on the given terminal streams
func Confirm(question string, in io.Reader, out io.Writer) (bool, error) {
	p := tea.NewProgram(NewConfirmModel(question), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return false, fmt.Errorf("running prompt: %w", err)
	}
	return final.(ConfirmModel).Confirmed(), nil
}
