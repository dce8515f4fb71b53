package cli

import "github.com/charmbracelet/lipgloss"

// Output styles. lipgloss drops colour when stdout is not a terminal, so
// piped output stays plain.
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// changeStatus renders the outcome line shared by classes, rules and batch.
func changeStatus(changed bool) string {
	if changed {
		return successStyle.Render("changes saved")
	}
	return mutedStyle.Render("already up-to-date")
}
