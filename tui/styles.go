package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#AF2F2F"))

	toggleOnStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"})
	toggleOffStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#E6E6E6"))

	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	ruleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	filterStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	filterActiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#AF2F2F")).
				Bold(true).
				Underline(true)

	rowStyle         = lipgloss.NewStyle()
	rowSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	rowCompleteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D9D9D9")).Strikethrough(true)
	deleteHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#CC9A9A"))
	emptyStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)

	drawerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)

	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("70"))
	statusErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)
