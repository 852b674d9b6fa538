package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7C3AED")
	mutedColor   = lipgloss.Color("#6B7280")
	accentColor  = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 1)

	listStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	readerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(1, 2)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1F2937")).
			Foreground(lipgloss.Color("#D1D5DB")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF"))

	unreadStyle = lipgloss.NewStyle().
			Bold(true)

	starStyle = lipgloss.NewStyle().
			Foreground(accentColor)

	quoteStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// applyTheme adjusts the palette for the configured theme. Unknown
// names keep the default dark palette.
func applyTheme(name string) {
	if name != "light" {
		return
	}
	mutedColor = lipgloss.Color("#9CA3AF")
	statusBarStyle = statusBarStyle.
		Background(lipgloss.Color("#E5E7EB")).
		Foreground(lipgloss.Color("#111827"))
	selectedStyle = selectedStyle.
		Background(lipgloss.Color("#C4B5FD")).
		Foreground(lipgloss.Color("#111827"))
	quoteStyle = quoteStyle.Foreground(mutedColor)
	mutedTextStyle = mutedTextStyle.Foreground(mutedColor)
}
