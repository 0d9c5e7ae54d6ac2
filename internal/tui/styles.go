package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mjaros/focusflow/internal/store"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#7AA2F7")
	colorAccent    = lipgloss.Color("#BB9AF7")
	colorMuted     = lipgloss.Color("#565F89")
	colorSuccess   = lipgloss.Color("#9ECE6A")
	colorWarning   = lipgloss.Color("#E0AF68")
	colorError     = lipgloss.Color("#F7768E")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7DCFFF")
)

var priorityColors = map[store.Priority]lipgloss.Color{
	store.PriorityA: colorError,
	store.PriorityB: colorWarning,
	store.PriorityC: colorHighlight,
	store.PriorityD: colorMuted,
}

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 2)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(1, 2)

	// Focus session
	sessionClockStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorSuccess).
				Align(lipgloss.Center)

	coachStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Italic(true)

	taskCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 2)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	accentStyle = lipgloss.NewStyle().
			Foreground(colorAccent)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	doneItemStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)
)

func priorityBadge(p store.Priority) string {
	if p == "" {
		return mutedStyle.Render("·")
	}
	c, ok := priorityColors[p]
	if !ok {
		c = colorMuted
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(string(p))
}
