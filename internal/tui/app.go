package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mjaros/focusflow/internal/ai"
	"github.com/mjaros/focusflow/internal/config"
	"github.com/mjaros/focusflow/internal/export"
	"github.com/mjaros/focusflow/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	tasks    tasksModel
	goals    goalsModel
	focus    focusModel
	stats    statsModel
	settings settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(s *store.Store, gateway *ai.Client, cfg *config.Config, cfgPath string) App {
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		activeView: viewTasks,
		tasks:      newTasksModel(s, gateway),
		goals:      newGoalsModel(s),
		focus:      newFocusModel(s, gateway),
		stats:      newStatsModel(s),
		settings:   newSettingsModel(cfg, cfgPath),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.tasks.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.tasks.setSize(a.width, contentHeight)
		a.goals.setSize(a.width, contentHeight)
		a.focus.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// Forms and a live focus session capture input before global keys.
		if a.isCapturing() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewTasks
			return a, a.tasks.refresh()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewGoals
			return a, a.goals.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewFocus
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewStats
			return a, a.stats.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// The tick keeps the session clock moving.
		return a, tickCmd()

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	// Saved tasks and their list refreshes can land after the user moved to
	// another tab; handle them here so they are not dropped.
	case taskSavedMsg:
		a.status = fmt.Sprintf("Saved %q", msg.task.Title)
		if msg.enhanced {
			a.status = fmt.Sprintf("Saved %q (AI filled the gaps)", msg.task.Title)
		}
		a.statusErr = false
		return a, a.tasks.refresh()

	case tasksDataMsg:
		var cmd tea.Cmd
		a.tasks, cmd = a.tasks.update(msg)
		return a, cmd

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTasks:
		a.tasks, cmd = a.tasks.update(msg)
	case viewGoals:
		a.goals, cmd = a.goals.update(msg)
	case viewFocus:
		a.focus, cmd = a.focus.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isCapturing() bool {
	switch a.activeView {
	case viewTasks:
		return a.tasks.formActive
	case viewGoals:
		return a.goals.formActive
	case viewFocus:
		return a.focus.capturing()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTasks:
		return a.tasks.refresh()
	case viewGoals:
		return a.goals.refresh()
	case viewStats:
		return a.stats.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTasks:
		content = a.tasks.view()
	case viewGoals:
		content = a.goals.view()
	case viewFocus:
		content = a.focus.view()
	case viewStats:
		content = a.stats.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("focusflow")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Session indicator in footer
	sessionInfo := ""
	if a.focus.active() {
		sessionInfo = successStyle.Render(" ● " + formatClock(a.focus.elapsed()))
	}

	left := footerStyle.Render(helpView)
	right := sessionInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV (tasks)", "JSON (tasks + goals)"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	return func() tea.Msg {
		tasks, err := a.store.ListTasks(store.TaskFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("focusflow-export-%s.csv", dateStr))
			if err := export.ToCSV(tasks, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			goals, err := a.store.ListGoals()
			if err != nil {
				return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
			}
			path = filepath.Join(home, fmt.Sprintf("focusflow-export-%s.json", dateStr))
			if err := export.ToJSON(tasks, goals, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
