package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mjaros/focusflow/internal/store"
)

type statsModel struct {
	store  *store.Store
	width  int
	height int

	completions []store.DailyCompletion
	sessions    []store.SessionRecord
	offset      int // 7-day blocks back from today (0 = current week)

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type statsDataMsg struct {
	completions []store.DailyCompletion
	sessions    []store.SessionRecord
}

func (m statsModel) refresh() tea.Cmd {
	s := m.store
	from, to := m.dateRange()
	return func() tea.Msg {
		completions, err := s.CompletionSummary(from, to)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Stats error: %v", err), isError: true}
		}
		sessions, err := s.ListSessions(5)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Stats error: %v", err), isError: true}
		}
		return statsDataMsg{completions: completions, sessions: sessions}
	}
}

func (m statsModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	end := today.AddDate(0, 0, 1-7*m.offset)
	return end.AddDate(0, 0, -7), end
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		m.completions = msg.completions
		m.sessions = msg.sessions
		m.buildChart()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.offset++
			return m, m.refresh()
		case key.Matches(msg, keys.Right):
			if m.offset > 0 {
				m.offset--
			}
			return m, m.refresh()
		}
	}
	return m, nil
}

func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if m.height > 30 {
		chartHeight = 16
	}

	m.chart = barchart.New(chartWidth, chartHeight)

	from, to := m.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		value := barchart.BarValue{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}
		for _, c := range m.completions {
			if c.Date == dateStr {
				value = barchart.BarValue{
					Name:  "done",
					Value: float64(c.CompletedCount),
					Style: lipgloss.NewStyle().Foreground(colorSuccess),
				}
			}
		}

		bars = append(bars, barchart.BarData{
			Label:  label,
			Values: []barchart.BarValue{value},
		})
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	w := m.width - 4

	from, to := m.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Completed Tasks"), "  ", dateLabel,
	)

	chartView := m.chart.View()
	tableView := m.renderCompletionTable(w)
	sessionView := m.renderRecentSessions()

	nav := mutedStyle.Render("  ←/→: navigate weeks")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, "", tableView, "", sessionView, "", nav,
		),
	)
}

func (m statsModel) renderCompletionTable(w int) string {
	if len(m.completions) == 0 {
		return mutedStyle.Render("  Nothing finished this week")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s", "Date", "Finished", "Minutes")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 36))))

	var total int
	var totalMinutes int64
	for _, c := range m.completions {
		rows = append(rows, fmt.Sprintf("  %-12s %10d %10d", c.Date, c.CompletedCount, c.Minutes))
		total += c.CompletedCount
		totalMinutes += c.Minutes
	}
	rows = append(rows, successStyle.Render(fmt.Sprintf("  %-12s %10d %10d", "Total", total, totalMinutes)))

	return strings.Join(rows, "\n")
}

func (m statsModel) renderRecentSessions() string {
	if len(m.sessions) == 0 {
		return ""
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Recent Sessions"))
	for _, s := range m.sessions {
		goal := s.GoalContext
		if goal == "" {
			goal = "—"
		}
		rows = append(rows, fmt.Sprintf("  %s  %s energy, %s  %s",
			mutedStyle.Render(s.CreatedAt.Format("Jan 02 15:04")),
			highlightStyle.Render(string(s.EnergyLevel)),
			formatMinutes(s.AvailableTime),
			mutedStyle.Render(truncate(goal, 30)),
		))
	}
	return strings.Join(rows, "\n")
}
