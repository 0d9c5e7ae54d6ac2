package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mjaros/focusflow/internal/store"
)

type goalsModel struct {
	store  *store.Store
	width  int
	height int

	goals  []store.Goal
	cursor int

	formActive bool
	form       *huh.Form
	formStage  int // 0 = title+type, 1 = timeframe+description
	editingID  string

	formTitle     *string
	formType      *string
	formTimeframe *string
	formDesc      *string
}

func newGoalsModel(s *store.Store) goalsModel {
	title, goalType, timeframe, desc := "", "", "", ""
	return goalsModel{
		store:         s,
		formTitle:     &title,
		formType:      &goalType,
		formTimeframe: &timeframe,
		formDesc:      &desc,
	}
}

func (m *goalsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type goalsDataMsg struct {
	goals []store.Goal
}

func (m goalsModel) refresh() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		goals, err := s.ListGoals()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return goalsDataMsg{goals: goals}
	}
}

func (m goalsModel) deleteGoal(id string) tea.Cmd {
	s := m.store
	refresh := m.refresh()
	return func() tea.Msg {
		if err := s.DeleteGoal(id); err != nil {
			return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
		}
		return refresh()
	}
}

func (m goalsModel) update(msg tea.Msg) (goalsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case goalsDataMsg:
		m.goals = msg.goals
		if m.cursor >= len(m.goals) {
			m.cursor = max(0, len(m.goals)-1)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.goals)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showTypeForm(nil)
		case key.Matches(msg, keys.Edit):
			if len(m.goals) > 0 {
				g := m.goals[m.cursor]
				return m.showTypeForm(&g)
			}
		case key.Matches(msg, keys.Delete):
			if len(m.goals) > 0 {
				return m, m.deleteGoal(m.goals[m.cursor].ID)
			}
		}
	}
	return m, nil
}

// showTypeForm is the first form stage. The timeframe options depend on the
// chosen type, so the timeframe field lives in a second stage.
func (m goalsModel) showTypeForm(g *store.Goal) (goalsModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formType = string(store.GoalShortTerm)
	*m.formTimeframe = ""
	*m.formDesc = ""
	m.editingID = ""

	if g != nil {
		*m.formTitle = g.Title
		*m.formType = string(g.Type)
		*m.formTimeframe = string(g.Timeframe)
		*m.formDesc = g.Description
		m.editingID = g.ID
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Goal").Value(m.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("goal title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Type").
				Options(
					huh.NewOption("Short term", string(store.GoalShortTerm)),
					huh.NewOption("Long term", string(store.GoalLongTerm)),
				).Value(m.formType),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	m.formStage = 0
	return m, m.form.Init()
}

func (m goalsModel) showDetailForm() (goalsModel, tea.Cmd) {
	goalType := store.GoalType(*m.formType)
	if !store.GoalTimeframe(*m.formTimeframe).ValidFor(goalType) {
		*m.formTimeframe = string(store.TimeframesFor(goalType)[0])
	}

	tfOptions := []huh.Option[string]{huh.NewOption("none", "")}
	for _, tf := range store.TimeframesFor(goalType) {
		tfOptions = append(tfOptions, huh.NewOption(string(tf), string(tf)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Timeframe").Options(tfOptions...).Value(m.formTimeframe),
			huh.NewInput().Title("Description (optional)").Value(m.formDesc),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formStage = 1
	return m, m.form.Init()
}

func (m goalsModel) updateForm(msg tea.Msg) (goalsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.formStage == 0 {
			return m.showDetailForm()
		}

		m.formActive = false
		goal := store.Goal{
			ID:          m.editingID,
			Title:       *m.formTitle,
			Type:        store.GoalType(*m.formType),
			Timeframe:   store.GoalTimeframe(*m.formTimeframe),
			Description: *m.formDesc,
		}
		s := m.store
		editing := m.editingID != ""
		return m, tea.Batch(
			func() tea.Msg {
				var err error
				if editing {
					_, err = s.UpdateGoal(goal)
				} else {
					_, err = s.CreateGoal(goal)
				}
				if err != nil {
					return statusMsg{text: fmt.Sprintf("Goal error: %v", err), isError: true}
				}
				return statusMsg{text: fmt.Sprintf("Saved goal %q", goal.Title)}
			},
			m.refresh(),
		)
	}

	return m, cmd
}

func (m goalsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Goal")
		if m.editingID != "" {
			title = titleStyle.Render("Edit Goal")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Goals")

	if len(m.goals) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No goals yet. Press n to set one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for i, g := range m.goals {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		kind := highlightStyle.Render("short")
		if g.Type == store.GoalLongTerm {
			kind = accentStyle.Render("long ")
		}
		tf := ""
		if g.Timeframe != "" {
			tf = mutedStyle.Render(" [" + string(g.Timeframe) + "]")
		}

		rows = append(rows, style.Render(fmt.Sprintf("%s%s", cursor, truncate(g.Title, 40)))+" "+kind+tf)
		if g.Description != "" {
			rows = append(rows, mutedStyle.Render("     "+truncate(g.Description, 60)))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
