package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mjaros/focusflow/internal/ai"
	"github.com/mjaros/focusflow/internal/store"
)

type tasksModel struct {
	store   *store.Store
	gateway *ai.Client
	width   int
	height  int

	tasks  []store.Task
	cursor int

	formActive bool
	form       *huh.Form
	editingID  string // empty = creating

	// Form field pointers (survive value copies)
	formTitle    *string
	formPriority *string
	formEnergy   *string
	formTime     *string
	formMinutes  *string
}

func newTasksModel(s *store.Store, gateway *ai.Client) tasksModel {
	title, prio, energy, tn, mins := "", "", "", "", ""
	return tasksModel{
		store:        s,
		gateway:      gateway,
		formTitle:    &title,
		formPriority: &prio,
		formEnergy:   &energy,
		formTime:     &tn,
		formMinutes:  &mins,
	}
}

func (m *tasksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type tasksDataMsg struct {
	tasks []store.Task
}

type taskSavedMsg struct {
	task     *store.Task
	enhanced bool
}

func (m tasksModel) refresh() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		tasks, err := s.ListTasks(store.TaskFilter{})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return tasksDataMsg{tasks: tasks}
	}
}

func (m tasksModel) update(msg tea.Msg) (tasksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case tasksDataMsg:
		m.tasks = msg.tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateList(msg)
	}
	return m, nil
}

func (m tasksModel) updateList(msg tea.KeyMsg) (tasksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(m.tasks) > 0 {
			t := m.tasks[m.cursor]
			return m.showForm(&t)
		}
	case key.Matches(msg, keys.Toggle):
		if len(m.tasks) > 0 {
			t := m.tasks[m.cursor]
			next := store.StatusDone
			if t.Status != store.StatusTodo {
				next = store.StatusTodo
			}
			return m, m.setStatus(t.ID, next)
		}
	case key.Matches(msg, keys.Delete):
		if len(m.tasks) > 0 {
			return m, m.deleteTask(m.tasks[m.cursor].ID)
		}
	}
	return m, nil
}

func (m tasksModel) setStatus(id string, status store.TaskStatus) tea.Cmd {
	s := m.store
	refresh := m.refresh()
	return func() tea.Msg {
		if _, err := s.SetTaskStatus(id, status); err != nil {
			return statusMsg{text: fmt.Sprintf("Update error: %v", err), isError: true}
		}
		return refresh()
	}
}

func (m tasksModel) deleteTask(id string) tea.Cmd {
	s := m.store
	refresh := m.refresh()
	return func() tea.Msg {
		if err := s.DeleteTask(id); err != nil {
			return statusMsg{text: fmt.Sprintf("Delete error: %v", err), isError: true}
		}
		return refresh()
	}
}

func validateOptionalMinutes(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number of minutes or leave empty")
	}
	return nil
}

func (m tasksModel) showForm(t *store.Task) (tasksModel, tea.Cmd) {
	*m.formTitle = ""
	*m.formPriority = ""
	*m.formEnergy = ""
	*m.formTime = ""
	*m.formMinutes = ""
	m.editingID = ""

	if t != nil {
		*m.formTitle = t.Title
		*m.formPriority = string(t.Priority)
		*m.formEnergy = string(t.EnergyLevel)
		*m.formTime = string(t.TimeNeeded)
		if t.ExecutionTime > 0 {
			*m.formMinutes = strconv.Itoa(t.ExecutionTime)
		}
		m.editingID = t.ID
	}

	prioOptions := []huh.Option[string]{huh.NewOption("auto (AI)", "")}
	for _, p := range store.Priorities {
		prioOptions = append(prioOptions, huh.NewOption(string(p), string(p)))
	}
	energyOptions := []huh.Option[string]{huh.NewOption("auto (AI)", "")}
	for _, e := range store.EnergyLevels {
		energyOptions = append(energyOptions, huh.NewOption(string(e), string(e)))
	}
	timeOptions := []huh.Option[string]{huh.NewOption("auto (AI)", "")}
	for _, tn := range store.TimeNeededValues {
		timeOptions = append(timeOptions, huh.NewOption(string(tn), string(tn)))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(m.formTitle).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(m.formPriority),
			huh.NewSelect[string]().Title("Energy").Options(energyOptions...).Value(m.formEnergy),
			huh.NewSelect[string]().Title("Time needed").Options(timeOptions...).Value(m.formTime),
			huh.NewInput().Title("Minutes (empty = auto)").Value(m.formMinutes).
				Validate(validateOptionalMinutes),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m tasksModel) updateForm(msg tea.Msg) (tasksModel, tea.Cmd) {
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
		m.formActive = false
		minutes := 0
		if v := strings.TrimSpace(*m.formMinutes); v != "" {
			minutes, _ = strconv.Atoi(v)
		}
		task := store.Task{
			ID:            m.editingID,
			Title:         *m.formTitle,
			Priority:      store.Priority(*m.formPriority),
			EnergyLevel:   store.EnergyLevel(*m.formEnergy),
			TimeNeeded:    store.TimeNeeded(*m.formTime),
			ExecutionTime: minutes,
		}
		if m.editingID == "" {
			return m, m.createTask(task)
		}
		return m, m.saveEdit(task)
	}

	return m, cmd
}

// createTask persists the task and fills its gaps through the coach. The
// enhancement is best effort; the task is already stored when it runs.
func (m tasksModel) createTask(t store.Task) tea.Cmd {
	gw := m.gateway
	s := m.store
	return func() tea.Msg {
		created, err := s.CreateTask(t)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Create error: %v", err), isError: true}
		}
		if gw == nil || !ai.NeedsEnhancement(*created) {
			return taskSavedMsg{task: created}
		}

		resp := gw.EnhanceTask(context.Background(), ai.EnhanceRequest{
			Title:         created.Title,
			EnergyLevel:   created.EnergyLevel,
			TimeNeeded:    created.TimeNeeded,
			Priority:      created.Priority,
			ExecutionTime: created.ExecutionTime,
		})
		merged := ai.Apply(*created, resp)
		if merged == *created {
			return taskSavedMsg{task: created}
		}
		updated, err := s.UpdateTask(merged)
		if err != nil {
			return taskSavedMsg{task: created}
		}
		return taskSavedMsg{task: updated, enhanced: true}
	}
}

func (m tasksModel) saveEdit(t store.Task) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		current, err := s.GetTask(t.ID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Edit error: %v", err), isError: true}
		}
		t.Status = current.Status
		updated, err := s.UpdateTask(t)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Edit error: %v", err), isError: true}
		}
		return taskSavedMsg{task: updated}
	}
}

func (m tasksModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Task")
		if m.editingID != "" {
			title = titleStyle.Render("Edit Task")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(w).Render(content)
	}

	title := titleStyle.Render("Tasks")

	if len(m.tasks) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No tasks yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	header := mutedStyle.Render(fmt.Sprintf("    %-2s %-36s %-4s %-7s %-8s", "P", "Title", "En", "Time", "Minutes"))
	rows = append(rows, header)

	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := "☐"
		titleText := t.Title
		if t.Status != store.StatusTodo {
			check = "☑"
			style = doneItemStyle
			if i == m.cursor {
				style = selectedItemStyle
			}
		}

		row := fmt.Sprintf("%s%s %s %-36s %-4s %-7s %-8s",
			cursor, check, priorityBadge(t.Priority), truncate(titleText, 36),
			t.EnergyLevel, t.TimeNeeded, formatMinutes(t.ExecutionTime))
		rows = append(rows, style.Render(row))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  e: edit  space: toggle  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
