package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mjaros/focusflow/internal/ai"
	"github.com/mjaros/focusflow/internal/store"
)

type focusPhase int

const (
	focusIdle focusPhase = iota
	focusSetup
	focusStarting
	focusActive
	focusDone
)

// focusModel drives one focus session from setup to wrap-up. While a session
// is live it owns the keyboard: number keys trigger quick actions and the
// global tab bindings are suspended.
type focusModel struct {
	store   *store.Store
	gateway *ai.Client
	width   int
	height  int

	phase   focusPhase
	cfg     ai.SessionConfig
	current ai.CurrentTask

	currentEstimate int // minutes the coach suggested for the current task
	messages        []ai.Message
	skippedIDs      []string
	busy            bool // an action is in flight, ignore further keys
	closing         string

	form *huh.Form

	formTime     *string
	formEnergy   *string
	formLocation *string
	formGoal     *string
}

func newFocusModel(s *store.Store, gateway *ai.Client) focusModel {
	timeStr, energy, location, goal := "25", string(store.EnergyM), "", ""
	return focusModel{
		store:        s,
		gateway:      gateway,
		formTime:     &timeStr,
		formEnergy:   &energy,
		formLocation: &location,
		formGoal:     &goal,
	}
}

func (m *focusModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

// capturing reports whether the session owns the keyboard.
func (m focusModel) capturing() bool {
	return m.phase != focusIdle
}

func (m focusModel) active() bool {
	return m.phase == focusActive || m.phase == focusStarting
}

func (m focusModel) elapsed() time.Duration {
	if m.phase != focusActive {
		return 0
	}
	return time.Since(m.current.StartTime)
}

type sessionStartedMsg struct {
	start    ai.SessionStart
	storeErr error
}

type actionDoneMsg struct {
	action   ai.Action
	result   ai.QuickActionResult
	storeErr error
}

// reportStoreErr surfaces a failed write in the status bar. The session flow
// itself carries on.
func reportStoreErr(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
	}
}

func (m focusModel) update(msg tea.Msg) (focusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case sessionStartedMsg:
		m.phase = focusActive
		m.busy = false
		m.setCurrent(msg.start.FirstTask)
		m.messages = append(m.messages, ai.Message{
			Role: "assistant", Content: msg.start.WelcomeMessage, Timestamp: time.Now(),
		})
		return m, reportStoreErr(msg.storeErr)

	case actionDoneMsg:
		m.busy = false
		m.messages = append(m.messages, ai.Message{
			Role: "assistant", Content: msg.result.Message, Timestamp: time.Now(),
		})
		if msg.action.Terminal() || msg.result.NextTask == nil {
			m.phase = focusDone
			m.closing = msg.result.Message
			return m, reportStoreErr(msg.storeErr)
		}
		m.setCurrent(*msg.result.NextTask)
		return m, reportStoreErr(msg.storeErr)

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	if m.phase == focusSetup && m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *focusModel) setCurrent(t ai.FocusTask) {
	m.current = ai.CurrentTask{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		StartTime:   time.Now(),
	}
	m.currentEstimate = t.EstimatedMinutes
}

func (m focusModel) updateKeys(msg tea.KeyMsg) (focusModel, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.phase {
	case focusIdle:
		if msg.String() == "enter" || msg.String() == "s" {
			return m.showSetupForm()
		}

	case focusSetup:
		if msg.String() == "esc" {
			m.phase = focusIdle
			m.form = nil
			return m, nil
		}
		return m.updateForm(msg)

	case focusActive:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "1":
			return m.doAction(ai.ActionSkip)
		case "2":
			return m.doAction(ai.ActionCompleted)
		case "3":
			return m.doAction(ai.ActionEnd)
		case "4":
			return m.doAction(ai.ActionCompletedEnd)
		}

	case focusDone:
		if msg.String() == "enter" || msg.String() == "esc" {
			m = m.reset()
			return m, nil
		}
	}
	return m, nil
}

func (m focusModel) reset() focusModel {
	m.phase = focusIdle
	m.messages = nil
	m.skippedIDs = nil
	m.current = ai.CurrentTask{}
	m.currentEstimate = 0
	m.closing = ""
	m.busy = false
	return m
}

func validateSessionMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number of minutes")
	}
	return nil
}

func (m focusModel) showSetupForm() (focusModel, tea.Cmd) {
	*m.formTime = "25"
	*m.formEnergy = string(store.EnergyM)
	*m.formLocation = ""
	*m.formGoal = ""

	energyOptions := make([]huh.Option[string], len(store.EnergyLevels))
	for i, e := range store.EnergyLevels {
		energyOptions[i] = huh.NewOption(string(e), string(e))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("How much time do you have? (minutes)").
				Value(m.formTime).Validate(validateSessionMinutes),
			huh.NewSelect[string]().Title("How is your energy?").
				Options(energyOptions...).Value(m.formEnergy),
			huh.NewInput().Title("Where are you? (optional)").Value(m.formLocation),
			huh.NewInput().Title("What do you want to get out of this session? (optional)").Value(m.formGoal),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.phase = focusSetup
	return m, m.form.Init()
}

func (m focusModel) updateForm(msg tea.Msg) (focusModel, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		minutes, _ := strconv.Atoi(strings.TrimSpace(*m.formTime))
		m.cfg = ai.SessionConfig{
			AvailableTime: minutes,
			EnergyLevel:   store.EnergyLevel(*m.formEnergy),
			Location:      *m.formLocation,
			GoalContext:   *m.formGoal,
		}
		m.form = nil
		m.phase = focusStarting
		m.busy = true
		return m, m.startSession()
	}

	return m, cmd
}

func (m focusModel) startSession() tea.Cmd {
	gw := m.gateway
	s := m.store
	cfg := m.cfg
	return func() tea.Msg {
		// Session history feeds the stats screen; a failed write surfaces in
		// the status bar and the session starts anyway.
		_, recErr := s.RecordSession(store.SessionRecord{
			AvailableTime: cfg.AvailableTime,
			EnergyLevel:   cfg.EnergyLevel,
			Location:      cfg.Location,
			GoalContext:   cfg.GoalContext,
		})
		start := gw.StartSession(context.Background(), cfg)
		return sessionStartedMsg{start: start, storeErr: recErr}
	}
}

func (m focusModel) doAction(action ai.Action) (focusModel, tea.Cmd) {
	m.busy = true

	if action == ai.ActionSkip && m.current.ID != "" {
		m.skippedIDs = append(m.skippedIDs, m.current.ID)
	}

	gw := m.gateway
	s := m.store
	qctx := ai.QuickActionContext{
		CurrentTask:    m.current,
		TaskDuration:   int(time.Since(m.current.StartTime).Minutes()),
		Config:         m.cfg,
		Messages:       m.messages,
		SkippedTaskIDs: m.skippedIDs,
	}
	markCompleted := (action == ai.ActionCompleted || action == ai.ActionCompletedEnd) && m.current.ID != ""

	return m, func() tea.Msg {
		// Persist completion before asking for the next task. A failed write
		// surfaces in the status bar instead of aborting the flow.
		var writeErr error
		if markCompleted {
			_, writeErr = s.SetTaskStatus(qctx.CurrentTask.ID, store.StatusCompleted)
		}
		result := gw.QuickAction(context.Background(), action, qctx)
		return actionDoneMsg{action: action, result: result, storeErr: writeErr}
	}
}

func (m focusModel) view() string {
	w := m.width - 4

	switch m.phase {
	case focusIdle:
		return m.viewIdle(w)
	case focusSetup:
		content := lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Focus Session Setup"), "", m.form.View())
		return panelStyle.Width(w).Render(content)
	case focusStarting:
		content := lipgloss.JoinVertical(lipgloss.Center,
			titleStyle.Render("Focus Session"),
			"",
			coachStyle.Render("Your coach is picking the first task…"),
		)
		return activePanelStyle.Width(w).Render(content)
	case focusActive:
		return m.viewActive(w)
	default:
		return m.viewDone(w)
	}
}

func (m focusModel) viewIdle(w int) string {
	today, _ := m.store.TodayCompleted()
	doneLine := mutedStyle.Render("Nothing finished yet today.")
	if today > 0 {
		doneLine = successStyle.Render(fmt.Sprintf("%d task(s) finished today. Keep it rolling!", today))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		titleStyle.Render("Focus Session"),
		"",
		doneLine,
		"",
		mutedStyle.Render("A session gives you one task at a time, picked for"),
		mutedStyle.Render("your time, energy and goals."),
		"",
		highlightStyle.Render("Press enter to start"),
	)
	return panelStyle.Width(w).Render(content)
}

func (m focusModel) viewActive(w int) string {
	clock := sessionClockStyle.Width(w - 6).Render(formatClock(m.elapsed()))

	estimate := ""
	if m.currentEstimate > 0 {
		estimate = mutedStyle.Render(fmt.Sprintf("  ~%s", formatMinutes(m.currentEstimate)))
	}
	card := taskCardStyle.Width(min(w-6, 70)).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(m.current.Title)+estimate,
		mutedStyle.Render(m.current.Description),
	))

	coach := ""
	if n := len(m.messages); n > 0 {
		coach = coachStyle.Width(min(w-6, 70)).Render(m.messages[n-1].Content)
	}

	controls := mutedStyle.Render("1: skip  2: done, next  3: end  4: done & end")
	if m.busy {
		controls = warningStyle.Render("Thinking…")
	}

	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Center,
		clock,
		"",
		card,
		"",
		coach,
		"",
		controls,
	))
}

func (m focusModel) viewDone(w int) string {
	content := lipgloss.JoinVertical(lipgloss.Center,
		successStyle.Bold(true).Render("Session complete!"),
		"",
		coachStyle.Width(min(w-6, 70)).Render(m.closing),
		"",
		mutedStyle.Render("Press enter to go again"),
	)
	return panelStyle.Width(w).Render(content)
}
