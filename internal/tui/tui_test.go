package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mjaros/focusflow/internal/ai"
	"github.com/mjaros/focusflow/internal/config"
	"github.com/mjaros/focusflow/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory(uuid.NewString())
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T) App {
	t.Helper()
	s := newTestStore(t)
	cfg := &config.Config{
		UserID:      s.UserID(),
		OpenAIModel: config.DefaultModel,
	}
	return NewApp(s, nil, cfg, filepath.Join(t.TempDir(), "config.json"))
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	expected := []string{"Tasks", "Goals", "Focus", "Stats", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewTasks != 0 || viewGoals != 1 || viewFocus != 2 || viewStats != 3 || viewSettings != 4 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00"},
		{time.Second, "00:01"},
		{time.Minute, "01:00"},
		{25 * time.Minute, "25:00"},
		{5*time.Minute + 30*time.Second, "05:30"},
		{-time.Second, "00:00"}, // negative should clamp to 0
	}
	for _, tt := range tests {
		got := formatClock(tt.d)
		if got != tt.want {
			t.Errorf("formatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		m    int
		want string
	}{
		{0, "-"},
		{-5, "-"},
		{25, "25m"},
		{60, "1h"},
		{90, "1h30m"},
		{125, "2h05m"},
	}
	for _, tt := range tests {
		got := formatMinutes(tt.m)
		if got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.m, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate(short, 10) = %q", got)
	}
	if got := truncate("a very long task title", 10); len(got) > 12 {
		t.Errorf("truncate did not shorten: %q", got)
	}
	if got := truncate("žluťoučký kůň utekl", 10); got != "žluťoučký…" {
		t.Errorf("truncate on multibyte title = %q", got)
	}
	for n := 1; n < 8; n++ {
		if got := truncate("příliš žluťoučký kůň", n); !utf8.ValidString(got) {
			t.Errorf("truncate(_, %d) split a rune: %q", n, got)
		}
	}
}

// ============================================================
// Tasks model
// ============================================================

func TestTasksModelData(t *testing.T) {
	s := newTestStore(t)
	s.CreateTask(store.Task{Title: "one"})
	s.CreateTask(store.Task{Title: "two"})

	m := newTasksModel(s, nil)
	tasks, _ := s.ListTasks(store.TaskFilter{})

	m, _ = m.update(tasksDataMsg{tasks: tasks})
	if len(m.tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(m.tasks))
	}
}

func TestTasksModelCursorClamp(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s, nil)
	m.cursor = 5

	m, _ = m.update(tasksDataMsg{tasks: nil})
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 after empty refresh", m.cursor)
	}
}

func TestTasksModelShowForm(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s, nil)

	m, _ = m.showForm(nil)
	if !m.formActive {
		t.Fatal("form should be active")
	}
	if m.editingID != "" {
		t.Fatal("new-task form should not carry an editing id")
	}

	task := store.Task{ID: "x", Title: "edit me", Priority: store.PriorityB, ExecutionTime: 30}
	m, _ = m.showForm(&task)
	if m.editingID != "x" || *m.formTitle != "edit me" || *m.formMinutes != "30" {
		t.Fatalf("edit form not prefilled: id=%q title=%q minutes=%q", m.editingID, *m.formTitle, *m.formMinutes)
	}
}

func TestValidateOptionalMinutes(t *testing.T) {
	if err := validateOptionalMinutes(""); err != nil {
		t.Error("empty should be allowed")
	}
	if err := validateOptionalMinutes("25"); err != nil {
		t.Error("25 should be allowed")
	}
	if err := validateOptionalMinutes("0"); err == nil {
		t.Error("0 should be rejected")
	}
	if err := validateOptionalMinutes("-5"); err == nil {
		t.Error("-5 should be rejected")
	}
	if err := validateOptionalMinutes("soon"); err == nil {
		t.Error("non-numeric should be rejected")
	}
}

func TestTasksRefreshSurfacesStoreFailure(t *testing.T) {
	s := newTestStore(t)
	m := newTasksModel(s, nil)
	s.Close()

	msg := m.refresh()()
	st, ok := msg.(statusMsg)
	if !ok || !st.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

func TestTasksDeleteSurfacesStoreFailure(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(store.Task{Title: "doomed"})
	m := newTasksModel(s, nil)
	s.Close()

	msg := m.deleteTask(task.ID)()
	st, ok := msg.(statusMsg)
	if !ok || !st.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

func TestTasksToggleRefreshesAfterWrite(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(store.Task{Title: "flip me"})
	m := newTasksModel(s, nil)

	msg := m.setStatus(task.ID, store.StatusDone)()
	data, ok := msg.(tasksDataMsg)
	if !ok {
		t.Fatalf("expected task data, got %#v", msg)
	}
	if len(data.tasks) != 1 || data.tasks[0].Status != store.StatusDone {
		t.Fatalf("toggle did not persist: %+v", data.tasks)
	}
}

// ============================================================
// Goals model
// ============================================================

func TestGoalsModelForms(t *testing.T) {
	s := newTestStore(t)
	m := newGoalsModel(s)

	m, _ = m.showTypeForm(nil)
	if !m.formActive || m.formStage != 0 {
		t.Fatal("type form should be the first stage")
	}

	// A long-term type with a leftover short-term timeframe must be coerced.
	*m.formType = string(store.GoalLongTerm)
	*m.formTimeframe = string(store.TimeframeWeek)
	m, _ = m.showDetailForm()
	if m.formStage != 1 {
		t.Fatal("detail form should be the second stage")
	}
	if *m.formTimeframe != string(store.TimeframeQuarter) {
		t.Fatalf("timeframe = %q, want coerced to quarter", *m.formTimeframe)
	}
}

func TestGoalsDeleteSurfacesStoreFailure(t *testing.T) {
	s := newTestStore(t)
	g, _ := s.CreateGoal(store.Goal{Title: "run weekly", Type: store.GoalShortTerm})
	m := newGoalsModel(s)
	s.Close()

	msg := m.deleteGoal(g.ID)()
	st, ok := msg.(statusMsg)
	if !ok || !st.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

// ============================================================
// Focus model
// ============================================================

func TestFocusModelInitialState(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s, nil)

	if m.phase != focusIdle {
		t.Fatal("focus should start idle")
	}
	if m.capturing() {
		t.Fatal("idle focus should not capture keys")
	}
	if m.active() {
		t.Fatal("idle focus should not be active")
	}
	if m.elapsed() != 0 {
		t.Fatal("idle focus should have no elapsed time")
	}
}

func TestFocusModelSessionStart(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s, nil)
	m.phase = focusStarting
	m.busy = true

	m, _ = m.update(sessionStartedMsg{start: ai.SessionStart{
		FirstTask:      ai.FocusTask{ID: "t1", Title: "reply to emails", EstimatedMinutes: 15},
		WelcomeMessage: "Let's go!",
	}})

	if m.phase != focusActive {
		t.Fatal("session should be active after start")
	}
	if m.busy {
		t.Fatal("busy flag should clear")
	}
	if m.current.ID != "t1" || m.current.Title != "reply to emails" {
		t.Fatalf("current task = %+v", m.current)
	}
	if m.currentEstimate != 15 {
		t.Fatalf("estimate = %d, want 15", m.currentEstimate)
	}
	if len(m.messages) != 1 || m.messages[0].Content != "Let's go!" {
		t.Fatalf("transcript = %+v", m.messages)
	}
	if !m.capturing() {
		t.Fatal("active session should capture keys")
	}
}

func TestFocusModelSkipTracksTask(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s, nil)
	m.phase = focusActive
	m.current = ai.CurrentTask{ID: "t1", Title: "reply", StartTime: time.Now()}

	m, cmd := m.doAction(ai.ActionSkip)
	if !m.busy {
		t.Fatal("action should set busy")
	}
	if cmd == nil {
		t.Fatal("action should produce a command")
	}
	if len(m.skippedIDs) != 1 || m.skippedIDs[0] != "t1" {
		t.Fatalf("skipped ids = %v", m.skippedIDs)
	}

	// Ad-hoc tasks have no id and must not pollute the exclusion list.
	m.busy = false
	m.current = ai.CurrentTask{Title: "ad hoc", StartTime: time.Now()}
	m, _ = m.doAction(ai.ActionSkip)
	if len(m.skippedIDs) != 1 {
		t.Fatalf("skipped ids grew for ad-hoc task: %v", m.skippedIDs)
	}
}

func TestFocusModelNextTask(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s, nil)
	m.phase = focusActive
	m.busy = true
	m.current = ai.CurrentTask{ID: "t1", StartTime: time.Now()}

	next := &ai.FocusTask{ID: "t2", Title: "draft proposal", EstimatedMinutes: 45}
	m, _ = m.update(actionDoneMsg{action: ai.ActionCompleted, result: ai.QuickActionResult{
		NextTask: next,
		Message:  "Nice, keep going!",
	}})

	if m.phase != focusActive {
		t.Fatal("session should stay active with a next task")
	}
	if m.current.ID != "t2" {
		t.Fatalf("current id = %q, want t2", m.current.ID)
	}
	if m.busy {
		t.Fatal("busy flag should clear")
	}
}

func TestFocusModelSessionEnds(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s, nil)
	m.phase = focusActive
	m.busy = true
	m.current = ai.CurrentTask{ID: "t1", StartTime: time.Now()}
	m.skippedIDs = []string{"t2"}

	m, _ = m.update(actionDoneMsg{action: ai.ActionEnd, result: ai.QuickActionResult{
		Message: "Great session!",
	}})
	if m.phase != focusDone {
		t.Fatal("terminal action should end the session")
	}
	if m.closing != "Great session!" {
		t.Fatalf("closing = %q", m.closing)
	}

	m = m.reset()
	if m.phase != focusIdle || len(m.skippedIDs) != 0 || len(m.messages) != 0 {
		t.Fatal("reset should clear session state")
	}
}

func TestFocusModelNoNextTaskEndsSession(t *testing.T) {
	s := newTestStore(t)
	m := newFocusModel(s, nil)
	m.phase = focusActive
	m.current = ai.CurrentTask{ID: "t1", StartTime: time.Now()}

	m, _ = m.update(actionDoneMsg{action: ai.ActionSkip, result: ai.QuickActionResult{
		Message: "Nothing left, wrap it up",
	}})
	if m.phase != focusDone {
		t.Fatal("session should end when no next task comes back")
	}
}

func TestFocusCompletionWriteFailureSurfaces(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(store.Task{Title: "report"})
	gw := ai.New(ai.Config{}, s)
	m := newFocusModel(s, gw)
	m.phase = focusActive
	m.current = ai.CurrentTask{ID: task.ID, Title: task.Title, StartTime: time.Now()}
	s.Close()

	m, cmd := m.doAction(ai.ActionCompleted)
	done, ok := cmd().(actionDoneMsg)
	if !ok {
		t.Fatal("expected an action result")
	}
	if done.storeErr == nil {
		t.Fatal("failed completion write was not captured")
	}

	m, statusCmd := m.update(done)
	if m.busy {
		t.Fatal("busy flag should clear despite the failed write")
	}
	if statusCmd == nil {
		t.Fatal("failed write should surface in the status bar")
	}
	st, ok := statusCmd().(statusMsg)
	if !ok || !st.isError {
		t.Fatalf("expected error status, got %#v", st)
	}
}

func TestFocusSessionLogWriteFailureSurfaces(t *testing.T) {
	s := newTestStore(t)
	gw := ai.New(ai.Config{}, s)
	m := newFocusModel(s, gw)
	m.phase = focusStarting
	m.cfg = ai.SessionConfig{AvailableTime: 25, EnergyLevel: store.EnergyM}
	s.Close()

	started, ok := m.startSession()().(sessionStartedMsg)
	if !ok {
		t.Fatal("expected a session start")
	}
	if started.storeErr == nil {
		t.Fatal("failed session log write was not captured")
	}
	if started.start.FirstTask.Title == "" {
		t.Fatal("fallback task missing")
	}

	m, cmd := m.update(started)
	if m.phase != focusActive {
		t.Fatal("session should start despite the failed log write")
	}
	if cmd == nil {
		t.Fatal("failed write should surface in the status bar")
	}
	st, ok := cmd().(statusMsg)
	if !ok || !st.isError {
		t.Fatalf("expected error status, got %#v", st)
	}
}

func TestValidateSessionMinutes(t *testing.T) {
	if err := validateSessionMinutes("25"); err != nil {
		t.Error("25 should be allowed")
	}
	for _, bad := range []string{"", "0", "-10", "half an hour"} {
		if err := validateSessionMinutes(bad); err == nil {
			t.Errorf("%q should be rejected", bad)
		}
	}
}

// ============================================================
// Stats model
// ============================================================

func TestStatsDateRange(t *testing.T) {
	s := newTestStore(t)
	m := newStatsModel(s)

	from, to := m.dateRange()
	if to.Sub(from) != 7*24*time.Hour {
		t.Fatalf("range = %v, want 7 days", to.Sub(from))
	}

	m.offset = 1
	prevFrom, prevTo := m.dateRange()
	if !prevTo.Equal(from) {
		t.Fatalf("offset week should end where current starts: %v vs %v", prevTo, from)
	}
	if prevTo.Sub(prevFrom) != 7*24*time.Hour {
		t.Fatal("offset week should also span 7 days")
	}
}

func TestStatsBuildChart(t *testing.T) {
	s := newTestStore(t)
	task, _ := s.CreateTask(store.Task{Title: "done today", ExecutionTime: 25})
	s.SetTaskStatus(task.ID, store.StatusCompleted)

	m := newStatsModel(s)
	m.setSize(100, 40)
	completions, _ := s.CompletionSummary(time.Now().UTC().AddDate(0, 0, -7), time.Now().UTC().AddDate(0, 0, 1))

	m, _ = m.update(statsDataMsg{completions: completions})
	if m.chart.View() == "" {
		t.Fatal("chart rendered empty")
	}
}

func TestStatsRefreshSurfacesStoreFailure(t *testing.T) {
	s := newTestStore(t)
	m := newStatsModel(s)
	s.Close()

	msg := m.refresh()()
	st, ok := msg.(statusMsg)
	if !ok || !st.isError {
		t.Fatalf("expected error status, got %#v", msg)
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app := newTestApp(t)

	if app.activeView != viewTasks {
		t.Fatal("default view should be tasks")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isCapturing() {
		t.Fatal("nothing should capture keys initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	views := []viewState{viewTasks, viewGoals, viewFocus, viewStats, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := newTestApp(t)
	output := app.View()
	if output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40
	app.status = "test status"

	footer := app.renderFooter()
	if !strings.Contains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppErrorStatusMessage(t *testing.T) {
	app := newTestApp(t)
	app.width = 120
	app.height = 40

	model, _ := app.Update(statusMsg{text: "boom", isError: true})
	updated := model.(App)
	if !updated.statusErr {
		t.Fatal("error flag should stick to the status bar")
	}
	if !strings.Contains(updated.renderFooter(), "boom") {
		t.Fatal("footer should contain the error message")
	}
}

func TestAppHandlesTaskSavedOnAnotherTab(t *testing.T) {
	app := newTestApp(t)
	app.activeView = viewGoals

	task := &store.Task{Title: "enhanced later"}
	model, cmd := app.Update(taskSavedMsg{task: task, enhanced: true})
	updated := model.(App)
	if !strings.Contains(updated.status, "enhanced later") {
		t.Fatalf("saved status dropped, status = %q", updated.status)
	}
	if cmd == nil {
		t.Fatal("saved task should trigger a task list refresh")
	}
}

func TestAppRoutesTaskDataAcrossTabs(t *testing.T) {
	app := newTestApp(t)
	app.activeView = viewStats

	model, _ := app.Update(tasksDataMsg{tasks: []store.Task{{ID: "t1", Title: "routed"}}})
	updated := model.(App)
	if len(updated.tasks.tasks) != 1 {
		t.Fatal("task data dropped while another tab was active")
	}
}

func TestAppCapturingDuringFocusSession(t *testing.T) {
	app := newTestApp(t)
	app.activeView = viewFocus
	app.focus.phase = focusActive

	if !app.isCapturing() {
		t.Fatal("active focus session should capture keys")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles
// ============================================================

func TestPriorityBadge(t *testing.T) {
	for _, p := range store.Priorities {
		if priorityBadge(p) == "" {
			t.Errorf("empty badge for priority %q", p)
		}
	}
	if priorityBadge("") == "" {
		t.Error("unset priority should still render a placeholder")
	}
}
