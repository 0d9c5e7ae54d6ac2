package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/mjaros/focusflow/internal/store"
)

const placeholderTitle = "Organize your tasks"

// StartSession asks the coach to pick the first task of a focus session.
// The selection sees the user's open tasks and goals plus the session
// constraints. A failed call or unusable reply falls back to the first todo
// task (or a generic organizing task when none exist); the caller always gets
// a usable result.
func (c *Client) StartSession(ctx context.Context, cfg SessionConfig) SessionStart {
	tasks, err := c.library.ListTasks(store.TaskFilter{Status: store.StatusTodo})
	if err != nil {
		return startFallback(nil, cfg)
	}
	goals, err := c.library.ListGoals()
	if err != nil {
		goals = nil
	}

	reply, err := c.complete(ctx, startPrompt(cfg, tasks, goals), "Start my focus session!", 600)
	if err != nil {
		return startFallback(tasks, cfg)
	}

	var result SessionStart
	if err := decodeReply(reply, &result); err != nil {
		return startFallback(tasks, cfg)
	}
	if strings.TrimSpace(result.FirstTask.Title) == "" {
		return startFallback(tasks, cfg)
	}
	if result.FirstTask.EstimatedMinutes <= 0 {
		result.FirstTask.EstimatedMinutes = fallbackMinutes
	}
	// A hallucinated task ID would break the completion update later.
	if result.FirstTask.ID != "" && !containsTask(tasks, result.FirstTask.ID) {
		result.FirstTask.ID = ""
	}
	if result.WelcomeMessage == "" {
		result.WelcomeMessage = welcomeMessage(cfg)
	}
	return result
}

// QuickAction resolves one in-session action. Terminal actions short-circuit
// with a closing message and no further model call. For skip and completed the
// coach picks at most one next task from the remaining candidates; when the
// model refuses while candidates remain, the first candidate wins.
func (c *Client) QuickAction(ctx context.Context, action Action, qctx QuickActionContext) QuickActionResult {
	if action.Terminal() {
		return QuickActionResult{
			Message: fmt.Sprintf("Great work! Your focus session is over. %q took you %d minutes.",
				qctx.CurrentTask.Title, qctx.TaskDuration),
		}
	}

	tasks, err := c.library.ListTasks(store.TaskFilter{Status: store.StatusTodo})
	if err != nil {
		return continuationResult()
	}
	candidates := filterCandidates(tasks, qctx)

	reply, err := c.complete(ctx, quickActionPrompt(action, qctx, candidates), "Action: "+string(action), 400)
	if err != nil {
		return continuationResult()
	}

	var result QuickActionResult
	if err := decodeReply(reply, &result); err != nil {
		return continuationResult()
	}
	if result.NextTask != nil && strings.TrimSpace(result.NextTask.Title) == "" {
		result.NextTask = nil
	}

	// The model must never re-propose the current task or anything skipped
	// this session; an excluded or unknown ID collapses to the deterministic
	// pick. Ad-hoc tasks (no ID) pass through.
	if result.NextTask != nil && result.NextTask.ID != "" && !containsTask(candidates, result.NextTask.ID) {
		result.NextTask = nil
	}
	if result.NextTask == nil && len(candidates) > 0 {
		result.NextTask = firstCandidate(candidates)
	}
	if result.NextTask != nil && result.NextTask.EstimatedMinutes <= 0 {
		result.NextTask.EstimatedMinutes = fallbackMinutes
	}
	if result.Message == "" {
		result.Message = continuationMessage(action)
	}
	return result
}

func filterCandidates(tasks []store.Task, qctx QuickActionContext) []store.Task {
	skipped := make(map[string]bool, len(qctx.SkippedTaskIDs)+1)
	for _, id := range qctx.SkippedTaskIDs {
		skipped[id] = true
	}
	if qctx.CurrentTask.ID != "" {
		skipped[qctx.CurrentTask.ID] = true
	}

	out := make([]store.Task, 0, len(tasks))
	for _, t := range tasks {
		if skipped[t.ID] {
			continue
		}
		out = append(out, t)
	}
	return out
}

func containsTask(tasks []store.Task, id string) bool {
	for _, t := range tasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

func firstCandidate(candidates []store.Task) *FocusTask {
	t := candidates[0]
	minutes := t.ExecutionTime
	if minutes <= 0 {
		minutes = fallbackMinutes
	}
	return &FocusTask{
		ID:               t.ID,
		Title:            t.Title,
		Description:      "Pick up this task next",
		EstimatedMinutes: minutes,
		Reasoning:        "First remaining candidate",
	}
}

func startFallback(tasks []store.Task, cfg SessionConfig) SessionStart {
	first := FocusTask{
		Title:            placeholderTitle,
		Description:      "Review and sort today's tasks",
		EstimatedMinutes: fallbackMinutes,
		Reasoning:        "Starting with organization sharpens focus",
	}
	if len(tasks) > 0 {
		first.ID = tasks[0].ID
		first.Title = tasks[0].Title
		if tasks[0].ExecutionTime > 0 {
			first.EstimatedMinutes = tasks[0].ExecutionTime
		}
	}
	return SessionStart{FirstTask: first, WelcomeMessage: welcomeMessage(cfg)}
}

func welcomeMessage(cfg SessionConfig) string {
	return fmt.Sprintf("Welcome to your focus session! You have %d minutes of productive work ahead. Let's go!", cfg.AvailableTime)
}

func continuationResult() QuickActionResult {
	return QuickActionResult{Message: "Something went wrong, but the session goes on! What do you want to do next?"}
}

func continuationMessage(action Action) string {
	if action == ActionCompleted {
		return "Nice, one down! On to the next."
	}
	return "Skipped. Let's find a better fit."
}

func startPrompt(cfg SessionConfig, tasks []store.Task, goals []store.Goal) string {
	var b strings.Builder
	b.WriteString("You are a kind but firm AI productivity coach for a person with ADHD. ")
	b.WriteString("You run a focus session and pick the single best task to do right now, given the user's context and open tasks.\n\n")

	b.WriteString("SESSION CONTEXT:\n")
	fmt.Fprintf(&b, "- Available time: %d minutes\n", cfg.AvailableTime)
	fmt.Fprintf(&b, "- Energy level: %s (XS = very low energy, XL = very high energy)\n", cfg.EnergyLevel)
	fmt.Fprintf(&b, "- Location: %s\n", orDefault(cfg.Location, "not given"))
	fmt.Fprintf(&b, "- Session goal: %s\n\n", orDefault(cfg.GoalContext, "general productivity"))

	b.WriteString("THE USER'S GOALS:\n")
	if len(goals) == 0 {
		b.WriteString("No goals defined\n")
	}
	for _, g := range goals {
		fmt.Fprintf(&b, "- %s: %s\n", g.Title, orDefault(g.Description, "no description"))
	}

	b.WriteString("\nAVAILABLE TASKS:\n")
	if len(tasks) == 0 {
		b.WriteString("No open tasks\n")
	}
	for _, t := range tasks {
		fmt.Fprintf(&b, "- %q | id: %s | priority: %s | energy: %s | time: %s\n",
			t.Title, t.ID, t.Priority, t.EnergyLevel, t.TimeNeeded)
	}

	b.WriteString("\nSELECTION RULES (ADHD):\n")
	b.WriteString("- Pick EXACTLY ONE task, the one best done first\n")
	b.WriteString("- Match the task's energy to the user's available energy\n")
	b.WriteString("- Prefer tasks that give a quick win\n")
	b.WriteString("- Priority order A > B > C > D\n")
	b.WriteString("- Be concrete and brief\n\n")

	b.WriteString("Reply as JSON:\n")
	b.WriteString(`{
  "firstTask": {
    "id": "task id or null",
    "title": "task title",
    "description": "concrete first step (one sentence)",
    "estimatedMinutes": number,
    "reasoning": "why this task (max one sentence)"
  },
  "welcomeMessage": "short motivating message (1-2 sentences)"
}`)
	return b.String()
}

func quickActionPrompt(action Action, qctx QuickActionContext, candidates []store.Task) string {
	verb := "skipping the current task and picking the next one"
	if action == ActionCompleted {
		verb = "marking the task done and picking the next one"
	}

	remaining := qctx.Config.AvailableTime - qctx.TaskDuration
	if remaining < 0 {
		remaining = 0
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a kind AI coach in a focus session. The user is %s.\n\n", verb)
	fmt.Fprintf(&b, "PREVIOUS TASK: %q (%d min)\n", qctx.CurrentTask.Title, qctx.TaskDuration)
	fmt.Fprintf(&b, "REMAINING SESSION TIME: ~%d minutes\n", remaining)
	fmt.Fprintf(&b, "ENERGY: %s\n\n", qctx.Config.EnergyLevel)

	b.WriteString("AVAILABLE TASKS (tasks skipped this session are already excluded):\n")
	if len(candidates) == 0 {
		b.WriteString("No more tasks\n")
	}
	for _, t := range candidates {
		fmt.Fprintf(&b, "- %q | id: %s | priority: %s | energy: %s | time: %s\n",
			t.Title, t.ID, t.Priority, t.EnergyLevel, t.TimeNeeded)
	}
	if n := len(qctx.SkippedTaskIDs); n > 0 {
		fmt.Fprintf(&b, "\nTASKS SKIPPED THIS SESSION: %d\n", n)
	}

	b.WriteString("\nADHD RULES:\n")
	b.WriteString("- Pick ONLY ONE next task, or suggest wrapping up\n")
	b.WriteString("- Be brief (max two sentences)\n")
	b.WriteString("- Respect the remaining time and energy\n")
	b.WriteString("- Priority A > B > C\n")
	fmt.Fprintf(&b, "- NEVER pick %q again, it was just %s\n", qctx.CurrentTask.Title, pastTense(action))
	if action == ActionCompleted {
		b.WriteString("- CONGRATULATE the user on finishing the task!\n")
	}

	b.WriteString("\nReply as JSON:\n")
	b.WriteString(`{
  "nextTask": {
    "id": "task id or null",
    "title": "task title",
    "description": "concrete first step",
    "estimatedMinutes": number,
    "reasoning": "why this task"
  },
  "message": "short message with praise/motivation (1-2 sentences)"
}`)
	b.WriteString("\n\nIf there is no time or no tasks left, set nextTask to null and suggest ending the session.")
	return b.String()
}

func pastTense(action Action) string {
	if action == ActionCompleted {
		return "completed"
	}
	return "skipped"
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
