package ai

import (
	"time"

	"github.com/mjaros/focusflow/internal/store"
)

// EnhanceRequest carries the fields the user filled in; everything else is
// left for the model.
type EnhanceRequest struct {
	Title         string
	EnergyLevel   store.EnergyLevel
	TimeNeeded    store.TimeNeeded
	Priority      store.Priority
	ExecutionTime int
}

// EnhanceResponse holds only the fields that were absent on the request.
type EnhanceResponse struct {
	Priority      store.Priority    `json:"priority,omitempty"`
	EnergyLevel   store.EnergyLevel `json:"energy_level,omitempty"`
	TimeNeeded    store.TimeNeeded  `json:"time_needed,omitempty"`
	ExecutionTime int               `json:"execution_time,omitempty"`
	Reasoning     string            `json:"reasoning,omitempty"`
}

// SessionConfig is the focus session setup, immutable once the session starts.
type SessionConfig struct {
	AvailableTime int // minutes, positive
	EnergyLevel   store.EnergyLevel
	Location      string
	GoalContext   string
}

// FocusTask is a task candidate proposed by the model. ID is empty when the
// model synthesized an ad-hoc task instead of picking a persisted one.
type FocusTask struct {
	ID               string `json:"id,omitempty"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
	Reasoning        string `json:"reasoning,omitempty"`
}

// CurrentTask is the task the user is working on right now. One instance is
// live at a time; it is replaced on each quick action.
type CurrentTask struct {
	ID          string
	Title       string
	Description string
	StartTime   time.Time
}

// SessionStart is the gateway's answer to a session kickoff.
type SessionStart struct {
	FirstTask      FocusTask `json:"firstTask"`
	WelcomeMessage string    `json:"welcomeMessage"`
}

// Message is one line of the in-session conversation log.
type Message struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// Action is a focus-session quick action.
type Action string

const (
	ActionSkip         Action = "skip"
	ActionCompleted    Action = "completed"
	ActionCompletedEnd Action = "completed_end_session"
	ActionEnd          Action = "end_session"
)

// Terminal reports whether the action ends the session without another
// task selection.
func (a Action) Terminal() bool {
	return a == ActionEnd || a == ActionCompletedEnd
}

// QuickActionContext is everything the gateway needs to pick the next task.
type QuickActionContext struct {
	CurrentTask    CurrentTask
	TaskDuration   int // minutes spent on the current task
	Config         SessionConfig
	Messages       []Message
	SkippedTaskIDs []string
}

// QuickActionResult is the gateway's answer to a quick action. NextTask is nil
// when the session should wind down.
type QuickActionResult struct {
	NextTask *FocusTask `json:"nextTask,omitempty"`
	Message  string     `json:"message"`
}
