package store

import "time"

// EnergyLevel is the mental energy a task demands (or the user has available).
type EnergyLevel string

const (
	EnergyXS EnergyLevel = "XS"
	EnergyS  EnergyLevel = "S"
	EnergyM  EnergyLevel = "M"
	EnergyL  EnergyLevel = "L"
	EnergyXL EnergyLevel = "XL"
)

var EnergyLevels = []EnergyLevel{EnergyXS, EnergyS, EnergyM, EnergyL, EnergyXL}

func (e EnergyLevel) Valid() bool {
	switch e {
	case EnergyXS, EnergyS, EnergyM, EnergyL, EnergyXL:
		return true
	}
	return false
}

// TimeNeeded is a coarse estimate of how long a task takes.
type TimeNeeded string

const (
	Time1Min  TimeNeeded = "1min"
	Time15Min TimeNeeded = "15min"
	Time25Min TimeNeeded = "25min"
	TimeMore  TimeNeeded = "more"
)

var TimeNeededValues = []TimeNeeded{Time1Min, Time15Min, Time25Min, TimeMore}

func (t TimeNeeded) Valid() bool {
	switch t {
	case Time1Min, Time15Min, Time25Min, TimeMore:
		return true
	}
	return false
}

// Priority follows the Eisenhower-style A-D scale.
type Priority string

const (
	PriorityA Priority = "A"
	PriorityB Priority = "B"
	PriorityC Priority = "C"
	PriorityD Priority = "D"
)

var Priorities = []Priority{PriorityA, PriorityB, PriorityC, PriorityD}

func (p Priority) Valid() bool {
	switch p {
	case PriorityA, PriorityB, PriorityC, PriorityD:
		return true
	}
	return false
}

// TaskStatus tracks the task lifecycle. "done" is the manual toggle on the
// tasks screen; "completed" is terminal and only set by a focus session.
type TaskStatus string

const (
	StatusTodo      TaskStatus = "todo"
	StatusDone      TaskStatus = "done"
	StatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusDone, StatusCompleted:
		return true
	}
	return false
}

type GoalType string

const (
	GoalLongTerm  GoalType = "long_term"
	GoalShortTerm GoalType = "short_term"
)

func (g GoalType) Valid() bool {
	return g == GoalLongTerm || g == GoalShortTerm
}

type GoalTimeframe string

const (
	TimeframeQuarter  GoalTimeframe = "quarter"
	TimeframeHalfYear GoalTimeframe = "half_year"
	TimeframeYear     GoalTimeframe = "year"
	TimeframeMonth    GoalTimeframe = "month"
	TimeframeWeek     GoalTimeframe = "week"
)

// TimeframesFor lists the timeframes that apply to a goal type.
func TimeframesFor(t GoalType) []GoalTimeframe {
	if t == GoalLongTerm {
		return []GoalTimeframe{TimeframeQuarter, TimeframeHalfYear, TimeframeYear}
	}
	return []GoalTimeframe{TimeframeWeek, TimeframeMonth}
}

func (f GoalTimeframe) ValidFor(t GoalType) bool {
	for _, v := range TimeframesFor(t) {
		if v == f {
			return true
		}
	}
	return false
}

type Task struct {
	ID            string
	UserID        string
	Title         string
	EnergyLevel   EnergyLevel // empty until set by user or AI
	TimeNeeded    TimeNeeded
	Priority      Priority
	Status        TaskStatus
	ExecutionTime int // minutes, 0 = unset
	CreatedAt     time.Time
	CompletedAt   *time.Time
}

type Goal struct {
	ID          string
	UserID      string
	Title       string
	Type        GoalType
	Timeframe   GoalTimeframe // optional
	Description string
	CreatedAt   time.Time
}

// SessionRecord is the persisted configuration of one focus session.
type SessionRecord struct {
	ID            string
	UserID        string
	AvailableTime int // minutes
	EnergyLevel   EnergyLevel
	Location      string
	GoalContext   string
	CreatedAt     time.Time
}

// TaskFilter narrows task listings.
type TaskFilter struct {
	Status TaskStatus // empty = all
	Limit  int
}

// DailyCompletion aggregates finished tasks per day for the stats chart.
type DailyCompletion struct {
	Date           string
	CompletedCount int
	Minutes        int64 // summed execution_time of tasks finished that day
}
