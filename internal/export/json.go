package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mjaros/focusflow/internal/store"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	TaskCount  int        `json:"task_count"`
	GoalCount  int        `json:"goal_count"`
	Tasks      []jsonTask `json:"tasks"`
	Goals      []jsonGoal `json:"goals"`
}

type jsonTask struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Priority    string `json:"priority,omitempty"`
	Energy      string `json:"energy_level,omitempty"`
	TimeNeeded  string `json:"time_needed,omitempty"`
	Minutes     int    `json:"execution_time,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	CompletedAt string `json:"completed_at,omitempty"`
}

type jsonGoal struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Timeframe   string `json:"timeframe,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func ToJSON(tasks []store.Task, goals []store.Goal, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		TaskCount:  len(tasks),
		GoalCount:  len(goals),
	}

	for _, t := range tasks {
		completedStr := ""
		if t.CompletedAt != nil {
			completedStr = t.CompletedAt.Local().Format(time.RFC3339)
		}
		out.Tasks = append(out.Tasks, jsonTask{
			ID:          t.ID,
			Title:       t.Title,
			Priority:    string(t.Priority),
			Energy:      string(t.EnergyLevel),
			TimeNeeded:  string(t.TimeNeeded),
			Minutes:     t.ExecutionTime,
			Status:      string(t.Status),
			CreatedAt:   t.CreatedAt.Local().Format(time.RFC3339),
			CompletedAt: completedStr,
		})
	}

	for _, g := range goals {
		out.Goals = append(out.Goals, jsonGoal{
			ID:          g.ID,
			Title:       g.Title,
			Type:        string(g.Type),
			Timeframe:   string(g.Timeframe),
			Description: g.Description,
			CreatedAt:   g.CreatedAt.Local().Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
