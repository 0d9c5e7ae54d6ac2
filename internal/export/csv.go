package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/mjaros/focusflow/internal/store"
)

func ToCSV(tasks []store.Task, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"ID", "Title", "Priority", "Energy", "Time Needed", "Minutes", "Status", "Created", "Completed"}); err != nil {
		return err
	}

	for _, t := range tasks {
		completedStr := ""
		if t.CompletedAt != nil {
			completedStr = t.CompletedAt.Local().Format(time.RFC3339)
		}

		row := []string{
			t.ID,
			t.Title,
			string(t.Priority),
			string(t.EnergyLevel),
			string(t.TimeNeeded),
			fmt.Sprintf("%d", t.ExecutionTime),
			string(t.Status),
			t.CreatedAt.Local().Format(time.RFC3339),
			completedStr,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
