package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mjaros/focusflow/internal/store"
)

func sampleTasks() []store.Task {
	completed := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	return []store.Task{
		{
			ID:            "11111111-1111-1111-1111-111111111111",
			Title:         "write report",
			Priority:      store.PriorityA,
			EnergyLevel:   store.EnergyM,
			TimeNeeded:    store.Time25Min,
			ExecutionTime: 25,
			Status:        store.StatusCompleted,
			CreatedAt:     time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC),
			CompletedAt:   &completed,
		},
		{
			ID:        "22222222-2222-2222-2222-222222222222",
			Title:     "water plants",
			Status:    store.StatusTodo,
			CreatedAt: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := ToCSV(sampleTasks(), path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[0][0] != "ID" || records[0][1] != "Title" {
		t.Fatalf("unexpected header: %v", records[0])
	}
	if records[1][1] != "write report" || records[1][2] != "A" {
		t.Fatalf("unexpected first row: %v", records[1])
	}
	if records[2][8] != "" {
		t.Fatalf("open task should have empty completed column, got %q", records[2][8])
	}
}

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	goals := []store.Goal{
		{
			ID:        "33333333-3333-3333-3333-333333333333",
			Title:     "ship v1",
			Type:      store.GoalLongTerm,
			Timeframe: store.TimeframeQuarter,
			CreatedAt: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	if err := ToJSON(sampleTasks(), goals, path); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var got jsonExport
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got.TaskCount != 2 || got.GoalCount != 1 {
		t.Fatalf("counts = %d/%d, want 2/1", got.TaskCount, got.GoalCount)
	}
	if got.Tasks[0].Title != "write report" || got.Tasks[0].Status != "completed" {
		t.Fatalf("unexpected first task: %+v", got.Tasks[0])
	}
	if got.Tasks[1].CompletedAt != "" {
		t.Fatal("open task should omit completed_at")
	}
	if got.Goals[0].Type != "long_term" || got.Goals[0].Timeframe != "quarter" {
		t.Fatalf("unexpected goal: %+v", got.Goals[0])
	}
	if got.ExportedAt == "" {
		t.Fatal("exported_at missing")
	}
}
