package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateTask inserts a new task for the configured user. ID, user, status and
// created_at are assigned here; the caller supplies the remaining fields.
func (s *Store) CreateTask(t Task) (*Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, errors.New("store: task title is required")
	}
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO tasks (id, user_id, title, energy_level, time_needed, priority, status, execution_time, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, 'todo', ?, ?)`,
		id, s.userID, strings.TrimSpace(t.Title), string(t.EnergyLevel), string(t.TimeNeeded), string(t.Priority), t.ExecutionTime, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(id)
}

func (s *Store) GetTask(id string) (*Task, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, title, energy_level, time_needed, priority, status, execution_time, created_at, completed_at
		 FROM tasks WHERE id = ? AND user_id = ?`, id, s.userID,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return t, nil
}

// ListTasks returns the user's tasks, newest first.
func (s *Store) ListTasks(f TaskFilter) ([]Task, error) {
	query := `SELECT id, user_id, title, energy_level, time_needed, priority, status, execution_time, created_at, completed_at
		 FROM tasks WHERE user_id = ?`
	args := []any{s.userID}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	query += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// UpdateTask rewrites the mutable fields of a task. Status moving to done or
// completed stamps completed_at; moving back to todo clears it.
func (s *Store) UpdateTask(t Task) (*Task, error) {
	if strings.TrimSpace(t.Title) == "" {
		return nil, errors.New("store: task title is required")
	}
	if !t.Status.Valid() {
		return nil, fmt.Errorf("store: invalid task status %q", t.Status)
	}
	var completedAt any
	if t.Status == StatusDone || t.Status == StatusCompleted {
		completedAt = time.Now().UTC().Format(time.RFC3339)
	}
	res, err := s.db.Exec(
		`UPDATE tasks SET title = ?, energy_level = ?, time_needed = ?, priority = ?, status = ?, execution_time = ?, completed_at = ?
		 WHERE id = ? AND user_id = ?`,
		strings.TrimSpace(t.Title), string(t.EnergyLevel), string(t.TimeNeeded), string(t.Priority), string(t.Status), t.ExecutionTime,
		completedAt, t.ID, s.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetTask(t.ID)
}

// SetTaskStatus changes only the status of a task.
func (s *Store) SetTaskStatus(id string, status TaskStatus) (*Task, error) {
	t, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}
	t.Status = status
	return s.UpdateTask(*t)
}

func (s *Store) DeleteTask(id string) error {
	res, err := s.db.Exec(`DELETE FROM tasks WHERE id = ? AND user_id = ?`, id, s.userID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(r rowScanner) (*Task, error) {
	t := &Task{}
	var energy, timeNeeded, priority, status string
	var createdAt string
	var completedAt sql.NullString
	if err := r.Scan(&t.ID, &t.UserID, &t.Title, &energy, &timeNeeded, &priority, &status, &t.ExecutionTime, &createdAt, &completedAt); err != nil {
		return nil, err
	}
	t.EnergyLevel = EnergyLevel(energy)
	t.TimeNeeded = TimeNeeded(timeNeeded)
	t.Priority = Priority(priority)
	t.Status = TaskStatus(status)
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if completedAt.Valid && completedAt.String != "" {
		ts, _ := time.Parse(time.RFC3339, completedAt.String)
		t.CompletedAt = &ts
	}
	return t, nil
}
