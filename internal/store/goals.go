package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (s *Store) CreateGoal(g Goal) (*Goal, error) {
	if strings.TrimSpace(g.Title) == "" {
		return nil, errors.New("store: goal title is required")
	}
	if !g.Type.Valid() {
		return nil, fmt.Errorf("store: invalid goal type %q", g.Type)
	}
	if g.Timeframe != "" && !g.Timeframe.ValidFor(g.Type) {
		return nil, fmt.Errorf("store: timeframe %q does not fit goal type %q", g.Timeframe, g.Type)
	}
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO goals (id, user_id, title, type, timeframe, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, s.userID, strings.TrimSpace(g.Title), string(g.Type), string(g.Timeframe), g.Description, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert goal: %w", err)
	}
	return s.GetGoal(id)
}

func (s *Store) GetGoal(id string) (*Goal, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, title, type, timeframe, description, created_at
		 FROM goals WHERE id = ? AND user_id = ?`, id, s.userID,
	)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get goal %s: %w", id, err)
	}
	return g, nil
}

// ListGoals returns the user's goals, newest first.
func (s *Store) ListGoals() ([]Goal, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, title, type, timeframe, description, created_at
		 FROM goals WHERE user_id = ? ORDER BY created_at DESC`, s.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

func (s *Store) UpdateGoal(g Goal) (*Goal, error) {
	if strings.TrimSpace(g.Title) == "" {
		return nil, errors.New("store: goal title is required")
	}
	if !g.Type.Valid() {
		return nil, fmt.Errorf("store: invalid goal type %q", g.Type)
	}
	if g.Timeframe != "" && !g.Timeframe.ValidFor(g.Type) {
		return nil, fmt.Errorf("store: timeframe %q does not fit goal type %q", g.Timeframe, g.Type)
	}
	res, err := s.db.Exec(
		`UPDATE goals SET title = ?, type = ?, timeframe = ?, description = ? WHERE id = ? AND user_id = ?`,
		strings.TrimSpace(g.Title), string(g.Type), string(g.Timeframe), g.Description, g.ID, s.userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.GetGoal(g.ID)
}

func (s *Store) DeleteGoal(id string) error {
	res, err := s.db.Exec(`DELETE FROM goals WHERE id = ? AND user_id = ?`, id, s.userID)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanGoal(r rowScanner) (*Goal, error) {
	g := &Goal{}
	var goalType, timeframe, createdAt string
	if err := r.Scan(&g.ID, &g.UserID, &g.Title, &goalType, &timeframe, &g.Description, &createdAt); err != nil {
		return nil, err
	}
	g.Type = GoalType(goalType)
	g.Timeframe = GoalTimeframe(timeframe)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return g, nil
}
