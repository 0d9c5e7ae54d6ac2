package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordSession stores the configuration of a focus session the moment it
// starts. Session history feeds the stats screen.
func (s *Store) RecordSession(r SessionRecord) (*SessionRecord, error) {
	if r.AvailableTime <= 0 {
		return nil, fmt.Errorf("store: available time must be positive, got %d", r.AvailableTime)
	}
	id := uuid.NewString()
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO focus_sessions (id, user_id, available_time, energy_level, location, goal_context, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, s.userID, r.AvailableTime, string(r.EnergyLevel), r.Location, r.GoalContext, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	r.ID = id
	r.UserID = s.userID
	r.CreatedAt, _ = time.Parse(time.RFC3339, now)
	return &r, nil
}

// ListSessions returns the user's session history, newest first.
func (s *Store) ListSessions(limit int) ([]SessionRecord, error) {
	query := `SELECT id, user_id, available_time, energy_level, location, goal_context, created_at
		 FROM focus_sessions WHERE user_id = ? ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, limit)
	}
	rows, err := s.db.Query(query, s.userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var r SessionRecord
		var energy, createdAt string
		if err := rows.Scan(&r.ID, &r.UserID, &r.AvailableTime, &energy, &r.Location, &r.GoalContext, &createdAt); err != nil {
			return nil, err
		}
		r.EnergyLevel = EnergyLevel(energy)
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// CompletionSummary aggregates finished tasks (done or completed) per day in
// [from, to), for the stats bar chart.
func (s *Store) CompletionSummary(from, to time.Time) ([]DailyCompletion, error) {
	rows, err := s.db.Query(`
		SELECT date(completed_at) AS day, COUNT(*), COALESCE(SUM(execution_time), 0)
		FROM tasks
		WHERE user_id = ?
		  AND completed_at IS NOT NULL
		  AND completed_at >= ? AND completed_at < ?
		GROUP BY day
		ORDER BY day`,
		s.userID, from.Format(time.RFC3339), to.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("completion summary: %w", err)
	}
	defer rows.Close()

	var out []DailyCompletion
	for rows.Next() {
		var d DailyCompletion
		if err := rows.Scan(&d.Date, &d.CompletedCount, &d.Minutes); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// TodayCompleted counts tasks the user finished today.
func (s *Store) TodayCompleted() (int, error) {
	today := time.Now().UTC().Format("2006-01-02")
	var n sql.NullInt64
	err := s.db.QueryRow(`
		SELECT COUNT(*)
		FROM tasks
		WHERE user_id = ? AND completed_at IS NOT NULL AND date(completed_at) = ?`,
		s.userID, today,
	).Scan(&n)
	if err != nil {
		return 0, err
	}
	return int(n.Int64), nil
}
