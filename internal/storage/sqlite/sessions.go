package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"weekplan/internal/models"
)

const sessionColumns = `id, task_id, duration, type, started_at, completed_at`

// CreateSession records the start of a pomodoro session. The duration is
// fixed at the nominal value for the session type; anything else is rejected.
// The task reference is optional but must name an existing task when present.
func (s *Store) CreateSession(ctx context.Context, taskID *string, duration int64, sessionType string) (models.PomodoroSession, error) {
	if _, ok := models.ValidSessionTypes[sessionType]; !ok {
		return models.PomodoroSession{}, fmt.Errorf("%w: unknown session type %q", ErrInvalid, sessionType)
	}
	if nominal := models.NominalDuration(sessionType); duration != nominal {
		return models.PomodoroSession{}, fmt.Errorf("%w: duration %d does not match the %d second %s session", ErrInvalid, duration, nominal, sessionType)
	}
	if taskID != nil {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = ?)`, *taskID).Scan(&exists); err != nil {
			return models.PomodoroSession{}, fmt.Errorf("check task ref: %w", err)
		}
		if !exists {
			return models.PomodoroSession{}, fmt.Errorf("%w: unknown task %q", ErrInvalid, *taskID)
		}
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO pomodoro_sessions(id, task_id, duration, type, started_at, completed_at)
        VALUES(?, ?, ?, ?, ?, NULL)`,
		id, taskID, duration, sessionType, now)
	if err != nil {
		return models.PomodoroSession{}, fmt.Errorf("insert session: %w", err)
	}
	return s.GetSession(ctx, id)
}

// GetSession retrieves a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (models.PomodoroSession, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM pomodoro_sessions WHERE id = ?`, id)
	session, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PomodoroSession{}, fmt.Errorf("session %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.PomodoroSession{}, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// ListSessions returns sessions, most recent first, optionally filtered by
// the referenced task.
func (s *Store) ListSessions(ctx context.Context, taskID *string) ([]models.PomodoroSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM pomodoro_sessions`
	args := []any{}
	if taskID != nil {
		query += ` WHERE task_id = ?`
		args = append(args, *taskID)
	}
	query += ` ORDER BY started_at DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.PomodoroSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// CompleteSession stamps completed_at exactly once. Completing a session
// that already finished returns the row unchanged.
func (s *Store) CompleteSession(ctx context.Context, id string) (models.PomodoroSession, error) {
	current, err := s.GetSession(ctx, id)
	if err != nil {
		return models.PomodoroSession{}, err
	}
	if current.CompletedAt != nil {
		return current, nil
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `UPDATE pomodoro_sessions SET completed_at = ? WHERE id = ? AND completed_at IS NULL`, now, id)
	if err != nil {
		return models.PomodoroSession{}, fmt.Errorf("complete session: %w", err)
	}
	return s.GetSession(ctx, id)
}

func scanSession(row rowScanner) (models.PomodoroSession, error) {
	var session models.PomodoroSession
	var taskID sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(&session.ID, &taskID, &session.Duration, &session.Type, &session.StartedAt, &completedAt)
	if err != nil {
		return models.PomodoroSession{}, err
	}
	if taskID.Valid {
		session.TaskID = &taskID.String
	}
	if completedAt.Valid {
		t := completedAt.Time
		session.CompletedAt = &t
	}
	return session, nil
}
