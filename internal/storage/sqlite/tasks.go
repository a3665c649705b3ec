package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"weekplan/internal/models"
)

const taskColumns = `id, title, description, day, priority, completed, created_at, updated_at`

// Weekday ordering for full listings; day tokens do not sort
// lexicographically.
const dayOrderExpr = `CASE day
        WHEN 'monday' THEN 0
        WHEN 'tuesday' THEN 1
        WHEN 'wednesday' THEN 2
        WHEN 'thursday' THEN 3
        WHEN 'friday' THEN 4
        WHEN 'saturday' THEN 5
        ELSE 6
    END`

// TaskUpdate lists the mutable task fields; a nil field is left untouched.
// Unknown fields never reach the store: the request layer rejects them.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Day         *string `json:"day"`
	Priority    *int64  `json:"priority"`
	Completed   *bool   `json:"completed"`
}

// CreateTask inserts a new task at the top of its day (priority 1).
func (s *Store) CreateTask(ctx context.Context, title, description, day string) (models.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, fmt.Errorf("%w: title must not be empty", ErrInvalid)
	}
	if _, ok := models.ValidDays[day]; !ok {
		return models.Task{}, fmt.Errorf("%w: unknown day %q", ErrInvalid, day)
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks(id, title, description, day, priority, completed, created_at, updated_at)
        VALUES(?, ?, ?, ?, 1, 0, ?, ?)`,
		id, title, strings.TrimSpace(description), day, now, now)
	if err != nil {
		return models.Task{}, fmt.Errorf("insert task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// GetTask retrieves a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return models.Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// ListByDay returns the tasks for one day in display order. An unknown day
// token simply matches nothing.
func (s *Store) ListByDay(ctx context.Context, day string) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks
        WHERE day = ? ORDER BY priority ASC, created_at ASC, id ASC`, day)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collectTasks(rows)
}

// ListAll returns every task grouped by weekday, each day in display order.
func (s *Store) ListAll(ctx context.Context) ([]models.Task, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+taskColumns+` FROM tasks
        ORDER BY `+dayOrderExpr+` ASC, priority ASC, created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return collectTasks(rows)
}

// UpdateTask merges the supplied fields into the stored task and refreshes
// updated_at. Concurrent updates to the same row are serialized by the
// database; the later commit wins.
func (s *Store) UpdateTask(ctx context.Context, id string, changes TaskUpdate) (models.Task, error) {
	current, err := s.GetTask(ctx, id)
	if err != nil {
		return models.Task{}, err
	}

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			return models.Task{}, fmt.Errorf("%w: title must not be empty", ErrInvalid)
		}
		current.Title = title
	}
	if changes.Description != nil {
		current.Description = strings.TrimSpace(*changes.Description)
	}
	if changes.Day != nil {
		if _, ok := models.ValidDays[*changes.Day]; !ok {
			return models.Task{}, fmt.Errorf("%w: unknown day %q", ErrInvalid, *changes.Day)
		}
		current.Day = *changes.Day
	}
	if changes.Priority != nil {
		if *changes.Priority < 1 {
			return models.Task{}, fmt.Errorf("%w: priority must be positive", ErrInvalid)
		}
		current.Priority = *changes.Priority
	}
	if changes.Completed != nil {
		current.Completed = *changes.Completed
	}

	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, `UPDATE tasks SET title = ?, description = ?, day = ?, priority = ?, completed = ?, updated_at = ? WHERE id = ?`,
		current.Title, current.Description, current.Day, current.Priority, current.Completed, now, id)
	if err != nil {
		return models.Task{}, fmt.Errorf("update task: %w", err)
	}
	return s.GetTask(ctx, id)
}

// DeleteTask removes a task. Sessions referencing it keep their rows with the
// reference cleared; both steps commit atomically. Remaining priorities in
// the day are not renumbered.
func (s *Store) DeleteTask(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `UPDATE pomodoro_sessions SET task_id = NULL WHERE task_id = ?`, id); err != nil {
			return fmt.Errorf("clear session refs: %w", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// ReorderDay assigns priority i+1 to orderedIDs[i] in a single transaction.
// Every id must name an existing task in the given day; tasks in the day that
// are omitted keep their old priority. A partial reorder is never applied.
func (s *Store) ReorderDay(ctx context.Context, day string, orderedIDs []string) error {
	if _, ok := models.ValidDays[day]; !ok {
		return fmt.Errorf("%w: unknown day %q", ErrInvalid, day)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		now := time.Now().UTC()
		for i, id := range orderedIDs {
			var taskDay string
			err := tx.QueryRowContext(ctx, `SELECT day FROM tasks WHERE id = ?`, id).Scan(&taskDay)
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("task %s: %w", id, ErrNotFound)
			}
			if err != nil {
				return fmt.Errorf("reorder lookup: %w", err)
			}
			if taskDay != day {
				return fmt.Errorf("%w: task %s belongs to %s, not %s", ErrInvalid, id, taskDay, day)
			}
			if _, err := tx.ExecContext(ctx, `UPDATE tasks SET priority = ?, updated_at = ? WHERE id = ?`, i+1, now, id); err != nil {
				return fmt.Errorf("reorder update: %w", err)
			}
		}
		return nil
	})
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (models.Task, error) {
	var t models.Task
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Day, &t.Priority, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func collectTasks(rows *sql.Rows) ([]models.Task, error) {
	defer rows.Close()
	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
