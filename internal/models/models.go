package models

import "time"

// Task is a unit of work assigned to one weekday. Priority orders tasks
// within a day, lower value first; ties fall back to creation time.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Day         string    `json:"day"`
	Priority    int64     `json:"priority"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PomodoroSession is a timed focus or break interval, optionally linked to a
// task. The task reference is advisory: deleting the task clears it.
type PomodoroSession struct {
	ID          string     `json:"id"`
	TaskID      *string    `json:"task_id"`
	Duration    int64      `json:"duration"`
	Type        string     `json:"type"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// ValidDays enumerates the weekday tokens a task can be assigned to.
var ValidDays = map[string]struct{}{
	"monday":    {},
	"tuesday":   {},
	"wednesday": {},
	"thursday":  {},
	"friday":    {},
	"saturday":  {},
	"sunday":    {},
}

// Session type tokens.
const (
	SessionWork       = "work"
	SessionShortBreak = "short_break"
	SessionLongBreak  = "long_break"
)

// ValidSessionTypes enumerates the pomodoro session kinds.
var ValidSessionTypes = map[string]struct{}{
	SessionWork:       {},
	SessionShortBreak: {},
	SessionLongBreak:  {},
}

// Nominal session durations in seconds.
const (
	WorkDuration       = 25 * 60
	ShortBreakDuration = 5 * 60
	LongBreakDuration  = 15 * 60
)

// NominalDuration returns the standard duration in seconds for a session
// type, or zero for an unknown token.
func NominalDuration(sessionType string) int64 {
	switch sessionType {
	case SessionWork:
		return WorkDuration
	case SessionShortBreak:
		return ShortBreakDuration
	case SessionLongBreak:
		return LongBreakDuration
	}
	return 0
}
