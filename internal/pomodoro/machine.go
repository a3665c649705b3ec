// Package pomodoro implements the focus-timer countdown state machine.
//
// The machine is the client-side source of truth for the running clock.
// Session start and completion are persisted through a Recorder, but a
// persistence failure never stalls the countdown: the store is telemetry,
// not a dependency.
package pomodoro

import (
	"context"
	"log/slog"

	"weekplan/internal/models"
)

// State of the countdown.
type State int

const (
	StateIdle State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	}
	return "unknown"
}

// Recorder persists session boundaries. *sqlite.Store satisfies it.
type Recorder interface {
	CreateSession(ctx context.Context, taskID *string, duration int64, sessionType string) (models.PomodoroSession, error)
	CompleteSession(ctx context.Context, id string) (models.PomodoroSession, error)
}

// sessionsUntilLongBreak is the classic pomodoro cadence: every fourth
// completed work session earns the long break.
const sessionsUntilLongBreak = 4

// Machine drives one client's timer. It is a single-threaded cooperative
// timer: drive it from one goroutine.
type Machine struct {
	state         State
	nextType      string
	remaining     int64
	workCompleted int

	sessionID string
	taskID    *string

	recorder Recorder
	logger   *slog.Logger
}

// New returns an idle machine whose first session is a work session.
func New(recorder Recorder, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		state:    StateIdle,
		nextType: models.SessionWork,
		recorder: recorder,
		logger:   logger,
	}
}

// State reports the current countdown state.
func (m *Machine) State() State { return m.state }

// NextType reports the type the next started session will have.
func (m *Machine) NextType() string { return m.nextType }

// Remaining reports the seconds left on the running or paused countdown.
func (m *Machine) Remaining() int64 { return m.remaining }

// WorkCompleted reports how many work sessions have finished.
func (m *Machine) WorkCompleted() int { return m.workCompleted }

// TaskID reports the task linked to the current session, if any.
func (m *Machine) TaskID() *string { return m.taskID }

// Start begins the next session, optionally linked to a task. Only an idle
// machine can start; starting in any other state is ignored.
func (m *Machine) Start(ctx context.Context, taskID *string) {
	if m.state != StateIdle {
		return
	}

	m.remaining = models.NominalDuration(m.nextType)
	m.taskID = taskID
	m.sessionID = ""
	m.state = StateRunning

	if m.recorder != nil {
		session, err := m.recorder.CreateSession(ctx, taskID, m.remaining, m.nextType)
		if err != nil {
			m.logger.Warn("session start not persisted", slog.String("error", err.Error()))
		} else {
			m.sessionID = session.ID
		}
	}
}

// Tick advances the countdown by one second and reports whether the session
// just completed. Ticks are never persisted; only completion is.
func (m *Machine) Tick(ctx context.Context) bool {
	if m.state != StateRunning {
		return false
	}
	m.remaining--
	if m.remaining > 0 {
		return false
	}
	m.complete(ctx)
	return true
}

// Pause stops the countdown, preserving the remaining time and the session
// row. Resuming continues the identical session.
func (m *Machine) Pause() {
	if m.state == StateRunning {
		m.state = StatePaused
	}
}

// Resume continues a paused countdown.
func (m *Machine) Resume() {
	if m.state == StatePaused {
		m.state = StateRunning
	}
}

// complete finishes the current session and pre-selects the next type. The
// machine returns to idle; the next session awaits an explicit Start.
func (m *Machine) complete(ctx context.Context) {
	finished := m.nextType

	if finished == models.SessionWork {
		m.workCompleted++
		if m.workCompleted%sessionsUntilLongBreak == 0 {
			m.nextType = models.SessionLongBreak
		} else {
			m.nextType = models.SessionShortBreak
		}
	} else {
		m.nextType = models.SessionWork
	}

	if m.recorder != nil && m.sessionID != "" {
		if _, err := m.recorder.CompleteSession(ctx, m.sessionID); err != nil {
			m.logger.Warn("session completion not persisted",
				slog.String("session", m.sessionID),
				slog.String("error", err.Error()))
		}
	}

	m.state = StateIdle
	m.sessionID = ""
	m.taskID = nil
	m.remaining = 0
}
