package hub

import "weekplan/internal/models"

// Event type discriminators pushed over the real-time channel.
const (
	EventTaskCreated      = "task_created"
	EventTaskUpdated      = "task_updated"
	EventTaskDeleted      = "task_deleted"
	EventTasksReordered   = "tasks_reordered"
	EventSessionStarted   = "session_started"
	EventSessionCompleted = "session_completed"
)

// Event is the wire payload broadcast to subscribers. Type is always set;
// the remaining fields depend on it.
type Event struct {
	Type    string                  `json:"type"`
	Task    *models.Task            `json:"task,omitempty"`
	ID      string                  `json:"id,omitempty"`
	Day     string                  `json:"day,omitempty"`
	TaskIDs []string                `json:"taskIds,omitempty"`
	Session *models.PomodoroSession `json:"session,omitempty"`
}

// TaskCreated builds the event announcing a new task.
func TaskCreated(t models.Task) Event {
	return Event{Type: EventTaskCreated, Task: &t}
}

// TaskUpdated builds the event announcing changed task fields.
func TaskUpdated(t models.Task) Event {
	return Event{Type: EventTaskUpdated, Task: &t}
}

// TaskDeleted builds the event announcing a removed task.
func TaskDeleted(id string) Event {
	return Event{Type: EventTaskDeleted, ID: id}
}

// TasksReordered builds the event announcing new priorities for a day.
func TasksReordered(day string, taskIDs []string) Event {
	return Event{Type: EventTasksReordered, Day: day, TaskIDs: taskIDs}
}

// SessionStarted builds the event announcing a started pomodoro session.
func SessionStarted(s models.PomodoroSession) Event {
	return Event{Type: EventSessionStarted, Session: &s}
}

// SessionCompleted builds the event announcing a finished pomodoro session.
func SessionCompleted(s models.PomodoroSession) Event {
	return Event{Type: EventSessionCompleted, Session: &s}
}
