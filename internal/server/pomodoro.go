package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weekplan/internal/hub"
	"weekplan/internal/models"
)

type createSessionRequest struct {
	TaskID   *string `json:"task_id"`
	Duration *int64  `json:"duration"`
	Type     *string `json:"type"`
}

// handleListSessions returns pomodoro sessions, optionally filtered by the
// referenced task.
func (s *Server) handleListSessions(c *gin.Context) {
	var taskID *string
	if v := c.Query("taskId"); v != "" {
		taskID = &v
	}

	sessions, err := s.store.ListSessions(c.Request.Context(), taskID)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if sessions == nil {
		sessions = []models.PomodoroSession{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// handleCreateSession records the start of a focus or break session and
// announces it.
func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := bindStrict(c, &req); err != nil {
		s.respondBadRequest(c, "malformed request body")
		return
	}
	if req.Duration == nil {
		s.respondBadRequest(c, "duration is required")
		return
	}
	if req.Type == nil || *req.Type == "" {
		s.respondBadRequest(c, "type is required")
		return
	}

	session, err := s.store.CreateSession(c.Request.Context(), req.TaskID, *req.Duration, *req.Type)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
	s.hub.Publish(hub.TopicPomodoro, hub.SessionStarted(session))
}

// handleCompleteSession stamps a session's completion time and announces it.
func (s *Server) handleCompleteSession(c *gin.Context) {
	session, err := s.store.CompleteSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
	s.hub.Publish(hub.TopicPomodoro, hub.SessionCompleted(session))
}
