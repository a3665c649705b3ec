package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"weekplan/internal/hub"
	"weekplan/internal/models"
	"weekplan/internal/storage/sqlite"
)

type createTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Day         *string `json:"day"`
}

type reorderRequest struct {
	Day     string   `json:"day"`
	TaskIDs []string `json:"taskIds"`
}

// handleListTasks fetches all tasks, or one day's tasks when the day query
// parameter is given.
func (s *Server) handleListTasks(c *gin.Context) {
	var tasks []models.Task
	var err error

	if day := c.Query("day"); day != "" {
		tasks, err = s.store.ListByDay(c.Request.Context(), day)
	} else {
		tasks, err = s.store.ListAll(c.Request.Context())
	}
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// handleCreateTask inserts a new task for a weekday and announces it.
func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := bindStrict(c, &req); err != nil {
		s.respondBadRequest(c, "malformed request body")
		return
	}
	if req.Title == nil || *req.Title == "" {
		s.respondBadRequest(c, "title is required")
		return
	}
	if req.Day == nil || *req.Day == "" {
		s.respondBadRequest(c, "day is required")
		return
	}

	task, err := s.store.CreateTask(c.Request.Context(), *req.Title, getString(req.Description), *req.Day)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task": task})
	s.hub.Publish(hub.TopicTasks, hub.TaskCreated(task))
}

// handleGetTask fetches a single task by id.
func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.store.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// handleUpdateTask merges the supplied fields into a task and announces the
// result.
func (s *Server) handleUpdateTask(c *gin.Context) {
	var changes sqlite.TaskUpdate
	if err := bindStrict(c, &changes); err != nil {
		s.respondBadRequest(c, "malformed request body")
		return
	}

	task, err := s.store.UpdateTask(c.Request.Context(), c.Param("id"), changes)
	if err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
	s.hub.Publish(hub.TopicTasks, hub.TaskUpdated(task))
}

// handleDeleteTask removes a task. Pomodoro sessions that referenced it keep
// their rows with the reference cleared.
func (s *Server) handleDeleteTask(c *gin.Context) {
	id := c.Param("id")
	if err := s.store.DeleteTask(c.Request.Context(), id); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
	s.hub.Publish(hub.TopicTasks, hub.TaskDeleted(id))
}

// handleReorderTasks rewrites the priorities of one day's tasks in the order
// supplied and announces the new ordering.
func (s *Server) handleReorderTasks(c *gin.Context) {
	var req reorderRequest
	if err := bindStrict(c, &req); err != nil {
		s.respondBadRequest(c, "malformed request body")
		return
	}
	if req.Day == "" {
		s.respondBadRequest(c, "day is required")
		return
	}

	if err := s.store.ReorderDay(c.Request.Context(), req.Day, req.TaskIDs); err != nil {
		s.respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
	s.hub.Publish(hub.TopicTasks, hub.TasksReordered(req.Day, req.TaskIDs))
}

func getString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
