package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"weekplan/internal/hub"
	"weekplan/internal/storage/sqlite"
)

// Server provides the HTTP and websocket handlers for the weekly planner.
type Server struct {
	engine *gin.Engine
	store  *sqlite.Store
	hub    *hub.Hub
	logger *slog.Logger
}

// New constructs the HTTP server with routes and middleware configured.
func New(store *sqlite.Store, broadcast *hub.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithWriter(gin.DefaultWriter, "/ws"))

	srv := &Server{
		engine: router,
		store:  store,
		hub:    broadcast,
		logger: logger,
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// registerRoutes wires the API and websocket handlers together.
func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	{
		api.GET("/healthz", s.handleHealth)

		tasks := api.Group("/tasks")
		{
			tasks.GET("", s.handleListTasks)
			tasks.POST("", s.handleCreateTask)
			tasks.POST("/reorder", s.handleReorderTasks)
			tasks.GET(":id", s.handleGetTask)
			tasks.PUT(":id", s.handleUpdateTask)
			tasks.DELETE(":id", s.handleDeleteTask)
		}

		pomodoro := api.Group("/pomodoro")
		{
			pomodoro.GET("/sessions", s.handleListSessions)
			pomodoro.POST("/sessions", s.handleCreateSession)
			pomodoro.POST("/sessions/:id/complete", s.handleCompleteSession)
		}
	}

	s.engine.GET("/ws", s.handleWebsocket)
}

// handleHealth provides a basic readiness endpoint.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// bindStrict decodes a JSON body, rejecting unknown keys so a typo in a
// partial update never silently passes through to storage.
func bindStrict(c *gin.Context, dst any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondStoreError maps a store failure onto the HTTP error taxonomy:
// missing rows are 404, rejected input is 400, everything else is a 500
// whose detail is logged but not exposed.
func (s *Server) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, sqlite.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, sqlite.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// respondBadRequest logs and returns a 400 with the given message.
func (s *Server) respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
