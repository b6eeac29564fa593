// Package web serves the task API over HTTP.
package web

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskshare/internal/api"
	"taskshare/internal/config"
)

const (
	sessionCookie = "taskshare_session"
	stateCookie   = "taskshare_login_state"

	shutdownTimeout = 5 * time.Second
)

// Server is the taskshare HTTP server
type Server struct {
	api    api.BusinessAPI
	config *config.Config
	logger *slog.Logger
	router *gin.Engine
}

// NewServer creates a new web server
func NewServer(businessAPI api.BusinessAPI, cfg *config.Config, logger *slog.Logger) *Server {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	s := &Server{
		api:    businessAPI,
		config: cfg,
		logger: logger,
		router: router,
	}

	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", s.handleHealth)

	authRoutes := router.Group("/auth")
	{
		authRoutes.GET("/login", s.handleLogin)
		authRoutes.GET("/callback", s.handleCallback)
		authRoutes.POST("/logout", s.handleLogout)
	}

	apiRoutes := router.Group("/api", s.loadSession)
	{
		apiRoutes.GET("/me", s.handleMe)
		apiRoutes.GET("/tasks", s.handleListTasks)
		apiRoutes.POST("/tasks", s.handleCreateTask)
		apiRoutes.GET("/tasks/:owner/:id", s.handleGetTask)
		apiRoutes.PATCH("/tasks/:owner/:id", s.handleUpdateTask)
		apiRoutes.POST("/tasks/:owner/:id/toggle", s.handleToggleTask)
		apiRoutes.DELETE("/tasks/:owner/:id", s.handleDeleteTask)
		apiRoutes.POST("/tasks/:owner/:id/share", s.handleShareTask)
		apiRoutes.GET("/reminders", s.handleReminders)
		apiRoutes.GET("/stats", s.handleStats)
	}

	return s
}

// Handler returns the router for use with an external http.Server
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("http server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
