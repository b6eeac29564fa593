package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"taskshare/internal/domain"
	"taskshare/internal/errors"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Auth handlers

func (s *Server) handleLogin(c *gin.Context) {
	url, state := s.api.BeginLogin()
	s.setCookie(c, stateCookie, state, time.Now().Add(10*time.Minute))
	c.Redirect(http.StatusFound, url)
}

func (s *Server) handleCallback(c *gin.Context) {
	state := c.Query("state")
	if expected, err := c.Cookie(stateCookie); err != nil || expected != state {
		s.writeError(c, errors.NewAuthenticationError("login state mismatch", nil))
		return
	}
	s.clearCookie(c, stateCookie)

	session, err := s.api.CompleteLogin(c.Request.Context(), state, c.Query("code"))
	if err != nil {
		s.writeError(c, err)
		return
	}

	s.setCookie(c, sessionCookie, session.Token, session.ExpiresAt)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token":     session.Token,
			"user":      session.Principal,
			"expiresAt": session.ExpiresAt,
		},
	})
}

func (s *Server) handleLogout(c *gin.Context) {
	if token := requestToken(c); token != "" {
		s.api.SignOut(c.Request.Context(), token)
	}
	s.clearCookie(c, sessionCookie)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Signed out"})
}

// API handlers

func (s *Server) handleMe(c *gin.Context) {
	user, err := s.api.CurrentUser(c.Request.Context(), sessionFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

func (s *Server) handleListTasks(c *gin.Context) {
	filters := domain.ParseFilters(c.Query("status"), c.Query("sortBy"), c.Query("q"))

	tasks, err := s.api.ListTasks(c.Request.Context(), sessionFrom(c), filters)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tasks,
		"count":   len(tasks),
		"filters": filters.Normalized(),
	})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.NewInvalidInputError("body", "", err.Error()))
		return
	}
	input, err := req.toInput()
	if err != nil {
		s.writeError(c, err)
		return
	}

	task, err := s.api.CreateTask(c.Request.Context(), sessionFrom(c), input)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": task})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.api.GetTask(c.Request.Context(), sessionFrom(c), taskRef(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req patchTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.NewInvalidInputError("body", "", err.Error()))
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		s.writeError(c, err)
		return
	}

	task, err := s.api.UpdateTask(c.Request.Context(), sessionFrom(c), taskRef(c), patch)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (s *Server) handleToggleTask(c *gin.Context) {
	task, err := s.api.ToggleStatus(c.Request.Context(), sessionFrom(c), taskRef(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.DefaultQuery("confirm", "false"))

	if err := s.api.DeleteTask(c.Request.Context(), sessionFrom(c), taskRef(c), confirmed); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted"})
}

func (s *Server) handleShareTask(c *gin.Context) {
	var req shareTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, errors.NewInvalidInputError("body", "", err.Error()))
		return
	}

	task, err := s.api.ShareTask(c.Request.Context(), sessionFrom(c), taskRef(c), req.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": task})
}

func (s *Server) handleReminders(c *gin.Context) {
	reminders, err := s.api.Reminders(c.Request.Context(), sessionFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reminders, "count": len(reminders)})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.api.Statistics(c.Request.Context(), sessionFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": stats})
}

func taskRef(c *gin.Context) domain.TaskRef {
	return domain.TaskRef{OwnerID: c.Param("owner"), ID: c.Param("id")}
}
