package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskshare/internal/errors"
)

// statusFor maps an error to its HTTP status code
func statusFor(err error) int {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return http.StatusInternalServerError
	}

	switch appErr.Type {
	case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrorTypeAuthentication:
		return http.StatusUnauthorized
	case errors.ErrorTypePermission:
		return http.StatusForbidden
	case errors.ErrorTypeNotFound:
		return http.StatusNotFound
	case errors.ErrorTypeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if errors.ShouldLogError(err) {
		var logged any = err
		if appErr, ok := errors.AsAppError(err); ok {
			logged = appErr
		}
		s.logger.ErrorContext(c.Request.Context(), "request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", logged)
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   errors.GetUserMessage(err),
		"code":    errors.GetErrorCode(err),
	})
}
