package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"taskshare/internal/auth"
)

const sessionKey = "session"

// loadSession resolves the request's token, if any. Requests without a
// token continue unauthenticated; an unknown or expired token is rejected.
func (s *Server) loadSession(c *gin.Context) {
	token := requestToken(c)
	if token == "" {
		c.Next()
		return
	}

	session, err := s.api.Session(token)
	if err != nil {
		s.clearCookie(c, sessionCookie)
		s.writeError(c, err)
		c.Abort()
		return
	}

	c.Set(sessionKey, session)
	c.Next()
}

// sessionFrom returns the request's session, or nil when unauthenticated
func sessionFrom(c *gin.Context) *auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(*auth.Session); ok {
			return session
		}
	}
	return nil
}

func requestToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(sessionCookie); err == nil {
		return cookie
	}
	return ""
}

func (s *Server) setCookie(c *gin.Context, name, value string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", s.config.Server.CookieSecure, true)
}

func (s *Server) clearCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", s.config.Server.CookieSecure, true)
}
