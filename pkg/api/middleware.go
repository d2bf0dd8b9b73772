package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

const (
	requestIDKey = "requestID"
	sessionKey   = "session"
	cronTokenHdr = "X-Cron-Token"
)

// requestID tags every request with a fresh id, echoed back in the
// response headers for correlation with the logs.
func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.NewString()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("Handled request",
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}

// cronAuth guards the scheduler routes with the shared token carried
// by the external cron caller.
func (s *Server) cronAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(cronTokenHdr) != s.cronToken {
			s.failure(c, http.StatusUnauthorized, "invalid cron token", nil)
			return
		}
		c.Next()
	}
}

// sessionAuth resolves the bearer token to a session and stores it on
// the request context. Unknown and expired tokens both get 401, with
// distinct messages so the frontend can prompt a re-login.
func (s *Server) sessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || token == "" {
			s.failure(c, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}

		session, err := s.deps.Store.VerifySession(c.Request.Context(), token)
		switch {
		case errors.Is(err, db.ErrSessionExpired):
			s.failure(c, http.StatusUnauthorized, "session expired", nil)
			return
		case errors.Is(err, db.ErrNotFound):
			s.failure(c, http.StatusUnauthorized, "invalid session", nil)
			return
		case err != nil:
			s.failure(c, http.StatusInternalServerError, "failed to verify session", err)
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func currentSession(c *gin.Context) *db.Session {
	return c.MustGet(sessionKey).(*db.Session)
}
