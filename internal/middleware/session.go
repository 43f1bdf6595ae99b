package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"civicpulse/portal/internal/config"
	"civicpulse/portal/internal/security"
	"civicpulse/portal/internal/session"
)

const currentSessionKey = "current_session"

// Session resolves the session cookie into a *session.Session on the gin
// context. A missing or invalid cookie leaves the request anonymous; handlers
// decide what that means through access.Check. An unreachable store fails the
// request.
func Session(cfg config.SessionConfig, store *session.RedisStore, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.CookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sessionID, err := security.ParseSessionToken(token, cfg.Secret)
		if err != nil {
			c.Next()
			return
		}

		sess, err := store.Get(c.Request.Context(), sessionID)
		if errors.Is(err, session.ErrSessionNotFound) {
			c.Next()
			return
		}
		if err != nil {
			log.Error().Err(err).Str("request_id", RequestIDFrom(c)).Msg("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
			return
		}

		if err := store.Touch(c.Request.Context(), sess.ID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
			log.Warn().Err(err).Str("session_id", sess.ID).Msg("session touch failed")
		}

		c.Set(currentSessionKey, &sess)
		c.Next()
	}
}

// CurrentSession returns the session attached by Session, or nil.
func CurrentSession(c *gin.Context) *session.Session {
	val, ok := c.Get(currentSessionKey)
	if !ok {
		return nil
	}
	sess, _ := val.(*session.Session)
	return sess
}

// ForgetSession detaches the session from the rest of the request.
func ForgetSession(c *gin.Context) {
	c.Set(currentSessionKey, (*session.Session)(nil))
}
