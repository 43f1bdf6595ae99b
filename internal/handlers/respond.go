package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"civicpulse/portal/internal/access"
	"civicpulse/portal/internal/middleware"
	"civicpulse/portal/internal/models"
	"civicpulse/portal/internal/security"
	"civicpulse/portal/internal/service"
	"civicpulse/portal/internal/session"
)

const (
	loginPath     = "/login"
	dashboardPath = "/dashboard"
	indexPath     = "/"
)

type fieldErrorResponse struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// authorize is called first in every protected handler. On anything but
// access.Authorized it has already written the response.
func (h HandlerSet) authorize(c *gin.Context, roles ...models.UserRole) (*session.Session, bool) {
	sess := middleware.CurrentSession(c)
	switch access.Check(sess, roles...) {
	case access.Authorized:
		return sess, true
	case access.Unauthenticated:
		c.Redirect(http.StatusSeeOther, loginPath)
	default:
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	}
	return nil, false
}

func (h HandlerSet) fail(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		fields := make([]fieldErrorResponse, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, fieldErrorResponse{Field: f.Field, Code: f.Code(), Message: f.Message})
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": fields})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, access.ErrUnauthenticated):
		c.Redirect(http.StatusSeeOther, loginPath)
	case errors.Is(err, access.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	default:
		_ = c.Error(err)
		h.log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", middleware.RequestIDFrom(c)).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_server_error"})
	}
}

func (h HandlerSet) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "detail": err.Error()})
}

// issueSessionCookie hands the browser a signed reference to sess. The cookie
// has no Max-Age, so it ends with the browser session.
func (h HandlerSet) issueSessionCookie(c *gin.Context, sess session.Session) error {
	token, err := security.GenerateSessionToken(h.cfg.Session.Secret, sess.ID, h.cfg.Session.MaxLifetime)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, token, 0, "/", "", h.cfg.Session.SecureCookie, true)
	return nil
}

func (h HandlerSet) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", h.cfg.Session.SecureCookie, true)
	middleware.ForgetSession(c)
}

func currentSessionID(c *gin.Context) string {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess.ID
	}
	return ""
}
