package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicpulse/portal/internal/config"
	"civicpulse/portal/internal/models"
	"civicpulse/portal/internal/security"
	"civicpulse/portal/internal/session"
	"civicpulse/portal/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSessionCfg = config.SessionConfig{
	CookieName:  "civicpulse_session",
	Secret:      "test-secret",
	IdleTTL:     time.Hour,
	MaxLifetime: time.Hour,
}

func TestNoCache(t *testing.T) {
	engine := gin.New()
	engine.Use(NoCache())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "no-cache, no-store, must-revalidate", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "0", rr.Header().Get("Expires"))
	assert.Equal(t, "no-cache", rr.Header().Get("Pragma"))
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := rr.Header().Get(requestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, rr.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr = httptest.NewRecorder()
	engine.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://portal.example"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://portal.example")
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, req)
	assert.Equal(t, "https://portal.example", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rr.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	engine.ServeHTTP(rr, req)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://portal.example")
	rr = httptest.NewRecorder()
	engine.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRecovery(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID(), Recovery(zerolog.Nop()))
	engine.GET("/", func(c *gin.Context) { panic("boom") })

	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal_server_error"}`, rr.Body.String())
}

func sessionEngine(store *session.RedisStore) *gin.Engine {
	engine := gin.New()
	engine.Use(Session(testSessionCfg, store, zerolog.Nop()))
	engine.GET("/", func(c *gin.Context) {
		sess := CurrentSession(c)
		if sess == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, sess.District)
	})
	return engine
}

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if value != "" {
		req.AddCookie(&http.Cookie{Name: testSessionCfg.CookieName, Value: value})
	}
	return req
}

func TestSession_LoadsValidCookie(t *testing.T) {
	store := testutil.NewSessionStore(t)
	sess, err := store.Create(context.Background(), session.Identity{UserID: 1, Role: models.UserRoleCitizen, District: "Kandy"})
	require.NoError(t, err)
	token, err := security.GenerateSessionToken(testSessionCfg.Secret, sess.ID, time.Hour)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	sessionEngine(store).ServeHTTP(rr, requestWithCookie(token))

	assert.Equal(t, "Kandy", rr.Body.String())
}

func TestSession_IgnoresBadCookies(t *testing.T) {
	store := testutil.NewSessionStore(t)
	engine := sessionEngine(store)

	forged, err := security.GenerateSessionToken("other-secret", "whatever", time.Hour)
	require.NoError(t, err)
	revoked, err := security.GenerateSessionToken(testSessionCfg.Secret, "deleted-session", time.Hour)
	require.NoError(t, err)

	for name, value := range map[string]string{
		"none":    "",
		"garbage": "not-a-token",
		"forged":  forged,
		"revoked": revoked,
	} {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			engine.ServeHTTP(rr, requestWithCookie(value))
			assert.Equal(t, "anonymous", rr.Body.String())
		})
	}
}

func TestSession_StoreFailureAbortsRequest(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := session.NewRedisStore(client, time.Hour)
	sess, err := store.Create(context.Background(), session.Identity{UserID: 1, Role: models.UserRoleOfficial, District: "Kandy"})
	require.NoError(t, err)
	token, err := security.GenerateSessionToken(testSessionCfg.Secret, sess.ID, time.Hour)
	require.NoError(t, err)

	mr.Close()

	rr := httptest.NewRecorder()
	sessionEngine(store).ServeHTTP(rr, requestWithCookie(token))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal_server_error"}`, rr.Body.String())
}
