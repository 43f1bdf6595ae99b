package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"civicpulse/portal/internal/config"
	"civicpulse/portal/internal/middleware"
	"civicpulse/portal/internal/security"
	"civicpulse/portal/internal/service"
	"civicpulse/portal/internal/session"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Dependencies struct {
	DB        Pinger
	Cache     *redis.Client
	Users     service.UserStore
	Incidents service.IncidentStore
}

type HandlerSet struct {
	log             zerolog.Logger
	cfg             *config.AppConfig
	authService     *service.AuthService
	incidentService *service.IncidentService
	sessions        *session.RedisStore
	db              Pinger
	cache           *redis.Client
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, deps Dependencies) HandlerSet {
	sessions := session.NewRedisStore(deps.Cache, cfg.Session.IdleTTL)
	hasher := security.NewPasswordHasher(security.Argon2Params{
		Time:    cfg.Security.Argon2Time,
		Memory:  cfg.Security.Argon2Memory,
		Threads: cfg.Security.Argon2Threads,
	})

	return HandlerSet{
		log:             log,
		cfg:             cfg,
		authService:     service.NewAuthService(deps.Users, sessions, hasher, log),
		incidentService: service.NewIncidentService(deps.Incidents, log),
		sessions:        sessions,
		db:              deps.DB,
		cache:           deps.Cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	site := router.Group("")
	site.Use(middleware.Session(h.cfg.Session, h.sessions, h.log))
	{
		site.GET("/", h.Index)
		site.GET("/about", h.About)
		site.GET("/privacy-policy", h.PrivacyPolicy)

		site.GET("/register", h.RegisterForm)
		site.POST("/register", h.SubmitRegistration)
		site.GET("/login", h.LoginForm)
		site.POST("/login", h.SubmitLogin)
		site.GET("/logout", h.Logout)

		site.GET("/dashboard", h.Dashboard)
		site.GET("/report", h.ReportForm)
		site.POST("/report", h.SubmitReport)

		site.POST("/resolve", h.Resolve)
		site.POST("/reopen", h.Reopen)
		site.POST("/delete", h.Delete)
	}
}
