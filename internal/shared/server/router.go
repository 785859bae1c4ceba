package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hub-backend/internal/auth"
	"hub-backend/internal/dashboard"
	"hub-backend/internal/layouts"
	"hub-backend/internal/providers/github"
	"hub-backend/internal/providers/google"
	"hub-backend/internal/providers/microsoft"
	"hub-backend/internal/sessiondata"
	"hub-backend/internal/shared/config"
	"hub-backend/internal/shared/metrics"
	"hub-backend/internal/shared/server/middleware"
	"hub-backend/internal/shared/server/respond"
	"hub-backend/internal/users"
)

// RouterDeps carries the wired handlers into route registration.
type RouterDeps struct {
	Config      config.Config
	Auth        *auth.Handler
	Dashboard   *dashboard.Handler
	Google      *google.Handler
	Microsoft   *microsoft.Handler
	GitHub      *github.Handler
	Users       *users.Handler
	SessionData *sessiondata.Handler
	Layouts     *layouts.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// Routes sit at the root of the URL space; the frontend addresses the
// backend directly.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	perMinute := deps.Config.RateLimitPerMinute
	rateRules := map[string]middleware.RateLimitRule{}
	if perMinute > 0 {
		rateRules[middleware.DefaultRateLimitGroup] = middleware.RateLimitRule{
			Rate:  rate.Limit(float64(perMinute) / 60),
			Burst: perMinute,
		}
	}

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{Rules: rateRules}),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())

	deps.Auth.RegisterRoutes(r)
	deps.Dashboard.RegisterRoutes(r)
	deps.Google.RegisterRoutes(r)
	deps.Microsoft.RegisterRoutes(r)
	deps.GitHub.RegisterRoutes(r)

	// Store-backed routes need a resolved identity.
	protected := r.Group("/")
	protected.Use(middleware.Identity())
	deps.SessionData.RegisterRoutes(protected)
	deps.Layouts.RegisterRoutes(protected)
	deps.Users.RegisterRoutes(protected)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
