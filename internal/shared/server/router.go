package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/accounts"
	googleauth "cvbuilder-backend/internal/auth"
	"cvbuilder-backend/internal/resumes"
	"cvbuilder-backend/internal/services/health"
	sharedauth "cvbuilder-backend/internal/shared/auth"
	"cvbuilder-backend/internal/shared/config"
	"cvbuilder-backend/internal/shared/metrics"
	"cvbuilder-backend/internal/shared/server/middleware"
	"cvbuilder-backend/internal/shared/server/respond"
	"cvbuilder-backend/internal/usage"
)

// RouterDeps carries the constructed handlers the router mounts. Bootstrap
// builds these; the router only decides paths and middleware.
type RouterDeps struct {
	Config         config.Config
	Tokens         *sharedauth.Manager
	Health         *health.Service
	AccountHandler *accounts.Handler
	ResumeHandler  *resumes.Handler
	UsageHandler   *usage.Handler
	GoogleAuth     *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env, deps.Tokens),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if ok, _ := status["ok"].(bool); !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})

	// Credential endpoints get a tighter token bucket than the rest of the
	// API; everything else is unlimited.
	authAPI := api.Group("", middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"AUTH": {Rate: 5, Burst: 20},
		},
		DefaultGroup: "AUTH",
	}))
	deps.AccountHandler.RegisterAuthRoutes(authAPI)
	deps.GoogleAuth.RegisterRoutes(authAPI)

	deps.ResumeHandler.RegisterPublicRoutes(api)

	deps.AccountHandler.RegisterRoutes(api)
	deps.ResumeHandler.RegisterRoutes(api)
	deps.UsageHandler.RegisterRoutes(api)

	if deps.Config.Env == "dev" {
		dev := api.Group("/dev")
		dev.GET("/metrics", metrics.Handler())
	}

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
