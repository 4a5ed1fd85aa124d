package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cv-backend/internal/cvs"
	"cv-backend/internal/services/health"
	"cv-backend/internal/shared/config"
	"cv-backend/internal/shared/metrics"
	"cv-backend/internal/shared/server/middleware"
	"cv-backend/internal/shared/server/respond"
)

// RouterDeps carries the handlers the router mounts.
type RouterDeps struct {
	Config config.Config
	CVs    *cvs.Handler
	Health *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
// Routes are served at the root and again under /api/v1.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		metrics.Middleware(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}
	healthHandler := func(c *gin.Context) {
		status, ok := healthSvc.Status(c.Request.Context())
		if !ok {
			respond.JSON(c, http.StatusServiceUnavailable, status)
			return
		}
		respond.OK(c, status)
	}

	r.GET("/metrics", metrics.Handler())
	for _, rg := range []*gin.RouterGroup{&r.RouterGroup, r.Group("/api/v1")} {
		rg.GET("/health", healthHandler)
		if deps.CVs != nil {
			deps.CVs.RegisterRoutes(rg)
		}
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":5000"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
