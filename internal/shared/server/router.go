package server

import (
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/metrics"
	"resume-builder/internal/shared/server/middleware"
	"resume-builder/internal/shared/server/respond"
)

// APIPrefix is the base path of every versioned route.
const APIPrefix = "/api/v1"

// Rate limit groups.
const (
	RateGroupDefault = "DEFAULT"
	RateGroupEngine  = "ENGINE"
	RateGroupUpload  = "UPLOAD"
)

// RouteRegistrar attaches a feature's routes to the API group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries the feature handlers. Nil handlers are skipped.
type RouterDeps struct {
	Config                config.Config
	ResumeHandler         RouteRegistrar
	JobDescriptionHandler RouteRegistrar
	TemplateHandler       RouteRegistrar
	AccountHandler        RouteRegistrar
	UserHandler           RouteRegistrar
	GoogleAuth            RouteRegistrar
	RateLimiter           *middleware.RateLimiter
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(publicPrefixes()...),
		middleware.RateLimit(rateLimitConfig(deps)),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(APIPrefix)
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})

	for _, h := range []RouteRegistrar{
		deps.GoogleAuth,
		deps.UserHandler,
		deps.TemplateHandler,
		deps.ResumeHandler,
		deps.JobDescriptionHandler,
		deps.AccountHandler,
	} {
		if isNil(h) {
			continue
		}
		h.RegisterRoutes(api)
	}

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "not_found", "route not found", nil)
	})

	return r
}

// publicPrefixes lists routes served without an identity. The stateless
// engine routes touch no stored data.
func publicPrefixes() []string {
	return []string{
		APIPrefix + "/health",
		APIPrefix + "/auth/google/",
		APIPrefix + "/templates",
		APIPrefix + "/score",
		APIPrefix + "/optimize",
		"/metrics",
	}
}

func rateLimitConfig(deps RouterDeps) middleware.RateLimitConfig {
	rps := deps.Config.RateLimitRPS
	burst := deps.Config.RateLimitBurst
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			RateGroupDefault: {Rate: rps, Burst: burst},
			RateGroupEngine:  {Rate: rps, Burst: burst},
			RateGroupUpload:  {Rate: rps / 5, Burst: max(burst/5, 1)},
		},
		DefaultGroup: RateGroupDefault,
		GroupFor:     rateGroup,
		Limiter:      deps.RateLimiter,
	}
}

func rateGroup(c *gin.Context) string {
	path := c.Request.URL.Path
	switch {
	case c.Request.Method == http.MethodPost && path == APIPrefix+"/job-descriptions":
		return RateGroupUpload
	case c.Request.Method == http.MethodPost && (path == APIPrefix+"/score" || path == APIPrefix+"/optimize" || strings.HasSuffix(path, "/optimize")):
		return RateGroupEngine
	default:
		return RateGroupDefault
	}
}

// isNil reports whether h is nil or a typed nil pointer.
func isNil(h RouteRegistrar) bool {
	if h == nil {
		return true
	}
	v := reflect.ValueOf(h)
	return v.Kind() == reflect.Pointer && v.IsNil()
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
