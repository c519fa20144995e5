package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-builder/internal/shared/config"
)

type stubRoutes struct{}

func (stubRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/score", func(c *gin.Context) { c.Status(http.StatusOK) })
	rg.POST("/optimize", func(c *gin.Context) { c.Status(http.StatusOK) })
	rg.GET("/resumes", func(c *gin.Context) { c.Status(http.StatusOK) })
	rg.GET("/templates", func(c *gin.Context) { c.Status(http.StatusOK) })
}

type nilRoutes struct{}

func (*nilRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	panic("nil handler registered")
}

func newTestRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	var missing *nilRoutes
	return NewRouter(RouterDeps{
		Config:        cfg,
		ResumeHandler: stubRoutes{},
		UserHandler:   missing,
	})
}

func TestPublicRoutes(t *testing.T) {
	router := newTestRouter(config.Config{})

	for _, path := range []string{"/api/v1/health", "/metrics", "/api/v1/templates"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.Code)
		}
	}
}

func TestProtectedRoutesRequireIdentity(t *testing.T) {
	router := newTestRouter(config.Config{})
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/resumes", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.Code)
	}
}

func TestStatelessEngineRoutesNeedNoIdentity(t *testing.T) {
	router := newTestRouter(config.Config{RateLimitRPS: 5, RateLimitBurst: 20})
	for _, path := range []string{"/api/v1/score", "/api/v1/optimize"} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 without identity, got %d", path, resp.Code)
		}
	}
}

func TestUnknownRouteEnvelope(t *testing.T) {
	router := newTestRouter(config.Config{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	req.Header.Set("X-Guest-Id", "g1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `"not_found"`) {
		t.Fatalf("expected error envelope, got %s", resp.Body.String())
	}
}

func TestEngineRoutesAreRateLimited(t *testing.T) {
	router := newTestRouter(config.Config{RateLimitRPS: 0.001, RateLimitBurst: 1})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/score", nil)
		req.Header.Set("X-Guest-Id", "g1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		codes = append(codes, resp.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status codes %v", codes)
	}
}

func TestRateGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]string{
		http.MethodPost + " /api/v1/job-descriptions":     RateGroupUpload,
		http.MethodGet + " /api/v1/job-descriptions":      RateGroupDefault,
		http.MethodPost + " /api/v1/optimize":             RateGroupEngine,
		http.MethodPost + " /api/v1/resumes/abc/optimize": RateGroupEngine,
		http.MethodGet + " /api/v1/resumes":               RateGroupDefault,
	}
	for key, want := range cases {
		parts := strings.SplitN(key, " ", 2)
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(parts[0], parts[1], nil)
		if got := rateGroup(c); got != want {
			t.Fatalf("%s: expected %s, got %s", key, want, got)
		}
	}
}

func TestAddr(t *testing.T) {
	if Addr("") != ":8080" || Addr(":9000") != ":9000" || Addr("9000") != ":9000" {
		t.Fatalf("unexpected Addr normalization")
	}
}
