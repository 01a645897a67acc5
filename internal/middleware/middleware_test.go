package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/BruksfildServices01/mediplus/internal/auth"
	"github.com/BruksfildServices01/mediplus/internal/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(tokens *auth.TokenManager) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(tokens))
	r.GET("/me", func(c *gin.Context) {
		id, role := Caller(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})
	r.GET("/admin", RequireRole("admin"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	tokens := auth.NewTokenManager("secret", time.Hour)
	r := newRouter(tokens)

	patient, _, _ := tokens.Issue(7, "patient")
	admin, _, _ := tokens.Issue(1, "admin")

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"missing header", "/me", "", http.StatusUnauthorized},
		{"not bearer", "/me", "Basic abc", http.StatusUnauthorized},
		{"bad token", "/me", "Bearer nope", http.StatusUnauthorized},
		{"valid token", "/me", "Bearer " + patient, http.StatusOK},
		{"wrong role", "/admin", "Bearer " + patient, http.StatusForbidden},
		{"right role", "/admin", "Bearer " + admin, http.StatusNoContent},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("%s: got %d, want %d (%s)", tt.name, rec.Code, tt.want, rec.Body.String())
		}
	}
}

func TestCORSMiddleware_AllowedOrigins(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://localhost:3000/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		method string
		origin string
		want   int
		echoed bool
	}{
		{"preflight allowed", http.MethodOptions, "http://localhost:3000", http.StatusNoContent, true},
		{"preflight foreign", http.MethodOptions, "https://evil.example", http.StatusForbidden, false},
		{"get foreign", http.MethodGet, "https://evil.example", http.StatusOK, false},
		{"get same-origin", http.MethodGet, "", http.StatusOK, false},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, "/x", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, rec.Code, tt.want)
		}
		got := rec.Header().Get("Access-Control-Allow-Origin")
		if tt.echoed && got != tt.origin {
			t.Errorf("%s: origin not echoed, got %q", tt.name, got)
		}
		if !tt.echoed && got != "" {
			t.Errorf("%s: unexpected allow-origin %q", tt.name, got)
		}
	}
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(CORSMiddleware([]string{"*"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "https://anywhere.example" {
		t.Fatalf("origin not echoed")
	}
}

func TestMetrics_CountsByRoute(t *testing.T) {
	t.Parallel()

	m := metrics.NewCollector("test", prometheus.NewRegistry())
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/bookings/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, p := range []string{"/bookings/1", "/bookings/2"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	if got := testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/bookings/:id", "200")); got != 2 {
		t.Fatalf("expected 2 requests on the route template, got %v", got)
	}
}
