package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nuvyra_admin/internal/auth"
	"nuvyra_admin/internal/model"
	"nuvyra_admin/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type tokenAuthenticator map[string]*model.AdminUser

func (m tokenAuthenticator) Authenticate(_ context.Context, token string) (*model.AdminUser, error) {
	if u, ok := m[token]; ok {
		return u, nil
	}
	return nil, errors.New("unauthenticated")
}

func gateEngine() *gin.Engine {
	r := gin.New()
	r.Use(AuthGate(tokenAuthenticator{"good": {ID: 7, Email: "a@b.c"}}))
	ok := func(c *gin.Context) {
		u, _ := CurrentAdmin(c)
		if u != nil {
			c.String(http.StatusOK, u.Email)
			return
		}
		c.String(http.StatusOK, "anon")
	}
	r.GET("/", ok)
	r.GET("/login", ok)
	r.GET("/ping", ok)
	r.GET("/admin/products", ok)
	r.GET("/admin/settings", ok)
	return r
}

func TestAuthGateTransitions(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		token    string
		status   int
		location string
		body     string
	}{
		{"root anonymous", "/", "", http.StatusFound, "/login", ""},
		{"root signed in", "/", "good", http.StatusFound, "/admin/products", ""},
		{"admin anonymous", "/admin/settings", "", http.StatusFound, "/login?redirect=%2Fadmin%2Fsettings", ""},
		{"admin bad token", "/admin/products", "bad", http.StatusFound, "/login?redirect=%2Fadmin%2Fproducts", ""},
		{"admin signed in", "/admin/products", "good", http.StatusOK, "", "a@b.c"},
		{"login anonymous", "/login", "", http.StatusOK, "", "anon"},
		{"login signed in", "/login", "good", http.StatusFound, "/admin/products", ""},
		{"other path", "/ping", "", http.StatusOK, "", "anon"},
	}
	r := gateEngine()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.token != "" {
				req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: tc.token})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.location, w.Header().Get("Location"))
			if tc.body != "" {
				assert.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}

func TestIsAdminPath(t *testing.T) {
	assert.True(t, IsAdminPath("/admin"))
	assert.True(t, IsAdminPath("/admin/products/edit/1"))
	assert.False(t, IsAdminPath("/administrator"))
	assert.False(t, IsAdminPath("/login"))
}

func TestSafeRedirect(t *testing.T) {
	cases := map[string]string{
		"":                            LandingPath,
		"/admin/settings":             "/admin/settings",
		"/admin/products?category=X":  "/admin/products?category=X",
		"https://evil.test/admin":     LandingPath,
		"//evil.test/admin":           LandingPath,
		"/login":                      LandingPath,
		"/admin/../login":             LandingPath,
		"/\\evil.test":                LandingPath,
		"javascript:alert(1)":         LandingPath,
	}
	for in, want := range cases {
		assert.Equal(t, want, SafeRedirect(in), in)
	}
}

func TestRedisRateLimit(t *testing.T) {
	rdb, _ := testutil.NewRedis(t)
	r := gin.New()
	r.POST("/login", RedisRateLimit(rdb, "login", 2, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	hit := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, hit("10.0.0.1"))
	assert.Equal(t, http.StatusNoContent, hit("10.0.0.2"), "limit is per client IP")
}

func TestRedisRateLimitFailsOpen(t *testing.T) {
	rdb, mr := testutil.NewRedis(t)
	mr.Close()
	r := gin.New()
	r.POST("/login", RedisRateLimit(rdb, "login", 1, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		require.Equal(t, http.StatusNoContent, w.Code)
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
