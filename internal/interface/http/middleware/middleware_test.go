package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xiebiao/helpdesk/internal/infrastructure/config"
	"github.com/xiebiao/helpdesk/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// staticChecker 固定的黑名单
type staticChecker map[string]bool

func (s staticChecker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s[tokenID], nil
}

func serve(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthForWrites(t *testing.T) {
	manager := jwt.NewManager("middleware-test-secret-0123", time.Hour, time.Hour)
	pair, err := manager.GenerateToken(7, "ivan")
	require.NoError(t, err)
	claims, err := manager.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)

	newEngine := func(checker TokenChecker) *gin.Engine {
		auth := NewAuthMiddleware(manager, checker)
		r := gin.New()
		g := r.Group("/items", auth.RequireAuthForWrites())
		ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)}) }
		g.GET("", ok)
		g.POST("", ok)
		return r
	}

	t.Run("读请求无需Token", func(t *testing.T) {
		w := serve(newEngine(staticChecker{}), http.MethodGet, "/items", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("写请求缺少Token", func(t *testing.T) {
		w := serve(newEngine(staticChecker{}), http.MethodPost, "/items", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":40100`)
	})

	t.Run("Authorization格式错误", func(t *testing.T) {
		w := serve(newEngine(staticChecker{}), http.MethodPost, "/items", map[string]string{"Authorization": "Token abc"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `"code":40101`)
	})

	t.Run("合法Token注入Claims", func(t *testing.T) {
		w := serve(newEngine(staticChecker{}), http.MethodPost, "/items", map[string]string{"Authorization": "Bearer " + pair.AccessToken})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
	})

	t.Run("已注销的Token", func(t *testing.T) {
		w := serve(newEngine(staticChecker{claims.ID: true}), http.MethodPost, "/items", map[string]string{"Authorization": "Bearer " + pair.AccessToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(Logger(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	t.Run("沿用客户端请求ID", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/ok", map[string]string{"X-Request-ID": "req-1"})

		assert.Equal(t, "req-1", w.Header().Get("X-Request-ID"))
		entries := logs.FilterField(zap.String("request_id", "req-1")).All()
		require.Len(t, entries, 1)
		assert.Equal(t, zap.InfoLevel, entries[0].Level)
	})

	t.Run("4xx记为warn", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/missing", nil)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, 1, logs.FilterLevelExact(zap.WarnLevel).Len())
	})
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(zap.NewNop()))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/panic", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":50000`)
}

func TestCORS(t *testing.T) {
	cfg := config.CORSConfig{
		Enabled:       true,
		AllowOrigins:  []string{"https://desk.example.com"},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Authorization"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        600,
	}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/items", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("预检请求", func(t *testing.T) {
		w := serve(r, http.MethodOptions, "/items", map[string]string{"Origin": "https://desk.example.com"})

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://desk.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("未允许的来源", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/items", map[string]string{"Origin": "https://evil.example.com"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("非跨域请求直接放行", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/items", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
