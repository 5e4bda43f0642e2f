package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"shopviet-be/internal/user"
	"shopviet-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func authedRouter(t *testing.T, extra ...gin.HandlerFunc) *gin.Engine {
	t.Helper()
	r := gin.New()
	handlers := append([]gin.HandlerFunc{RequireAuth(testSecret)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		id, _ := utils.GetUserIDFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := authedRouter(t)

	t.Run("ValidToken", func(t *testing.T) {
		token, err := user.GenerateJWT(testSecret, 42, "an@shopviet.vn", utils.RoleUser)
		require.NoError(t, err)

		w := doRequest(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"user_id":42`)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		w := doRequest(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token, err := user.GenerateJWT("other-secret", 42, "an@shopviet.vn", utils.RoleUser)
		require.NoError(t, err)

		w := doRequest(r, token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Garbage", func(t *testing.T) {
		w := doRequest(r, "not.a.jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	r := authedRouter(t, RequireAdmin())

	t.Run("AdminAllowed", func(t *testing.T) {
		token, err := user.GenerateJWT(testSecret, 1, "admin@shopviet.vn", utils.RoleAdmin)
		require.NoError(t, err)

		w := doRequest(r, token)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("UserForbidden", func(t *testing.T) {
		token, err := user.GenerateJWT(testSecret, 2, "an@shopviet.vn", utils.RoleUser)
		require.NoError(t, err)

		w := doRequest(r, token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRateLimiter(t *testing.T) {
	t.Run("StrictTierExhausts", func(t *testing.T) {
		rl := NewRateLimiter("")
		r := gin.New()
		r.POST("/api/auth/login", rl.Middleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		var limited bool
		for i := 0; i < burstStrict+1; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.Header.Set("X-Device-ID", "device-1")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code == http.StatusTooManyRequests {
				limited = true
			}
		}
		assert.True(t, limited)
	})

	t.Run("SeparateIdentities", func(t *testing.T) {
		rl := NewRateLimiter("")
		r := gin.New()
		r.POST("/api/auth/login", rl.Middleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		// Drain one device's bucket, a second device is unaffected.
		for i := 0; i < burstStrict; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.Header.Set("X-Device-ID", "device-a")
			r.ServeHTTP(httptest.NewRecorder(), req)
		}

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Device-ID", "device-b")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("InternalTierBypassesStrict", func(t *testing.T) {
		rl := NewRateLimiter("internal-secret")
		r := gin.New()
		r.POST("/api/auth/login", rl.Middleware(), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		for i := 0; i < burstStrict*2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			req.Header.Set("X-Service-Auth", "internal-secret")
			req.Header.Set("X-Device-ID", "device-int")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Request-ID", "req-123")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	})
}
