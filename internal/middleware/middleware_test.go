package middleware

import (
	"coursehub_backend/internal/config"
	"coursehub_backend/internal/model"
	"coursehub_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "middleware-test-secret-long-enough-32"

func init() {
	gin.SetMode(gin.TestMode)
}

func tokenFor(t *testing.T, role model.UserRole) string {
	user := &model.User{Email: "u@example.com", Role: role}
	user.ID = 7
	token, err := util.GenerateJWT(user, secret, time.Hour)
	require.NoError(t, err)
	return token
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		claims := util.GetUserFromContext(c)
		if claims == nil {
			c.String(http.StatusOK, "guest")
			return
		}
		c.String(http.StatusOK, string(claims.Role))
	})
	r.GET("/", handlers...)
	return r
}

func do(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: secret}}
	r := newEngine(AuthMiddleware(cfg))

	assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "garbage").Code)

	w := do(r, tokenFor(t, model.RoleUser))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", w.Body.String())
}

func TestAuthMiddlewareRejectsForeignSignature(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "another-secret-another-secret-1234"}}
	r := newEngine(AuthMiddleware(cfg))

	assert.Equal(t, http.StatusUnauthorized, do(r, tokenFor(t, model.RoleAdmin)).Code)
}

func TestTryAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: secret}}
	r := newEngine(TryAuthMiddleware(cfg))

	assert.Equal(t, "guest", do(r, "").Body.String())
	assert.Equal(t, "guest", do(r, "garbage").Body.String())
	assert.Equal(t, "admin", do(r, tokenFor(t, model.RoleAdmin)).Body.String())
}

func TestRoleMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: secret}}
	r := newEngine(AuthMiddleware(cfg), RoleMiddleware(model.RoleAdmin))

	assert.Equal(t, http.StatusForbidden, do(r, tokenFor(t, model.RoleUser)).Code)
	assert.Equal(t, http.StatusOK, do(r, tokenFor(t, model.RoleAdmin)).Code)

	noAuth := newEngine(RoleMiddleware(model.RoleAdmin))
	assert.Equal(t, http.StatusUnauthorized, do(noAuth, "").Code)
}

func TestRedisRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	r := newEngine(NewRedisRateLimiter(client).Limit("ai", 2, time.Minute))

	assert.Equal(t, http.StatusOK, do(r, "").Code)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
	w := do(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, do(r, "").Code)
}

func TestRedisRateLimiterWithoutRedis(t *testing.T) {
	r := newEngine(NewRedisRateLimiter(nil).Limit("ai", 1, time.Minute))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, "").Code)
	}
}
