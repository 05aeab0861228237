package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-service-market/internal/core/auth"
)

func newAuthRouter(j *auth.JWTer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/optional", AuthenticateOptional(j), func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			c.String(http.StatusOK, "anon")
			return
		}
		c.String(http.StatusOK, claims.UID)
	})
	r.GET("/strict", Authenticate(j), func(c *gin.Context) {
		c.String(http.StatusOK, Claims(c).UID)
	})
	return r
}

func TestAuthenticateOptional(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	r := newAuthRouter(j)

	// 匿名放行
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/optional", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "anon", w.Body.String())

	// 带合法 token 能拿到 claims
	tok, err := j.Issue("user-1", []string{"administrator"})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)
	require.Equal(t, "user-1", w.Body.String())

	// 脏 token 不拦截，按匿名处理
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/optional", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "anon", w.Body.String())
}

func TestAuthenticateRejectsMissingToken(t *testing.T) {
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "test", TTL: time.Hour}
	r := newAuthRouter(j)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/strict", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
