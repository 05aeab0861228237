package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestRequestIDPassthroughAndRegenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	// 上游带的 id 原样透传
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "upstream-1")
	r.ServeHTTP(w, req)
	require.Equal(t, "upstream-1", w.Body.String())
	require.Equal(t, "upstream-1", w.Header().Get(KeyRequestID))

	// 缺失时生成
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Header().Get(KeyRequestID))

	// 超长 id 当脏数据丢弃
	long := strings.Repeat("x", maxInboundRequestID+1)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, long)
	r.ServeHTTP(w, req)
	require.NotEqual(t, long, w.Header().Get(KeyRequestID))
	require.NotEmpty(t, w.Header().Get(KeyRequestID))
}
