package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-service-market/internal/apperr"
	"go-service-market/internal/transport/http/response"
)

func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.String("rid", c.GetString(KeyRequestID)),
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				msg := "internal server error"
				// 生产环境不外泄细节
				if gin.Mode() != gin.ReleaseMode {
					msg = fmt.Sprintf("panic: %v", rec)
				}
				response.FailCode(c, http.StatusInternalServerError, apperr.CodeInternal, msg)
			}
		}()
		c.Next()
	}
}
