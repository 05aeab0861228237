package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-service-market/internal/apperr"
	"go-service-market/internal/core/auth"
	"go-service-market/internal/transport/http/response"
)

const keyClaims = "claims"

// Authenticate 解析 Bearer token 并把 claims 放进请求上下文
func Authenticate(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			response.FailCode(c, http.StatusUnauthorized, apperr.CodeUnauthenticated, "missing bearer token")
			return
		}
		claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			code := apperr.CodeInvalidToken
			if errors.Is(err, auth.ErrTokenExpired) {
				code = apperr.CodeTokenExpired
			}
			response.FailCode(c, http.StatusUnauthorized, code, "invalid or expired token")
			return
		}
		c.Set(keyClaims, claims)
		c.Next()
	}
}

// AuthenticateOptional 带合法 token 就解析出 claims，没带或解析失败按匿名放行。
// 公开路由想对管理员放宽行为时用这个。
func AuthenticateOptional(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if strings.HasPrefix(ah, "Bearer ") {
			if claims, err := j.Parse(strings.TrimPrefix(ah, "Bearer ")); err == nil {
				c.Set(keyClaims, claims)
			}
		}
		c.Next()
	}
}

// Claims 取当前请求的认证信息；没经过 Authenticate 的路由返回 nil
func Claims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(keyClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// RequireAny 至少命中一个角色
func RequireAny(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.FailCode(c, http.StatusUnauthorized, apperr.CodeUnauthenticated, "authentication required")
			return
		}
		for _, r := range roles {
			if claims.HasRole(r) {
				c.Next()
				return
			}
		}
		response.FailCode(c, http.StatusForbidden, apperr.CodeForbidden,
			"requires role: "+strings.Join(roles, " or "))
	}
}

// RequireAll 全部角色都要有
func RequireAll(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.FailCode(c, http.StatusUnauthorized, apperr.CodeUnauthenticated, "authentication required")
			return
		}
		for _, r := range roles {
			if !claims.HasRole(r) {
				response.FailCode(c, http.StatusForbidden, apperr.CodeForbidden,
					"requires role: "+strings.Join(roles, " and "))
				return
			}
		}
		c.Next()
	}
}
