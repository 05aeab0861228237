package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-service-market/internal/apperr"
)

// 成功响应体
type Success struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Data      any    `json:"data"`
	Timestamp string `json:"timestamp"`
}

// 失败响应体
type Failure struct {
	Error     bool   `json:"error"`
	Message   string `json:"message"`
	Code      string `json:"code"`
	Timestamp string `json:"timestamp"`
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

func OK(c *gin.Context, msg string, data any) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusOK, Success{Success: true, Message: msg, Data: data, Timestamp: now()})
}

func Created(c *gin.Context, msg string, data any) {
	if data == nil {
		data = struct{}{}
	}
	c.JSON(http.StatusCreated, Success{Success: true, Message: msg, Data: data, Timestamp: now()})
}

// Fail 把任意错误映射到统一错误体；非 *apperr.Error 一律按 500 处理
func Fail(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal("internal server error", err)
	}
	msg := ae.Message
	if msg == "" {
		msg = http.StatusText(ae.Status)
	}
	if ae.Err != nil {
		_ = c.Error(ae.Err)
	}
	c.AbortWithStatusJSON(ae.Status, Failure{Error: true, Message: msg, Code: ae.Code, Timestamp: now()})
}

// FailCode 指定状态与错误码的快捷出口（中间件用）
func FailCode(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, Failure{Error: true, Message: msg, Code: code, Timestamp: now()})
}
