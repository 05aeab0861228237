package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-service-market/internal/apperr"
	"go-service-market/internal/transport/http/response"
)

// bindJSON 绑定失败统一按校验错误返回
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		response.Fail(c, apperr.BadRequest(err.Error()))
		return false
	}
	return true
}

func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, apperr.BadRequest(name+" is not a valid id"))
		return uuid.Nil, false
	}
	return id, true
}

// pagination ?page=1&limit=20 → offset/limit
func pagination(c *gin.Context) (offset, limit int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return (page - 1) * limit, limit
}

// paged 列表响应统一带分页元信息
func paged[T any](items []T, total int64, offset, limit int) gin.H {
	return gin.H{
		"items": items,
		"total": total,
		"page":  offset/limit + 1,
		"limit": limit,
	}
}
