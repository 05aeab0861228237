package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-service-market/internal/apperr"
	"go-service-market/internal/service"
	"go-service-market/internal/transport/http/middleware"
	"go-service-market/internal/transport/http/response"
)

type AuthHandler struct {
	accounts *service.AccountService
}

func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.accounts.Register(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "registration successful", out)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in service.LoginInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.accounts.Login(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "login successful", out)
}

func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.Claims(c)
	uid, err := uuid.Parse(claims.UID)
	if err != nil {
		response.Fail(c, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token subject"))
		return
	}
	u, err := h.accounts.Profile(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "profile", gin.H{"user": u, "roles": u.RoleNames()})
}

func (h *AuthHandler) ListUsers(c *gin.Context) {
	offset, limit := pagination(c)
	items, total, err := h.accounts.ListUsers(c.Request.Context(), offset, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "users", paged(items, total, offset, limit))
}
