package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-service-market/internal/apperr"
	"go-service-market/internal/service"
	"go-service-market/internal/transport/http/middleware"
	"go-service-market/internal/transport/http/response"
)

type RecruiterHandler struct {
	recruiters *service.RecruiterService
}

func NewRecruiterHandler(recruiters *service.RecruiterService) *RecruiterHandler {
	return &RecruiterHandler{recruiters: recruiters}
}

func (h *RecruiterHandler) callerID(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.Claims(c)
	uid, err := uuid.Parse(claims.UID)
	if err != nil {
		response.Fail(c, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token subject"))
		return uuid.Nil, false
	}
	return uid, true
}

// Invite 管理员发出或刷新邀请
func (h *RecruiterHandler) Invite(c *gin.Context) {
	uid, ok := h.callerID(c)
	if !ok {
		return
	}
	var in service.InviteInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.recruiters.Invite(c.Request.Context(), uid, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "invitation sent", out)
}

func (h *RecruiterHandler) ListInvitations(c *gin.Context) {
	offset, limit := pagination(c)
	items, total, err := h.recruiters.ListInvitations(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "invitations", paged(items, total, offset, limit))
}

func (h *RecruiterHandler) RevokeInvitation(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.recruiters.Revoke(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "invitation revoked", out)
}

// Register 公开入口，带邀请 token 直接激活
func (h *RecruiterHandler) Register(c *gin.Context) {
	var in service.RecruiterRegisterInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.recruiters.Register(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "recruiter registered", out)
}

func (h *RecruiterHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	items, total, err := h.recruiters.List(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "recruiters", paged(items, total, offset, limit))
}

func (h *RecruiterHandler) Me(c *gin.Context) {
	uid, ok := h.callerID(c)
	if !ok {
		return
	}
	out, err := h.recruiters.Me(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "recruiter", out)
}

// UpdateStatus 管理员激活 / 封禁猎头
func (h *RecruiterHandler) UpdateStatus(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var in struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.recruiters.UpdateStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "recruiter status updated", out)
}

func (h *RecruiterHandler) UpdateMe(c *gin.Context) {
	uid, ok := h.callerID(c)
	if !ok {
		return
	}
	var in service.UpdateRecruiterInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.recruiters.UpdateMe(c.Request.Context(), uid, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "recruiter updated", out)
}
