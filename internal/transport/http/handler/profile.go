package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
	"go-service-market/internal/service"
	"go-service-market/internal/transport/http/middleware"
	"go-service-market/internal/transport/http/response"
)

type ProfileHandler struct {
	profiles *service.ProfileService
}

func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func (h *ProfileHandler) Create(c *gin.Context) {
	claims := middleware.Claims(c)
	uid, err := uuid.Parse(claims.UID)
	if err != nil {
		response.Fail(c, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token subject"))
		return
	}
	var in service.CreateProfileInput
	if !bindJSON(c, &in) {
		return
	}
	in.UserID = uid
	out, err := h.profiles.CreateProfile(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "profile created", out)
}

func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "profile", out)
}

// Update 画像本人或管理员可改
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	claims := middleware.Claims(c)

	current, err := h.profiles.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !claims.HasRole(domain.RoleAdministrator) && current.UserID.String() != claims.UID {
		response.Fail(c, apperr.Forbidden("not your profile"))
		return
	}

	var in service.UpdateProfileInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.profiles.UpdateProfile(c.Request.Context(), id, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "profile updated", out)
}

// UpdateStatus 管理员审核流转，路由层已限角色
func (h *ProfileHandler) UpdateStatus(c *gin.Context) {
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
	out, err := h.profiles.UpdateStatus(c.Request.Context(), id, domain.ProfileStatus(in.Status))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "profile status updated", out)
}

func (h *ProfileHandler) Search(c *gin.Context) {
	offset, limit := pagination(c)
	q := repo.ProfileQuery{
		Status: c.Query("status"),
		Search: c.Query("search"),
		SortBy: c.DefaultQuery("sortBy", "created_at"),
		Desc:   c.DefaultQuery("order", "desc") == "desc",
		Offset: offset,
		Limit:  limit,
	}
	if v := c.Query("categoryId"); v != "" {
		q.CategoryID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.Query("available"); v != "" {
		b := v == "true" || v == "1"
		q.Available = &b
	}
	if lat, err := strconv.ParseFloat(c.Query("lat"), 64); err == nil {
		if lng, err := strconv.ParseFloat(c.Query("lng"), 64); err == nil {
			q.Lat, q.Lng = &lat, &lng
			q.RadiusKm, _ = strconv.ParseFloat(c.DefaultQuery("radiusKm", "25"), 64)
		}
	}
	// 公开搜索只露已激活的画像
	claims := middleware.Claims(c)
	if claims == nil || !claims.HasRole(domain.RoleAdministrator) {
		q.Status = string(domain.ProfileStatusActive)
	}

	items, total, err := h.profiles.Search(c.Request.Context(), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "profiles", paged(items, total, offset, limit))
}
