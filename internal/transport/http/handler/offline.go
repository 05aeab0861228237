package handler

import (
	"github.com/gin-gonic/gin"

	"go-service-market/internal/apperr"
	"go-service-market/internal/service"
	"go-service-market/internal/transport/http/middleware"
	"go-service-market/internal/transport/http/response"
)

// OfflineHandler 线下入驻：猎头代注册服务方、资质文档、工作台、分成
type OfflineHandler struct {
	onboarding  *service.OnboardingService
	documents   *service.DocumentService
	dashboard   *service.DashboardService
	commissions *service.CommissionService
}

func NewOfflineHandler(
	onboarding *service.OnboardingService,
	documents *service.DocumentService,
	dashboard *service.DashboardService,
	commissions *service.CommissionService,
) *OfflineHandler {
	return &OfflineHandler{
		onboarding:  onboarding,
		documents:   documents,
		dashboard:   dashboard,
		commissions: commissions,
	}
}

func (h *OfflineHandler) Onboard(c *gin.Context) {
	var in service.OnboardProviderInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.onboarding.OnboardProvider(c.Request.Context(), middleware.Claims(c), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "provider onboarded", out)
}

func (h *OfflineHandler) ListOnboarded(c *gin.Context) {
	offset, limit := pagination(c)
	items, total, err := h.onboarding.ListOnboarded(c.Request.Context(), middleware.Claims(c), c.Query("status"), offset, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "onboarded providers", paged(items, total, offset, limit))
}

func (h *OfflineHandler) Dashboard(c *gin.Context) {
	out, err := h.dashboard.Overview(c.Request.Context(), middleware.Claims(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "dashboard", out)
}

func (h *OfflineHandler) Activity(c *gin.Context) {
	_, limit := pagination(c)
	items, err := h.dashboard.Activity(c.Request.Context(), middleware.Claims(c), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "recent activity", items)
}

func (h *OfflineHandler) UpdateOnboarded(c *gin.Context) {
	providerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var in service.UpdateProfileInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.onboarding.UpdateOnboarded(c.Request.Context(), middleware.Claims(c), providerID, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "provider updated", out)
}

/* ---------- 资质文档 ---------- */

func (h *OfflineHandler) UploadDocument(c *gin.Context) {
	providerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, apperr.BadRequest("file is required"))
		return
	}
	docType := c.PostForm("documentType")
	out, err := h.documents.Upload(c.Request.Context(), middleware.Claims(c), providerID, docType, fh)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "document uploaded", out)
}

func (h *OfflineHandler) ListDocuments(c *gin.Context) {
	providerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	items, err := h.documents.List(c.Request.Context(), providerID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "documents", items)
}

func (h *OfflineHandler) DeleteDocument(c *gin.Context) {
	providerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	docID, ok := paramUUID(c, "docId")
	if !ok {
		return
	}
	if err := h.documents.Delete(c.Request.Context(), middleware.Claims(c), providerID, docID); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "document deleted", nil)
}

/* ---------- 分成台账 ---------- */

func (h *OfflineHandler) RecordCommission(c *gin.Context) {
	providerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var in service.RecordCommissionInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.commissions.Record(c.Request.Context(), providerID, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "commission recorded", out)
}

func (h *OfflineHandler) ListCommissions(c *gin.Context) {
	providerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	offset, limit := pagination(c)
	items, total, err := h.commissions.List(c.Request.Context(), providerID, offset, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "commissions", paged(items, total, offset, limit))
}
