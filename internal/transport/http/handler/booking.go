package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
	"go-service-market/internal/service"
	"go-service-market/internal/transport/http/middleware"
	"go-service-market/internal/transport/http/response"
)

type BookingHandler struct {
	bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

func (h *BookingHandler) Create(c *gin.Context) {
	claims := middleware.Claims(c)
	uid, err := uuid.Parse(claims.UID)
	if err != nil {
		response.Fail(c, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token subject"))
		return
	}
	var in service.CreateBookingInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.bookings.Create(c.Request.Context(), uid, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "booking created", out)
}

func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.bookings.Get(c.Request.Context(), middleware.Claims(c), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "booking", out)
}

func (h *BookingHandler) List(c *gin.Context) {
	offset, limit := pagination(c)
	q := repo.BookingQuery{Status: c.Query("status"), Offset: offset, Limit: limit}
	items, total, err := h.bookings.List(c.Request.Context(), middleware.Claims(c), q)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "bookings", paged(items, total, offset, limit))
}

func (h *BookingHandler) UpdateStatus(c *gin.Context) {
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
	out, err := h.bookings.UpdateStatus(c.Request.Context(), middleware.Claims(c), id, domain.BookingStatus(in.Status))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "booking status updated", out)
}

/* ---------- 时段 ---------- */

func (h *BookingHandler) CreateSlot(c *gin.Context) {
	providerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	var in service.CreateSlotInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.bookings.CreateSlot(c.Request.Context(), providerID, in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "time slot created", out)
}

func (h *BookingHandler) ListSlots(c *gin.Context) {
	providerID, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	date := c.Query("date")
	onlyAvailable := c.DefaultQuery("available", "false") == "true"
	items, err := h.bookings.ListSlots(c.Request.Context(), providerID, &date, onlyAvailable)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "time slots", items)
}

func (h *BookingHandler) SetSlotAvailability(c *gin.Context) {
	slotID, ok := paramUUID(c, "slotId")
	if !ok {
		return
	}
	var in struct {
		IsAvailable *bool `json:"isAvailable" binding:"required"`
	}
	if !bindJSON(c, &in) {
		return
	}
	if err := h.bookings.SetSlotAvailability(c.Request.Context(), slotID, *in.IsAvailable); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "time slot updated", nil)
}
