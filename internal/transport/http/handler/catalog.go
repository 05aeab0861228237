package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"go-service-market/internal/service"
	"go-service-market/internal/transport/http/response"
)

type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

func (h *CatalogHandler) ListCategories(c *gin.Context) {
	items, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "categories", items)
}

func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var in service.CreateCategoryInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "category created", out)
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var in service.CreateServiceInput
	if !bindJSON(c, &in) {
		return
	}
	out, err := h.catalog.CreateService(c.Request.Context(), in)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, "service created", out)
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.catalog.GetService(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "service", out)
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	offset, limit := pagination(c)
	var categoryID int64
	if v := c.Query("categoryId"); v != "" {
		categoryID, _ = strconv.ParseInt(v, 10, 64)
	}
	items, total, err := h.catalog.ListServices(c.Request.Context(), categoryID, c.Query("search"), offset, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c, "services", paged(items, total, offset, limit))
}
