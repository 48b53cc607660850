package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"nextalk-desk/internal/models"
	"nextalk-desk/internal/utils"
)

type CatalogService interface {
	List(ctx context.Context, collection string) ([]models.CatalogItem, error)
	Create(ctx context.Context, collection string, item *models.CatalogItem) error
	Update(ctx context.Context, collection, id string, item *models.CatalogItem) error
	Delete(ctx context.Context, collection, id string) error
}

// CatalogHandler serves the flat reference collections. One handler
// instance is registered per collection, mirroring the original's
// generated per-collection routes.
type CatalogHandler struct {
	service    CatalogService
	collection string
}

func NewCatalogHandler(service CatalogService, collection string) *CatalogHandler {
	return &CatalogHandler{service: service, collection: collection}
}

func (h *CatalogHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), h.collection)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if items == nil {
		items = []models.CatalogItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *CatalogHandler) Create(c *gin.Context) {
	var item models.CatalogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := utils.GetValidator().Struct(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ParseErrors(err)})
		return
	}

	if err := h.service.Create(c.Request.Context(), h.collection, &item); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CatalogHandler) Update(c *gin.Context) {
	var item models.CatalogItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	if err := h.service.Update(c.Request.Context(), h.collection, c.Param("id"), &item); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *CatalogHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), h.collection, c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
