package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"nextalk-desk/internal/models"
	"nextalk-desk/internal/utils"
)

type SettingsService interface {
	GetGeneral(ctx context.Context) (*models.Settings, error)
	UpdateGeneral(ctx context.Context, settings *models.Settings) error
}

type SettingsHandler struct {
	service SettingsService
}

func NewSettingsHandler(service SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.GetGeneral(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *SettingsHandler) Update(c *gin.Context) {
	var settings models.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := utils.GetValidator().Struct(&settings); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ParseErrors(err)})
		return
	}

	if err := h.service.UpdateGeneral(c.Request.Context(), &settings); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}
