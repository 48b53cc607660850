package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"nextalk-desk/internal/models"
	"nextalk-desk/internal/utils"
)

type ContactService interface {
	ListContacts(ctx context.Context) ([]models.Contact, error)
	GetContact(ctx context.Context, id string) (*models.Contact, error)
	CreateContact(ctx context.Context, contact *models.Contact) error
	UpdateContact(ctx context.Context, id string, contact *models.Contact) error
	DeleteContact(ctx context.Context, id string) error
	SetBlocked(ctx context.Context, id string, blocked bool) (*models.Contact, error)
	Conversations(ctx context.Context, id string) ([]models.Ticket, error)
	ActivityLogs(ctx context.Context, id string) ([]models.ActivityLog, error)
}

type ContactHandler struct {
	service ContactService
}

func NewContactHandler(service ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func (h *ContactHandler) List(c *gin.Context) {
	contacts, err := h.service.ListContacts(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if contacts == nil {
		contacts = []models.Contact{}
	}
	c.JSON(http.StatusOK, contacts)
}

func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.service.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Create(c *gin.Context) {
	var contact models.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := utils.GetValidator().Struct(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ParseErrors(err)})
		return
	}

	if err := h.service.CreateContact(c.Request.Context(), &contact); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	var contact models.Contact
	if err := c.ShouldBindJSON(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := utils.GetValidator().Struct(&contact); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ParseErrors(err)})
		return
	}

	if err := h.service.UpdateContact(c.Request.Context(), c.Param("id"), &contact); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteContact(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type blockRequest struct {
	Blocked *bool `json:"blocked"`
}

func (h *ContactHandler) Block(c *gin.Context) {
	var req blockRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Blocked == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "blocked must be a boolean"})
		return
	}

	contact, err := h.service.SetBlocked(c.Request.Context(), c.Param("id"), *req.Blocked)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, contact)
}

func (h *ContactHandler) Conversations(c *gin.Context) {
	tickets, err := h.service.Conversations(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *ContactHandler) ActivityLogs(c *gin.Context) {
	logs, err := h.service.ActivityLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
