package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"nextalk-desk/internal/models"
	"nextalk-desk/internal/utils"
)

type TicketService interface {
	ListTickets(ctx context.Context) ([]models.Ticket, error)
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, id string, upd *models.TicketUpdate) (*models.Ticket, error)
	DeleteTicket(ctx context.Context, id string) error
	SendMessage(ctx context.Context, id string, msg models.Message, customerPhone string) (*models.Ticket, error)
	PickUp(ctx context.Context, id, agentName string) (*models.Ticket, error)
	Close(ctx context.Context, id string) (*models.Ticket, error)
	Transfer(ctx context.Context, id, target string, isDepartment bool) (*models.Ticket, error)
	Reopen(ctx context.Context, id, agentName string) (*models.Ticket, error)
	Stats(ctx context.Context) (*models.TicketStats, error)
}

type DepartmentResolver interface {
	IsDepartment(ctx context.Context, name string) (bool, error)
}

type TicketHandler struct {
	service     TicketService
	departments DepartmentResolver
}

func NewTicketHandler(service TicketService, departments DepartmentResolver) *TicketHandler {
	return &TicketHandler{service: service, departments: departments}
}

func (h *TicketHandler) List(c *gin.Context) {
	tickets, err := h.service.ListTickets(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if tickets == nil {
		tickets = []models.Ticket{}
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) Get(c *gin.Context) {
	ticket, err := h.service.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Create(c *gin.Context) {
	var ticket models.Ticket
	if err := c.ShouldBindJSON(&ticket); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := utils.GetValidator().Struct(&ticket); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ParseErrors(err)})
		return
	}

	created, err := h.service.CreateTicket(c.Request.Context(), &ticket)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *TicketHandler) Update(c *gin.Context) {
	var upd models.TicketUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := utils.GetValidator().Struct(&upd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ParseErrors(err)})
		return
	}

	ticket, err := h.service.UpdateTicket(c.Request.Context(), c.Param("id"), &upd)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteTicket(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type sendMessageRequest struct {
	Message       models.Message `json:"message"`
	CustomerPhone string         `json:"customerPhone"`
}

// SendMessage persists the message and forwards agent messages to
// WhatsApp. The success envelope carries the refreshed ticket.
func (h *TicketHandler) SendMessage(c *gin.Context) {
	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if req.Message.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message text is required"})
		return
	}
	if err := utils.GetValidator().Struct(&req.Message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": utils.ParseErrors(err)})
		return
	}

	ticket, err := h.service.SendMessage(c.Request.Context(), c.Param("id"), req.Message, req.CustomerPhone)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ticket": ticket})
}

type agentActionRequest struct {
	AgentName string `json:"agentName" binding:"required"`
}

func (h *TicketHandler) PickUp(c *gin.Context) {
	var req agentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agentName is required"})
		return
	}
	ticket, err := h.service.PickUp(c.Request.Context(), c.Param("id"), req.AgentName)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Close(c *gin.Context) {
	ticket, err := h.service.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type transferRequest struct {
	Target string `json:"target" binding:"required"`
}

// Transfer resolves whether the target names a department and routes the
// ticket accordingly in a single atomic update.
func (h *TicketHandler) Transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "target is required"})
		return
	}

	isDept, err := h.departments.IsDepartment(c.Request.Context(), req.Target)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	ticket, err := h.service.Transfer(c.Request.Context(), c.Param("id"), req.Target, isDept)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Reopen(c *gin.Context) {
	var req agentActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "agentName is required"})
		return
	}
	ticket, err := h.service.Reopen(c.Request.Context(), c.Param("id"), req.AgentName)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
