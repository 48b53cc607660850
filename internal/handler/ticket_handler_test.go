package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nextalk-desk/internal/models"
)

type stubTicketService struct {
	ticket      *models.Ticket
	err         error
	lastMessage models.Message
	lastTarget  string
	lastIsDept  bool
}

func (s *stubTicketService) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.ticket == nil {
		return nil, nil
	}
	return []models.Ticket{*s.ticket}, nil
}

func (s *stubTicketService) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if s.err != nil {
		return nil, s.err
	}
	ticket.ID = primitive.NewObjectID()
	return ticket, nil
}

func (s *stubTicketService) UpdateTicket(ctx context.Context, id string, upd *models.TicketUpdate) (*models.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) DeleteTicket(ctx context.Context, id string) error {
	return s.err
}

func (s *stubTicketService) SendMessage(ctx context.Context, id string, msg models.Message, customerPhone string) (*models.Ticket, error) {
	s.lastMessage = msg
	return s.ticket, s.err
}

func (s *stubTicketService) PickUp(ctx context.Context, id, agentName string) (*models.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) Close(ctx context.Context, id string) (*models.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) Transfer(ctx context.Context, id, target string, isDepartment bool) (*models.Ticket, error) {
	s.lastTarget = target
	s.lastIsDept = isDepartment
	return s.ticket, s.err
}

func (s *stubTicketService) Reopen(ctx context.Context, id, agentName string) (*models.Ticket, error) {
	return s.ticket, s.err
}

func (s *stubTicketService) Stats(ctx context.Context) (*models.TicketStats, error) {
	return &models.TicketStats{}, s.err
}

type stubDepartments struct {
	departments map[string]bool
}

func (s *stubDepartments) IsDepartment(ctx context.Context, name string) (bool, error) {
	return s.departments[name], nil
}

func newTicketRouter(svc *stubTicketService, depts *stubDepartments) *gin.Engine {
	gin.SetMode(gin.TestMode)
	if depts == nil {
		depts = &stubDepartments{}
	}
	h := NewTicketHandler(svc, depts)
	r := gin.New()
	r.GET("/api/tickets", h.List)
	r.GET("/api/tickets/:id", h.Get)
	r.POST("/api/tickets", h.Create)
	r.DELETE("/api/tickets/:id", h.Delete)
	r.POST("/api/tickets/:id/messages", h.SendMessage)
	r.PUT("/api/tickets/:id/pickup", h.PickUp)
	r.PUT("/api/tickets/:id/transfer", h.Transfer)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestListTickets_EmptyIsArray(t *testing.T) {
	r := newTicketRouter(&stubTicketService{}, nil)

	rec := doJSON(r, http.MethodGet, "/api/tickets", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestGetTicket_NotFound(t *testing.T) {
	r := newTicketRouter(&stubTicketService{err: models.ErrNotFound}, nil)

	rec := doJSON(r, http.MethodGet, "/api/tickets/abc", "")

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "error")
}

func TestGetTicket_InvalidID(t *testing.T) {
	r := newTicketRouter(&stubTicketService{err: models.ErrInvalidID}, nil)

	rec := doJSON(r, http.MethodGet, "/api/tickets/zzz", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTicket_RequiresFields(t *testing.T) {
	r := newTicketRouter(&stubTicketService{}, nil)

	rec := doJSON(r, http.MethodPost, "/api/tickets", `{"customerName":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTicket_OK(t *testing.T) {
	r := newTicketRouter(&stubTicketService{}, nil)

	body := `{"customerName":"Maria","customerPhone":"5511999990000"}`
	rec := doJSON(r, http.MethodPost, "/api/tickets", body)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "Maria")
}

func TestSendMessage_RequiresText(t *testing.T) {
	r := newTicketRouter(&stubTicketService{}, nil)

	rec := doJSON(r, http.MethodPost, "/api/tickets/abc/messages", `{"message":{"text":"","sender":"agent"}}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "message text is required")
}

func TestSendMessage_SuccessEnvelope(t *testing.T) {
	ticket := &models.Ticket{ID: primitive.NewObjectID(), CustomerName: "Maria"}
	svc := &stubTicketService{ticket: ticket}
	r := newTicketRouter(svc, nil)

	body := `{"message":{"text":"Olá","sender":"agent","agentName":"Ana"}}`
	rec := doJSON(r, http.MethodPost, "/api/tickets/"+ticket.ID.Hex()+"/messages", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), "Maria")
	assert.Equal(t, "Olá", svc.lastMessage.Text)
}

func TestPickUp_RequiresAgentName(t *testing.T) {
	r := newTicketRouter(&stubTicketService{ticket: &models.Ticket{}}, nil)

	rec := doJSON(r, http.MethodPut, "/api/tickets/abc/pickup", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransfer_ResolvesDepartment(t *testing.T) {
	svc := &stubTicketService{ticket: &models.Ticket{}}
	depts := &stubDepartments{departments: map[string]bool{"Financeiro": true}}
	r := newTicketRouter(svc, depts)

	rec := doJSON(r, http.MethodPut, "/api/tickets/abc/transfer", `{"target":"Financeiro"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.lastIsDept)

	rec = doJSON(r, http.MethodPut, "/api/tickets/abc/transfer", `{"target":"Ana"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.lastIsDept)
	assert.Equal(t, "Ana", svc.lastTarget)
}

func TestDelete_SuccessEnvelope(t *testing.T) {
	r := newTicketRouter(&stubTicketService{}, nil)

	rec := doJSON(r, http.MethodDelete, "/api/tickets/abc", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
}
