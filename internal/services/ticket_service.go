package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"nextalk-desk/internal/models"
	"nextalk-desk/internal/whatsapp"
)

type TicketRepository interface {
	List(ctx context.Context) ([]models.Ticket, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Ticket, error)
	Insert(ctx context.Context, ticket *models.Ticket) error
	Update(ctx context.Context, id primitive.ObjectID, upd *models.TicketUpdate) error
	AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message, phone string) error
	ApplyTransition(ctx context.Context, id primitive.ObjectID, sysMsg models.Message, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByPhone(ctx context.Context, phone string) ([]models.Ticket, error)
}

// MessageSender delivers an agent message to the customer's WhatsApp.
type MessageSender interface {
	Configured() bool
	SendText(ctx context.Context, to, text string) (string, error)
}

type TicketService struct {
	repo      TicketRepository
	publisher EventPublisher
	sender    MessageSender
}

func NewTicketService(repo TicketRepository, publisher EventPublisher, sender MessageSender) *TicketService {
	return &TicketService{repo: repo, publisher: publisher, sender: sender}
}

func (s *TicketService) ListTickets(ctx context.Context) ([]models.Ticket, error) {
	return s.repo.List(ctx)
}

func (s *TicketService) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}
	return s.repo.GetByID(ctx, objID)
}

// CreateTicket handles manual creation by an agent: the ticket starts
// active and assigned to its creator.
func (s *TicketService) CreateTicket(ctx context.Context, ticket *models.Ticket) (*models.Ticket, error) {
	if ticket.Status == "" {
		ticket.Status = models.StatusActive
	}
	if ticket.AICategory == nil {
		cat := "Outros"
		ticket.AICategory = &cat
	}
	if ticket.AIPriority == nil {
		pri := "Normal"
		ticket.AIPriority = &pri
	}
	now := time.Now().UnixMilli()
	for i := range ticket.Messages {
		if ticket.Messages[i].Timestamp == 0 {
			ticket.Messages[i].Timestamp = now
		}
	}

	if err := s.repo.Insert(ctx, ticket); err != nil {
		return nil, fmt.Errorf("insert ticket: %w", err)
	}

	s.publisher.PublishTicket(ctx, models.EventCreated, ticket)
	return ticket, nil
}

func (s *TicketService) UpdateTicket(ctx context.Context, id string, upd *models.TicketUpdate) (*models.Ticket, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}
	if err := s.repo.Update(ctx, objID, upd); err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	s.publisher.PublishTicket(ctx, models.EventUpdated, ticket)
	return ticket, nil
}

func (s *TicketService) DeleteTicket(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	if err := s.repo.Delete(ctx, objID); err != nil {
		return err
	}
	s.publisher.PublishTicketID(ctx, models.EventDeleted, id)
	return nil
}

// PickUp moves an open ticket to active, assigning it to the acting agent
// and stamping startedAt.
func (s *TicketService) PickUp(ctx context.Context, id, agentName string) (*models.Ticket, error) {
	status := models.StatusActive
	now := time.Now()
	return s.UpdateTicket(ctx, id, &models.TicketUpdate{
		Status:    &status,
		AgentID:   &agentName,
		StartedAt: &now,
	})
}

// Close finalizes an active ticket. startedAt is left untouched.
func (s *TicketService) Close(ctx context.Context, id string) (*models.Ticket, error) {
	status := models.StatusClosed
	now := time.Now()
	return s.UpdateTicket(ctx, id, &models.TicketUpdate{
		Status:   &status,
		ClosedAt: &now,
	})
}

// Transfer routes a ticket to a department (back to the open queue) or to
// a named agent. The system message and the status change land in one
// update so the pair cannot be observed half-applied.
func (s *TicketService) Transfer(ctx context.Context, id, target string, isDepartment bool) (*models.Ticket, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	sysMsg := models.Message{
		Text:      fmt.Sprintf("Ticket transferido para %s", target),
		Sender:    models.SenderSystem,
		AgentName: "System",
		Timestamp: time.Now().UnixMilli(),
	}

	var set bson.M
	if isDepartment {
		set = bson.M{
			"status":     models.StatusOpen,
			"agentId":    nil,
			"aiCategory": target,
		}
	} else {
		set = bson.M{
			"status":  models.StatusActive,
			"agentId": target,
		}
	}

	if err := s.repo.ApplyTransition(ctx, objID, sysMsg, set); err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	s.publisher.PublishTicket(ctx, models.EventUpdated, ticket)
	return ticket, nil
}

// Reopen brings a closed ticket back to active, owned by the reopening
// agent, with a system message recording who did it.
func (s *TicketService) Reopen(ctx context.Context, id, agentName string) (*models.Ticket, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	sysMsg := models.Message{
		Text:      fmt.Sprintf("Ticket reaberto por %s", agentName),
		Sender:    models.SenderSystem,
		AgentName: "System",
		Timestamp: time.Now().UnixMilli(),
	}
	set := bson.M{
		"status":  models.StatusActive,
		"agentId": agentName,
	}

	if err := s.repo.ApplyTransition(ctx, objID, sysMsg, set); err != nil {
		return nil, err
	}

	ticket, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	s.publisher.PublishTicket(ctx, models.EventUpdated, ticket)
	return ticket, nil
}

// SendMessage appends the message to the ticket unconditionally, then
// attempts WhatsApp delivery for agent messages. A closed 24-hour window
// (codes 131047/131026) is swallowed: the message stays persisted and the
// caller still gets the success envelope. Any other delivery failure is
// returned, but the append is not rolled back.
func (s *TicketService) SendMessage(ctx context.Context, id string, msg models.Message, customerPhone string) (*models.Ticket, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}

	ticket, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}

	// The ticket's stored number wins over whatever the client sent.
	phone := ticket.CustomerPhone
	if phone == "" {
		phone = customerPhone
	}

	msg.Timestamp = time.Now().UnixMilli()
	if err := s.repo.AppendMessage(ctx, objID, msg, phone); err != nil {
		return nil, fmt.Errorf("append message: %w", err)
	}

	if msg.Sender == models.SenderAgent && s.sender.Configured() && phone != "" {
		if _, err := s.sender.SendText(ctx, phone, msg.Text); err != nil {
			var sendErr *whatsapp.SendError
			if errors.As(err, &sendErr) && sendErr.WindowClosed() {
				log.Printf("24h window closed for %s, message persisted but not delivered (code %d)", phone, sendErr.Code)
			} else {
				return nil, fmt.Errorf("whatsapp delivery: %w", err)
			}
		}
	}

	updated, err := s.repo.GetByID(ctx, objID)
	if err != nil {
		return nil, err
	}
	s.publisher.PublishTicket(ctx, models.EventMessageSent, updated)
	return updated, nil
}

// Stats runs the dashboard aggregation over the full list, the same naive
// scan the front end used to do per poll tick.
func (s *TicketService) Stats(ctx context.Context) (*models.TicketStats, error) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.TicketStats{
		ClosedByAgent: map[string]int{},
		ActiveByAgent: map[string]int{},
	}
	var totalWait, totalHandle float64
	var closedWithTimes int

	for _, t := range tickets {
		stats.Total++
		switch t.Status {
		case models.StatusOpen, models.StatusAnalyzing:
			stats.Waiting++
		case models.StatusActive:
			stats.InAttendance++
			if t.AgentID != nil {
				stats.ActiveByAgent[*t.AgentID]++
			}
		case models.StatusClosed:
			stats.Finalized++
			agent := "Desconhecido"
			if t.AgentID != nil {
				agent = *t.AgentID
			}
			stats.ClosedByAgent[agent]++
			if t.StartedAt != nil {
				totalWait += t.StartedAt.Sub(t.CreatedAt).Seconds()
				if t.ClosedAt != nil {
					totalHandle += t.ClosedAt.Sub(*t.StartedAt).Seconds()
				}
				closedWithTimes++
			}
		}
	}
	stats.StartedPeriod = stats.InAttendance + stats.Finalized
	if closedWithTimes > 0 {
		stats.AvgWaitSecs = totalWait / float64(closedWithTimes)
		stats.AvgHandleSecs = totalHandle / float64(closedWithTimes)
	}
	return stats, nil
}
