package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nextalk-desk/internal/models"
)

type ContactRepository interface {
	List(ctx context.Context) ([]models.Contact, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error)
	FindByPhone(ctx context.Context, phone string) (*models.Contact, error)
	Insert(ctx context.Context, contact *models.Contact) error
	Update(ctx context.Context, id primitive.ObjectID, contact *models.Contact) error
	SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type ContactTicketLister interface {
	ListByPhone(ctx context.Context, phone string) ([]models.Ticket, error)
}

type ContactService struct {
	repo    ContactRepository
	tickets ContactTicketLister
}

func NewContactService(repo ContactRepository, tickets ContactTicketLister) *ContactService {
	return &ContactService{repo: repo, tickets: tickets}
}

func (s *ContactService) ListContacts(ctx context.Context) ([]models.Contact, error) {
	return s.repo.List(ctx)
}

func (s *ContactService) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}
	return s.repo.GetByID(ctx, objID)
}

func (s *ContactService) CreateContact(ctx context.Context, contact *models.Contact) error {
	return s.repo.Insert(ctx, contact)
}

func (s *ContactService) UpdateContact(ctx context.Context, id string, contact *models.Contact) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	return s.repo.Update(ctx, objID, contact)
}

func (s *ContactService) DeleteContact(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	return s.repo.Delete(ctx, objID)
}

func (s *ContactService) SetBlocked(ctx context.Context, id string, blocked bool) (*models.Contact, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrInvalidID
	}
	if err := s.repo.SetBlocked(ctx, objID, blocked); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, objID)
}

// FindOrCreateByPhone returns the existing contact for a phone number or
// creates a minimal one. The lookup is idempotent, creation is not: two
// concurrent calls for an unknown phone can still race.
func (s *ContactService) FindOrCreateByPhone(ctx context.Context, phone string, defaults models.Contact) (*models.Contact, error) {
	existing, err := s.repo.FindByPhone(ctx, phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	contact := defaults
	contact.Phone = phone
	if contact.Name == "" {
		contact.Name = fmt.Sprintf("Contato %s", phone)
	}
	contact.Blocked = false
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	if err := s.repo.Insert(ctx, &contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return &contact, nil
}

// Conversations lists every ticket whose customerPhone matches the
// contact's phone, newest first.
func (s *ContactService) Conversations(ctx context.Context, id string) ([]models.Ticket, error) {
	contact, err := s.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.tickets.ListByPhone(ctx, contact.Phone)
}

// ActivityLogs derives a timeline from the contact's tickets: creation,
// pick-up, closure and every system message (transfers, reopens).
func (s *ContactService) ActivityLogs(ctx context.Context, id string) ([]models.ActivityLog, error) {
	contact, err := s.GetContact(ctx, id)
	if err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByPhone(ctx, contact.Phone)
	if err != nil {
		return nil, err
	}

	logs := []models.ActivityLog{}
	for _, t := range tickets {
		tid := t.ID.Hex()
		logs = append(logs, models.ActivityLog{
			ID:          tid + "_created",
			Type:        "ticket_created",
			Description: fmt.Sprintf("Ticket criado: %s", t.CustomerName),
			Timestamp:   t.CreatedAt,
			TicketID:    tid,
		})
		if t.StartedAt != nil {
			agent := "Sistema"
			if t.AgentID != nil {
				agent = *t.AgentID
			}
			logs = append(logs, models.ActivityLog{
				ID:          tid + "_started",
				Type:        "ticket_started",
				Description: fmt.Sprintf("Atendimento iniciado por %s", agent),
				Timestamp:   *t.StartedAt,
				TicketID:    tid,
			})
		}
		if t.ClosedAt != nil {
			logs = append(logs, models.ActivityLog{
				ID:          tid + "_closed",
				Type:        "ticket_closed",
				Description: "Ticket finalizado",
				Timestamp:   *t.ClosedAt,
				TicketID:    tid,
			})
		}
		for idx, msg := range t.Messages {
			if msg.Sender != models.SenderSystem {
				continue
			}
			ts := t.UpdatedAt
			if msg.Timestamp > 0 {
				ts = time.UnixMilli(msg.Timestamp)
			}
			logs = append(logs, models.ActivityLog{
				ID:          fmt.Sprintf("%s_msg_%d", tid, idx),
				Type:        "system_message",
				Description: msg.Text,
				Timestamp:   ts,
				TicketID:    tid,
			})
		}
	}

	sort.Slice(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}
