package webhook

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nextalk-desk/internal/models"
	"nextalk-desk/internal/services"
	"nextalk-desk/internal/whatsapp"
)

// TicketStore is the slice of the ticket repository the processor needs.
type TicketStore interface {
	FindOpenByPhone(ctx context.Context, phone string) (*models.Ticket, error)
	Insert(ctx context.Context, ticket *models.Ticket) error
	AppendMessage(ctx context.Context, id primitive.ObjectID, msg models.Message, phone string) error
}

// ReadMarker flags a processed inbound message as read on WhatsApp.
type ReadMarker interface {
	Configured() bool
	MarkRead(ctx context.Context, messageID string) error
}

// ContactRegistrar records the sender as a contact if not yet known.
type ContactRegistrar interface {
	FindOrCreateByPhone(ctx context.Context, phone string, defaults models.Contact) (*models.Contact, error)
}

// Processor turns inbound WhatsApp events into ticket mutations. Each
// webhook request is processed synchronously inline with the HTTP
// response; there is no queue and no dedup by WhatsApp message ID.
type Processor struct {
	store     TicketStore
	publisher services.EventPublisher
	marker    ReadMarker
	contacts  ContactRegistrar
}

func NewProcessor(store TicketStore, publisher services.EventPublisher, marker ReadMarker, contacts ContactRegistrar) *Processor {
	return &Processor{store: store, publisher: publisher, marker: marker, contacts: contacts}
}

// Process walks the whole payload. Individual message failures are logged
// and do not abort the remaining entries.
func (p *Processor) Process(ctx context.Context, payload *Payload) error {
	if payload.Object != "whatsapp_business_account" {
		return models.ErrValidation
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			value := change.Value

			for _, msg := range value.Messages {
				name := value.SenderName(msg.From)
				log.Printf("Inbound message from %s (%s), type=%s id=%s", name, msg.From, msg.Type, msg.ID)

				content := ClassifyContent(msg)
				if _, err := p.Ingest(ctx, msg.From, name, content); err != nil {
					log.Printf("Failed to ingest message %s: %v", msg.ID, err)
					continue
				}

				if p.contacts != nil {
					defaults := models.Contact{}
					if name != msg.From {
						defaults.Name = name
					}
					if _, err := p.contacts.FindOrCreateByPhone(ctx, msg.From, defaults); err != nil {
						log.Printf("Failed to register contact %s: %v", msg.From, err)
					}
				}

				if p.marker != nil && p.marker.Configured() {
					if err := p.marker.MarkRead(ctx, msg.ID); err != nil {
						log.Printf("Failed to mark message %s as read: %v", msg.ID, err)
					}
				}
			}

			for _, status := range value.Statuses {
				logStatus(status)
			}
		}
	}
	return nil
}

// Ingest appends the message to the newest open/active ticket for the
// phone, creating an open unassigned ticket when there is none. The
// find-then-create pair is not guarded: two concurrent deliveries for an
// unknown phone can still create duplicate tickets.
func (p *Processor) Ingest(ctx context.Context, phone, customerName string, content MessageContent) (string, error) {
	msg := models.Message{
		Text:      content.Content,
		Sender:    models.SenderCustomer,
		Timestamp: time.Now().UnixMilli(),
		Type:      content.Type,
		MediaID:   content.MediaID,
		MimeType:  content.MimeType,
		Filename:  content.Filename,
	}
	if msg.Type == "" {
		msg.Type = models.KindText
	}

	existing, err := p.store.FindOpenByPhone(ctx, phone)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return "", fmt.Errorf("find ticket by phone: %w", err)
	}

	if existing != nil {
		if err := p.store.AppendMessage(ctx, existing.ID, msg, phone); err != nil {
			return "", fmt.Errorf("append inbound message: %w", err)
		}
		log.Printf("Message appended to existing ticket: %s", existing.ID.Hex())
		p.publisher.PublishTicketID(ctx, models.EventUpdated, existing.ID.Hex())
		return existing.ID.Hex(), nil
	}

	name := customerName
	if name == "" {
		name = phone
	}
	ticket := &models.Ticket{
		CustomerName:  name,
		CustomerPhone: phone,
		Status:        models.StatusOpen,
		AgentID:       nil,
		Messages:      []models.Message{msg},
		Notes:         "",
	}
	if err := p.store.Insert(ctx, ticket); err != nil {
		return "", fmt.Errorf("create ticket: %w", err)
	}
	log.Printf("New ticket created: %s", ticket.ID.Hex())
	p.publisher.PublishTicketID(ctx, models.EventCreated, ticket.ID.Hex())
	return ticket.ID.Hex(), nil
}

func logStatus(status Status) {
	log.Printf("Message status: id=%s status=%s to=%s", status.ID, status.Status, status.RecipientID)
	for _, e := range status.Errors {
		log.Printf("  delivery error code=%d title=%q message=%q details=%q",
			e.Code, e.Title, e.Message, e.ErrorData.Details)
		switch e.Code {
		case whatsapp.CodeWindowClosed:
			log.Printf("  hint: 24h window closed, a template message is required")
		case whatsapp.CodeGenericFailed:
			log.Printf("  hint: generic failure (invalid number, block or temporary outage)")
		case whatsapp.CodeBadParameter:
			log.Printf("  hint: invalid parameter or unsupported file type")
		}
	}
}
