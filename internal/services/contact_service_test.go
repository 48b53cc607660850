package services

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nextalk-desk/internal/models"
)

type fakeContactRepo struct {
	contacts map[primitive.ObjectID]*models.Contact
	inserts  int
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: map[primitive.ObjectID]*models.Contact{}}
}

func (f *fakeContactRepo) List(ctx context.Context) ([]models.Contact, error) {
	out := make([]models.Contact, 0, len(f.contacts))
	for _, c := range f.contacts {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeContactRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	c, ok := f.contacts[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeContactRepo) FindByPhone(ctx context.Context, phone string) (*models.Contact, error) {
	for _, c := range f.contacts {
		if c.Phone == phone {
			copied := *c
			return &copied, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeContactRepo) Insert(ctx context.Context, contact *models.Contact) error {
	contact.ID = primitive.NewObjectID()
	copied := *contact
	f.contacts[contact.ID] = &copied
	f.inserts++
	return nil
}

func (f *fakeContactRepo) Update(ctx context.Context, id primitive.ObjectID, contact *models.Contact) error {
	if _, ok := f.contacts[id]; !ok {
		return models.ErrNotFound
	}
	contact.ID = id
	copied := *contact
	f.contacts[id] = &copied
	return nil
}

func (f *fakeContactRepo) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	c, ok := f.contacts[id]
	if !ok {
		return models.ErrNotFound
	}
	c.Blocked = blocked
	return nil
}

func (f *fakeContactRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := f.contacts[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.contacts, id)
	return nil
}

type fakeTicketLister struct {
	tickets []models.Ticket
}

func (f *fakeTicketLister) ListByPhone(ctx context.Context, phone string) ([]models.Ticket, error) {
	var out []models.Ticket
	for _, t := range f.tickets {
		if t.CustomerPhone == phone {
			out = append(out, t)
		}
	}
	return out, nil
}

func TestFindOrCreateByPhone_Idempotent(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo, &fakeTicketLister{})

	first, err := svc.FindOrCreateByPhone(context.Background(), "5511999990000", models.Contact{})
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	second, err := svc.FindOrCreateByPhone(context.Background(), "5511999990000", models.Contact{})
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if repo.inserts != 1 {
		t.Errorf("inserts = %d, want 1", repo.inserts)
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %s vs %s", first.ID.Hex(), second.ID.Hex())
	}
	if first.Name != "Contato 5511999990000" {
		t.Errorf("default name = %q", first.Name)
	}
	if first.Blocked {
		t.Error("new contact must not start blocked")
	}
	if first.Tags == nil {
		t.Error("tags must be an empty slice, not nil")
	}
}

func TestFindOrCreateByPhone_KeepsProvidedName(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo, &fakeTicketLister{})

	contact, err := svc.FindOrCreateByPhone(context.Background(), "5511999990000", models.Contact{Name: "Maria"})
	if err != nil {
		t.Fatalf("FindOrCreateByPhone failed: %v", err)
	}
	if contact.Name != "Maria" {
		t.Errorf("name = %q, want Maria", contact.Name)
	}
}

func TestSetBlocked_ReturnsRefreshedContact(t *testing.T) {
	repo := newFakeContactRepo()
	contact := &models.Contact{Name: "Maria", Phone: "5511999990000"}
	repo.Insert(context.Background(), contact)
	svc := NewContactService(repo, &fakeTicketLister{})

	updated, err := svc.SetBlocked(context.Background(), contact.ID.Hex(), true)
	if err != nil {
		t.Fatalf("SetBlocked failed: %v", err)
	}
	if !updated.Blocked {
		t.Error("contact not blocked after SetBlocked(true)")
	}
}

func TestActivityLogs_DerivedFromTickets(t *testing.T) {
	repo := newFakeContactRepo()
	contact := &models.Contact{Name: "Maria", Phone: "5511999990000"}
	repo.Insert(context.Background(), contact)

	agent := "Ana"
	created := time.Now().Add(-2 * time.Hour)
	started := created.Add(5 * time.Minute)
	closed := started.Add(30 * time.Minute)

	lister := &fakeTicketLister{tickets: []models.Ticket{{
		ID:            primitive.NewObjectID(),
		CustomerName:  "Maria",
		CustomerPhone: "5511999990000",
		Status:        models.StatusClosed,
		AgentID:       &agent,
		CreatedAt:     created,
		StartedAt:     &started,
		ClosedAt:      &closed,
		Messages: []models.Message{
			{Text: "Ticket transferido para Financeiro", Sender: models.SenderSystem, Timestamp: created.Add(10 * time.Minute).UnixMilli()},
		},
	}}}

	svc := NewContactService(repo, lister)
	logs, err := svc.ActivityLogs(context.Background(), contact.ID.Hex())
	if err != nil {
		t.Fatalf("ActivityLogs failed: %v", err)
	}

	// created + started + closed + one system message
	if len(logs) != 4 {
		t.Fatalf("logs = %d entries, want 4", len(logs))
	}
	for i := 1; i < len(logs); i++ {
		if logs[i].Timestamp.After(logs[i-1].Timestamp) {
			t.Errorf("logs not sorted newest first at %d", i)
		}
	}

	types := map[string]bool{}
	for _, l := range logs {
		types[l.Type] = true
	}
	for _, want := range []string{"ticket_created", "ticket_started", "ticket_closed", "system_message"} {
		if !types[want] {
			t.Errorf("missing log type %q", want)
		}
	}
}
