package client

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nextalk-desk/internal/models"
)

func storeWithTicket(t *testing.T) (*TicketStore, models.Ticket) {
	t.Helper()
	ticket := models.Ticket{
		ID:            primitive.NewObjectID(),
		CustomerName:  "Maria",
		CustomerPhone: "5511999990000",
		Status:        models.StatusActive,
		CreatedAt:     time.Now(),
		Messages:      []models.Message{{Text: "Olá", Sender: models.SenderCustomer, Timestamp: 1}},
	}
	s := NewTicketStore()
	s.Replace([]models.Ticket{ticket}, 10)
	return s, ticket
}

func TestPendingOverlay_AckClears(t *testing.T) {
	s, ticket := storeWithTicket(t)

	id := s.AddPending(ticket.ID.Hex(), models.Message{
		Text: "Já verifico", Sender: models.SenderAgent, Timestamp: 2,
	})

	got, ok := s.Get(ticket.ID.Hex())
	if !ok {
		t.Fatal("ticket missing")
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages with overlay = %d, want 2", len(got.Messages))
	}

	// Server ack carries the authoritative ticket including the message.
	acked := ticket
	acked.Messages = append(acked.Messages, models.Message{
		Text: "Já verifico", Sender: models.SenderAgent, Timestamp: 2,
	})
	s.AckPending(id, &acked)

	got, _ = s.Get(ticket.ID.Hex())
	if len(got.Messages) != 2 {
		t.Errorf("messages after ack = %d, want 2 (no duplicate)", len(got.Messages))
	}
	if s.PendingCount() != 0 {
		t.Errorf("pending = %d, want 0", s.PendingCount())
	}
}

func TestPendingOverlay_FailRollsBack(t *testing.T) {
	s, ticket := storeWithTicket(t)

	id := s.AddPending(ticket.ID.Hex(), models.Message{
		Text: "Já verifico", Sender: models.SenderAgent, Timestamp: 2,
	})
	s.FailPending(id)

	got, _ := s.Get(ticket.ID.Hex())
	if len(got.Messages) != 1 {
		t.Errorf("messages after failure = %d, want the original 1", len(got.Messages))
	}
}

func TestApplyEvent_IgnoresStale(t *testing.T) {
	s, ticket := storeWithTicket(t)

	stale := ticket
	stale.Status = models.StatusOpen
	resync := s.ApplyEvent(models.TicketEvent{Seq: 9, Event: models.EventUpdated, Ticket: &stale})

	if resync {
		t.Error("stale event must not force a resync")
	}
	got, _ := s.Get(ticket.ID.Hex())
	if got.Status != models.StatusActive {
		t.Errorf("stale event was applied, status = %q", got.Status)
	}
}

func TestApplyEvent_AppliesNext(t *testing.T) {
	s, ticket := storeWithTicket(t)

	updated := ticket
	updated.Status = models.StatusClosed
	resync := s.ApplyEvent(models.TicketEvent{Seq: 11, Event: models.EventUpdated, Ticket: &updated})

	if resync {
		t.Error("in-order event must not force a resync")
	}
	got, _ := s.Get(ticket.ID.Hex())
	if got.Status != models.StatusClosed {
		t.Errorf("status = %q, want closed", got.Status)
	}
	if s.LastSeq() != 11 {
		t.Errorf("lastSeq = %d, want 11", s.LastSeq())
	}
}

func TestApplyEvent_GapForcesResync(t *testing.T) {
	s, ticket := storeWithTicket(t)

	updated := ticket
	if resync := s.ApplyEvent(models.TicketEvent{Seq: 15, Event: models.EventUpdated, Ticket: &updated}); !resync {
		t.Error("a sequence gap must force a resync")
	}
}

func TestApplyEvent_IDOnlyForcesRefetch(t *testing.T) {
	s := NewTicketStore()
	s.Replace(nil, 10)

	ev := models.TicketEvent{Seq: 11, Event: models.EventCreated, TicketID: primitive.NewObjectID().Hex()}
	if resync := s.ApplyEvent(ev); !resync {
		t.Error("an id-only created event must force a refetch")
	}
	if s.LastSeq() != 11 {
		t.Errorf("lastSeq = %d, want 11", s.LastSeq())
	}
}

func TestApplyEvent_Delete(t *testing.T) {
	s, ticket := storeWithTicket(t)

	s.ApplyEvent(models.TicketEvent{Seq: 11, Event: models.EventDeleted, TicketID: ticket.ID.Hex()})
	if _, ok := s.Get(ticket.ID.Hex()); ok {
		t.Error("deleted ticket still present")
	}
}

func TestApplyEvent_ResyncEvent(t *testing.T) {
	s, _ := storeWithTicket(t)

	if resync := s.ApplyEvent(models.TicketEvent{Seq: 40, Event: models.EventResync}); !resync {
		t.Error("resync event must force a refetch")
	}
	if s.LastSeq() != 40 {
		t.Errorf("lastSeq = %d, want 40", s.LastSeq())
	}
}

func TestSnapshot_NewestFirst(t *testing.T) {
	s := NewTicketStore()
	older := models.Ticket{ID: primitive.NewObjectID(), CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Ticket{ID: primitive.NewObjectID(), CreatedAt: time.Now()}
	s.Replace([]models.Ticket{older, newer}, 1)

	snap := s.Snapshot()
	if len(snap) != 2 {
		t.Fatalf("snapshot = %d tickets", len(snap))
	}
	if snap[0].ID != newer.ID {
		t.Error("snapshot is not sorted newest first")
	}
}
