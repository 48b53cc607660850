package client

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"nextalk-desk/internal/models"
)

type pendingMessage struct {
	ticketID string
	message  models.Message
}

// TicketStore mirrors the server's ticket list on top of the event stream.
// Server state is authoritative; messages sent by the local agent are shown
// as a pending overlay until the server acknowledges or rejects them.
type TicketStore struct {
	mu      sync.RWMutex
	tickets map[string]models.Ticket
	pending map[string]pendingMessage
	lastSeq int64
}

func NewTicketStore() *TicketStore {
	return &TicketStore{
		tickets: make(map[string]models.Ticket),
		pending: make(map[string]pendingMessage),
	}
}

// Replace loads a full snapshot fetched from the server, usually after
// connect or after a resync event. Pending overlays survive the reload.
func (s *TicketStore) Replace(tickets []models.Ticket, seq int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets = make(map[string]models.Ticket, len(tickets))
	for _, t := range tickets {
		s.tickets[t.ID.Hex()] = t
	}
	s.lastSeq = seq
}

// ApplyEvent folds one stream event into the store. It returns true when the
// caller must refetch the full list: either the server asked for a resync or
// a gap in sequence numbers means events were missed.
func (s *TicketStore) ApplyEvent(ev models.TicketEvent) (needResync bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ev.Event == models.EventResync {
		s.lastSeq = ev.Seq
		return true
	}
	if ev.Seq <= s.lastSeq {
		return false
	}
	if s.lastSeq != 0 && ev.Seq != s.lastSeq+1 {
		return true
	}
	s.lastSeq = ev.Seq

	switch ev.Event {
	case models.EventDeleted:
		delete(s.tickets, ev.TicketID)
	default:
		// The webhook server publishes created/updated with only the
		// ticket id; the body has to come from a refetch.
		if ev.Ticket == nil {
			return true
		}
		s.tickets[ev.Ticket.ID.Hex()] = *ev.Ticket
	}
	return false
}

// AddPending registers an optimistic outgoing message and returns an id the
// caller uses to settle it once the send request finishes.
func (s *TicketStore) AddPending(ticketID string, msg models.Message) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.pending[id] = pendingMessage{ticketID: ticketID, message: msg}
	return id
}

// AckPending settles a pending message after the server confirmed it. The
// returned ticket from the send call replaces the local copy.
func (s *TicketStore) AckPending(id string, ticket *models.Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
	if ticket != nil {
		s.tickets[ticket.ID.Hex()] = *ticket
	}
}

// FailPending rolls back a pending message after the server rejected it.
func (s *TicketStore) FailPending(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
}

func (s *TicketStore) PendingCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending)
}

func (s *TicketStore) LastSeq() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeq
}

func (s *TicketStore) Get(id string) (models.Ticket, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return models.Ticket{}, false
	}
	return s.withOverlay(t), true
}

// Snapshot returns all tickets with pending messages overlaid, newest first.
func (s *TicketStore) Snapshot() []models.Ticket {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Ticket, 0, len(s.tickets))
	for _, t := range s.tickets {
		out = append(out, s.withOverlay(t))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *TicketStore) withOverlay(t models.Ticket) models.Ticket {
	id := t.ID.Hex()
	var overlay []models.Message
	for _, p := range s.pending {
		if p.ticketID == id {
			overlay = append(overlay, p.message)
		}
	}
	if len(overlay) == 0 {
		return t
	}
	sort.Slice(overlay, func(i, j int) bool {
		return overlay[i].Timestamp < overlay[j].Timestamp
	})
	messages := make([]models.Message, 0, len(t.Messages)+len(overlay))
	messages = append(messages, t.Messages...)
	messages = append(messages, overlay...)
	t.Messages = messages
	return t
}
