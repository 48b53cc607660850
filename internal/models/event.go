package models

// TicketEvent is the envelope published to Redis and pushed to websocket
// clients. Seq is a monotonically increasing counter so a reconnecting
// client can ask for "events since N" instead of re-fetching blindly.
type TicketEvent struct {
	Seq       int64   `json:"seq"`
	Event     string  `json:"event"`
	Ticket    *Ticket `json:"ticket,omitempty"`
	TicketID  string  `json:"ticketId,omitempty"`
	Timestamp int64   `json:"timestamp"`
}

const (
	EventCreated     = "created"
	EventUpdated     = "updated"
	EventMessageSent = "message_sent"
	EventDeleted     = "deleted"
	// EventResync tells a client its requested replay window is gone and it
	// must re-fetch the full list.
	EventResync = "resync"
)
