package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TicketStatus string

const (
	StatusOpen   TicketStatus = "open"
	StatusActive TicketStatus = "active"
	// StatusAnalyzing is referenced by dashboard filters but nothing ever sets it.
	StatusAnalyzing TicketStatus = "analyzing"
	StatusClosed    TicketStatus = "closed"
)

type MessageSender string

const (
	SenderAgent    MessageSender = "agent"
	SenderCustomer MessageSender = "customer"
	SenderSystem   MessageSender = "system"
)

type MessageKind string

const (
	KindText     MessageKind = "text"
	KindImage    MessageKind = "image"
	KindDocument MessageKind = "document"
	KindAudio    MessageKind = "audio"
	KindVideo    MessageKind = "video"
	KindLocation MessageKind = "location"
	KindContacts MessageKind = "contacts"
)

// Message is embedded in the ticket document, never stored on its own.
// Timestamp is epoch millis to stay wire-compatible with WhatsApp payloads.
type Message struct {
	Text      string        `bson:"text" json:"text" validate:"required"`
	Sender    MessageSender `bson:"sender" json:"sender" validate:"required,oneof=agent customer system"`
	AgentName string        `bson:"agentName,omitempty" json:"agentName,omitempty"`
	Timestamp int64         `bson:"timestamp" json:"timestamp"`
	Type      MessageKind   `bson:"type,omitempty" json:"type,omitempty"`
	MediaID   string        `bson:"mediaId,omitempty" json:"mediaId,omitempty"`
	MimeType  string        `bson:"mimeType,omitempty" json:"mimeType,omitempty"`
	Filename  string        `bson:"filename,omitempty" json:"filename,omitempty"`
}

// Ticket is one customer conversation. AgentID holds the agent display name
// or nothing; AICategory holds a department name after a transfer. Both are
// denormalized copies, not references.
type Ticket struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CustomerName  string             `bson:"customerName" json:"customerName" validate:"required"`
	CustomerPhone string             `bson:"customerPhone" json:"customerPhone" validate:"required"`
	Status        TicketStatus       `bson:"status" json:"status" validate:"omitempty,oneof=open active analyzing closed"`
	AgentID       *string            `bson:"agentId" json:"agentId"`
	Messages      []Message          `bson:"messages" json:"messages"`
	AICategory    *string            `bson:"aiCategory" json:"aiCategory"`
	AIPriority    *string            `bson:"aiPriority" json:"aiPriority"`
	Notes         string             `bson:"notes" json:"notes"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	StartedAt     *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	ClosedAt      *time.Time         `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// TicketUpdate carries the mutable fields a PUT /tickets/:id may touch.
// Pointers distinguish "not sent" from zero values so a partial update
// only $sets what the caller provided.
type TicketUpdate struct {
	CustomerName *string       `json:"customerName,omitempty"`
	Status       *TicketStatus `json:"status,omitempty" validate:"omitempty,oneof=open active analyzing closed"`
	AgentID      *string       `json:"agentId,omitempty"`
	AICategory   *string       `json:"aiCategory,omitempty"`
	AIPriority   *string       `json:"aiPriority,omitempty"`
	Notes        *string       `json:"notes,omitempty"`
	StartedAt    *time.Time    `json:"startedAt,omitempty"`
	ClosedAt     *time.Time    `json:"closedAt,omitempty"`
}

// TicketStats aggregates the dashboard counters over the full ticket list.
type TicketStats struct {
	Total         int            `json:"total"`
	StartedPeriod int            `json:"startedPeriod"`
	Waiting       int            `json:"waiting"`
	InAttendance  int            `json:"inAttendance"`
	Finalized     int            `json:"finalized"`
	AvgWaitSecs   float64        `json:"avgWait"`
	AvgHandleSecs float64        `json:"avgHandle"`
	ClosedByAgent map[string]int `json:"closedByAgent"`
	ActiveByAgent map[string]int `json:"activeByAgent"`
}
