package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contact is a known customer identity. Tickets reference it only by
// matching the phone string at query time, there is no foreign key.
type Contact struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name" validate:"required"`
	Phone      string             `bson:"phone" json:"phone" validate:"required"`
	Email      string             `bson:"email" json:"email" validate:"omitempty,email"`
	Landline   string             `bson:"landline" json:"landline"`
	Gender     string             `bson:"gender" json:"gender"`
	Address    string             `bson:"address" json:"address"`
	Complement string             `bson:"complement" json:"complement"`
	Avatar     string             `bson:"avatar" json:"avatar"`
	Notes      string             `bson:"notes" json:"notes"`
	Tags       []string           `bson:"tags" json:"tags"`
	Blocked    bool               `bson:"blocked" json:"blocked"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ActivityLog is derived from a contact's tickets on demand, never stored.
type ActivityLog struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Timestamp   time.Time `json:"timestamp"`
	TicketID    string    `json:"ticketId"`
}
