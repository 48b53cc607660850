package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogItem is the flat shape shared by departments, users, tags,
// reasons and quick responses. Fields that a given collection does not
// use stay empty and are omitted on the wire.
type CatalogItem struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name" validate:"required"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Role        string             `bson:"role,omitempty" json:"role,omitempty"`
	Password    string             `bson:"password,omitempty" json:"-"`
	// PlainPassword is accepted on create/update and hashed before storage.
	PlainPassword string    `bson:"-" json:"password,omitempty"`
	Color         string    `bson:"color,omitempty" json:"color,omitempty"`
	Text          string    `bson:"text,omitempty" json:"text,omitempty"`
	Shortcut      string    `bson:"shortcut,omitempty" json:"shortcut,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Collections that share the generic CRUD surface.
const (
	ColTickets        = "tickets"
	ColContacts       = "contacts"
	ColDepartments    = "departments"
	ColUsers          = "users"
	ColTags           = "tags"
	ColReasons        = "reasons"
	ColQuickResponses = "quickResponses"
	ColSettings       = "settings"
)

// CatalogCollections lists the collections served by the generic CRUD
// routes. Contacts share the same route shape but carry their own model.
var CatalogCollections = []string{
	ColQuickResponses, ColDepartments, ColUsers, ColTags, ColReasons,
}
