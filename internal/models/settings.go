package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Settings is a singleton document of type "general" holding UI toggles.
type Settings struct {
	ID                          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Type                        string             `bson:"type" json:"type,omitempty"`
	IdentifyUser                bool               `bson:"identifyUser" json:"identifyUser"`
	HidePhoneNumbers            bool               `bson:"hidePhoneNumbers" json:"hidePhoneNumbers"`
	HideDispatchedConversations bool               `bson:"hideDispatchedConversations" json:"hideDispatchedConversations"`
	InactivityTimeout           int                `bson:"inactivityTimeout" json:"inactivityTimeout" validate:"gte=0"`
	CreatedAt                   time.Time          `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt                   time.Time          `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

const SettingsTypeGeneral = "general"
