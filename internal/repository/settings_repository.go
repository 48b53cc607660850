package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nextalk-desk/internal/models"
)

type SettingsRepository struct {
	col *mongo.Collection
}

func NewSettingsRepository(db *mongo.Database) *SettingsRepository {
	return &SettingsRepository{col: db.Collection(models.ColSettings)}
}

func (r *SettingsRepository) GetGeneral(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	err := r.col.FindOne(ctx, bson.M{"type": models.SettingsTypeGeneral}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpsertGeneral updates the singleton in place, inserting it on first write.
func (r *SettingsRepository) UpsertGeneral(ctx context.Context, settings *models.Settings) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"type": models.SettingsTypeGeneral},
		bson.M{
			"$set": bson.M{
				"identifyUser":                settings.IdentifyUser,
				"hidePhoneNumbers":            settings.HidePhoneNumbers,
				"hideDispatchedConversations": settings.HideDispatchedConversations,
				"inactivityTimeout":           settings.InactivityTimeout,
				"updatedAt":                   time.Now(),
			},
			"$setOnInsert": bson.M{
				"type":      models.SettingsTypeGeneral,
				"createdAt": time.Now(),
			},
		},
		options.Update().SetUpsert(true))
	return err
}
