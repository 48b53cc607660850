package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nextalk-desk/internal/models"
)

type ContactRepository struct {
	col *mongo.Collection
}

func NewContactRepository(db *mongo.Database) *ContactRepository {
	return &ContactRepository{col: db.Collection(models.ColContacts)}
}

func (r *ContactRepository) List(ctx context.Context) ([]models.Contact, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var result []models.Contact
	err = cursor.All(ctx, &result)
	return result, err
}

func (r *ContactRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Contact, error) {
	var contact models.Contact
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// FindByPhone matches on the raw phone string. There is no unique index,
// duplicates are possible and the newest lookup returns the first match.
func (r *ContactRepository) FindByPhone(ctx context.Context, phone string) (*models.Contact, error) {
	var contact models.Contact
	err := r.col.FindOne(ctx, bson.M{"phone": phone}).Decode(&contact)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) Insert(ctx context.Context, contact *models.Contact) error {
	contact.ID = primitive.NewObjectID()
	contact.CreatedAt = time.Now()
	contact.UpdatedAt = time.Now()
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	_, err := r.col.InsertOne(ctx, contact)
	return err
}

func (r *ContactRepository) Update(ctx context.Context, id primitive.ObjectID, contact *models.Contact) error {
	set := bson.M{
		"name":       contact.Name,
		"phone":      contact.Phone,
		"email":      contact.Email,
		"landline":   contact.Landline,
		"gender":     contact.Gender,
		"address":    contact.Address,
		"complement": contact.Complement,
		"avatar":     contact.Avatar,
		"notes":      contact.Notes,
		"tags":       contact.Tags,
		"updatedAt":  time.Now(),
	}
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) SetBlocked(ctx context.Context, id primitive.ObjectID, blocked bool) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{
		"$set": bson.M{"blocked": blocked, "updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
