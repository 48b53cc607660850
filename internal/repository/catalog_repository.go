package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"nextalk-desk/internal/models"
)

// CatalogRepository serves the flat reference collections (departments,
// users, tags, reasons, quickResponses) that all share the same CRUD shape.
type CatalogRepository struct {
	db *mongo.Database
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) List(ctx context.Context, collection string) ([]models.CatalogItem, error) {
	cursor, err := r.db.Collection(collection).Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var result []models.CatalogItem
	err = cursor.All(ctx, &result)
	return result, err
}

func (r *CatalogRepository) Insert(ctx context.Context, collection string, item *models.CatalogItem) error {
	item.ID = primitive.NewObjectID()
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	_, err := r.db.Collection(collection).InsertOne(ctx, item)
	return err
}

func (r *CatalogRepository) Update(ctx context.Context, collection string, id primitive.ObjectID, item *models.CatalogItem) error {
	set := bson.M{
		"name":      item.Name,
		"updatedAt": time.Now(),
	}
	if item.Description != "" {
		set["description"] = item.Description
	}
	if item.Email != "" {
		set["email"] = item.Email
	}
	if item.Role != "" {
		set["role"] = item.Role
	}
	if item.Password != "" {
		set["password"] = item.Password
	}
	if item.Color != "" {
		set["color"] = item.Color
	}
	if item.Text != "" {
		set["text"] = item.Text
	}
	if item.Shortcut != "" {
		set["shortcut"] = item.Shortcut
	}
	res, err := r.db.Collection(collection).UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) Delete(ctx context.Context, collection string, id primitive.ObjectID) error {
	res, err := r.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CatalogRepository) Count(ctx context.Context, collection string) (int64, error) {
	return r.db.Collection(collection).CountDocuments(ctx, bson.M{})
}
