package services

import (
	"context"
	"slices"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"nextalk-desk/internal/models"
	"nextalk-desk/internal/utils"
)

type CatalogRepository interface {
	List(ctx context.Context, collection string) ([]models.CatalogItem, error)
	Insert(ctx context.Context, collection string, item *models.CatalogItem) error
	Update(ctx context.Context, collection string, id primitive.ObjectID, item *models.CatalogItem) error
	Delete(ctx context.Context, collection string, id primitive.ObjectID) error
}

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) knownCollection(collection string) bool {
	return slices.Contains(models.CatalogCollections, collection)
}

func (s *CatalogService) List(ctx context.Context, collection string) ([]models.CatalogItem, error) {
	if !s.knownCollection(collection) {
		return nil, models.ErrNotFound
	}
	return s.repo.List(ctx, collection)
}

func (s *CatalogService) Create(ctx context.Context, collection string, item *models.CatalogItem) error {
	if !s.knownCollection(collection) {
		return models.ErrNotFound
	}
	if err := s.hashUserPassword(collection, item); err != nil {
		return err
	}
	return s.repo.Insert(ctx, collection, item)
}

func (s *CatalogService) Update(ctx context.Context, collection, id string, item *models.CatalogItem) error {
	if !s.knownCollection(collection) {
		return models.ErrNotFound
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	if err := s.hashUserPassword(collection, item); err != nil {
		return err
	}
	return s.repo.Update(ctx, collection, objID, item)
}

// Passwords in the users collection are stored as bcrypt hashes only.
func (s *CatalogService) hashUserPassword(collection string, item *models.CatalogItem) error {
	if collection != models.ColUsers || item.PlainPassword == "" {
		return nil
	}
	hash, err := utils.HashPassword(item.PlainPassword)
	if err != nil {
		return err
	}
	item.Password = hash
	item.PlainPassword = ""
	return nil
}

func (s *CatalogService) Delete(ctx context.Context, collection, id string) error {
	if !s.knownCollection(collection) {
		return models.ErrNotFound
	}
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrInvalidID
	}
	return s.repo.Delete(ctx, collection, objID)
}

// IsDepartment reports whether a transfer target names a department, which
// decides between the back-to-queue and direct-assignment transfer shapes.
func (s *CatalogService) IsDepartment(ctx context.Context, name string) (bool, error) {
	departments, err := s.repo.List(ctx, models.ColDepartments)
	if err != nil {
		return false, err
	}
	for _, d := range departments {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}
