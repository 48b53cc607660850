package services

import (
	"context"
	"errors"
	"log"

	"github.com/redis/go-redis/v9"

	"nextalk-desk/internal/models"
	"nextalk-desk/internal/utils"
)

const settingsCacheKey = "settings:general"

type SettingsRepository interface {
	GetGeneral(ctx context.Context) (*models.Settings, error)
	UpsertGeneral(ctx context.Context, settings *models.Settings) error
}

// SettingsService serves the general settings singleton with a short
// Redis cache in front of MongoDB. The cache is dropped on every write.
type SettingsService struct {
	repo  SettingsRepository
	cache *redis.Client
}

func NewSettingsService(repo SettingsRepository, cache *redis.Client) *SettingsService {
	return &SettingsService{repo: repo, cache: cache}
}

// GetGeneral returns the stored settings, or zero-value defaults when the
// singleton has never been written.
func (s *SettingsService) GetGeneral(ctx context.Context) (*models.Settings, error) {
	if s.cache != nil {
		var cached models.Settings
		if ok, err := utils.FetchJSON(ctx, s.cache, settingsCacheKey, &cached); err == nil && ok {
			return &cached, nil
		}
	}

	settings, err := s.repo.GetGeneral(ctx)
	if errors.Is(err, models.ErrNotFound) {
		settings = &models.Settings{}
		err = nil
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := utils.CacheJSON(ctx, s.cache, settingsCacheKey, settings, utils.DefaultCacheTTL); err != nil {
			log.Printf("Failed to cache settings: %v", err)
		}
	}
	return settings, nil
}

func (s *SettingsService) UpdateGeneral(ctx context.Context, settings *models.Settings) error {
	if err := s.repo.UpsertGeneral(ctx, settings); err != nil {
		return err
	}
	if s.cache != nil {
		if err := utils.InvalidateCache(ctx, s.cache, settingsCacheKey); err != nil {
			log.Printf("Failed to invalidate settings cache: %v", err)
		}
	}
	return nil
}
