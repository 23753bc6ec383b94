package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hostify/internal/models"
)

const (
	publicSettingsCacheKey = "settings:public"
	publicSettingsCacheTTL = 5 * time.Minute
)

// SettingsService reads and writes typed settings. The public map is served
// unauthenticated and cached in Redis when available; private settings only
// reach admin reads.
type SettingsService struct {
	db     *gorm.DB
	redis  *redis.Client
	logger *zap.Logger
}

func NewSettingsService(db *gorm.DB, redisClient *redis.Client, logger *zap.Logger) *SettingsService {
	return &SettingsService{db: db, redis: redisClient, logger: logger}
}

// PublicSettings returns the typed-value map of public settings.
func (s *SettingsService) PublicSettings(ctx context.Context) (map[string]any, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, publicSettingsCacheKey).Result(); err == nil {
			var cached map[string]any
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	var rows []models.Setting
	if err := s.db.Where("public = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]any, len(rows))
	for i := range rows {
		out[rows[i].Key] = rows[i].TypedValue()
	}

	if s.redis != nil {
		if raw, err := json.Marshal(out); err == nil {
			if err := s.redis.Set(ctx, publicSettingsCacheKey, raw, publicSettingsCacheTTL).Err(); err != nil {
				s.logger.Debug("settings cache write failed", zap.Error(err))
			}
		}
	}
	return out, nil
}

// ListAll returns every setting, private ones included. Admin only.
func (s *SettingsService) ListAll() ([]models.Setting, error) {
	var rows []models.Setting
	err := s.db.Order("key").Find(&rows).Error
	return rows, err
}

func (s *SettingsService) Get(key string) (*models.Setting, error) {
	var row models.Setting
	err := s.db.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Upsert writes a setting and invalidates the public cache.
func (s *SettingsService) Upsert(ctx context.Context, setting *models.Setting) error {
	if setting.Type == "" {
		setting.Type = models.SettingString
	}
	if err := s.db.Save(setting).Error; err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *SettingsService) Delete(ctx context.Context, key string) error {
	res := s.db.Delete(&models.Setting{}, "key = ?", key)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	s.invalidate(ctx)
	return nil
}

func (s *SettingsService) invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, publicSettingsCacheKey).Err(); err != nil {
		s.logger.Debug("settings cache invalidation failed", zap.Error(err))
	}
}
