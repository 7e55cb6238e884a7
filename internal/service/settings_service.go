package service

import (
	"context"
	"errors"
	"strings"

	"github.com/agrivest/agrivest-backend/internal/repository"
	"gorm.io/gorm"
)

// Payment parameters fall back to compiled-in defaults until staff override
// them through the admin console.
var settingDefaults = map[string]string{
	"usdt_address":       "TQeJp6kDvGWUUPb915b8WgZPThGQcnpqe9",
	"usdt_bonus_percent": "30",
	"exchange_rate":      "600",
}

type SettingsService interface {
	Get(ctx context.Context, key string) (string, error)
	All(ctx context.Context) (map[string]string, error)
	Update(ctx context.Context, key, value string) error
}

type settingsService struct {
	settings repository.SettingRepository
}

func NewSettingsService(settings repository.SettingRepository) SettingsService {
	return &settingsService{settings: settings}
}

func (s *settingsService) Get(ctx context.Context, key string) (string, error) {
	row, err := s.settings.Get(ctx, key)
	if err == nil {
		return row.Value, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if def, ok := settingDefaults[key]; ok {
			return def, nil
		}
		return "", ErrNotFound
	}
	return "", err
}

func (s *settingsService) All(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string, len(settingDefaults))
	for k, v := range settingDefaults {
		out[k] = v
	}
	rows, err := s.settings.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (s *settingsService) Update(ctx context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if key == "" {
		return errors.New("setting key is required")
	}
	if value == "" {
		return errors.New("setting value is required")
	}
	return s.settings.Upsert(ctx, key, value)
}
