package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fairyhunter13/printshop/internal/model"
)

// Settings returns the shop settings row, or nil when none has been saved.
func (s *Store) Settings(ctx context.Context) (*model.ShopSettings, error) {
	var st model.ShopSettings
	err := s.db.WithContext(ctx).First(&st, "id = ?", model.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// EnsureSettings returns the settings row, creating the default one when the
// shop has never been configured.
func (s *Store) EnsureSettings(ctx context.Context) (*model.ShopSettings, error) {
	st := model.DefaultSettings()
	err := s.db.WithContext(ctx).Where("id = ?", model.SettingsID).FirstOrCreate(&st).Error
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// SaveSettings upserts the singleton settings row.
func (s *Store) SaveSettings(ctx context.Context, st *model.ShopSettings) error {
	st.ID = model.SettingsID
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(st).Error
}
