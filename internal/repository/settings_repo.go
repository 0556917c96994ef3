package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"nuvyra_admin/internal/model"
)

// SettingsRepository 只操作固定 id 的那一行配置。
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Get(ctx context.Context) (*model.SiteSettings, error) {
	var s model.SiteSettings
	if err := r.db.WithContext(ctx).Where("id = ?", model.SiteSettingsID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) Update(ctx context.Context, values map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.SiteSettings{}).
		Where("id = ?", model.SiteSettingsID).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Ensure 配置行不存在时写入默认值，已存在则不做任何修改。
func (r *SettingsRepository) Ensure(ctx context.Context) error {
	s := model.DefaultSiteSettings()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&s).Error
}
