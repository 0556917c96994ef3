package service

import (
	"context"
	"fmt"
	"time"

	"github.com/lib/pq"

	"nuvyra_admin/internal/model"
	"nuvyra_admin/internal/queue"
	"nuvyra_admin/internal/repository"
	"nuvyra_admin/internal/validation"
)

type SettingsService struct {
	repo      *repository.SettingsRepository
	publisher queue.Publisher
}

func NewSettingsService(repo *repository.SettingsRepository, publisher queue.Publisher) *SettingsService {
	if publisher == nil {
		publisher = queue.NopPublisher{}
	}
	return &SettingsService{repo: repo, publisher: publisher}
}

func (s *SettingsService) Get(ctx context.Context) (*model.SiteSettings, error) {
	return s.repo.Get(ctx)
}

// Update 校验并覆盖整行配置，updated_at 刷新为当前时间。
func (s *SettingsService) Update(ctx context.Context, form validation.SettingsForm) (*model.SiteSettings, error) {
	data, err := form.Validate()
	if err != nil {
		return nil, err
	}
	values := map[string]any{
		"site_name":               data.SiteName,
		"default_seo_title":       data.DefaultSEOTitle,
		"default_seo_description": data.DefaultSEODescription,
		"seo_keywords":            pq.StringArray(data.SEOKeywords),
		"banner_images":           pq.StringArray(data.BannerImages),
		"updated_at":              time.Now(),
	}
	if err := s.repo.Update(ctx, values); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	publish(ctx, s.publisher, queue.NewCatalogEvent(queue.EventSettingsUpdated, nil, PathSettings))
	return s.repo.Get(ctx)
}

// Ensure 启动时确保配置行存在。
func (s *SettingsService) Ensure(ctx context.Context) error {
	if err := s.repo.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure settings: %w", err)
	}
	return nil
}
