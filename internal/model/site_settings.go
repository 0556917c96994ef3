package model

import (
	"time"

	"github.com/lib/pq"
)

// SiteSettingsID 站点配置只有一行，固定主键。
const SiteSettingsID uint = 1

// SiteSettings 全站 SEO 与横幅配置（单行）。
type SiteSettings struct {
	ID                    uint           `gorm:"primaryKey;autoIncrement:false" json:"id"`
	SiteName              string         `gorm:"size:128;not null" json:"site_name"`
	DefaultSEOTitle       string         `gorm:"column:default_seo_title;size:255;not null" json:"default_seo_title"`
	DefaultSEODescription string         `gorm:"column:default_seo_description;type:text;not null" json:"default_seo_description"`
	SEOKeywords           pq.StringArray `gorm:"column:seo_keywords;type:text[]" json:"seo_keywords"`
	BannerImages          pq.StringArray `gorm:"column:banner_images;type:text[]" json:"banner_images"`
	UpdatedAt             time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SiteSettings) TableName() string { return "site_settings" }

// DefaultSiteSettings 首次启动时写入的占位配置。
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		ID:                    SiteSettingsID,
		SiteName:              "Nuvyra Store",
		DefaultSEOTitle:       "Nuvyra Store",
		DefaultSEODescription: "Nuvyra Store",
		SEOKeywords:           pq.StringArray{},
		BannerImages:          pq.StringArray{},
	}
}
