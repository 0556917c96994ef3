package validation

// SettingsForm 站点配置编辑表单：关键词逗号分隔，横幅每行一个 URL。
type SettingsForm struct {
	SiteName              string `json:"site_name" validate:"notblank,max=128"`
	DefaultSEOTitle       string `json:"default_seo_title" validate:"notblank,max=255"`
	DefaultSEODescription string `json:"default_seo_description" validate:"notblank"`
	SEOKeywords           string `json:"seo_keywords"`
	BannerImages          string `json:"banner_images"`
}

// SettingsData 解析后的配置值。
type SettingsData struct {
	SiteName              string
	DefaultSEOTitle       string
	DefaultSEODescription string
	SEOKeywords           []string
	BannerImages          []string
}

func (f SettingsForm) Validate() (SettingsData, error) {
	if err := Struct(f); err != nil {
		return SettingsData{}, err
	}
	return SettingsData{
		SiteName:              f.SiteName,
		DefaultSEOTitle:       f.DefaultSEOTitle,
		DefaultSEODescription: f.DefaultSEODescription,
		SEOKeywords:           ParseKeywords(f.SEOKeywords),
		BannerImages:          ParseBannerImages(f.BannerImages),
	}, nil
}
