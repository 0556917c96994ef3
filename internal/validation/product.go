package validation

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ToggleableFields 单项状态切换允许的字段。
var ToggleableFields = []string{"is_active"}

// ProductForm 创建/编辑商品的输入。
// price 同时接受数字和数字字符串。创建时 price 缺省为 0、is_active 缺省为 true；
// 编辑时缺省字段保留原值（见 ValidateWithDefaults）。
type ProductForm struct {
	Name        string           `json:"name" validate:"notblank,max=255"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	Image       string           `json:"image" validate:"required,url"`
	Category    string           `json:"category" validate:"notblank,max=128"`
	Price       *decimal.Decimal `json:"price" validate:"omitempty,gte=0,lte=99999999.99"`
	IsActive    *FlexBool        `json:"is_active"`
}

// ProductData 校验通过、已规范化的可写字段。
type ProductData struct {
	Name        string
	Description *string
	Image       string
	Category    string
	Price       decimal.Decimal
	IsActive    bool
}

// Normalize applies the trims and defaults that run before validation.
func (f ProductForm) Normalize() ProductForm {
	f.Image = strings.TrimSpace(f.Image)
	f.Category = NormalizeCategory(f.Category)
	if f.Description != nil && strings.TrimSpace(*f.Description) == "" {
		f.Description = nil
	}
	return f
}

// Validate 规范化 + 校验，失败时返回 *Error，不产生任何写入。
func (f ProductForm) Validate() (ProductData, error) {
	return f.ValidateWithDefaults(decimal.Zero, true)
}

// ValidateWithDefaults 同 Validate，但 price、is_active 缺省时取给定值。
func (f ProductForm) ValidateWithDefaults(price decimal.Decimal, active bool) (ProductData, error) {
	f = f.Normalize()
	if err := Struct(f); err != nil {
		return ProductData{}, err
	}
	data := ProductData{
		Name:        f.Name,
		Description: f.Description,
		Image:       f.Image,
		Category:    f.Category,
		Price:       price,
		IsActive:    active,
	}
	if f.Price != nil {
		data.Price = f.Price.Round(2)
	}
	if f.IsActive != nil {
		data.IsActive = bool(*f.IsActive)
	}
	return data, nil
}

// ValidateToggleField 只允许切换受支持的布尔字段。
func ValidateToggleField(field string) error {
	return Var("field", field, "required,oneof="+strings.Join(ToggleableFields, " "))
}
