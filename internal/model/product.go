package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品目录中的一行。
// Category 永远以规范化形式（去空格 + 大写）落库；CreatedAt 只在创建时写入。
type Product struct {
	ID          string          `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description *string         `gorm:"size:500" json:"description"`
	Image       string          `gorm:"type:text;not null" json:"image"`
	Category    string          `gorm:"size:128;not null;index" json:"category"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	IsActive    bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt   time.Time       `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate 由服务端分配 UUID，客户端传入的 ID 不被信任。
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// 可更新列。created_at 不在其中。
const (
	ColName        = "name"
	ColDescription = "description"
	ColImage       = "image"
	ColCategory    = "category"
	ColPrice       = "price"
	ColIsActive    = "is_active"
	ColCreatedAt   = "created_at"
)

// MutableColumns lists the columns an update may write.
var MutableColumns = []string{ColName, ColDescription, ColImage, ColCategory, ColPrice, ColIsActive}
