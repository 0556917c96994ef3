package model

import "time"

// AdminUser 后台管理员账号，密码只保存 bcrypt 哈希。
type AdminUser struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Email        string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

func (AdminUser) TableName() string { return "admin_users" }

// All 返回需要自动迁移的模型。
func All() []any {
	return []any{&Product{}, &SiteSettings{}, &AdminUser{}}
}
