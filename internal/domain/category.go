package domain

import "time"

type Category struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	Icon        string `gorm:"size:64" json:"icon"`
	Color       string `gorm:"size:16" json:"color"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string { return "categories" }

// 按名创建时的默认外观
const (
	CategoryDefaultIcon  = "briefcase"
	CategoryDefaultColor = "#6B7280"
)
