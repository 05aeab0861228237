package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProfileStatus string

const (
	ProfileStatusPending   ProfileStatus = "pending"
	ProfileStatusActive    ProfileStatus = "active"
	ProfileStatusRejected  ProfileStatus = "rejected"
	ProfileStatusSuspended ProfileStatus = "suspended"
)

// provider_profiles — 每个用户至多一条（UserID 唯一）
// 状态仅允许管理员流转
type ProviderProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`

	FirstName    string `gorm:"size:64" json:"firstName"`
	LastName     string `gorm:"size:64" json:"lastName"`
	BusinessName string `gorm:"size:191" json:"businessName"`
	Description  string `gorm:"type:text" json:"description"`
	ServiceTitle string `gorm:"size:191" json:"serviceTitle"`

	CategoryID *int64    `gorm:"index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`

	PricePerHour *decimal.Decimal `gorm:"type:decimal(10,2)" json:"pricePerHour"`
	Rating       float64          `gorm:"default:0" json:"rating"`
	ReviewCount  int              `gorm:"default:0" json:"reviewCount"`

	Latitude  *decimal.Decimal `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude *decimal.Decimal `gorm:"type:decimal(10,7)" json:"longitude"`

	IsAvailable bool          `gorm:"default:true" json:"isAvailable"`
	Status      ProfileStatus `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`

	// 线下入驻元数据
	OnboardedBy *uuid.UUID `gorm:"type:uuid;index" json:"onboardedBy"`
	OnboardedAt *time.Time `json:"onboardedAt"`
	Recruiter   *Recruiter `gorm:"foreignKey:OnboardedBy;constraint:OnDelete:SET NULL" json:"-"`

	CommissionRate  *decimal.Decimal `gorm:"type:decimal(5,2)" json:"commissionRate"`
	TotalEarnings   decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"totalEarnings"`
	TotalCommission decimal.Decimal  `gorm:"type:decimal(12,2);default:0" json:"totalCommission"`

	ArchivedAt *time.Time `json:"archivedAt"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (ProviderProfile) TableName() string { return "provider_profiles" }

func (p *ProviderProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = ProfileStatusPending
	}
	return nil
}
