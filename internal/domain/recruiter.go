package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type RecruiterStatus string

const (
	RecruiterStatusActive    RecruiterStatus = "active"
	RecruiterStatusAway      RecruiterStatus = "away"
	RecruiterStatusOffline   RecruiterStatus = "offline"
	RecruiterStatusPending   RecruiterStatus = "pending"
	RecruiterStatusSuspended RecruiterStatus = "suspended"
)

type Recruiter struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`

	Phone  string          `gorm:"size:32" json:"phone"`
	City   string          `gorm:"size:120" json:"city"`
	Status RecruiterStatus `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`

	Latitude  *decimal.Decimal `gorm:"type:decimal(10,7)" json:"latitude"`
	Longitude *decimal.Decimal `gorm:"type:decimal(10,7)" json:"longitude"`

	AvatarURL    string     `gorm:"size:512" json:"avatarUrl"`
	LastActiveAt *time.Time `json:"lastActiveAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (Recruiter) TableName() string { return "recruiters" }

func (r *Recruiter) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
