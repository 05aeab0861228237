package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customerId"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"providerId"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null;index" json:"serviceId"`

	BookingDate time.Time `gorm:"not null;index" json:"bookingDate"`
	// 沿用前端的 "HH:MM AM/PM" 文本格式
	StartTime string `gorm:"size:16" json:"startTime"`
	EndTime   string `gorm:"size:16" json:"endTime"`

	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2)" json:"totalPrice"`
	Notes      string          `gorm:"type:text" json:"notes"`
	Status     BookingStatus   `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Customer *User            `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	Provider *ProviderProfile `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"provider,omitempty"`
	Service  *Service         `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"service,omitempty"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
