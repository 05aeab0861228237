package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// provider_commissions — 只追加的分成台账
type ProviderCommission struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"providerId"`
	RecruiterID *uuid.UUID `gorm:"type:uuid;index" json:"recruiterId"`

	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commissionRate"`
	Notes          string          `gorm:"type:text" json:"notes"`

	RecordedAt time.Time `gorm:"index" json:"recordedAt"`

	Profile   *ProviderProfile `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
	Recruiter *Recruiter       `gorm:"foreignKey:RecruiterID;constraint:OnDelete:SET NULL" json:"-"`
}

func (ProviderCommission) TableName() string { return "provider_commissions" }

func (c *ProviderCommission) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.RecordedAt.IsZero() {
		c.RecordedAt = time.Now()
	}
	return nil
}
