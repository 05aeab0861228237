package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusRevoked  InvitationStatus = "revoked"
)

// recruiter_invitations — token 一次性；同邮箱重复邀请覆盖 pending 记录
type RecruiterInvitation struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Token string    `gorm:"uniqueIndex;size:64;not null" json:"token"`

	Status    InvitationStatus `gorm:"type:varchar(32);not null;default:'pending';index" json:"status"`
	InvitedBy uuid.UUID        `gorm:"type:uuid" json:"invitedBy"`

	ExpiresAt  time.Time  `gorm:"not null" json:"expiresAt"`
	AcceptedAt *time.Time `json:"acceptedAt"`
	RevokedAt  *time.Time `json:"revokedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (RecruiterInvitation) TableName() string { return "recruiter_invitations" }

func (i *RecruiterInvitation) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.Token == "" {
		i.Token = uuid.NewString()
	}
	return nil
}

// Terminal 表示终态（accepted/revoked 不可再流转）
func (i *RecruiterInvitation) Terminal() bool {
	return i.Status != InvitationStatusPending
}
