package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 审计事件类型
const (
	EventRecruiterRegistered = "recruiter_registered"
	EventProviderOnboarded   = "provider_onboarded"
	EventDocumentUploaded    = "document_uploaded"
	EventDocumentDeleted     = "document_deleted"
)

// recruiter_events — 追加型审计日志，永不更新/删除
type RecruiterEvent struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RecruiterID uuid.UUID      `gorm:"type:uuid;not null;index" json:"recruiterId"`
	EventType   string         `gorm:"size:64;not null;index" json:"eventType"`
	Metadata    datatypes.JSON `json:"metadata"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`

	Recruiter *Recruiter `gorm:"foreignKey:RecruiterID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecruiterEvent) TableName() string { return "recruiter_events" }

func (e *RecruiterEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
