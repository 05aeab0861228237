package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// provider_documents — StorageKey 为空表示外链文件（删除时无需清理对象）
type ProviderDocument struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProviderID uuid.UUID `gorm:"type:uuid;not null;index" json:"providerId"`

	DocumentType string `gorm:"size:64;not null" json:"documentType"`
	StorageKey   string `gorm:"size:512" json:"storageKey,omitempty"`
	FileURL      string `gorm:"size:1024;not null" json:"fileUrl"`
	FileName     string `gorm:"size:255" json:"fileName"`
	MimeType     string `gorm:"size:128" json:"mimeType"`
	FileSize     int64  `json:"fileSize"`

	UploadedBy *uuid.UUID `gorm:"type:uuid;index" json:"uploadedBy"`
	Uploader   *Recruiter `gorm:"foreignKey:UploadedBy;constraint:OnDelete:SET NULL" json:"-"`

	CreatedAt time.Time `json:"createdAt"`

	Profile *ProviderProfile `gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ProviderDocument) TableName() string { return "provider_documents" }

func (d *ProviderDocument) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
