package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-service-market/internal/domain"
)

type DocumentRepo struct{ db *gorm.DB }

func NewDocumentRepo(db *gorm.DB) *DocumentRepo { return &DocumentRepo{db: db} }

// InsertBatch 空输入是 no-op，返回空切片而非错误
func (r *DocumentRepo) InsertBatch(ctx context.Context, docs []domain.ProviderDocument) ([]domain.ProviderDocument, error) {
	if len(docs) == 0 {
		return []domain.ProviderDocument{}, nil
	}
	if err := r.db.WithContext(ctx).Create(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepo) ListByProvider(ctx context.Context, providerID uuid.UUID) ([]domain.ProviderDocument, error) {
	var docs []domain.ProviderDocument
	err := r.db.WithContext(ctx).
		Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// DeleteScoped 两个 id 同时匹配才删（防跨 provider 误删）；
// 没删到返回 nil, nil，由调用方报 DOCUMENT_NOT_FOUND
func (r *DocumentRepo) DeleteScoped(ctx context.Context, providerID, docID uuid.UUID) (*domain.ProviderDocument, error) {
	var doc domain.ProviderDocument
	err := r.db.WithContext(ctx).
		First(&doc, "id = ? AND provider_id = ?", docID, providerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	res := r.db.WithContext(ctx).
		Where("id = ? AND provider_id = ?", docID, providerID).
		Delete(&domain.ProviderDocument{})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &doc, nil
}
