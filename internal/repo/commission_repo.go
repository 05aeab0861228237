package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-service-market/internal/domain"
)

type CommissionRepo struct{ db *gorm.DB }

func NewCommissionRepo(db *gorm.DB) *CommissionRepo { return &CommissionRepo{db: db} }

// Append 台账只追加
func (r *CommissionRepo) Append(ctx context.Context, c *domain.ProviderCommission) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CommissionRepo) ListByProvider(ctx context.Context, providerID uuid.UUID, offset, limit int) ([]domain.ProviderCommission, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ProviderCommission{}).Where("provider_id = ?", providerID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	var items []domain.ProviderCommission
	err := q.Order("recorded_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

// AddToProviderTotals 累加画像上的收入/分成汇总
func (r *CommissionRepo) AddToProviderTotals(ctx context.Context, providerID uuid.UUID, earnings, commission decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&domain.ProviderProfile{}).
		Where("id = ?", providerID).
		Updates(map[string]any{
			"total_earnings":   gorm.Expr("total_earnings + ?", earnings),
			"total_commission": gorm.Expr("total_commission + ?", commission),
		}).Error
}
