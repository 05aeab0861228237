package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
)

type CommissionService struct {
	db *gorm.DB
}

func NewCommissionService(db *gorm.DB) *CommissionService {
	return &CommissionService{db: db}
}

type RecordCommissionInput struct {
	Amount         any    `json:"amount" binding:"required"`
	CommissionRate any    `json:"commissionRate"`
	Notes          string `json:"notes"`
}

// Record 手工补录一笔分成，画像汇总同事务滚动
func (s *CommissionService) Record(ctx context.Context, providerID uuid.UUID, in RecordCommissionInput) (*domain.ProviderCommission, error) {
	profile, err := repo.NewProfileRepo(s.db).FindByID(ctx, providerID)
	if err != nil {
		return nil, apperr.Internal("lookup profile failed", err)
	}
	if profile == nil {
		return nil, apperr.NotFound(apperr.CodeProfileNotFound, "provider profile not found")
	}

	amount, err := ParseDecimal(in.Amount)
	if err != nil || amount == nil {
		return nil, apperr.BadRequest("amount must be a number")
	}
	if !amount.IsPositive() {
		return nil, apperr.BadRequest("amount must be positive")
	}

	rate := decimal.Zero
	if r, err := ParseDecimal(in.CommissionRate); err != nil {
		return nil, apperr.BadRequest("commissionRate must be a number")
	} else if r != nil {
		rate = *r
	} else if profile.CommissionRate != nil {
		rate = *profile.CommissionRate
	}

	c := &domain.ProviderCommission{
		ProviderID:     providerID,
		RecruiterID:    profile.OnboardedBy,
		Amount:         *amount,
		CommissionRate: rate,
		Notes:          in.Notes,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repo.NewCommissionRepo(tx)
		if err := r.Append(ctx, c); err != nil {
			return err
		}
		return r.AddToProviderTotals(ctx, providerID, decimal.Zero, *amount)
	})
	if err != nil {
		return nil, apperr.Internal("record commission failed", err)
	}
	return c, nil
}

func (s *CommissionService) List(ctx context.Context, providerID uuid.UUID, offset, limit int) ([]domain.ProviderCommission, int64, error) {
	items, total, err := repo.NewCommissionRepo(s.db).ListByProvider(ctx, providerID, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("list commissions failed", err)
	}
	return items, total, nil
}
