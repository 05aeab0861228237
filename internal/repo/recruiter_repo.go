package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-service-market/internal/domain"
)

type RecruiterRepo struct{ db *gorm.DB }

func NewRecruiterRepo(db *gorm.DB) *RecruiterRepo { return &RecruiterRepo{db: db} }

func (r *RecruiterRepo) Create(ctx context.Context, rec *domain.Recruiter) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *RecruiterRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Recruiter, error) {
	var rec domain.Recruiter
	err := r.db.WithContext(ctx).Preload("User").First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rec, err
}

func (r *RecruiterRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Recruiter, error) {
	var rec domain.Recruiter
	err := r.db.WithContext(ctx).First(&rec, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &rec, err
}

func (r *RecruiterRepo) List(ctx context.Context, status string, offset, limit int) ([]domain.Recruiter, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Recruiter{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.Recruiter
	err := q.Preload("User").Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

func (r *RecruiterRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.Recruiter{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *RecruiterRepo) TouchLastActive(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&domain.Recruiter{}).
		Where("id = ?", id).
		Update("last_active_at", now).Error
}

/* ---------- 邀请 ---------- */

type InvitationRepo struct{ db *gorm.DB }

func NewInvitationRepo(db *gorm.DB) *InvitationRepo { return &InvitationRepo{db: db} }

// UpsertPending 同邮箱重复邀请覆盖 pending 行（token/有效期/邀请人全部刷新）
func (r *InvitationRepo) UpsertPending(ctx context.Context, inv *domain.RecruiterInvitation) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "email"}},
			DoUpdates: clause.Assignments(map[string]any{
				"token":       inv.Token,
				"status":      domain.InvitationStatusPending,
				"invited_by":  inv.InvitedBy,
				"expires_at":  inv.ExpiresAt,
				"accepted_at": nil,
				"revoked_at":  nil,
				"updated_at":  time.Now(),
			}),
		}).
		Create(inv).Error
}

func (r *InvitationRepo) FindByToken(ctx context.Context, token string) (*domain.RecruiterInvitation, error) {
	var inv domain.RecruiterInvitation
	err := r.db.WithContext(ctx).First(&inv, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *InvitationRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.RecruiterInvitation, error) {
	var inv domain.RecruiterInvitation
	err := r.db.WithContext(ctx).First(&inv, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &inv, err
}

func (r *InvitationRepo) List(ctx context.Context, status string, offset, limit int) ([]domain.RecruiterInvitation, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.RecruiterInvitation{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []domain.RecruiterInvitation
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	return items, total, err
}

// MarkAccepted 仅 pending 可流转；RowsAffected=0 说明已被用掉或撤销
func (r *InvitationRepo) MarkAccepted(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&domain.RecruiterInvitation{}).
		Where("id = ? AND status = ?", id, domain.InvitationStatusPending).
		Updates(map[string]any{"status": domain.InvitationStatusAccepted, "accepted_at": now})
	return res.RowsAffected > 0, res.Error
}

func (r *InvitationRepo) MarkRevoked(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&domain.RecruiterInvitation{}).
		Where("id = ? AND status = ?", id, domain.InvitationStatusPending).
		Updates(map[string]any{"status": domain.InvitationStatusRevoked, "revoked_at": now})
	return res.RowsAffected > 0, res.Error
}

/* ---------- 审计事件 ---------- */

type EventRepo struct{ db *gorm.DB }

func NewEventRepo(db *gorm.DB) *EventRepo { return &EventRepo{db: db} }

// Append 追加写；事件表永不 update/delete
func (r *EventRepo) Append(ctx context.Context, e *domain.RecruiterEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *EventRepo) Recent(ctx context.Context, recruiterID *uuid.UUID, limit int) ([]domain.RecruiterEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	q := r.db.WithContext(ctx).Model(&domain.RecruiterEvent{})
	if recruiterID != nil {
		q = q.Where("recruiter_id = ?", *recruiterID)
	}
	var items []domain.RecruiterEvent
	err := q.Order("created_at DESC").Limit(limit).Find(&items).Error
	return items, err
}
