package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-service-market/internal/domain"
)

type BookingRepo struct{ db *gorm.DB }

func NewBookingRepo(db *gorm.DB) *BookingRepo { return &BookingRepo{db: db} }

func (r *BookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Booking, error) {
	var b domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Service").
		First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &b, err
}

type BookingQuery struct {
	CustomerID *uuid.UUID
	ProviderID *uuid.UUID
	Status     string
	From, To   *time.Time
	Offset     int
	Limit      int
}

func (r *BookingRepo) List(ctx context.Context, in BookingQuery) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if in.CustomerID != nil {
		q = q.Where("customer_id = ?", *in.CustomerID)
	}
	if in.ProviderID != nil {
		q = q.Where("provider_id = ?", *in.ProviderID)
	}
	if in.Status != "" {
		q = q.Where("status = ?", in.Status)
	}
	if in.From != nil {
		q = q.Where("booking_date >= ?", *in.From)
	}
	if in.To != nil {
		q = q.Where("booking_date <= ?", *in.To)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	var items []domain.Booking
	err := q.Preload("Service").Order("booking_date DESC, created_at DESC").
		Offset(in.Offset).Limit(in.Limit).Find(&items).Error
	return items, total, err
}

func (r *BookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.BookingStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ?", id).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}

/* ---------- 时段 ---------- */

type SlotRepo struct{ db *gorm.DB }

func NewSlotRepo(db *gorm.DB) *SlotRepo { return &SlotRepo{db: db} }

func (r *SlotRepo) Create(ctx context.Context, s *domain.TimeSlot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SlotRepo) ListByProvider(ctx context.Context, providerID uuid.UUID, date *time.Time, onlyAvailable bool) ([]domain.TimeSlot, error) {
	q := r.db.WithContext(ctx).Where("provider_id = ?", providerID)
	if date != nil {
		q = q.Where("date = ?", *date)
	}
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}
	var slots []domain.TimeSlot
	err := q.Order("date ASC, time ASC").Find(&slots).Error
	return slots, err
}

func (r *SlotRepo) SetAvailability(ctx context.Context, id uuid.UUID, available bool) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.TimeSlot{}).
		Where("id = ?", id).
		Update("is_available", available)
	return res.RowsAffected > 0, res.Error
}
