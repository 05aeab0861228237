package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/core/auth"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
)

type BookingService struct {
	db *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

type CreateBookingInput struct {
	ProviderID  string `json:"providerId" binding:"required"`
	ServiceID   string `json:"serviceId" binding:"required"`
	BookingDate string `json:"bookingDate" binding:"required"`
	StartTime   string `json:"startTime" binding:"required,max=16"`
	EndTime     string `json:"endTime" binding:"max=16"`
	TotalPrice  any    `json:"totalPrice"`
	Notes       string `json:"notes"`
}

func (s *BookingService) Create(ctx context.Context, customerID uuid.UUID, in CreateBookingInput) (*domain.Booking, error) {
	providerID, err := uuid.Parse(in.ProviderID)
	if err != nil {
		return nil, apperr.BadRequest("providerId is not a valid id")
	}
	serviceID, err := uuid.Parse(in.ServiceID)
	if err != nil {
		return nil, apperr.BadRequest("serviceId is not a valid id")
	}
	date := ParseFlexTime(in.BookingDate)
	if date == nil {
		return nil, apperr.BadRequest("bookingDate is not a recognized date")
	}

	profile, err := repo.NewProfileRepo(s.db).FindByID(ctx, providerID)
	if err != nil {
		return nil, apperr.Internal("lookup profile failed", err)
	}
	if profile == nil || profile.ArchivedAt != nil {
		return nil, apperr.NotFound(apperr.CodeProfileNotFound, "provider profile not found")
	}

	svc, err := repo.NewServiceRepo(s.db).FindByID(ctx, serviceID)
	if err != nil {
		return nil, apperr.Internal("lookup service failed", err)
	}
	if svc == nil {
		return nil, apperr.NotFound(apperr.CodeServiceNotFound, "service not found")
	}

	price, err := ParseDecimal(in.TotalPrice)
	if err != nil {
		return nil, apperr.BadRequest("totalPrice must be a number")
	}

	b := &domain.Booking{
		CustomerID:  customerID,
		ProviderID:  providerID,
		ServiceID:   serviceID,
		BookingDate: *date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Notes:       in.Notes,
		Status:      domain.BookingStatusPending,
	}
	if price != nil {
		b.TotalPrice = *price
	} else {
		b.TotalPrice = svc.BasePrice
	}
	if err := repo.NewBookingRepo(s.db).Create(ctx, b); err != nil {
		return nil, apperr.Internal("create booking failed", err)
	}
	return b, nil
}

// Get 客户和服务方只能看自己的单，管理员不受限
func (s *BookingService) Get(ctx context.Context, claims *auth.Claims, id uuid.UUID) (*domain.Booking, error) {
	b, err := repo.NewBookingRepo(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup booking failed", err)
	}
	if b == nil {
		return nil, apperr.NotFound(apperr.CodeBookingNotFound, "booking not found")
	}
	if err := s.authorize(ctx, claims, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BookingService) authorize(ctx context.Context, claims *auth.Claims, b *domain.Booking) error {
	if claims.HasRole(domain.RoleAdministrator) {
		return nil
	}
	uid, err := uuid.Parse(claims.UID)
	if err != nil {
		return apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token subject")
	}
	if b.CustomerID == uid {
		return nil
	}
	p, err := repo.NewProfileRepo(s.db).FindByUserID(ctx, uid)
	if err != nil {
		return apperr.Internal("lookup profile failed", err)
	}
	if p != nil && p.ID == b.ProviderID {
		return nil
	}
	return apperr.Forbidden("not your booking")
}

// List 按身份收敛视角：管理员全量，服务方看名下，其余看自己下的单
func (s *BookingService) List(ctx context.Context, claims *auth.Claims, q repo.BookingQuery) ([]domain.Booking, int64, error) {
	if !claims.HasRole(domain.RoleAdministrator) {
		uid, err := uuid.Parse(claims.UID)
		if err != nil {
			return nil, 0, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token subject")
		}
		if claims.HasRole(domain.RoleProvider) {
			p, err := repo.NewProfileRepo(s.db).FindByUserID(ctx, uid)
			if err != nil {
				return nil, 0, apperr.Internal("lookup profile failed", err)
			}
			if p == nil {
				return nil, 0, apperr.NotFound(apperr.CodeProfileNotFound, "provider profile not found")
			}
			q.ProviderID = &p.ID
			q.CustomerID = nil
		} else {
			q.CustomerID = &uid
			q.ProviderID = nil
		}
	}
	items, total, err := repo.NewBookingRepo(s.db).List(ctx, q)
	if err != nil {
		return nil, 0, apperr.Internal("list bookings failed", err)
	}
	return items, total, nil
}

// bookingTransitions 合法的状态流转
var bookingTransitions = map[domain.BookingStatus][]domain.BookingStatus{
	domain.BookingStatusPending:   {domain.BookingStatusConfirmed, domain.BookingStatusCancelled},
	domain.BookingStatusConfirmed: {domain.BookingStatusCompleted, domain.BookingStatusCancelled},
}

// UpdateStatus 完成单在同一个事务里落分成台账并滚动画像汇总
func (s *BookingService) UpdateStatus(ctx context.Context, claims *auth.Claims, id uuid.UUID, status domain.BookingStatus) (*domain.Booking, error) {
	b, err := s.Get(ctx, claims, id)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range bookingTransitions[b.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperr.Conflict(apperr.CodeInvalidTransition,
			"cannot move booking from "+string(b.Status)+" to "+string(status))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := repo.NewBookingRepo(tx).UpdateStatus(ctx, id, status)
		if err != nil {
			return apperr.Internal("update booking failed", err)
		}
		if !ok {
			return apperr.NotFound(apperr.CodeBookingNotFound, "booking not found")
		}
		if status == domain.BookingStatusCompleted {
			if err := s.settleCommission(ctx, tx, b); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	b.Status = status
	return b, nil
}

// settleCommission 没配抽成率就只累计收入
func (s *BookingService) settleCommission(ctx context.Context, tx *gorm.DB, b *domain.Booking) error {
	profile, err := repo.NewProfileRepo(tx).FindByID(ctx, b.ProviderID)
	if err != nil {
		return apperr.Internal("lookup profile failed", err)
	}
	if profile == nil {
		return apperr.NotFound(apperr.CodeProfileNotFound, "provider profile not found")
	}

	commission := decimal.Zero
	rate := decimal.Zero
	if profile.CommissionRate != nil {
		rate = *profile.CommissionRate
		commission = b.TotalPrice.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
	}

	commRepo := repo.NewCommissionRepo(tx)
	if commission.IsPositive() {
		if err := commRepo.Append(ctx, &domain.ProviderCommission{
			ProviderID:     b.ProviderID,
			RecruiterID:    profile.OnboardedBy,
			Amount:         commission,
			CommissionRate: rate,
			Notes:          "booking " + b.ID.String(),
		}); err != nil {
			return apperr.Internal("record commission failed", err)
		}
	}
	if err := commRepo.AddToProviderTotals(ctx, b.ProviderID, b.TotalPrice, commission); err != nil {
		return apperr.Internal("update provider totals failed", err)
	}
	return nil
}

/* ---------- 时段 ---------- */

type CreateSlotInput struct {
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required,max=16"`
	IsAvailable *bool  `json:"isAvailable"`
}

func (s *BookingService) CreateSlot(ctx context.Context, providerID uuid.UUID, in CreateSlotInput) (*domain.TimeSlot, error) {
	date := ParseFlexTime(in.Date)
	if date == nil {
		return nil, apperr.BadRequest("date is not a recognized date")
	}
	slot := &domain.TimeSlot{
		ProviderID:  providerID,
		Date:        *date,
		Time:        in.Time,
		IsAvailable: true,
	}
	if in.IsAvailable != nil {
		slot.IsAvailable = *in.IsAvailable
	}
	if err := repo.NewSlotRepo(s.db).Create(ctx, slot); err != nil {
		return nil, apperr.Internal("create time slot failed", err)
	}
	return slot, nil
}

func (s *BookingService) ListSlots(ctx context.Context, providerID uuid.UUID, date *string, onlyAvailable bool) ([]domain.TimeSlot, error) {
	var d *time.Time
	if date != nil && *date != "" {
		d = ParseFlexTime(*date)
		if d == nil {
			return nil, apperr.BadRequest("date is not a recognized date")
		}
	}
	slots, err := repo.NewSlotRepo(s.db).ListByProvider(ctx, providerID, d, onlyAvailable)
	if err != nil {
		return nil, apperr.Internal("list time slots failed", err)
	}
	return slots, nil
}

func (s *BookingService) SetSlotAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	ok, err := repo.NewSlotRepo(s.db).SetAvailability(ctx, id, available)
	if err != nil {
		return apperr.Internal("update time slot failed", err)
	}
	if !ok {
		return apperr.NotFound(apperr.CodeSlotNotFound, "time slot not found")
	}
	return nil
}
