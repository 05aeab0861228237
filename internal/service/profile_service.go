package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
	"go-service-market/pkg/optional"
)

type ProfileService struct {
	db *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{db: db}
}

// CreateProfileInput 数字字段 any：前端传数字或字符串都认
type CreateProfileInput struct {
	UserID       uuid.UUID `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	BusinessName string    `json:"businessName"`
	Description  string    `json:"description"`
	ServiceTitle string    `json:"serviceTitle"`
	CategoryName string    `json:"category"`
	PricePerHour any       `json:"pricePerHour"`
	Latitude     any       `json:"latitude"`
	Longitude    any       `json:"longitude"`
	IsAvailable  *bool     `json:"isAvailable"`

	// 内部种子/入驻路径专用，HTTP 入口不透传
	Status      domain.ProfileStatus `json:"-"`
	OnboardedBy *uuid.UUID           `json:"-"`
	OnboardedAt *time.Time           `json:"-"`
}

// CreateProfile 每个用户至多一条画像；数字字段统一规整为 decimal
func (s *ProfileService) CreateProfile(ctx context.Context, in CreateProfileInput) (*domain.ProviderProfile, error) {
	return s.createProfile(ctx, s.db, in)
}

// createProfile 供事务内复用（线下入驻在一个 Tx 里走同一路径）
func (s *ProfileService) createProfile(ctx context.Context, db *gorm.DB, in CreateProfileInput) (*domain.ProviderProfile, error) {
	profiles := repo.NewProfileRepo(db)

	if existing, err := profiles.FindByUserID(ctx, in.UserID); err != nil {
		return nil, apperr.Internal("lookup profile failed", err)
	} else if existing != nil {
		return nil, apperr.Conflict(apperr.CodeProfileExists, "provider profile already exists for this user")
	}

	price, err := ParseDecimal(in.PricePerHour)
	if err != nil {
		return nil, apperr.BadRequest("invalid pricePerHour")
	}
	lat, err := ParseDecimal(in.Latitude)
	if err != nil {
		return nil, apperr.BadRequest("invalid latitude")
	}
	lng, err := ParseDecimal(in.Longitude)
	if err != nil {
		return nil, apperr.BadRequest("invalid longitude")
	}

	var categoryID *int64
	if in.CategoryName != "" {
		cat, err := repo.NewCategoryRepo(db).EnsureByName(ctx, in.CategoryName)
		if err != nil {
			return nil, apperr.Internal("ensure category failed", err)
		}
		if cat != nil {
			categoryID = &cat.ID
		}
	}

	status := in.Status
	if status == "" {
		status = domain.ProfileStatusPending
	}

	p := &domain.ProviderProfile{
		UserID:       in.UserID,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		BusinessName: in.BusinessName,
		Description:  in.Description,
		ServiceTitle: in.ServiceTitle,
		CategoryID:   categoryID,
		PricePerHour: price,
		Latitude:     lat,
		Longitude:    lng,
		IsAvailable:  in.IsAvailable == nil || *in.IsAvailable,
		Status:       status,
		OnboardedBy:  in.OnboardedBy,
		OnboardedAt:  in.OnboardedAt,
	}
	if err := profiles.Create(ctx, p); err != nil {
		if isDupKey(err) {
			return nil, apperr.Conflict(apperr.CodeProfileExists, "provider profile already exists for this user")
		}
		return nil, apperr.Internal("create profile failed", err)
	}
	return p, nil
}

// UpdateProfileInput 稀疏 PATCH：缺省不动，显式 null 清空可空字段
type UpdateProfileInput struct {
	FirstName    optional.Field[string] `json:"firstName"`
	LastName     optional.Field[string] `json:"lastName"`
	BusinessName optional.Field[string] `json:"businessName"`
	Description  optional.Field[string] `json:"description"`
	ServiceTitle optional.Field[string] `json:"serviceTitle"`
	CategoryName optional.Field[string] `json:"category"`
	PricePerHour optional.Field[any]    `json:"pricePerHour"`
	Latitude     optional.Field[any]    `json:"latitude"`
	Longitude    optional.Field[any]    `json:"longitude"`
	IsAvailable  optional.Field[bool]   `json:"isAvailable"`
}

func (s *ProfileService) UpdateProfile(ctx context.Context, id uuid.UUID, in UpdateProfileInput) (*domain.ProviderProfile, error) {
	profiles := repo.NewProfileRepo(s.db)
	p, err := profiles.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup profile failed", err)
	}
	if p == nil {
		return nil, apperr.NotFound(apperr.CodeProfileNotFound, "provider profile not found")
	}

	fields := map[string]any{}
	setStr := func(col string, f optional.Field[string]) {
		if f.Set {
			fields[col] = f.Value
		}
	}
	setStr("first_name", in.FirstName)
	setStr("last_name", in.LastName)
	setStr("business_name", in.BusinessName)
	setStr("description", in.Description)
	setStr("service_title", in.ServiceTitle)

	setDec := func(col, label string, f optional.Field[any]) error {
		if !f.Set {
			return nil
		}
		if !f.Valid {
			fields[col] = nil
			return nil
		}
		d, err := ParseDecimal(f.Value)
		if err != nil {
			return apperr.BadRequest("invalid " + label)
		}
		fields[col] = d
		return nil
	}
	if err := setDec("price_per_hour", "pricePerHour", in.PricePerHour); err != nil {
		return nil, err
	}
	if err := setDec("latitude", "latitude", in.Latitude); err != nil {
		return nil, err
	}
	if err := setDec("longitude", "longitude", in.Longitude); err != nil {
		return nil, err
	}
	if in.IsAvailable.Set {
		fields["is_available"] = in.IsAvailable.Value
	}
	if in.CategoryName.Set {
		if !in.CategoryName.Valid || in.CategoryName.Value == "" {
			fields["category_id"] = nil
		} else {
			cat, err := repo.NewCategoryRepo(s.db).EnsureByName(ctx, in.CategoryName.Value)
			if err != nil {
				return nil, apperr.Internal("ensure category failed", err)
			}
			if cat != nil {
				fields["category_id"] = cat.ID
			}
		}
	}
	// 空 PATCH 也要 stamp updated_at
	fields["updated_at"] = time.Now()

	if err := profiles.UpdateFields(ctx, id, fields); err != nil {
		return nil, apperr.Internal("update profile failed", err)
	}
	return profiles.FindByID(ctx, id)
}

var profileTransitions = map[domain.ProfileStatus]bool{
	domain.ProfileStatusPending:   true,
	domain.ProfileStatusActive:    true,
	domain.ProfileStatusRejected:  true,
	domain.ProfileStatusSuspended: true,
}

// UpdateStatus 仅管理员路由可达（路由层已设角色闸）
func (s *ProfileService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ProfileStatus) (*domain.ProviderProfile, error) {
	if !profileTransitions[status] {
		return nil, apperr.BadRequest("invalid profile status")
	}
	profiles := repo.NewProfileRepo(s.db)
	p, err := profiles.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup profile failed", err)
	}
	if p == nil {
		return nil, apperr.NotFound(apperr.CodeProfileNotFound, "provider profile not found")
	}
	if err := profiles.UpdateFields(ctx, id, map[string]any{"status": status, "updated_at": time.Now()}); err != nil {
		return nil, apperr.Internal("update status failed", err)
	}
	return profiles.FindByID(ctx, id)
}

func (s *ProfileService) Get(ctx context.Context, id uuid.UUID) (*domain.ProviderProfile, error) {
	p, err := repo.NewProfileRepo(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup profile failed", err)
	}
	if p == nil {
		return nil, apperr.NotFound(apperr.CodeProfileNotFound, "provider profile not found")
	}
	return p, nil
}

func (s *ProfileService) Search(ctx context.Context, q repo.ProfileQuery) ([]domain.ProviderProfile, int64, error) {
	items, total, err := repo.NewProfileRepo(s.db).Search(ctx, q)
	if err != nil {
		return nil, 0, apperr.Internal("search profiles failed", err)
	}
	return items, total, nil
}
