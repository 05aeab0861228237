package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-service-market/internal/domain"
)

type ProfileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func (r *ProfileRepo) Create(ctx context.Context, p *domain.ProviderProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.ProviderProfile, error) {
	var p domain.ProviderProfile
	err := r.db.WithContext(ctx).Preload("Category").First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

func (r *ProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.ProviderProfile, error) {
	var p domain.ProviderProfile
	err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &p, err
}

// UpdateFields 稀疏更新：只改传入的列，updated_at 由 gorm 统一补
func (r *ProfileRepo) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&domain.ProviderProfile{}).
		Where("id = ?", id).
		Updates(fields).Error
}

type ProfileQuery struct {
	Status     string
	CategoryID int64
	Search     string
	Available  *bool
	// 地理半径筛选（公里），三个都给才生效
	Lat, Lng *float64
	RadiusKm float64

	SortBy string // rating | price | created_at
	Desc   bool
	Offset int
	Limit  int
}

// haversine 球面距离（公里）表达式，lat/lng 两参数
const haversineExpr = "(6371 * acos(cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) + sin(radians(?)) * sin(radians(latitude))))"

func (r *ProfileRepo) Search(ctx context.Context, in ProfileQuery) ([]domain.ProviderProfile, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ProviderProfile{}).Where("archived_at IS NULL")

	if in.Status != "" {
		q = q.Where("status = ?", in.Status)
	}
	if in.CategoryID > 0 {
		q = q.Where("category_id = ?", in.CategoryID)
	}
	if s := strings.TrimSpace(in.Search); s != "" {
		like := "%" + s + "%"
		q = q.Where("business_name LIKE ? OR service_title LIKE ? OR description LIKE ?", like, like, like)
	}
	if in.Available != nil {
		q = q.Where("is_available = ?", *in.Available)
	}
	if in.Lat != nil && in.Lng != nil && in.RadiusKm > 0 {
		q = q.Where("latitude IS NOT NULL AND longitude IS NOT NULL").
			Where(haversineExpr+" <= ?", *in.Lat, *in.Lng, *in.Lat, in.RadiusKm)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "created_at"
	switch in.SortBy {
	case "rating":
		order = "rating"
	case "price":
		order = "price_per_hour"
	case "created_at", "":
	}
	if in.Desc {
		order += " DESC"
	}

	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}

	var items []domain.ProviderProfile
	err := q.Preload("Category").Order(order).Offset(in.Offset).Limit(in.Limit).Find(&items).Error
	return items, total, err
}

// SearchOnboarded 线下入驻列表：onboarded_by 非空；recruiterID 限定某个猎头名下
func (r *ProfileRepo) SearchOnboarded(ctx context.Context, in ProfileQuery, recruiterID *uuid.UUID) ([]domain.ProviderProfile, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.ProviderProfile{}).
		Where("archived_at IS NULL").
		Where("onboarded_by IS NOT NULL")
	if recruiterID != nil {
		q = q.Where("onboarded_by = ?", *recruiterID)
	}
	if in.Status != "" {
		q = q.Where("status = ?", in.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}

	var items []domain.ProviderProfile
	err := q.Preload("Category").Order("onboarded_at DESC").Offset(in.Offset).Limit(in.Limit).Find(&items).Error
	return items, total, err
}
