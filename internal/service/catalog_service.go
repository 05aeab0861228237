package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/core/cache"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
)

const (
	cacheKeyCategories = "catalog:categories"
	categoriesTTL      = 10 * time.Minute
)

type CatalogService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewCatalogService(db *gorm.DB, c *cache.Cache) *CatalogService {
	return &CatalogService{db: db, cache: c}
}

// ListCategories 读多写少，整表走缓存
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if s.cache == nil {
		return s.loadCategories(ctx)
	}
	out, err := cache.GetOrLoadJSON(s.cache, ctx, cacheKeyCategories, categoriesTTL,
		func(ctx context.Context) (*[]domain.Category, error) {
			items, err := s.loadCategories(ctx)
			if err != nil {
				return nil, err
			}
			return &items, nil
		})
	if err != nil {
		return nil, apperr.Internal("list categories failed", err)
	}
	if out == nil {
		return []domain.Category{}, nil
	}
	return *out, nil
}

func (s *CatalogService) loadCategories(ctx context.Context) ([]domain.Category, error) {
	return repo.NewCategoryRepo(s.db).List(ctx)
}

type CreateCategoryInput struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"max=64"`
	Color       string `json:"color" binding:"max=16"`
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*domain.Category, error) {
	c := &domain.Category{
		Name:        in.Name,
		Description: in.Description,
		Icon:        in.Icon,
		Color:       in.Color,
	}
	if c.Icon == "" {
		c.Icon = domain.CategoryDefaultIcon
	}
	if c.Color == "" {
		c.Color = domain.CategoryDefaultColor
	}
	if err := repo.NewCategoryRepo(s.db).Create(ctx, c); err != nil {
		if isDupKey(err) {
			return nil, apperr.Conflict(apperr.CodeCategoryExists, "category already exists")
		}
		return nil, apperr.Internal("create category failed", err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, cacheKeyCategories)
	}
	return c, nil
}

type CreateServiceInput struct {
	Name        string `json:"name" binding:"required,max=191"`
	Description string `json:"description"`
	CategoryID  int64  `json:"categoryId"`
	BasePrice   any    `json:"basePrice"`
	DurationMin int    `json:"durationMin"`
}

func (s *CatalogService) CreateService(ctx context.Context, in CreateServiceInput) (*domain.Service, error) {
	svc := &domain.Service{
		Name:        in.Name,
		Description: in.Description,
		DurationMin: in.DurationMin,
	}
	if in.CategoryID > 0 {
		cat, err := repo.NewCategoryRepo(s.db).FindByID(ctx, in.CategoryID)
		if err != nil {
			return nil, apperr.Internal("lookup category failed", err)
		}
		if cat == nil {
			return nil, apperr.NotFound(apperr.CodeCategoryNotFound, "category not found")
		}
		svc.CategoryID = &in.CategoryID
	}

	price, err := ParseDecimal(in.BasePrice)
	if err != nil {
		return nil, apperr.BadRequest("basePrice must be a number")
	}
	if price != nil {
		svc.BasePrice = *price
	}
	if svc.DurationMin <= 0 {
		svc.DurationMin = 60
	}

	if err := repo.NewServiceRepo(s.db).Create(ctx, svc); err != nil {
		return nil, apperr.Internal("create service failed", err)
	}
	return svc, nil
}

func (s *CatalogService) GetService(ctx context.Context, id uuid.UUID) (*domain.Service, error) {
	svc, err := repo.NewServiceRepo(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup service failed", err)
	}
	if svc == nil {
		return nil, apperr.NotFound(apperr.CodeServiceNotFound, "service not found")
	}
	return svc, nil
}

func (s *CatalogService) ListServices(ctx context.Context, categoryID int64, search string, offset, limit int) ([]domain.Service, int64, error) {
	items, total, err := repo.NewServiceRepo(s.db).List(ctx, categoryID, search, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("list services failed", err)
	}
	return items, total, nil
}
