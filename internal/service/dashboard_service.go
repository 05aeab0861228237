package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/core/auth"
	"go-service-market/internal/core/cache"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
)

const dashboardTTL = 30 * time.Second

type DashboardService struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDashboardService(db *gorm.DB, c *cache.Cache) *DashboardService {
	return &DashboardService{db: db, cache: c}
}

type DashboardOverview struct {
	TotalOnboarded int64 `json:"totalOnboarded"`
	PendingReview  int64 `json:"pendingReview"`
	ActiveProfiles int64 `json:"activeProfiles"`
	Rejected       int64 `json:"rejected"`

	Events []domain.RecruiterEvent `json:"recentActivity"`
}

// Overview 猎头看自己名下，管理员看全局；计数短缓存
func (s *DashboardService) Overview(ctx context.Context, claims *auth.Claims) (*DashboardOverview, error) {
	scope, err := s.scope(ctx, claims)
	if err != nil {
		return nil, err
	}
	key := "dashboard:overview:global"
	if scope != nil {
		key = "dashboard:overview:" + scope.String()
	}

	load := func(ctx context.Context) (*DashboardOverview, error) {
		return s.buildOverview(ctx, scope)
	}
	if s.cache == nil {
		return load(ctx)
	}
	out, err := cache.GetOrLoadJSON(s.cache, ctx, key, dashboardTTL, load)
	if err != nil {
		return nil, apperr.Internal("load dashboard failed", err)
	}
	return out, nil
}

func (s *DashboardService) buildOverview(ctx context.Context, scope *uuid.UUID) (*DashboardOverview, error) {
	out := &DashboardOverview{}

	base := func() *gorm.DB {
		q := s.db.WithContext(ctx).Model(&domain.ProviderProfile{}).
			Where("archived_at IS NULL").
			Where("onboarded_by IS NOT NULL")
		if scope != nil {
			q = q.Where("onboarded_by = ?", *scope)
		}
		return q
	}

	if err := base().Count(&out.TotalOnboarded).Error; err != nil {
		return nil, err
	}
	counts := []struct {
		status domain.ProfileStatus
		dst    *int64
	}{
		{domain.ProfileStatusPending, &out.PendingReview},
		{domain.ProfileStatusActive, &out.ActiveProfiles},
		{domain.ProfileStatusRejected, &out.Rejected},
	}
	for _, c := range counts {
		if err := base().Where("status = ?", c.status).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	events, err := repo.NewEventRepo(s.db).Recent(ctx, scope, 20)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	out.Events = events
	return out, nil
}

// Activity 最近的审计事件流，不走缓存
func (s *DashboardService) Activity(ctx context.Context, claims *auth.Claims, limit int) ([]domain.RecruiterEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	scope, err := s.scope(ctx, claims)
	if err != nil {
		return nil, err
	}
	events, err := repo.NewEventRepo(s.db).Recent(ctx, scope, limit)
	if err != nil {
		return nil, apperr.Internal("load activity failed", err)
	}
	return events, nil
}

// scope 管理员 ⇒ nil（全局）；猎头 ⇒ 自己的猎头 id。
// 查不到猎头行要报错，不能退化成全局视角。
func (s *DashboardService) scope(ctx context.Context, claims *auth.Claims) (*uuid.UUID, error) {
	if claims.HasRole(domain.RoleAdministrator) {
		return nil, nil
	}
	uid, err := uuid.Parse(claims.UID)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token subject")
	}
	rec, err := repo.NewRecruiterRepo(s.db).FindByUserID(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("lookup recruiter failed", err)
	}
	if rec == nil {
		return nil, apperr.Forbidden("recruiter account required")
	}
	return &rec.ID, nil
}
