package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/core/auth"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
	"go-service-market/pkg/utils"
)

type OnboardingService struct {
	db          *gorm.DB
	profiles    *ProfileService
	bcryptCost  int
	tempPassLen int
}

func NewOnboardingService(db *gorm.DB, profiles *ProfileService, bcryptCost, tempPassLen int) *OnboardingService {
	return &OnboardingService{db: db, profiles: profiles, bcryptCost: bcryptCost, tempPassLen: tempPassLen}
}

type OnboardDocumentInput struct {
	DocumentType string `json:"documentType" binding:"required,max=64"`
	FileURL      string `json:"fileUrl" binding:"required,max=1024"`
	FileName     string `json:"fileName" binding:"max=255"`
	MimeType     string `json:"mimeType" binding:"max=128"`
	FileSize     int64  `json:"fileSize"`
	// 外部托管 URL 场景 StorageKey 为空
	StorageKey string `json:"storageKey" binding:"max=512"`
}

type OnboardProviderInput struct {
	FullName        string `json:"fullName" binding:"required,max=128"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"max=32"`
	ServiceCategory string `json:"serviceCategory" binding:"required,max=120"`
	BusinessName    string `json:"businessName" binding:"max=191"`
	Description     string `json:"description"`
	PricePerHour    any    `json:"pricePerHour"`
	Latitude        any    `json:"latitude"`
	Longitude       any    `json:"longitude"`
	// 管理员代录入时必填
	RecruiterID string `json:"recruiterId"`

	Documents []OnboardDocumentInput `json:"documents" binding:"dive"`
}

type OnboardProviderResult struct {
	Profile   *domain.ProviderProfile   `json:"profile"`
	User      *domain.User              `json:"user"`
	Documents []domain.ProviderDocument `json:"documents"`
	// 新建账号时返回一次，之后不可再取
	TempPassword string `json:"tempPassword,omitempty"`
}

// resolveRecruiter 定位操作者的猎头身份：
// recruiter 角色 ⇒ 自己的猎头行；administrator ⇒ 必须显式给 recruiterId；其余 403
func (s *OnboardingService) resolveRecruiter(ctx context.Context, claims *auth.Claims, recruiterID string) (*domain.Recruiter, error) {
	recs := repo.NewRecruiterRepo(s.db)

	if claims.HasRole(domain.RoleRecruiter) {
		uid, err := uuid.Parse(claims.UID)
		if err != nil {
			return nil, apperr.Unauthorized(apperr.CodeInvalidToken, "invalid token subject")
		}
		rec, err := recs.FindByUserID(ctx, uid)
		if err != nil {
			return nil, apperr.Internal("lookup recruiter failed", err)
		}
		if rec == nil {
			return nil, apperr.NotFound(apperr.CodeRecruiterNotFound, "recruiter record not found")
		}
		return rec, nil
	}

	if claims.HasRole(domain.RoleAdministrator) {
		if recruiterID == "" {
			return nil, apperr.BadRequestCode(apperr.CodeRecruiterIDRequired, "recruiterId is required when onboarding as administrator")
		}
		rid, err := uuid.Parse(recruiterID)
		if err != nil {
			return nil, apperr.BadRequestCode(apperr.CodeRecruiterIDRequired, "recruiterId is not a valid id")
		}
		rec, err := recs.FindByID(ctx, rid)
		if err != nil {
			return nil, apperr.Internal("lookup recruiter failed", err)
		}
		if rec == nil {
			return nil, apperr.NotFound(apperr.CodeRecruiterNotFound, "recruiter not found")
		}
		return rec, nil
	}

	return nil, apperr.Forbidden("requires role: recruiter or administrator")
}

// OnboardProvider 线下入驻：建号（或复用）、发 provider 角色、归类目、建画像、
// 挂文档、记审计——用户解析之后的所有步骤在一个事务里，要么全成要么全回滚。
func (s *OnboardingService) OnboardProvider(ctx context.Context, claims *auth.Claims, in OnboardProviderInput) (*OnboardProviderResult, error) {
	actor, err := s.resolveRecruiter(ctx, claims, in.RecruiterID)
	if err != nil {
		return nil, err
	}

	email := utils.NormalizeEmail(in.Email)
	first, last := utils.SplitFullName(in.FullName)

	users := repo.NewUserRepo(s.db)
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}

	var tempPassword string
	if existing != nil {
		// 已有账号：只要没有画像就继续
		if p, err := repo.NewProfileRepo(s.db).FindByUserID(ctx, existing.ID); err != nil {
			return nil, apperr.Internal("lookup profile failed", err)
		} else if p != nil {
			return nil, apperr.Conflict(apperr.CodeProviderExists, "a provider profile already exists for this email")
		}
	} else {
		tempPassword = utils.TempPassword(s.tempPassLen)
	}

	out := &OnboardProviderResult{TempPassword: tempPassword}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUsers := repo.NewUserRepo(tx)
		txRoles := repo.NewRoleRepo(tx)
		txDocs := repo.NewDocumentRepo(tx)
		txEvents := repo.NewEventRepo(tx)

		u := existing
		if u == nil {
			hash, err := utils.HashPassword(tempPassword, s.bcryptCost)
			if err != nil {
				return apperr.Internal("hash password failed", err)
			}
			u = &domain.User{Email: email, PasswordHash: hash, FirstName: first, LastName: last, Phone: in.Phone}
			if err := txUsers.Create(ctx, u); err != nil {
				if isDupKey(err) {
					return apperr.Conflict(apperr.CodeUserExists, "email already registered")
				}
				return apperr.Internal("create user failed", err)
			}
		}

		role, err := txRoles.EnsureRole(ctx, domain.RoleProvider, "Service provider")
		if err != nil {
			return apperr.Internal("ensure role failed", err)
		}
		if err := txRoles.EnsureUserRole(ctx, u.ID, role.ID); err != nil {
			return apperr.Internal("assign role failed", err)
		}

		businessName := in.BusinessName
		if businessName == "" {
			businessName = in.FullName + " - " + in.ServiceCategory
		}

		now := time.Now()
		profile, err := s.profiles.createProfile(ctx, tx, CreateProfileInput{
			UserID:       u.ID,
			FirstName:    first,
			LastName:     last,
			BusinessName: businessName,
			Description:  in.Description,
			CategoryName: in.ServiceCategory,
			PricePerHour: in.PricePerHour,
			Latitude:     in.Latitude,
			Longitude:    in.Longitude,
			Status:       domain.ProfileStatusPending,
			OnboardedBy:  &actor.ID,
			OnboardedAt:  &now,
		})
		if err != nil {
			return err
		}

		docs := make([]domain.ProviderDocument, 0, len(in.Documents))
		for _, d := range in.Documents {
			docs = append(docs, domain.ProviderDocument{
				ProviderID:   profile.ID,
				DocumentType: d.DocumentType,
				StorageKey:   d.StorageKey,
				FileURL:      d.FileURL,
				FileName:     d.FileName,
				MimeType:     d.MimeType,
				FileSize:     d.FileSize,
				UploadedBy:   &actor.ID,
			})
		}
		inserted, err := txDocs.InsertBatch(ctx, docs)
		if err != nil {
			return apperr.Internal("insert documents failed", err)
		}

		meta, _ := json.Marshal(map[string]any{
			"providerId": profile.ID.String(),
			"email":      email,
			"category":   in.ServiceCategory,
			"documents":  len(inserted),
		})
		if err := txEvents.Append(ctx, &domain.RecruiterEvent{
			RecruiterID: actor.ID,
			EventType:   domain.EventProviderOnboarded,
			Metadata:    meta,
		}); err != nil {
			return apperr.Internal("append event failed", err)
		}

		out.Profile = profile
		out.User = u
		out.Documents = inserted
		return nil
	})
	if err != nil {
		return nil, err
	}
	// 入驻动作算活跃，刷新猎头活跃时间（失败不影响主流程）
	_ = repo.NewRecruiterRepo(s.db).TouchLastActive(ctx, actor.ID)
	return out, nil
}

// ListOnboarded 某猎头（或全部）名下入驻的画像
func (s *OnboardingService) ListOnboarded(ctx context.Context, claims *auth.Claims, status string, offset, limit int) ([]domain.ProviderProfile, int64, error) {
	scope, err := s.scopeRecruiter(ctx, claims)
	if err != nil {
		return nil, 0, err
	}
	q := repo.ProfileQuery{Status: status, Offset: offset, Limit: limit, SortBy: "created_at", Desc: true}
	items, total, err := repo.NewProfileRepo(s.db).SearchOnboarded(ctx, q, scope)
	if err != nil {
		return nil, 0, apperr.Internal("list onboarded providers failed", err)
	}
	return items, total, nil
}

// UpdateOnboarded 猎头修正自己入驻的画像资料；管理员不受归属限制
func (s *OnboardingService) UpdateOnboarded(ctx context.Context, claims *auth.Claims, providerID uuid.UUID, in UpdateProfileInput) (*domain.ProviderProfile, error) {
	profile, err := repo.NewProfileRepo(s.db).FindByID(ctx, providerID)
	if err != nil {
		return nil, apperr.Internal("lookup profile failed", err)
	}
	if profile == nil || profile.OnboardedBy == nil {
		return nil, apperr.NotFound(apperr.CodeProfileNotFound, "onboarded provider not found")
	}
	if !claims.HasRole(domain.RoleAdministrator) {
		scope, err := s.scopeRecruiter(ctx, claims)
		if err != nil {
			return nil, err
		}
		if *scope != *profile.OnboardedBy {
			return nil, apperr.Forbidden("not onboarded by you")
		}
	}
	return s.profiles.UpdateProfile(ctx, providerID, in)
}

// scopeRecruiter 非管理员只能看自己入驻的。解析不出猎头行必须报错，
// 不能退化成全局视角。
func (s *OnboardingService) scopeRecruiter(ctx context.Context, claims *auth.Claims) (*uuid.UUID, error) {
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
