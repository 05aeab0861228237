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
	"go-service-market/pkg/optional"
	"go-service-market/pkg/utils"
)

type RecruiterService struct {
	db         *gorm.DB
	jwter      *auth.JWTer
	bcryptCost int
	inviteTTL  time.Duration
}

func NewRecruiterService(db *gorm.DB, jwter *auth.JWTer, bcryptCost int, inviteTTL time.Duration) *RecruiterService {
	return &RecruiterService{db: db, jwter: jwter, bcryptCost: bcryptCost, inviteTTL: inviteTTL}
}

type InviteInput struct {
	Email string `json:"email" binding:"required,email"`
}

// Invite 管理员发邀请；同邮箱重复邀请覆盖 pending 行并刷新 token/有效期
func (s *RecruiterService) Invite(ctx context.Context, invitedBy uuid.UUID, in InviteInput) (*domain.RecruiterInvitation, error) {
	inv := &domain.RecruiterInvitation{
		Email:     utils.NormalizeEmail(in.Email),
		Token:     uuid.NewString(),
		Status:    domain.InvitationStatusPending,
		InvitedBy: invitedBy,
		ExpiresAt: time.Now().Add(s.inviteTTL),
	}
	if err := repo.NewInvitationRepo(s.db).UpsertPending(ctx, inv); err != nil {
		return nil, apperr.Internal("upsert invitation failed", err)
	}
	// upsert 命中已有行时回查权威数据
	out, err := repo.NewInvitationRepo(s.db).FindByToken(ctx, inv.Token)
	if err != nil {
		return nil, apperr.Internal("reload invitation failed", err)
	}
	if out == nil {
		return inv, nil
	}
	return out, nil
}

func (s *RecruiterService) ListInvitations(ctx context.Context, status string, offset, limit int) ([]domain.RecruiterInvitation, int64, error) {
	items, total, err := repo.NewInvitationRepo(s.db).List(ctx, status, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("list invitations failed", err)
	}
	return items, total, nil
}

// Revoke pending→revoked；终态不可再撤销
func (s *RecruiterService) Revoke(ctx context.Context, id uuid.UUID) (*domain.RecruiterInvitation, error) {
	invs := repo.NewInvitationRepo(s.db)
	inv, err := invs.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup invitation failed", err)
	}
	if inv == nil {
		return nil, apperr.NotFound(apperr.CodeInvitationNotFound, "invitation not found")
	}
	if inv.Terminal() {
		return nil, apperr.Conflict(apperr.CodeInviteRevoked, "invitation is not pending")
	}
	ok, err := invs.MarkRevoked(ctx, id)
	if err != nil {
		return nil, apperr.Internal("revoke invitation failed", err)
	}
	if !ok {
		return nil, apperr.Conflict(apperr.CodeInviteRevoked, "invitation is not pending")
	}
	return invs.FindByID(ctx, id)
}

type RecruiterRegisterInput struct {
	FullName        string `json:"fullName" binding:"required,max=128"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
	Phone           string `json:"phone" binding:"max=32"`
	City            string `json:"city" binding:"max=120"`
	InviteToken     string `json:"inviteToken"`
}

type RecruiterRegisterResult struct {
	Token     string            `json:"token"`
	User      *domain.User      `json:"user"`
	Recruiter *domain.Recruiter `json:"recruiter"`
}

// Register 猎头注册。带有效 token 直接 active，无 token 则 pending 等管理员激活。
// 建号、发角色、建猎头行、记审计、核销邀请在一个事务里完成。
func (s *RecruiterService) Register(ctx context.Context, in RecruiterRegisterInput) (*RecruiterRegisterResult, error) {
	if in.Password != in.ConfirmPassword {
		return nil, apperr.BadRequest("passwords do not match")
	}
	if !utils.ValidPassword(in.Password) {
		return nil, apperr.BadRequest("password must be at least 8 characters with upper, lower and digit")
	}
	email := utils.NormalizeEmail(in.Email)

	users := repo.NewUserRepo(s.db)
	if existing, err := users.FindByEmail(ctx, email); err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	} else if existing != nil {
		return nil, apperr.Conflict(apperr.CodeUserExists, "email already registered")
	}

	// token 校验在事务外做完，错误码各自独立
	var invitation *domain.RecruiterInvitation
	status := domain.RecruiterStatusPending
	if in.InviteToken != "" {
		inv, err := repo.NewInvitationRepo(s.db).FindByToken(ctx, in.InviteToken)
		if err != nil {
			return nil, apperr.Internal("lookup invitation failed", err)
		}
		if inv == nil || inv.Status != domain.InvitationStatusPending {
			return nil, apperr.BadRequestCode(apperr.CodeInvalidInviteToken, "invitation token is invalid")
		}
		if inv.Email != email {
			return nil, apperr.BadRequestCode(apperr.CodeInviteEmailMismatch, "invitation was issued for a different email")
		}
		if time.Now().After(inv.ExpiresAt) {
			return nil, apperr.BadRequestCode(apperr.CodeInviteExpired, "invitation has expired")
		}
		invitation = inv
		status = domain.RecruiterStatusActive
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password failed", err)
	}
	first, last := utils.SplitFullName(in.FullName)

	u := &domain.User{Email: email, PasswordHash: hash, FirstName: first, LastName: last}
	rec := &domain.Recruiter{Phone: in.Phone, City: in.City, Status: status}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUsers := repo.NewUserRepo(tx)
		txRoles := repo.NewRoleRepo(tx)
		txRecs := repo.NewRecruiterRepo(tx)
		txInvs := repo.NewInvitationRepo(tx)
		txEvents := repo.NewEventRepo(tx)

		if err := txUsers.Create(ctx, u); err != nil {
			if isDupKey(err) {
				return apperr.Conflict(apperr.CodeUserExists, "email already registered")
			}
			return apperr.Internal("create user failed", err)
		}
		role, err := txRoles.EnsureRole(ctx, domain.RoleRecruiter, "Offline onboarding recruiter")
		if err != nil {
			return apperr.Internal("ensure role failed", err)
		}
		if err := txRoles.EnsureUserRole(ctx, u.ID, role.ID); err != nil {
			return apperr.Internal("assign role failed", err)
		}
		u.Roles = []domain.Role{*role}

		rec.UserID = u.ID
		if err := txRecs.Create(ctx, rec); err != nil {
			return apperr.Internal("create recruiter failed", err)
		}

		if invitation != nil {
			ok, err := txInvs.MarkAccepted(ctx, invitation.ID)
			if err != nil {
				return apperr.Internal("accept invitation failed", err)
			}
			// 并发下 token 先被别人核销：整单回滚
			if !ok {
				return apperr.BadRequestCode(apperr.CodeInvalidInviteToken, "invitation token is invalid")
			}
		}

		meta, _ := json.Marshal(map[string]any{"email": email, "status": string(status)})
		return txEvents.Append(ctx, &domain.RecruiterEvent{
			RecruiterID: rec.ID,
			EventType:   domain.EventRecruiterRegistered,
			Metadata:    meta,
		})
	})
	if err != nil {
		return nil, err
	}

	tok, err := s.jwter.Issue(u.ID.String(), u.RoleNames())
	if err != nil {
		return nil, apperr.Internal("issue token failed", err)
	}
	return &RecruiterRegisterResult{Token: tok, User: u, Recruiter: rec}, nil
}

func (s *RecruiterService) List(ctx context.Context, status string, offset, limit int) ([]domain.Recruiter, int64, error) {
	items, total, err := repo.NewRecruiterRepo(s.db).List(ctx, status, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("list recruiters failed", err)
	}
	return items, total, nil
}

func (s *RecruiterService) Me(ctx context.Context, userID uuid.UUID) (*domain.Recruiter, error) {
	rec, err := repo.NewRecruiterRepo(s.db).FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("lookup recruiter failed", err)
	}
	if rec == nil {
		return nil, apperr.NotFound(apperr.CodeRecruiterNotFound, "recruiter not found")
	}
	return rec, nil
}

type UpdateRecruiterInput struct {
	Phone     optional.Field[string] `json:"phone"`
	City      optional.Field[string] `json:"city"`
	Status    optional.Field[string] `json:"status"`
	AvatarURL optional.Field[string] `json:"avatarUrl"`
	Latitude  optional.Field[any]    `json:"latitude"`
	Longitude optional.Field[any]    `json:"longitude"`
}

// 猎头自己只能切在线状态；pending/suspended 属管控态，只有管理员能动
var selfServiceStatuses = map[domain.RecruiterStatus]bool{
	domain.RecruiterStatusActive:  true,
	domain.RecruiterStatusAway:    true,
	domain.RecruiterStatusOffline: true,
}

var recruiterStatuses = map[domain.RecruiterStatus]bool{
	domain.RecruiterStatusActive:    true,
	domain.RecruiterStatusAway:      true,
	domain.RecruiterStatusOffline:   true,
	domain.RecruiterStatusPending:   true,
	domain.RecruiterStatusSuspended: true,
}

// UpdateMe 稀疏更新，顺带刷新 last_active_at
func (s *RecruiterService) UpdateMe(ctx context.Context, userID uuid.UUID, in UpdateRecruiterInput) (*domain.Recruiter, error) {
	recs := repo.NewRecruiterRepo(s.db)
	rec, err := recs.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("lookup recruiter failed", err)
	}
	if rec == nil {
		return nil, apperr.NotFound(apperr.CodeRecruiterNotFound, "recruiter not found")
	}

	fields := map[string]any{}
	if in.Phone.Set {
		fields["phone"] = in.Phone.Value
	}
	if in.City.Set {
		fields["city"] = in.City.Value
	}
	if in.AvatarURL.Set {
		fields["avatar_url"] = in.AvatarURL.Value
	}
	if in.Status.Set {
		st := domain.RecruiterStatus(in.Status.Value)
		if !selfServiceStatuses[st] {
			return nil, apperr.BadRequest("invalid recruiter status")
		}
		if rec.Status == domain.RecruiterStatusPending || rec.Status == domain.RecruiterStatusSuspended {
			return nil, apperr.Forbidden("recruiter account is awaiting activation")
		}
		fields["status"] = st
	}
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
	if err := setDec("latitude", "latitude", in.Latitude); err != nil {
		return nil, err
	}
	if err := setDec("longitude", "longitude", in.Longitude); err != nil {
		return nil, err
	}
	fields["last_active_at"] = time.Now()
	fields["updated_at"] = time.Now()

	if err := recs.UpdateFields(ctx, rec.ID, fields); err != nil {
		return nil, apperr.Internal("update recruiter failed", err)
	}
	return recs.FindByUserID(ctx, userID)
}

// UpdateStatus 管理员改猎头状态（激活 pending、封禁/解封）
func (s *RecruiterService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Recruiter, error) {
	st := domain.RecruiterStatus(status)
	if !recruiterStatuses[st] {
		return nil, apperr.BadRequest("invalid recruiter status")
	}
	recs := repo.NewRecruiterRepo(s.db)
	rec, err := recs.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("lookup recruiter failed", err)
	}
	if rec == nil {
		return nil, apperr.NotFound(apperr.CodeRecruiterNotFound, "recruiter not found")
	}
	if err := recs.UpdateFields(ctx, rec.ID, map[string]any{
		"status":     st,
		"updated_at": time.Now(),
	}); err != nil {
		return nil, apperr.Internal("update recruiter failed", err)
	}
	return recs.FindByID(ctx, id)
}
