package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/core/auth"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
	"go-service-market/pkg/utils"
)

type AccountService struct {
	db         *gorm.DB
	jwter      *auth.JWTer
	bcryptCost int
}

func NewAccountService(db *gorm.DB, jwter *auth.JWTer, bcryptCost int) *AccountService {
	return &AccountService{db: db, jwter: jwter, bcryptCost: bcryptCost}
}

type RegisterInput struct {
	FirstName       string `json:"firstName" binding:"required,max=64"`
	LastName        string `json:"lastName" binding:"max=64"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirmPassword" binding:"required"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
	// 角色快照，和 token 内一致
	Roles []string `json:"roles"`
}

// Register 注册普通用户：恰好绑定一个 customer 角色，token 嵌入角色快照
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
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

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password failed", err)
	}

	u := &domain.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUsers := repo.NewUserRepo(tx)
		txRoles := repo.NewRoleRepo(tx)

		if err := txUsers.Create(ctx, u); err != nil {
			if isDupKey(err) {
				return apperr.Conflict(apperr.CodeUserExists, "email already registered")
			}
			return apperr.Internal("create user failed", err)
		}
		role, err := txRoles.EnsureRole(ctx, domain.RoleCustomer, "Platform customer")
		if err != nil {
			return apperr.Internal("ensure role failed", err)
		}
		if err := txRoles.EnsureUserRole(ctx, u.ID, role.ID); err != nil {
			return apperr.Internal("assign role failed", err)
		}
		u.Roles = []domain.Role{*role}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueFor(u)
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (s *AccountService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	users := repo.NewUserRepo(s.db)
	u, err := users.FindByEmail(ctx, utils.NormalizeEmail(in.Email))
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if u == nil || !utils.CheckPassword(in.Password, u.PasswordHash) {
		return nil, apperr.Unauthorized(apperr.CodeInvalidCredentials, "invalid email or password")
	}
	return s.issueFor(u)
}

func (s *AccountService) Profile(ctx context.Context, uid uuid.UUID) (*domain.User, error) {
	users := repo.NewUserRepo(s.db)
	u, err := users.FindByID(ctx, uid)
	if err != nil {
		return nil, apperr.Internal("lookup user failed", err)
	}
	if u == nil {
		return nil, apperr.NotFound(apperr.CodeUserNotFound, "user not found")
	}
	return u, nil
}

// ListUsers 管理端分页拉取
func (s *AccountService) ListUsers(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	items, total, err := repo.NewUserRepo(s.db).List(ctx, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal("list users failed", err)
	}
	return items, total, nil
}

func (s *AccountService) issueFor(u *domain.User) (*AuthResult, error) {
	roles := u.RoleNames()
	tok, err := s.jwter.Issue(u.ID.String(), roles)
	if err != nil {
		return nil, apperr.Internal("issue token failed", err)
	}
	return &AuthResult{Token: tok, User: u, Roles: roles}, nil
}
