package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-service-market/internal/domain"
)

var ErrCreateRace = errors.New("repo: insert returned no row")

type RoleRepo struct{ db *gorm.DB }

func NewRoleRepo(db *gorm.DB) *RoleRepo { return &RoleRepo{db: db} }

// EnsureRole 幂等 get-or-create：insert 冲突忽略，再回查。
// 并发双方各自 insert，输家读到赢家那行即可。
func (r *RoleRepo) EnsureRole(ctx context.Context, name, description string) (*domain.Role, error) {
	role := domain.Role{Name: name, Description: description}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&role).Error; err != nil {
		return nil, err
	}
	var out domain.Role
	if err := r.db.WithContext(ctx).First(&out, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCreateRace
		}
		return nil, err
	}
	return &out, nil
}

// EnsureUserRole 幂等连接行写入
func (r *RoleRepo) EnsureUserRole(ctx context.Context, userID uuid.UUID, roleID int64) error {
	ur := domain.UserRole{UserID: userID, RoleID: roleID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ur).Error
}
