package domain

import "github.com/google/uuid"

// 角色名（懒创建：首次引用时落库）
const (
	RoleCustomer      = "customer"
	RoleProvider      = "provider"
	RoleRecruiter     = "recruiter"
	RoleAdministrator = "administrator"
)

type Role struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"uniqueIndex;size:32;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

func (Role) TableName() string { return "roles" }

// user_roles — 多对多连接表（复合主键，随任一侧级联删除）
type UserRole struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"userId"`
	RoleID int64     `gorm:"primaryKey" json:"roleId"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Role *Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserRole) TableName() string { return "user_roles" }
