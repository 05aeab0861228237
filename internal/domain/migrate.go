package domain

import "gorm.io/gorm"

// AutoMigrate 按依赖顺序迁移全部实体
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Role{},
		&UserRole{},
		&Category{},
		&Recruiter{},
		&ProviderProfile{},
		&RecruiterInvitation{},
		&RecruiterEvent{},
		&ProviderDocument{},
		&Service{},
		&Booking{},
		&TimeSlot{},
		&ProviderCommission{},
	)
}
