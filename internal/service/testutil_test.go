package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-service-market/internal/core/auth"
	"go-service-market/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只能吃单连接，多连接会各开一个空库
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, domain.AutoMigrate(db))
	return db
}

func newTestJWTer() *auth.JWTer {
	return &auth.JWTer{
		Secret: []byte("test-secret"),
		Issuer: "test",
		TTL:    time.Hour,
	}
}

func claimsFor(uid string, roles ...string) *auth.Claims {
	return &auth.Claims{UID: uid, Roles: roles}
}

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}
