package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
	"go-service-market/internal/repo"
)

func seedCatalogService(t *testing.T, db *gorm.DB) *domain.Service {
	t.Helper()
	svc := &domain.Service{Name: "Deep Clean", BasePrice: mustDecimal(t, "80"), DurationMin: 120}
	require.NoError(t, db.Create(svc).Error)
	return svc
}

func TestCreateBookingDefaultsToServicePrice(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db)

	customer := seedUser(t, db, "cust@example.com")
	profile := seedProfile(t, db, "prov@example.com")
	catalogSvc := seedCatalogService(t, db)

	b, err := bookings.Create(context.Background(), customer.ID, CreateBookingInput{
		ProviderID:  profile.ID.String(),
		ServiceID:   catalogSvc.ID.String(),
		BookingDate: "2026-09-15",
		StartTime:   "10:00 AM",
		EndTime:     "12:00 PM",
	})
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusPending, b.Status)
	require.True(t, b.TotalPrice.Equal(mustDecimal(t, "80")))
}

func TestBookingStatusTransitions(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db)

	customer := seedUser(t, db, "cust@example.com")
	profile := seedProfile(t, db, "prov@example.com")
	catalogSvc := seedCatalogService(t, db)

	b, err := bookings.Create(context.Background(), customer.ID, CreateBookingInput{
		ProviderID:  profile.ID.String(),
		ServiceID:   catalogSvc.ID.String(),
		BookingDate: "2026-09-15",
		StartTime:   "10:00 AM",
		TotalPrice:  100,
	})
	require.NoError(t, err)

	claims := claimsFor(customer.ID.String(), domain.RoleCustomer)

	// pending → completed 跳步不允许
	_, err = bookings.UpdateStatus(context.Background(), claims, b.ID, domain.BookingStatusCompleted)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidTransition, ae.Code)

	out, err := bookings.UpdateStatus(context.Background(), claims, b.ID, domain.BookingStatusConfirmed)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusConfirmed, out.Status)

	out, err = bookings.UpdateStatus(context.Background(), claims, out.ID, domain.BookingStatusCompleted)
	require.NoError(t, err)
	require.Equal(t, domain.BookingStatusCompleted, out.Status)

	// 终态不可再动
	_, err = bookings.UpdateStatus(context.Background(), claims, out.ID, domain.BookingStatusCancelled)
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidTransition, ae.Code)
}

func TestCompletedBookingSettlesCommission(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db)

	customer := seedUser(t, db, "cust@example.com")
	profile := seedProfile(t, db, "prov@example.com")
	catalogSvc := seedCatalogService(t, db)

	rate := mustDecimal(t, "10")
	require.NoError(t, db.Model(&domain.ProviderProfile{}).
		Where("id = ?", profile.ID).
		Update("commission_rate", rate).Error)

	b, err := bookings.Create(context.Background(), customer.ID, CreateBookingInput{
		ProviderID:  profile.ID.String(),
		ServiceID:   catalogSvc.ID.String(),
		BookingDate: "2026-09-15",
		StartTime:   "10:00 AM",
		TotalPrice:  200,
	})
	require.NoError(t, err)

	claims := claimsFor(customer.ID.String(), domain.RoleCustomer)
	_, err = bookings.UpdateStatus(context.Background(), claims, b.ID, domain.BookingStatusConfirmed)
	require.NoError(t, err)
	_, err = bookings.UpdateStatus(context.Background(), claims, b.ID, domain.BookingStatusCompleted)
	require.NoError(t, err)

	items, total, err := repo.NewCommissionRepo(db).ListByProvider(context.Background(), profile.ID, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.True(t, items[0].Amount.Equal(mustDecimal(t, "20")))

	var p domain.ProviderProfile
	require.NoError(t, db.First(&p, "id = ?", profile.ID).Error)
	require.True(t, p.TotalEarnings.Equal(mustDecimal(t, "200")))
	require.True(t, p.TotalCommission.Equal(mustDecimal(t, "20")))
}

func TestBookingVisibilityScopedToCaller(t *testing.T) {
	db := newTestDB(t)
	bookings := NewBookingService(db)

	cust1 := seedUser(t, db, "c1@example.com")
	cust2 := seedUser(t, db, "c2@example.com")
	profile := seedProfile(t, db, "prov@example.com")
	catalogSvc := seedCatalogService(t, db)

	b, err := bookings.Create(context.Background(), cust1.ID, CreateBookingInput{
		ProviderID:  profile.ID.String(),
		ServiceID:   catalogSvc.ID.String(),
		BookingDate: "2026-09-15",
		StartTime:   "10:00 AM",
	})
	require.NoError(t, err)

	// 别的客户看不到
	_, err = bookings.Get(context.Background(), claimsFor(cust2.ID.String(), domain.RoleCustomer), b.ID)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 403, ae.Status)

	// 管理员可以
	admin := seedUser(t, db, "admin@example.com")
	got, err := bookings.Get(context.Background(), claimsFor(admin.ID.String(), domain.RoleAdministrator), b.ID)
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID)

	items, total, err := bookings.List(context.Background(),
		claimsFor(cust1.ID.String(), domain.RoleCustomer), repo.BookingQuery{Limit: 10})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, items, 1)
}
