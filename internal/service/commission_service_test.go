package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
)

func TestRecordCommission(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommissionService(db)
	p := seedProfile(t, db, "prov@example.com")

	out, err := svc.Record(context.Background(), p.ID, RecordCommissionInput{
		Amount: "15.50",
		Notes:  "manual adjustment",
	})
	require.NoError(t, err)
	require.True(t, out.Amount.Equal(mustDecimal(t, "15.50")))

	var got domain.ProviderProfile
	require.NoError(t, db.First(&got, "id = ?", p.ID).Error)
	require.True(t, got.TotalCommission.Equal(mustDecimal(t, "15.50")))

	items, total, err := svc.List(context.Background(), p.ID, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, items, 1)
}

func TestRecordCommissionValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewCommissionService(db)
	p := seedProfile(t, db, "prov@example.com")

	_, err := svc.Record(context.Background(), p.ID, RecordCommissionInput{Amount: "-5"})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 400, ae.Status)

	_, err = svc.Record(context.Background(), uuid.New(), RecordCommissionInput{Amount: "5"})
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeProfileNotFound, ae.Code)
}

func TestDashboardOverviewCounts(t *testing.T) {
	db := newTestDB(t)
	onboarding := NewOnboardingService(db, NewProfileService(db), 4, 12)
	dashboard := NewDashboardService(db, nil)

	recUser, _ := seedRecruiter(t, db, "rec@example.com")
	claims := claimsFor(recUser.ID.String(), domain.RoleRecruiter)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := onboarding.OnboardProvider(context.Background(), claims, OnboardProviderInput{
			FullName:        "Some Provider",
			Email:           email,
			ServiceCategory: "Cleaning",
		})
		require.NoError(t, err)
	}

	out, err := dashboard.Overview(context.Background(), claims)
	require.NoError(t, err)
	require.EqualValues(t, 2, out.TotalOnboarded)
	require.EqualValues(t, 2, out.PendingReview)
	require.EqualValues(t, 0, out.ActiveProfiles)
	require.Len(t, out.Events, 2)

	activity, err := dashboard.Activity(context.Background(), claims, 10)
	require.NoError(t, err)
	require.Len(t, activity, 2)
}

func TestDashboardWithoutRecruiterRowIsForbidden(t *testing.T) {
	db := newTestDB(t)
	dashboard := NewDashboardService(db, nil)

	// 带猎头角色但没有猎头行：必须 403，不能退化成全局视角
	rogue := seedUser(t, db, "rogue@example.com")
	claims := claimsFor(rogue.ID.String(), domain.RoleRecruiter)

	_, err := dashboard.Overview(context.Background(), claims)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 403, ae.Status)

	_, err = dashboard.Activity(context.Background(), claims, 10)
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 403, ae.Status)
}
