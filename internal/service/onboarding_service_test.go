package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
)

func seedRecruiter(t *testing.T, db *gorm.DB, email string) (*domain.User, *domain.Recruiter) {
	t.Helper()
	u := seedUser(t, db, email)
	rec := &domain.Recruiter{UserID: u.ID, Status: domain.RecruiterStatusActive}
	require.NoError(t, db.Create(rec).Error)
	return u, rec
}

func newOnboardingService(t *testing.T) (*OnboardingService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewOnboardingService(db, NewProfileService(db), 4, 12), db
}

func TestOnboardProviderAsRecruiter(t *testing.T) {
	svc, db := newOnboardingService(t)
	recUser, rec := seedRecruiter(t, db, "rec@example.com")

	out, err := svc.OnboardProvider(context.Background(),
		claimsFor(recUser.ID.String(), domain.RoleRecruiter),
		OnboardProviderInput{
			FullName:        "Pat Provider",
			Email:           "pat@example.com",
			ServiceCategory: "Cleaning",
			PricePerHour:    40,
			Documents: []OnboardDocumentInput{
				{DocumentType: "id_card", FileURL: "https://files.example.com/id.pdf", FileName: "id.pdf"},
			},
		})
	require.NoError(t, err)
	require.NotEmpty(t, out.TempPassword)
	require.Equal(t, "Pat", out.User.FirstName)
	require.Equal(t, "Provider", out.User.LastName)

	require.Equal(t, domain.ProfileStatusPending, out.Profile.Status)
	require.NotNil(t, out.Profile.OnboardedBy)
	require.Equal(t, rec.ID, *out.Profile.OnboardedBy)
	require.NotNil(t, out.Profile.OnboardedAt)
	require.Equal(t, "Pat Provider - Cleaning", out.Profile.BusinessName)

	require.Len(t, out.Documents, 1)
	require.Equal(t, rec.ID, *out.Documents[0].UploadedBy)

	// provider 角色已绑定
	var u domain.User
	require.NoError(t, db.Preload("Roles").First(&u, "id = ?", out.User.ID).Error)
	require.Contains(t, u.RoleNames(), domain.RoleProvider)

	// 审计事件已落
	var events []domain.RecruiterEvent
	require.NoError(t, db.Where("recruiter_id = ?", rec.ID).Find(&events).Error)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventProviderOnboarded, events[0].EventType)
}

func TestOnboardProviderExistingUserNoTempPassword(t *testing.T) {
	svc, db := newOnboardingService(t)
	recUser, _ := seedRecruiter(t, db, "rec@example.com")
	existing := seedUser(t, db, "known@example.com")

	out, err := svc.OnboardProvider(context.Background(),
		claimsFor(recUser.ID.String(), domain.RoleRecruiter),
		OnboardProviderInput{
			FullName:        "Known Person",
			Email:           "known@example.com",
			ServiceCategory: "Plumbing",
		})
	require.NoError(t, err)
	require.Empty(t, out.TempPassword)
	require.Equal(t, existing.ID, out.User.ID)
}

func TestOnboardProviderDuplicateProfile(t *testing.T) {
	svc, db := newOnboardingService(t)
	recUser, _ := seedRecruiter(t, db, "rec@example.com")

	in := OnboardProviderInput{
		FullName:        "Pat Provider",
		Email:           "pat@example.com",
		ServiceCategory: "Cleaning",
	}
	_, err := svc.OnboardProvider(context.Background(),
		claimsFor(recUser.ID.String(), domain.RoleRecruiter), in)
	require.NoError(t, err)

	_, err = svc.OnboardProvider(context.Background(),
		claimsFor(recUser.ID.String(), domain.RoleRecruiter), in)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeProviderExists, ae.Code)
}

func TestOnboardProviderAdminRequiresRecruiterID(t *testing.T) {
	svc, db := newOnboardingService(t)
	admin := seedUser(t, db, "admin@example.com")
	_, rec := seedRecruiter(t, db, "rec@example.com")

	_, err := svc.OnboardProvider(context.Background(),
		claimsFor(admin.ID.String(), domain.RoleAdministrator),
		OnboardProviderInput{
			FullName:        "Pat Provider",
			Email:           "pat@example.com",
			ServiceCategory: "Cleaning",
		})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeRecruiterIDRequired, ae.Code)

	// 带 recruiterId 则归到该猎头名下
	out, err := svc.OnboardProvider(context.Background(),
		claimsFor(admin.ID.String(), domain.RoleAdministrator),
		OnboardProviderInput{
			FullName:        "Pat Provider",
			Email:           "pat@example.com",
			ServiceCategory: "Cleaning",
			RecruiterID:     rec.ID.String(),
		})
	require.NoError(t, err)
	require.Equal(t, rec.ID, *out.Profile.OnboardedBy)
}

func TestOnboardProviderForbiddenForCustomer(t *testing.T) {
	svc, db := newOnboardingService(t)
	u := seedUser(t, db, "cust@example.com")

	_, err := svc.OnboardProvider(context.Background(),
		claimsFor(u.ID.String(), domain.RoleCustomer),
		OnboardProviderInput{
			FullName:        "Pat Provider",
			Email:           "pat@example.com",
			ServiceCategory: "Cleaning",
		})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 403, ae.Status)
}

func TestUpdateOnboardedOwnershipScope(t *testing.T) {
	svc, db := newOnboardingService(t)
	recUser1, _ := seedRecruiter(t, db, "rec1@example.com")
	recUser2, _ := seedRecruiter(t, db, "rec2@example.com")

	out, err := svc.OnboardProvider(context.Background(),
		claimsFor(recUser1.ID.String(), domain.RoleRecruiter),
		OnboardProviderInput{FullName: "Pat Provider", Email: "pat@example.com", ServiceCategory: "Cleaning"})
	require.NoError(t, err)

	var in UpdateProfileInput
	require.NoError(t, json.Unmarshal([]byte(`{"businessName":"Pat Cleaning Co"}`), &in))

	// 入驻猎头本人可改
	updated, err := svc.UpdateOnboarded(context.Background(),
		claimsFor(recUser1.ID.String(), domain.RoleRecruiter), out.Profile.ID, in)
	require.NoError(t, err)
	require.Equal(t, "Pat Cleaning Co", updated.BusinessName)

	// 别的猎头不行
	_, err = svc.UpdateOnboarded(context.Background(),
		claimsFor(recUser2.ID.String(), domain.RoleRecruiter), out.Profile.ID, in)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 403, ae.Status)

	// 管理员不受归属限制
	admin := seedUser(t, db, "admin@example.com")
	_, err = svc.UpdateOnboarded(context.Background(),
		claimsFor(admin.ID.String(), domain.RoleAdministrator), out.Profile.ID, in)
	require.NoError(t, err)
}

func TestListOnboardedScopedToRecruiter(t *testing.T) {
	svc, db := newOnboardingService(t)
	recUser1, rec1 := seedRecruiter(t, db, "rec1@example.com")
	recUser2, _ := seedRecruiter(t, db, "rec2@example.com")

	_, err := svc.OnboardProvider(context.Background(),
		claimsFor(recUser1.ID.String(), domain.RoleRecruiter),
		OnboardProviderInput{FullName: "One Provider", Email: "one@example.com", ServiceCategory: "Cleaning"})
	require.NoError(t, err)
	_, err = svc.OnboardProvider(context.Background(),
		claimsFor(recUser2.ID.String(), domain.RoleRecruiter),
		OnboardProviderInput{FullName: "Two Provider", Email: "two@example.com", ServiceCategory: "Cleaning"})
	require.NoError(t, err)

	items, total, err := svc.ListOnboarded(context.Background(),
		claimsFor(recUser1.ID.String(), domain.RoleRecruiter), "", 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, items, 1)
	require.Equal(t, rec1.ID, *items[0].OnboardedBy)

	// 管理员全量
	admin := seedUser(t, db, "admin@example.com")
	_, total, err = svc.ListOnboarded(context.Background(),
		claimsFor(admin.ID.String(), domain.RoleAdministrator), "", 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
}

func TestListOnboardedWithoutRecruiterRowIsForbidden(t *testing.T) {
	svc, db := newOnboardingService(t)
	recUser, _ := seedRecruiter(t, db, "rec@example.com")

	_, err := svc.OnboardProvider(context.Background(),
		claimsFor(recUser.ID.String(), domain.RoleRecruiter),
		OnboardProviderInput{FullName: "One Provider", Email: "one@example.com", ServiceCategory: "Cleaning"})
	require.NoError(t, err)

	// 带猎头角色但没有猎头行：必须 403，不能看到全局数据
	rogue := seedUser(t, db, "rogue@example.com")
	_, _, err = svc.ListOnboarded(context.Background(),
		claimsFor(rogue.ID.String(), domain.RoleRecruiter), "", 0, 20)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 403, ae.Status)
}
