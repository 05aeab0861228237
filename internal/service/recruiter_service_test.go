package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"go-service-market/internal/apperr"
	"go-service-market/internal/domain"
)

func newRecruiterService(t *testing.T) (*RecruiterService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewRecruiterService(db, newTestJWTer(), 4, 72*time.Hour), db
}

func TestInviteUpsertRefreshesPending(t *testing.T) {
	svc, db := newRecruiterService(t)
	admin := uuid.New()

	inv1, err := svc.Invite(context.Background(), admin, InviteInput{Email: "Rec@Example.com"})
	require.NoError(t, err)
	require.Equal(t, "rec@example.com", inv1.Email)
	require.Equal(t, domain.InvitationStatusPending, inv1.Status)

	inv2, err := svc.Invite(context.Background(), admin, InviteInput{Email: "rec@example.com"})
	require.NoError(t, err)
	require.Equal(t, inv1.ID, inv2.ID)
	require.NotEqual(t, inv1.Token, inv2.Token)

	var n int64
	require.NoError(t, db.Model(&domain.RecruiterInvitation{}).Count(&n).Error)
	require.EqualValues(t, 1, n)
}

func TestRecruiterRegisterWithValidToken(t *testing.T) {
	svc, _ := newRecruiterService(t)

	inv, err := svc.Invite(context.Background(), uuid.New(), InviteInput{Email: "rec@example.com"})
	require.NoError(t, err)

	out, err := svc.Register(context.Background(), RecruiterRegisterInput{
		FullName:        "Riley Smith",
		Email:           "rec@example.com",
		Password:        "Password1",
		ConfirmPassword: "Password1",
		InviteToken:     inv.Token,
	})
	require.NoError(t, err)
	require.NotEmpty(t, out.Token)
	require.Equal(t, domain.RecruiterStatusActive, out.Recruiter.Status)
	require.Equal(t, "Riley", out.User.FirstName)
	require.Equal(t, "Smith", out.User.LastName)
	require.Contains(t, out.User.RoleNames(), domain.RoleRecruiter)

	// token 只能核销一次
	_, err = svc.Register(context.Background(), RecruiterRegisterInput{
		FullName:        "Other Person",
		Email:           "other@example.com",
		Password:        "Password1",
		ConfirmPassword: "Password1",
		InviteToken:     inv.Token,
	})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInvalidInviteToken, ae.Code)
}

func TestRecruiterRegisterWithoutTokenIsPending(t *testing.T) {
	svc, _ := newRecruiterService(t)

	out, err := svc.Register(context.Background(), RecruiterRegisterInput{
		FullName:        "Solo Recruiter",
		Email:           "solo@example.com",
		Password:        "Password1",
		ConfirmPassword: "Password1",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RecruiterStatusPending, out.Recruiter.Status)
}

func TestRecruiterRegisterEmailMismatch(t *testing.T) {
	svc, _ := newRecruiterService(t)

	inv, err := svc.Invite(context.Background(), uuid.New(), InviteInput{Email: "invited@example.com"})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), RecruiterRegisterInput{
		FullName:        "Wrong Person",
		Email:           "someone-else@example.com",
		Password:        "Password1",
		ConfirmPassword: "Password1",
		InviteToken:     inv.Token,
	})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInviteEmailMismatch, ae.Code)
}

func TestRecruiterRegisterExpiredToken(t *testing.T) {
	svc, db := newRecruiterService(t)

	inv, err := svc.Invite(context.Background(), uuid.New(), InviteInput{Email: "late@example.com"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&domain.RecruiterInvitation{}).
		Where("id = ?", inv.ID).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	_, err = svc.Register(context.Background(), RecruiterRegisterInput{
		FullName:        "Late Person",
		Email:           "late@example.com",
		Password:        "Password1",
		ConfirmPassword: "Password1",
		InviteToken:     inv.Token,
	})
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInviteExpired, ae.Code)
}

func TestPendingRecruiterCannotSelfActivate(t *testing.T) {
	svc, _ := newRecruiterService(t)

	out, err := svc.Register(context.Background(), RecruiterRegisterInput{
		FullName:        "Pending Person",
		Email:           "pending@example.com",
		Password:        "Password1",
		ConfirmPassword: "Password1",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RecruiterStatusPending, out.Recruiter.Status)

	var in UpdateRecruiterInput
	require.NoError(t, json.Unmarshal([]byte(`{"status":"active"}`), &in))
	_, err = svc.UpdateMe(context.Background(), out.User.ID, in)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 403, ae.Status)

	// 管控态不在自助取值范围内
	require.NoError(t, json.Unmarshal([]byte(`{"status":"suspended"}`), &in))
	_, err = svc.UpdateMe(context.Background(), out.User.ID, in)
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 400, ae.Status)
}

func TestAdminActivatesAndSuspendsRecruiter(t *testing.T) {
	svc, _ := newRecruiterService(t)

	out, err := svc.Register(context.Background(), RecruiterRegisterInput{
		FullName:        "Pending Person",
		Email:           "pending@example.com",
		Password:        "Password1",
		ConfirmPassword: "Password1",
	})
	require.NoError(t, err)

	rec, err := svc.UpdateStatus(context.Background(), out.Recruiter.ID, "active")
	require.NoError(t, err)
	require.Equal(t, domain.RecruiterStatusActive, rec.Status)

	// 激活后可以自助切在线状态
	var in UpdateRecruiterInput
	require.NoError(t, json.Unmarshal([]byte(`{"status":"away"}`), &in))
	me, err := svc.UpdateMe(context.Background(), out.User.ID, in)
	require.NoError(t, err)
	require.Equal(t, domain.RecruiterStatusAway, me.Status)

	// 封禁后自助改状态被拒
	_, err = svc.UpdateStatus(context.Background(), out.Recruiter.ID, "suspended")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(`{"status":"active"}`), &in))
	_, err = svc.UpdateMe(context.Background(), out.User.ID, in)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 403, ae.Status)

	_, err = svc.UpdateStatus(context.Background(), out.Recruiter.ID, "bogus")
	require.ErrorAs(t, err, &ae)
	require.Equal(t, 400, ae.Status)

	_, err = svc.UpdateStatus(context.Background(), uuid.New(), "active")
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeRecruiterNotFound, ae.Code)
}

func TestRevokeInvitation(t *testing.T) {
	svc, _ := newRecruiterService(t)

	inv, err := svc.Invite(context.Background(), uuid.New(), InviteInput{Email: "rev@example.com"})
	require.NoError(t, err)

	out, err := svc.Revoke(context.Background(), inv.ID)
	require.NoError(t, err)
	require.Equal(t, domain.InvitationStatusRevoked, out.Status)

	// 终态不可再撤销
	_, err = svc.Revoke(context.Background(), inv.ID)
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, apperr.CodeInviteRevoked, ae.Code)
}
