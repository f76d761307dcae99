package service

import (
	"context"
	"testing"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()

	signer, err := jwtx.NewSigner([]byte("test-secret-0123456789abcdef"), "carisma-test", time.Hour)
	require.NoError(t, err)

	return &AccountService{
		Store:  newTestStore(t),
		Signer: signer,
	}
}

func registerParams() RegisterCompanyParams {
	return RegisterCompanyParams{
		CompanyName:     "Apex Motors",
		Plan:            domain.PlanBasic,
		Email:           "owner@apex.test",
		FirstName:       "Dana",
		LastName:        "Webb",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	}
}

func TestRegisterCompany(t *testing.T) {
	ctx := context.Background()

	t.Run("founding user is a superadmin", func(t *testing.T) {
		svc := newAccountService(t)

		company, owner, err := svc.RegisterCompany(ctx, registerParams())
		require.NoError(t, err)
		require.Equal(t, domain.PlanBasic, company.Plan)
		require.Equal(t, domain.RoleSuperAdmin, owner.Role)
		require.Equal(t, company.ID, owner.CompanyID)

		count, err := svc.Store.Users().CountUsersByCompany(ctx, company.ID)
		require.NoError(t, err)
		require.Equal(t, 1, count)
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		svc := newAccountService(t)

		_, _, err := svc.RegisterCompany(ctx, registerParams())
		require.NoError(t, err)

		p := registerParams()
		p.CompanyName = "Second Lot"
		_, _, err = svc.RegisterCompany(ctx, p)
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := newAccountService(t)

		p := registerParams()
		p.Plan = domain.Plan("free")
		_, _, err := svc.RegisterCompany(ctx, p)
		require.ErrorIs(t, err, ErrValidation)

		p = registerParams()
		p.ConfirmPassword = "other"
		_, _, err = svc.RegisterCompany(ctx, p)
		require.ErrorIs(t, err, ErrValidation)

		p = registerParams()
		p.Email = "not-an-email"
		_, _, err = svc.RegisterCompany(ctx, p)
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	svc := newAccountService(t)
	_, owner, err := svc.RegisterCompany(ctx, registerParams())
	require.NoError(t, err)

	t.Run("valid credentials yield a verifiable token", func(t *testing.T) {
		token, user, err := svc.Login(ctx, "owner@apex.test", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, owner.ID, user.ID)

		claims, err := svc.Signer.Verify(token)
		require.NoError(t, err)
		require.Equal(t, owner.ID, claims.Subject)
		require.Equal(t, string(domain.RoleSuperAdmin), claims.Role)
		require.Equal(t, owner.CompanyID, claims.CompanyID)
	})

	t.Run("email lookup is case-insensitive", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "Owner@Apex.Test", "s3cret-pass")
		require.NoError(t, err)
	})

	t.Run("wrong password and unknown email fail identically", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "owner@apex.test", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = svc.Login(ctx, "nobody@apex.test", "wrong")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestMe(t *testing.T) {
	ctx := context.Background()

	svc := newAccountService(t)
	_, owner, err := svc.RegisterCompany(ctx, registerParams())
	require.NoError(t, err)

	me, err := svc.Me(ctx, actorFor(owner))
	require.NoError(t, err)
	require.Equal(t, owner.Email, me.Email)

	_, err = svc.Me(ctx, Actor{UserID: "missing", Role: domain.RoleAdmin})
	require.ErrorIs(t, err, ErrNotFound)
}
