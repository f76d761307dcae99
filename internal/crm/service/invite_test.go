package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/store"
	"github.com/carisma-crm/carisma/internal/crm/store/drivers/sqlite"
	"github.com/carisma-crm/carisma/pkg/cryptox"
	"github.com/carisma-crm/carisma/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedCompany(t *testing.T, st store.Store, plan domain.Plan) domain.Company {
	t.Helper()

	now := time.Now()
	c := domain.Company{
		ID:        idx.New().String(),
		Name:      "Apex Motors",
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, st.Companies().CreateCompany(context.Background(), c))
	return c
}

func seedUser(t *testing.T, st store.Store, companyID string, role domain.Role, email string) domain.User {
	t.Helper()

	now := time.Now()
	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "hash",
		Role:         role,
		CompanyID:    companyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func actorFor(u domain.User) Actor {
	return Actor{UserID: u.ID, Role: u.Role, CompanyID: u.CompanyID}
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

// fakeMailer records every send and can be told to fail.
type fakeMailer struct {
	mu   sync.Mutex
	Sent []sentMail
	Err  error
}

func (m *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	m.Sent = append(m.Sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return "fake-id", nil
}

func (m *fakeMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

func newInviteService(st store.Store, mailer *fakeMailer) *InviteService {
	return &InviteService{
		Store:      st,
		Mailer:     mailer,
		AppBaseURL: "https://crm.example",
	}
}

func TestCreateInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("superadmin invites admin and the token resolves", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		mailer := &fakeMailer{}
		svc := newInviteService(st, mailer)

		inv, err := svc.Create(ctx, actorFor(owner), "new.admin@apex.test", domain.RoleAdmin)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, inv.Status)
		require.Equal(t, domain.RoleAdmin, inv.Role)
		require.NotEmpty(t, inv.Token)
		require.WithinDuration(t, time.Now().Add(InvitationTTL), inv.ExpiresAt, time.Minute)

		resolved, err := svc.Resolve(ctx, inv.Token)
		require.NoError(t, err)
		require.Equal(t, inv.ID, resolved.ID)
		require.Equal(t, "new.admin@apex.test", resolved.Email)

		require.Equal(t, 1, mailer.count())
		require.Contains(t, mailer.Sent[0].Body, inv.Token)
	})

	t.Run("employee cannot invite and nothing is persisted", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		emp := seedUser(t, st, company.ID, domain.RoleEmployee, "emp@apex.test")
		mailer := &fakeMailer{}
		svc := newInviteService(st, mailer)

		_, err := svc.Create(ctx, actorFor(emp), "x@apex.test", domain.RoleEmployee)
		require.ErrorIs(t, err, ErrUnauthorized)

		invs, err := st.Invitations().ListInvitationsByCompany(ctx, company.ID)
		require.NoError(t, err)
		require.Empty(t, invs)
		require.Zero(t, mailer.count())
	})

	t.Run("manager lacks the invite permission entirely", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		mgr := seedUser(t, st, company.ID, domain.RoleManager, "mgr@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		_, err := svc.Create(ctx, actorFor(mgr), "x@apex.test", domain.RoleEmployee)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("admin inviting a peer admin is role escalation", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		admin := seedUser(t, st, company.ID, domain.RoleAdmin, "admin@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		_, err := svc.Create(ctx, actorFor(admin), "peer@apex.test", domain.RoleAdmin)
		require.ErrorIs(t, err, ErrRoleEscalation)

		_, err = svc.Create(ctx, actorFor(admin), "boss@apex.test", domain.RoleSuperAdmin)
		require.ErrorIs(t, err, ErrRoleEscalation)
	})

	t.Run("basic plan stops at five users", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanBasic)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@basic.test")
		for i := 0; i < 4; i++ {
			seedUser(t, st, company.ID, domain.RoleEmployee,
				"emp"+strings.Repeat("x", i+1)+"@basic.test")
		}
		svc := newInviteService(st, &fakeMailer{})

		_, err := svc.Create(ctx, actorFor(owner), "one.more@basic.test", domain.RoleEmployee)
		require.ErrorIs(t, err, ErrPlanLimitExceeded)
	})

	t.Run("enterprise plan has no ceiling", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanEnterprise)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@ent.test")
		for i := 0; i < 20; i++ {
			seedUser(t, st, company.ID, domain.RoleEmployee,
				"emp"+strings.Repeat("y", i+1)+"@ent.test")
		}
		svc := newInviteService(st, &fakeMailer{})

		_, err := svc.Create(ctx, actorFor(owner), "more@ent.test", domain.RoleEmployee)
		require.NoError(t, err)
	})

	t.Run("mail failure does not roll the invitation back", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		mailer := &fakeMailer{Err: errors.New("smtp down")}
		svc := newInviteService(st, mailer)

		inv, err := svc.Create(ctx, actorFor(owner), "late@apex.test", domain.RoleEmployee)
		require.NoError(t, err)

		resolved, err := svc.Resolve(ctx, inv.Token)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, resolved.Status)
	})

	t.Run("rejects malformed email and unknown role", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		_, err := svc.Create(ctx, actorFor(owner), "not-an-email", domain.RoleEmployee)
		require.ErrorIs(t, err, ErrValidation)

		_, err = svc.Create(ctx, actorFor(owner), "ok@apex.test", domain.Role("owner"))
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestResolveInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown token is not found", func(t *testing.T) {
		st := newTestStore(t)
		svc := newInviteService(st, &fakeMailer{})

		_, err := svc.Resolve(ctx, "no-such-token")
		require.ErrorIs(t, err, ErrNotFound)

		_, err = svc.Resolve(ctx, "")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("expired token reports expiry, record survives", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		base := time.Now()
		svc.Now = func() time.Time { return base }

		inv, err := svc.Create(ctx, actorFor(owner), "slow@apex.test", domain.RoleEmployee)
		require.NoError(t, err)

		svc.Now = func() time.Time { return base.Add(InvitationTTL + time.Hour) }

		_, err = svc.Resolve(ctx, inv.Token)
		require.ErrorIs(t, err, ErrInvitationExpired)

		// The row is still there, only the derived view changed.
		stored, err := st.Invitations().GetInvitationByToken(ctx, inv.Token)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationPending, stored.Status)
	})
}

func TestAcceptInvitation(t *testing.T) {
	ctx := context.Background()

	profile := AcceptProfile{
		FirstName:       "Nina",
		LastName:        "Reyes",
		Password:        "s3cret-pass",
		ConfirmPassword: "s3cret-pass",
	}

	t.Run("accept creates the user with the invited role", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		inv, err := svc.Create(ctx, actorFor(owner), "nina@apex.test", domain.RoleManager)
		require.NoError(t, err)

		user, err := svc.Accept(ctx, inv.Token, profile)
		require.NoError(t, err)
		require.Equal(t, "nina@apex.test", user.Email)
		require.Equal(t, domain.RoleManager, user.Role)
		require.Equal(t, company.ID, user.CompanyID)
		require.NoError(t, cryptox.VerifyPassword("s3cret-pass", user.PasswordHash))

		stored, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, domain.InvitationAccepted, stored.Status)
		require.Equal(t, user.ID, stored.AcceptedBy)
	})

	t.Run("double accept creates exactly one user", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		inv, err := svc.Create(ctx, actorFor(owner), "once@apex.test", domain.RoleEmployee)
		require.NoError(t, err)

		_, err = svc.Accept(ctx, inv.Token, profile)
		require.NoError(t, err)

		_, err = svc.Accept(ctx, inv.Token, profile)
		require.ErrorIs(t, err, ErrInvitationConsumed)

		count, err := st.Users().CountUsersByCompany(ctx, company.ID)
		require.NoError(t, err)
		require.Equal(t, 2, count)
	})

	t.Run("ceiling is enforced again at accept time", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanBasic)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@basic.test")
		svc := newInviteService(st, &fakeMailer{})

		// Room for one more when the invitation is minted.
		for i := 0; i < 3; i++ {
			seedUser(t, st, company.ID, domain.RoleEmployee,
				"emp"+strings.Repeat("z", i+1)+"@basic.test")
		}
		inv, err := svc.Create(ctx, actorFor(owner), "last@basic.test", domain.RoleEmployee)
		require.NoError(t, err)

		// The slot is taken before the invitee shows up.
		seedUser(t, st, company.ID, domain.RoleEmployee, "sniped@basic.test")

		_, err = svc.Accept(ctx, inv.Token, profile)
		require.ErrorIs(t, err, ErrPlanLimitExceeded)
	})

	t.Run("password rules", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		inv, err := svc.Create(ctx, actorFor(owner), "pw@apex.test", domain.RoleEmployee)
		require.NoError(t, err)

		bad := profile
		bad.ConfirmPassword = "different"
		_, err = svc.Accept(ctx, inv.Token, bad)
		require.ErrorIs(t, err, ErrValidation)

		short := profile
		short.Password, short.ConfirmPassword = "short", "short"
		_, err = svc.Accept(ctx, inv.Token, short)
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("email already registered", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		inv, err := svc.Create(ctx, actorFor(owner), "taken@apex.test", domain.RoleEmployee)
		require.NoError(t, err)

		seedUser(t, st, company.ID, domain.RoleEmployee, "taken@apex.test")

		_, err = svc.Accept(ctx, inv.Token, profile)
		require.ErrorIs(t, err, ErrEmailTaken)
	})
}

func TestRevokeInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("revoked token stops resolving", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		inv, err := svc.Create(ctx, actorFor(owner), "gone@apex.test", domain.RoleEmployee)
		require.NoError(t, err)

		require.NoError(t, svc.Revoke(ctx, actorFor(owner), inv.ID))

		_, err = svc.Resolve(ctx, inv.Token)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("actor must outrank the invitation role", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		admin := seedUser(t, st, company.ID, domain.RoleAdmin, "admin@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		inv, err := svc.Create(ctx, actorFor(owner), "future.admin@apex.test", domain.RoleAdmin)
		require.NoError(t, err)

		err = svc.Revoke(ctx, actorFor(admin), inv.ID)
		require.ErrorIs(t, err, ErrUnauthorized)

		// Still pending.
		_, err = svc.Resolve(ctx, inv.Token)
		require.NoError(t, err)
	})

	t.Run("other companies' invitations look missing", func(t *testing.T) {
		st := newTestStore(t)
		companyA := seedCompany(t, st, domain.PlanPremium)
		companyB := seedCompany(t, st, domain.PlanPremium)
		ownerA := seedUser(t, st, companyA.ID, domain.RoleSuperAdmin, "a@apex.test")
		ownerB := seedUser(t, st, companyB.ID, domain.RoleSuperAdmin, "b@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		inv, err := svc.Create(ctx, actorFor(ownerA), "a.emp@apex.test", domain.RoleEmployee)
		require.NoError(t, err)

		err = svc.Revoke(ctx, actorFor(ownerB), inv.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestResendInvitation(t *testing.T) {
	ctx := context.Background()

	t.Run("resend keeps token and deadline, records the resend", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		mailer := &fakeMailer{}
		svc := newInviteService(st, mailer)

		inv, err := svc.Create(ctx, actorFor(owner), "again@apex.test", domain.RoleEmployee)
		require.NoError(t, err)
		require.Equal(t, 1, mailer.count())

		require.NoError(t, svc.Resend(ctx, actorFor(owner), inv.ID))
		require.Equal(t, 2, mailer.count())
		require.Contains(t, mailer.Sent[1].Body, inv.Token)

		stored, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.LastResent)
		require.WithinDuration(t, inv.ExpiresAt, stored.ExpiresAt, time.Second)
	})

	t.Run("expired invitations cannot be resent", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		svc := newInviteService(st, &fakeMailer{})

		base := time.Now()
		svc.Now = func() time.Time { return base }
		inv, err := svc.Create(ctx, actorFor(owner), "stale@apex.test", domain.RoleEmployee)
		require.NoError(t, err)

		svc.Now = func() time.Time { return base.Add(InvitationTTL + time.Minute) }
		err = svc.Resend(ctx, actorFor(owner), inv.ID)
		require.ErrorIs(t, err, ErrInvitationExpired)
	})

	t.Run("delivery failure is surfaced and nothing is recorded", func(t *testing.T) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		mailer := &fakeMailer{}
		svc := newInviteService(st, mailer)

		inv, err := svc.Create(ctx, actorFor(owner), "retry@apex.test", domain.RoleEmployee)
		require.NoError(t, err)

		mailer.Err = errors.New("provider 500")
		err = svc.Resend(ctx, actorFor(owner), inv.ID)
		require.Error(t, err)

		stored, err := st.Invitations().GetInvitationByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Nil(t, stored.LastResent)
	})
}

func TestListInvitations(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	company := seedCompany(t, st, domain.PlanPremium)
	owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
	emp := seedUser(t, st, company.ID, domain.RoleEmployee, "emp@apex.test")
	svc := newInviteService(st, &fakeMailer{})

	_, err := svc.Create(ctx, actorFor(owner), "one@apex.test", domain.RoleEmployee)
	require.NoError(t, err)
	_, err = svc.Create(ctx, actorFor(owner), "two@apex.test", domain.RoleManager)
	require.NoError(t, err)

	invs, err := svc.List(ctx, actorFor(owner))
	require.NoError(t, err)
	require.Len(t, invs, 2)

	_, err = svc.List(ctx, actorFor(emp))
	require.ErrorIs(t, err, ErrUnauthorized)
}
