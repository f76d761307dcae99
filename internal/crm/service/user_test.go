package service

import (
	"context"
	"testing"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/store"
	"github.com/stretchr/testify/require"
)

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (store.Store, *UserService, domain.User, domain.User, domain.User) {
		st := newTestStore(t)
		company := seedCompany(t, st, domain.PlanPremium)
		owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
		admin := seedUser(t, st, company.ID, domain.RoleAdmin, "admin@apex.test")
		emp := seedUser(t, st, company.ID, domain.RoleEmployee, "emp@apex.test")
		return st, &UserService{Store: st}, owner, admin, emp
	}

	t.Run("superadmin promotes an employee to manager", func(t *testing.T) {
		st, svc, owner, _, emp := setup(t)

		updated, err := svc.UpdateRole(ctx, actorFor(owner), emp.ID, domain.RoleManager)
		require.NoError(t, err)
		require.Equal(t, domain.RoleManager, updated.Role)

		stored, err := st.Users().GetUserByID(ctx, emp.ID)
		require.NoError(t, err)
		require.Equal(t, domain.RoleManager, stored.Role)
	})

	t.Run("admin cannot grant their own level", func(t *testing.T) {
		_, svc, _, admin, emp := setup(t)

		_, err := svc.UpdateRole(ctx, actorFor(admin), emp.ID, domain.RoleAdmin)
		require.ErrorIs(t, err, ErrRoleEscalation)
	})

	t.Run("admin cannot touch a peer admin", func(t *testing.T) {
		st, svc, _, admin, _ := setup(t)
		peer := seedUser(t, st, admin.CompanyID, domain.RoleAdmin, "peer@apex.test")

		_, err := svc.UpdateRole(ctx, actorFor(admin), peer.ID, domain.RoleEmployee)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("nobody changes their own role", func(t *testing.T) {
		_, svc, owner, _, _ := setup(t)

		_, err := svc.UpdateRole(ctx, actorFor(owner), owner.ID, domain.RoleEmployee)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("employee lacks the permission", func(t *testing.T) {
		_, svc, _, admin, emp := setup(t)

		_, err := svc.UpdateRole(ctx, actorFor(emp), admin.ID, domain.RoleEmployee)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("unknown role is invalid", func(t *testing.T) {
		_, svc, owner, _, emp := setup(t)

		_, err := svc.UpdateRole(ctx, actorFor(owner), emp.ID, domain.Role("root"))
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("cross-company target looks missing", func(t *testing.T) {
		st, svc, owner, _, _ := setup(t)
		other := seedCompany(t, st, domain.PlanBasic)
		stranger := seedUser(t, st, other.ID, domain.RoleEmployee, "stranger@other.test")

		_, err := svc.UpdateRole(ctx, actorFor(owner), stranger.ID, domain.RoleManager)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	company := seedCompany(t, st, domain.PlanPremium)
	owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
	admin := seedUser(t, st, company.ID, domain.RoleAdmin, "admin@apex.test")
	emp := seedUser(t, st, company.ID, domain.RoleEmployee, "emp@apex.test")
	svc := &UserService{Store: st}

	t.Run("admin lacks the delete permission", func(t *testing.T) {
		err := svc.Delete(ctx, actorFor(admin), emp.ID)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("self-deletion is blocked", func(t *testing.T) {
		err := svc.Delete(ctx, actorFor(owner), owner.ID)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("superadmin removes a member", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, actorFor(owner), emp.ID))

		_, err := st.Users().GetUserByID(ctx, emp.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	company := seedCompany(t, st, domain.PlanPremium)
	owner := seedUser(t, st, company.ID, domain.RoleSuperAdmin, "owner@apex.test")
	emp := seedUser(t, st, company.ID, domain.RoleEmployee, "emp@apex.test")
	svc := &UserService{Store: st}

	users, err := svc.List(ctx, actorFor(owner))
	require.NoError(t, err)
	require.Len(t, users, 2)

	_, err = svc.List(ctx, actorFor(emp))
	require.ErrorIs(t, err, ErrUnauthorized)
}
