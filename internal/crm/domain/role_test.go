package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleLevelsFormStrictOrder(t *testing.T) {
	t.Parallel()

	require.Equal(t, 3, RoleSuperAdmin.Level())
	require.Equal(t, 2, RoleAdmin.Level())
	require.Equal(t, 1, RoleManager.Level())
	require.Equal(t, 0, RoleEmployee.Level())
	require.Equal(t, -1, Role("owner").Level())

	seen := make(map[int]Role)
	for _, r := range Roles() {
		prev, dup := seen[r.Level()]
		require.False(t, dup, "roles %s and %s share level %d", prev, r, r.Level())
		seen[r.Level()] = r
	}
}

func TestCanManageIsStrictLevelComparison(t *testing.T) {
	t.Parallel()

	for _, actor := range Roles() {
		for _, target := range Roles() {
			want := actor.Level() > target.Level()
			require.Equal(t, want, actor.CanManage(target),
				"CanManage(%s, %s)", actor, target)
		}
		// No self-management for any role.
		require.False(t, actor.CanManage(actor))
	}
}

func TestCanManageLateralAdminForbidden(t *testing.T) {
	t.Parallel()

	// Explicit policy decision: an admin may not invite or manage another
	// admin; only a superadmin sits above that level.
	require.False(t, RoleAdmin.CanManage(RoleAdmin))
	require.True(t, RoleSuperAdmin.CanManage(RoleAdmin))
}

func TestCanManageFailsClosedOnUnknownRoles(t *testing.T) {
	t.Parallel()

	unknown := Role("owner")
	require.False(t, unknown.CanManage(RoleEmployee))
	require.False(t, RoleSuperAdmin.CanManage(unknown))
	require.False(t, unknown.CanPerform(PermManageLeads))
}

func TestCanPerform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		role Role
		perm Permission
		want bool
	}{
		{RoleSuperAdmin, PermDeleteUsers, true},
		{RoleSuperAdmin, PermManageRoles, true},
		{RoleAdmin, PermInviteUsers, true},
		{RoleAdmin, PermDeleteUsers, false},
		{RoleManager, PermManageInventory, true},
		{RoleManager, PermInviteUsers, false},
		{RoleEmployee, PermManageLeads, true},
		{RoleEmployee, PermManageInventory, false},
		{RoleEmployee, PermViewInventory, true},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, tt.role.CanPerform(tt.perm),
			"CanPerform(%s, %s)", tt.role, tt.perm)
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, r := range Roles() {
		parsed, ok := ParseRole(string(r))
		require.True(t, ok)
		require.Equal(t, r, parsed)
	}

	_, ok := ParseRole("root")
	require.False(t, ok)
	_, ok = ParseRole("")
	require.False(t, ok)
}

func TestPlanUserCeiling(t *testing.T) {
	t.Parallel()

	require.Equal(t, 5, PlanBasic.UserCeiling())
	require.Equal(t, 15, PlanPremium.UserCeiling())
	require.Equal(t, UserCeilingUnlimited, PlanEnterprise.UserCeiling())
	require.Equal(t, 0, Plan("trial").UserCeiling())
}
