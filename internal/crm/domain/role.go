package domain

// Role is the closed set of roles a dealership user can hold. Keeping this a
// typed constant set (rather than free-form strings) means an unhandled role
// is a compile-time problem, and unknown strings coming off the wire are
// rejected by ParseRole before they reach any authorization decision.
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleEmployee   Role = "employee"
)

// Permission is an atomic capability tag granted to a role.
type Permission string

const (
	PermManageUsers     Permission = "MANAGE_USERS"
	PermManageAdmins    Permission = "MANAGE_ADMINS"
	PermManageCompany   Permission = "MANAGE_COMPANY"
	PermViewAnalytics   Permission = "VIEW_ANALYTICS"
	PermManageInventory Permission = "MANAGE_INVENTORY"
	PermManageLeads     Permission = "MANAGE_LEADS"
	PermManageSettings  Permission = "MANAGE_SETTINGS"
	PermViewSettings    Permission = "VIEW_SETTINGS"
	PermInviteUsers     Permission = "INVITE_USERS"
	PermDeleteUsers     Permission = "DELETE_USERS"
	PermViewBilling     Permission = "VIEW_BILLING"
	PermManageRoles     Permission = "MANAGE_ROLES"
	PermViewInventory   Permission = "VIEW_INVENTORY"
	PermViewBasicStats  Permission = "VIEW_BASIC_ANALYTICS"
)

// roleDef is one row of the static hierarchy table. Levels form a strict
// total order over privilege; permission sets are fixed at compile time and
// never mutated at runtime.
type roleDef struct {
	level       int
	permissions map[Permission]struct{}
}

var roleTable = map[Role]roleDef{
	RoleSuperAdmin: {
		level: 3,
		permissions: permSet(
			PermManageUsers, PermManageAdmins, PermManageCompany,
			PermViewAnalytics, PermManageInventory, PermManageLeads,
			PermManageSettings, PermInviteUsers, PermDeleteUsers,
			PermViewBilling, PermManageRoles,
		),
	},
	RoleAdmin: {
		level: 2,
		permissions: permSet(
			PermManageUsers, PermViewAnalytics, PermManageInventory,
			PermManageLeads, PermManageSettings, PermInviteUsers,
		),
	},
	RoleManager: {
		level: 1,
		permissions: permSet(
			PermViewAnalytics, PermManageInventory, PermManageLeads,
			PermViewSettings,
		),
	},
	RoleEmployee: {
		level: 0,
		permissions: permSet(
			PermViewInventory, PermManageLeads, PermViewBasicStats,
		),
	},
}

func permSet(perms ...Permission) map[Permission]struct{} {
	s := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		s[p] = struct{}{}
	}
	return s
}

// Level returns the privilege level of r, or -1 for unknown roles so that
// every comparison against an unknown role fails closed.
func (r Role) Level() int {
	def, ok := roleTable[r]
	if !ok {
		return -1
	}
	return def.level
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleTable[r]
	return ok
}

// CanPerform reports whether r holds the given permission. Unknown roles
// hold nothing.
func (r Role) CanPerform(p Permission) bool {
	def, ok := roleTable[r]
	if !ok {
		return false
	}
	_, ok = def.permissions[p]
	return ok
}

// CanManage reports whether r may manage target: strictly greater privilege
// level. A role never manages itself or its peers, which blocks lateral
// role grants (an admin cannot invite another admin) and self-demotion.
// Unknown roles on either side always yield false.
func (r Role) CanManage(target Role) bool {
	actor, ok := roleTable[r]
	if !ok {
		return false
	}
	tgt, ok := roleTable[target]
	if !ok {
		return false
	}
	return actor.level > tgt.level
}

// ParseRole validates a wire-format role string.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Roles lists every known role ordered by descending privilege.
func Roles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleManager, RoleEmployee}
}
