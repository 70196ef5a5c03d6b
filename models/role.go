package models

// Role is the account role carried in access tokens
type Role string

const (
	RoleUser  Role = "user"
	RoleStaff Role = "staff"
	RoleAdmin Role = "admin"
)

// Permission names a privileged capability checked once per route
type Permission string

const (
	PermViewAnyOrder     Permission = "view_any_order"
	PermManageDeliveries Permission = "manage_deliveries"
	PermManageOrders     Permission = "manage_orders"
	PermViewAnalytics    Permission = "view_analytics"
	PermManageCatalog    Permission = "manage_catalog"
	PermViewAnyCoupons   Permission = "view_any_coupons"
	PermManageUsers      Permission = "manage_users"
)

var rolePermissions = map[Role]map[Permission]bool{
	RoleStaff: {
		PermViewAnyOrder:     true,
		PermManageDeliveries: true,
	},
}

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleStaff || r == RoleAdmin
}

// Can reports whether the role holds the given permission. Admins hold all of them.
func (r Role) Can(p Permission) bool {
	if r == RoleAdmin {
		return true
	}
	return rolePermissions[r][p]
}

// Principal is the authenticated caller attached to a request
type Principal struct {
	ID   uint
	Role Role
}

// Owns reports whether the principal is the owner of a resource belonging to userID
func (p Principal) Owns(userID uint) bool {
	return p.ID == userID
}
