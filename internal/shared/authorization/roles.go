package authorization

// UserRole is a capability flag, not a role hierarchy: a user either has the
// admin capability or is a regular student.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleStudent UserRole = "student"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleStudent
}

func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleStudent
}

func RoleForAdmin(isAdmin bool) UserRole {
	if isAdmin {
		return RoleAdmin
	}
	return RoleStudent
}
