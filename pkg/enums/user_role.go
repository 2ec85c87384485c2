package enums

import "fmt"

// UserRole gates access to the admin and back-office surfaces.
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
	UserRoleCustomer UserRole = "customer"
)

var validUserRoles = []UserRole{UserRoleAdmin, UserRoleOperator, UserRoleCustomer}

// String implements fmt.Stringer.
func (u UserRole) String() string {
	return string(u)
}

// IsValid reports whether the value is a known UserRole.
func (u UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == u {
			return true
		}
	}
	return false
}

// CanOperate reports whether the role may read back-office resources
// (inventory movements, finance, analytics).
func (u UserRole) CanOperate() bool {
	return u == UserRoleAdmin || u == UserRoleOperator
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
