package domain

import "fmt"

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

var roleLevels = map[Role]int{
	RoleUser:       10,
	RoleAdmin:      100,
	RoleSuperAdmin: 1000,
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := roleLevels[r]; !ok {
		return "", ValidationError(fmt.Sprintf("Invalid role: %s", s))
	}
	return r, nil
}

// Level is the privilege ordinal; unknown roles have level 0.
func (r Role) Level() int {
	return roleLevels[r]
}

func (r Role) IsAdmin() bool {
	return r.Level() >= RoleAdmin.Level()
}

func (r Role) IsSuperAdmin() bool {
	return r == RoleSuperAdmin
}

func (r Role) HasHigherPrivilegeThan(other Role) bool {
	return r.Level() > other.Level()
}

func (r Role) HasAtLeast(other Role) bool {
	return r.Level() >= other.Level()
}

func (r Role) DisplayName() string {
	switch r {
	case RoleSuperAdmin:
		return "슈퍼관리자"
	case RoleAdmin:
		return "관리자"
	default:
		return "일반 사용자"
	}
}

// Permissions derives the capability set from the role.
func (r Role) Permissions() []Permission {
	if r.IsAdmin() {
		return AdminPermissions()
	}
	return UserPermissions()
}
