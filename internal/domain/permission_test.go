package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePermission(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		p, err := ParsePermission("reservation:approve")
		require.NoError(t, err)
		assert.Equal(t, ResourceReservation, p.Resource)
		assert.Equal(t, ActionApprove, p.Action)
		assert.Equal(t, "reservation:approve", p.String())
		assert.Equal(t, "예약 승인", p.Description())
	})

	t.Run("Unknown resource", func(t *testing.T) {
		_, err := ParsePermission("coupon:read")
		assert.EqualError(t, err, "Invalid resource: coupon")
	})

	t.Run("Unknown action", func(t *testing.T) {
		_, err := ParsePermission("user:ban")
		assert.EqualError(t, err, "Invalid action: ban")
	})

	t.Run("Bad format", func(t *testing.T) {
		_, err := ParsePermission("reservation")
		assert.EqualError(t, err, "Invalid permission format")
	})
}

func TestWildcard(t *testing.T) {
	assert.Len(t, Wildcard(ResourceReservation), 8)
	assert.Len(t, Wildcard(ResourceAnalytics), 6)
	assert.Len(t, Wildcard(ResourceBanner), 5)
	assert.True(t, ContainsPermission(Wildcard(ResourceAnalytics), Permission{ResourceAnalytics, ActionExport}))
	assert.False(t, ContainsPermission(Wildcard(ResourceDevice), Permission{ResourceDevice, ActionApprove}))
}

func TestRolePermissions(t *testing.T) {
	user := RoleUser.Permissions()
	assert.True(t, ContainsPermission(user, Permission{ResourceReservation, ActionCreate}))
	assert.True(t, ContainsPermission(user, Permission{ResourceDevice, ActionList}))
	assert.False(t, ContainsPermission(user, Permission{ResourceReservation, ActionApprove}))
	assert.False(t, ContainsPermission(user, Permission{ResourceUser, ActionDelete}))

	admin := RoleAdmin.Permissions()
	assert.Len(t, admin, 8+5+5+6+5+5+5)
	assert.True(t, ContainsPermission(admin, Permission{ResourceCredit, ActionDelete}))
	assert.Equal(t, admin, RoleSuperAdmin.Permissions())
}

func TestRole(t *testing.T) {
	_, err := ParseRole("owner")
	assert.EqualError(t, err, "Invalid role: owner")

	assert.True(t, RoleSuperAdmin.HasHigherPrivilegeThan(RoleAdmin))
	assert.False(t, RoleAdmin.HasHigherPrivilegeThan(RoleAdmin))
	assert.True(t, RoleAdmin.HasAtLeast(RoleAdmin))
	assert.True(t, RoleSuperAdmin.IsAdmin())
	assert.False(t, RoleUser.IsAdmin())
}
