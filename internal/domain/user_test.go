package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_IsActive(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"Active", User{Status: UserStatusActive}, true},
		{"Banned", User{Status: UserStatusBanned}, false},
		{"Suspended without end", User{Status: UserStatusSuspended}, false},
		{"Suspended until future", User{Status: UserStatusSuspended, SuspendedUntil: &future}, false},
		{"Suspension expired", User{Status: UserStatusSuspended, SuspendedUntil: &past}, true},
		{"Suspension ends exactly now", User{Status: UserStatusSuspended, SuspendedUntil: &now}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.IsActive(now))
		})
	}
}

func TestUser_Mutators(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	original := User{ID: "U1", Role: RoleUser, Status: UserStatusActive}

	t.Run("Suspend returns a new value", func(t *testing.T) {
		until := now.Add(time.Hour)
		s, err := original.Suspend(until, "비매너", now)
		require.NoError(t, err)
		assert.Equal(t, UserStatusSuspended, s.Status)
		assert.Equal(t, "U1", s.ID)
		assert.Equal(t, UserStatusActive, original.Status)
	})

	t.Run("Suspend into the past", func(t *testing.T) {
		_, err := original.Suspend(now, "x", now)
		assert.True(t, errors.Is(err, ErrValidation))
	})

	t.Run("Ban requires a reason", func(t *testing.T) {
		_, err := original.Ban("", now)
		assert.True(t, errors.Is(err, ErrReasonRequired))

		b, err := original.Ban("규정 위반", now)
		require.NoError(t, err)
		assert.False(t, b.IsActive(now))
		assert.True(t, b.Activate(now).IsActive(now))
	})

	t.Run("Change role", func(t *testing.T) {
		_, err := original.ChangeRole(Role("root"), now)
		assert.Error(t, err)

		a, err := original.ChangeRole(RoleAdmin, now)
		require.NoError(t, err)
		assert.True(t, a.HasPermission(Permission{ResourceReservation, ActionApprove}))
		assert.False(t, original.HasPermission(Permission{ResourceReservation, ActionApprove}))
		assert.True(t, a.HasHigherPrivilegeThan(original))
	})
}

func TestUser_LoginLockout(t *testing.T) {
	now := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	u := User{ID: "U1", Role: RoleUser, Status: UserStatusActive}

	for i := 0; i < MaxLoginAttempts-1; i++ {
		u = u.RecordFailedLogin(now)
	}
	assert.True(t, u.CanLogin(now))

	u = u.RecordFailedLogin(now)
	assert.Equal(t, UserStatusSuspended, u.Status)
	assert.Equal(t, LoginLockoutReason, u.SuspendedReason)
	assert.False(t, u.CanLogin(now))
	assert.True(t, u.CanLogin(now.Add(LoginLockoutDuration+time.Second)))

	u = u.RecordSuccessfulLogin(now.Add(time.Hour))
	assert.Equal(t, 0, u.LoginAttempts)
	require.NotNil(t, u.LastLoginAt)
}
