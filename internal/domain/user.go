package domain

import "time"

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

const (
	MaxLoginAttempts     = 5
	LoginLockoutDuration = 30 * time.Minute
	LoginLockoutReason   = "로그인 시도 초과"
)

// User is a value type: every mutator returns a new User and leaves the
// receiver untouched. ID never changes.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	FullName        string     `json:"full_name"`
	Phone           string     `json:"phone"`
	Role            Role       `json:"role"`
	Status          UserStatus `json:"status"`
	SuspendedUntil  *time.Time `json:"suspended_until,omitempty"`
	SuspendedReason string     `json:"suspended_reason,omitempty"`
	BannedReason    string     `json:"banned_reason,omitempty"`
	LoginAttempts   int        `json:"login_attempts"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func ParseUserStatus(s string) (UserStatus, error) {
	switch UserStatus(s) {
	case UserStatusActive, UserStatusSuspended, UserStatusBanned:
		return UserStatus(s), nil
	}
	return "", ValidationError("Invalid user status: " + s)
}

func (u User) IsAdmin() bool      { return u.Role.IsAdmin() }
func (u User) IsSuperAdmin() bool { return u.Role.IsSuperAdmin() }

// IsActive is false for banned accounts and for suspensions that have not
// yet expired. A suspension without an end date never expires.
func (u User) IsActive(now time.Time) bool {
	switch u.Status {
	case UserStatusBanned:
		return false
	case UserStatusSuspended:
		if u.SuspendedUntil == nil {
			return false
		}
		return now.After(*u.SuspendedUntil)
	}
	return u.Status == UserStatusActive
}

// CanLogin allows the next attempt once a login lockout has expired.
func (u User) CanLogin(now time.Time) bool {
	if !u.IsActive(now) {
		return false
	}
	return u.LoginAttempts < MaxLoginAttempts || u.SuspendedUntil != nil
}

func (u User) CanReserve(now time.Time) bool {
	return u.IsActive(now)
}

func (u User) RecordSuccessfulLogin(now time.Time) User {
	next := u
	next.LastLoginAt = &now
	next.LoginAttempts = 0
	next.UpdatedAt = now
	return next
}

// RecordFailedLogin counts a failure; the fifth one locks the account for
// LoginLockoutDuration.
func (u User) RecordFailedLogin(now time.Time) User {
	next := u
	next.LoginAttempts = u.LoginAttempts + 1
	if next.LoginAttempts >= MaxLoginAttempts {
		until := now.Add(LoginLockoutDuration)
		next.Status = UserStatusSuspended
		next.SuspendedUntil = &until
		next.SuspendedReason = LoginLockoutReason
	}
	next.UpdatedAt = now
	return next
}

func (u User) Suspend(until time.Time, reason string, now time.Time) (User, error) {
	if !until.After(now) {
		return User{}, ValidationError("정지 기간은 현재 시간 이후여야 합니다")
	}
	next := u
	next.Status = UserStatusSuspended
	next.SuspendedUntil = &until
	next.SuspendedReason = reason
	next.UpdatedAt = now
	return next, nil
}

func (u User) Ban(reason string, now time.Time) (User, error) {
	if reason == "" {
		return User{}, ReasonRequired("차단 사유를 입력해주세요")
	}
	next := u
	next.Status = UserStatusBanned
	next.SuspendedUntil = nil
	next.SuspendedReason = ""
	next.BannedReason = reason
	next.UpdatedAt = now
	return next, nil
}

func (u User) Activate(now time.Time) User {
	next := u
	next.Status = UserStatusActive
	next.SuspendedUntil = nil
	next.SuspendedReason = ""
	next.BannedReason = ""
	next.LoginAttempts = 0
	next.UpdatedAt = now
	return next
}

func (u User) ChangeRole(role Role, now time.Time) (User, error) {
	if _, err := ParseRole(string(role)); err != nil {
		return User{}, err
	}
	next := u
	next.Role = role
	next.UpdatedAt = now
	return next, nil
}

func (u User) Permissions() []Permission {
	return u.Role.Permissions()
}

func (u User) HasPermission(p Permission) bool {
	return ContainsPermission(u.Permissions(), p)
}

func (u User) HasHigherPrivilegeThan(other User) bool {
	return u.Role.HasHigherPrivilegeThan(other.Role)
}
