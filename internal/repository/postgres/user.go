package postgres

import (
	"context"
	"database/sql"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	u := &domain.User{}
	var suspendedUntil, lastLogin sql.NullTime
	query := `SELECT id, email, full_name, phone, role, status, suspended_until, suspended_reason, banned_reason, login_attempts, last_login_at, created_at, updated_at
	          FROM users WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.FullName, &u.Phone, &u.Role, &u.Status,
		&suspendedUntil, &u.SuspendedReason, &u.BannedReason, &u.LoginAttempts, &lastLogin, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	u.SuspendedUntil = nullTimePtr(suspendedUntil)
	u.LastLoginAt = nullTimePtr(lastLogin)
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET full_name=$1, phone=$2, role=$3, status=$4, suspended_until=$5, suspended_reason=$6,
	          banned_reason=$7, login_attempts=$8, last_login_at=$9, updated_at=$10 WHERE id=$11`
	result, err := conn(ctx, r.db).ExecContext(ctx, query, u.FullName, u.Phone, u.Role, u.Status, u.SuspendedUntil,
		u.SuspendedReason, u.BannedReason, u.LoginAttempts, u.LastLoginAt, u.UpdatedAt, u.ID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
