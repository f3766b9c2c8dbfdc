package service

import (
	"context"
	"time"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/logger"
	"gameplaza-backend/internal/repository"
)

type accountService struct {
	users  repository.UserRepository
	authz  AuthorizationService
	tx     repository.TxManager
	policy VenuePolicy
}

func NewAccountService(users repository.UserRepository, authz AuthorizationService, tx repository.TxManager, policy VenuePolicy) AccountService {
	return &accountService{users: users, authz: authz, tx: tx, policy: policy}
}

func (s *accountService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, msgUserNotFound)
	}
	return u, nil
}

// administer runs change against target on behalf of actor. The actor must
// be an active admin ranked above the target.
func (s *accountService) administer(ctx context.Context, method, actorID, targetID string, action domain.Action, change func(domain.User) (domain.User, error)) (*domain.User, error) {
	logger.EnterMethod(method, "actorID", actorID, "targetID", targetID)

	var before, updated domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		actor, err := s.users.FindByID(ctx, actorID)
		if err != nil {
			return storeError(err, msgUserNotFound)
		}
		target, err := s.users.FindByID(ctx, targetID)
		if err != nil {
			return storeError(err, msgUserNotFound)
		}
		if err := s.authz.Authorize(*actor, domain.ResourceUser, action, target.ID); err != nil {
			return err
		}
		if actor.ID == target.ID || !actor.HasHigherPrivilegeThan(*target) {
			return domain.AccessDenied("자신보다 높거나 같은 권한의 사용자는 관리할 수 없습니다", "")
		}
		before = *target
		if updated, err = change(*target); err != nil {
			return err
		}
		return s.users.Update(ctx, &updated)
	})
	if err != nil {
		err = storeError(err, msgUserNotFound)
		logger.ExitMethodWithError(method, err, "targetID", targetID)
		return nil, err
	}

	logger.StatusChange("user", targetID, before.Status, updated.Status, "role", updated.Role, "actorID", actorID)
	logger.ExitMethod(method, "targetID", targetID, "status", updated.Status, "role", updated.Role)
	return &updated, nil
}

func (s *accountService) SuspendUser(ctx context.Context, actorID, targetID string, until time.Time, reason string) (*domain.User, error) {
	return s.administer(ctx, "accountService.SuspendUser", actorID, targetID, domain.ActionUpdate, func(u domain.User) (domain.User, error) {
		return u.Suspend(until, reason, s.policy.now())
	})
}

func (s *accountService) BanUser(ctx context.Context, actorID, targetID, reason string) (*domain.User, error) {
	return s.administer(ctx, "accountService.BanUser", actorID, targetID, domain.ActionDelete, func(u domain.User) (domain.User, error) {
		return u.Ban(reason, s.policy.now())
	})
}

func (s *accountService) ActivateUser(ctx context.Context, actorID, targetID string) (*domain.User, error) {
	return s.administer(ctx, "accountService.ActivateUser", actorID, targetID, domain.ActionUpdate, func(u domain.User) (domain.User, error) {
		return u.Activate(s.policy.now()), nil
	})
}

func (s *accountService) ChangeRole(ctx context.Context, actorID, targetID string, role domain.Role) (*domain.User, error) {
	actor, err := s.GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsSuperAdmin() {
		return nil, domain.AccessDenied("최고 관리자만 역할을 변경할 수 있습니다", domain.RoleSuperAdmin)
	}
	return s.administer(ctx, "accountService.ChangeRole", actorID, targetID, domain.ActionUpdate, func(u domain.User) (domain.User, error) {
		return u.ChangeRole(role, s.policy.now())
	})
}

// RecordLoginAttempt applies a login outcome. Repeated failures suspend the
// account for LoginLockoutDuration.
func (s *accountService) RecordLoginAttempt(ctx context.Context, userID string, success bool) (*domain.User, error) {
	var updated domain.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		now := s.policy.now()
		if success {
			if !u.CanLogin(now) {
				return domain.AccessDenied("로그인할 수 없는 계정입니다", "")
			}
			updated = u.RecordSuccessfulLogin(now)
		} else {
			updated = u.RecordFailedLogin(now)
		}
		return s.users.Update(ctx, &updated)
	})
	if err != nil {
		return nil, storeError(err, msgUserNotFound)
	}
	if updated.Status == domain.UserStatusSuspended && updated.SuspendedReason == domain.LoginLockoutReason && !success {
		logger.Warn("Account locked after failed logins", "userID", userID, "attempts", updated.LoginAttempts)
	}
	return &updated, nil
}
