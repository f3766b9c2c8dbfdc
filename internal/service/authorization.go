package service

import (
	"gameplaza-backend/internal/domain"
)

// AccessResult is the outcome of ValidateAccess. Reason, RequiredRole and
// MissingPermission are only set when access is denied.
type AccessResult struct {
	Allowed           bool
	Reason            string
	RequiredRole      domain.Role
	MissingPermission *domain.Permission
}

// ownerActions are granted to the owner of a resource regardless of the
// general permission set.
var ownerActions = map[domain.Resource][]domain.Action{
	domain.ResourceReservation: {domain.ActionRead, domain.ActionUpdate, domain.ActionDelete, domain.ActionList},
	domain.ResourceUser:        {domain.ActionRead, domain.ActionUpdate},
}

var adminOnly = map[domain.Resource]map[domain.Action]bool{
	domain.ResourceReservation: {domain.ActionApprove: true, domain.ActionReject: true, domain.ActionCheckIn: true},
	domain.ResourceUser:        {domain.ActionDelete: true, domain.ActionList: true},
	domain.ResourceDevice:      {domain.ActionCreate: true, domain.ActionUpdate: true, domain.ActionDelete: true},
	domain.ResourceBanner:      {domain.ActionCreate: true, domain.ActionUpdate: true, domain.ActionDelete: true},
	domain.ResourceCredit:      {domain.ActionCreate: true, domain.ActionUpdate: true, domain.ActionDelete: true},
}

// wholly admin-only resources
var adminResources = map[domain.Resource]bool{
	domain.ResourceAdmin:     true,
	domain.ResourceAnalytics: true,
}

type authorizationService struct {
	policy VenuePolicy
}

func NewAuthorizationService(policy VenuePolicy) AuthorizationService {
	return &authorizationService{policy: policy}
}

func (s *authorizationService) CanPerformAction(user domain.User, resource domain.Resource, action domain.Action) bool {
	if !user.IsActive(s.policy.now()) {
		return false
	}
	return user.HasPermission(domain.Permission{Resource: resource, Action: action})
}

func (s *authorizationService) IsResourceOwner(user domain.User, ownerID string) bool {
	return ownerID != "" && user.ID == ownerID
}

func ownerMay(resource domain.Resource, action domain.Action) bool {
	for _, a := range ownerActions[resource] {
		if a == action {
			return true
		}
	}
	return false
}

func (s *authorizationService) CanAccessResource(user domain.User, resource domain.Resource, action domain.Action, ownerID string) bool {
	if !user.IsActive(s.policy.now()) {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	if s.IsResourceOwner(user, ownerID) && ownerMay(resource, action) {
		return true
	}
	return s.CanPerformAction(user, resource, action)
}

func (s *authorizationService) RequiresAdminRole(resource domain.Resource, action domain.Action) bool {
	if adminResources[resource] {
		return true
	}
	return adminOnly[resource][action]
}

func (s *authorizationService) CheckRoleBasedAccess(userRole, requiredRole domain.Role) bool {
	return userRole.HasAtLeast(requiredRole)
}

// CanManageReservation is stricter than CanAccessResource: a regular user
// may only touch their own reservations.
func (s *authorizationService) CanManageReservation(user domain.User, reservationOwnerID string, action domain.Action) bool {
	if !user.IsActive(s.policy.now()) {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	if s.RequiresAdminRole(domain.ResourceReservation, action) {
		return false
	}
	return s.IsResourceOwner(user, reservationOwnerID) && ownerMay(domain.ResourceReservation, action)
}

func (s *authorizationService) CanManageUser(user domain.User, targetUserID string, action domain.Action) bool {
	if !user.IsActive(s.policy.now()) {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	return s.IsResourceOwner(user, targetUserID) && ownerMay(domain.ResourceUser, action)
}

func (s *authorizationService) AccessDeniedMessage(resource domain.Resource, action domain.Action) string {
	return "권한이 부족합니다: " + domain.Permission{Resource: resource, Action: action}.Description()
}

func (s *authorizationService) ValidateAccess(user domain.User, resource domain.Resource, action domain.Action, ownerID string) AccessResult {
	if !user.IsActive(s.policy.now()) {
		reason := "계정이 정지되었습니다"
		if user.Status == domain.UserStatusBanned {
			reason = "계정이 차단되었습니다: " + user.BannedReason
		}
		return AccessResult{Reason: reason}
	}
	if user.IsAdmin() {
		return AccessResult{Allowed: true}
	}

	perm := domain.Permission{Resource: resource, Action: action}
	if s.RequiresAdminRole(resource, action) {
		return AccessResult{
			Reason:            "관리자 권한이 필요합니다",
			RequiredRole:      domain.RoleAdmin,
			MissingPermission: &perm,
		}
	}
	if s.CanAccessResource(user, resource, action, ownerID) {
		return AccessResult{Allowed: true}
	}
	return AccessResult{
		Reason:            s.AccessDeniedMessage(resource, action),
		MissingPermission: &perm,
	}
}

// Authorize is ValidateAccess as an error, for use at call sites.
func (s *authorizationService) Authorize(user domain.User, resource domain.Resource, action domain.Action, ownerID string) error {
	res := s.ValidateAccess(user, resource, action, ownerID)
	if res.Allowed {
		return nil
	}
	return domain.AccessDenied(res.Reason, res.RequiredRole)
}
