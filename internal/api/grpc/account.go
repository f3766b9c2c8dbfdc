package grpc

import (
	"context"

	"google.golang.org/protobuf/types/known/structpb"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/service"
)

type AccountHandler struct {
	guard
}

func NewAccountHandler(accountSvc service.AccountService, authz service.AuthorizationService) *AccountHandler {
	return &AccountHandler{guard: guard{accounts: accountSvc, authz: authz}}
}

func userResponse(u *domain.User) (*structpb.Struct, error) {
	return toStruct(map[string]any{"user": MapUser(u)})
}

func (h *AccountHandler) GetUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	targetID := p.String("user_id", false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	actor, err := h.actor(ctx)
	if err != nil {
		return nil, err
	}
	if targetID == "" || targetID == actor.ID {
		return userResponse(actor)
	}
	if !h.authz.CanManageUser(*actor, targetID, domain.ActionRead) {
		return nil, domain.AccessDenied(h.authz.AccessDeniedMessage(domain.ResourceUser, domain.ActionRead), "")
	}
	u, err := h.accounts.GetUser(ctx, targetID)
	if err != nil {
		return nil, err
	}
	return userResponse(u)
}

func (h *AccountHandler) SuspendUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	targetID := p.String("user_id", true)
	until := p.Time("until", true)
	reason := p.String("reason", false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	actorID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.accounts.SuspendUser(ctx, actorID, targetID, *until, reason)
	if err != nil {
		return nil, err
	}
	return userResponse(u)
}

func (h *AccountHandler) BanUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	targetID := p.String("user_id", true)
	reason := p.String("reason", false)
	if err := p.Err(); err != nil {
		return nil, err
	}
	actorID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.accounts.BanUser(ctx, actorID, targetID, reason)
	if err != nil {
		return nil, err
	}
	return userResponse(u)
}

func (h *AccountHandler) ActivateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	targetID := p.String("user_id", true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	actorID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.accounts.ActivateUser(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	return userResponse(u)
}

func (h *AccountHandler) ChangeRole(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	targetID := p.String("user_id", true)
	role := p.String("role", true)
	if err := p.Err(); err != nil {
		return nil, err
	}
	actorID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := h.accounts.ChangeRole(ctx, actorID, targetID, domain.Role(role))
	if err != nil {
		return nil, err
	}
	return userResponse(u)
}

// RecordLoginAttempt is called by the sign-in gateway with a service token
// after each password check.
func (h *AccountHandler) RecordLoginAttempt(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	p := paramsOf(req)
	userID := p.String("user_id", true)
	success := p.Bool("success")
	if err := p.Err(); err != nil {
		return nil, err
	}
	u, err := h.accounts.RecordLoginAttempt(ctx, userID, success)
	if err != nil {
		return nil, err
	}
	return userResponse(u)
}
