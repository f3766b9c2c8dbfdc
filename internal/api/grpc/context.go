package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/service"
)

// GetUserIDFromContext extracts the user ID from the gRPC metadata.
// It expects a header named "user-id", set by the auth interceptor.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	userIDs := md.Get("user-id")
	if len(userIDs) == 0 || userIDs[0] == "" {
		return "", status.Errorf(codes.Unauthenticated, "user_id is not provided in metadata")
	}
	return userIDs[0], nil
}

// guard resolves the caller and checks permissions. Every handler embeds one.
type guard struct {
	accounts service.AccountService
	authz    service.AuthorizationService
}

// actor loads the calling user. An unknown caller is Unauthenticated.
func (g guard) actor(ctx context.Context) (*domain.User, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	u, err := g.accounts.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, status.Error(codes.Unauthenticated, "unknown user")
		}
		return nil, err
	}
	return u, nil
}

// authorize loads the caller and requires resource:action, with ownerID
// granting owner rights when non-empty.
func (g guard) authorize(ctx context.Context, resource domain.Resource, action domain.Action, ownerID string) (*domain.User, error) {
	u, err := g.actor(ctx)
	if err != nil {
		return nil, err
	}
	if err := g.authz.Authorize(*u, resource, action, ownerID); err != nil {
		return nil, err
	}
	return u, nil
}

// staff requires the reservation check-in permission, held by admins.
func (g guard) staff(ctx context.Context) (*domain.User, error) {
	return g.authorize(ctx, domain.ResourceReservation, domain.ActionCheckIn, "")
}
