package interceptor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"gameplaza-backend/internal/security"
)

const secret = "0123456789abcdef0123456789abcdef"

func call(t *testing.T, i *AuthInterceptor, method, token string, spoofed string) (context.Context, error) {
	t.Helper()
	md := metadata.MD{}
	if token != "" {
		md.Set("authorization", "Bearer "+token)
	}
	if spoofed != "" {
		md.Set("user-id", spoofed)
	}
	ctx := metadata.NewIncomingContext(context.Background(), md)

	var seen context.Context
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		seen = ctx
		return "ok", nil
	}
	_, err := i.Unary()(ctx, nil, &grpc.UnaryServerInfo{FullMethod: method}, handler)
	return seen, err
}

func TestAuthInterceptor(t *testing.T) {
	tm := security.NewTokenManager(secret, "gameplaza", time.Hour)
	i := NewAuthInterceptor(tm)
	access, err := tm.GenerateAccessToken("U1", "user")
	require.NoError(t, err)
	svc, err := tm.GenerateServiceToken("cron")
	require.NoError(t, err)

	t.Run("Public method skips auth", func(t *testing.T) {
		_, err := call(t, i, "/grpc.health.v1.Health/Check", "", "")
		assert.NoError(t, err)
	})

	t.Run("Missing token", func(t *testing.T) {
		_, err := call(t, i, "/gameplaza.v1.CheckInService/ProcessCheckIn", "", "")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("Bad token", func(t *testing.T) {
		_, err := call(t, i, "/gameplaza.v1.CheckInService/ProcessCheckIn", "garbage", "")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("Identity comes from the token", func(t *testing.T) {
		ctx, err := call(t, i, "/gameplaza.v1.CheckInService/ProcessCheckIn", access, "A1")
		require.NoError(t, err)
		md, _ := metadata.FromIncomingContext(ctx)
		assert.Equal(t, []string{"U1"}, md.Get("user-id"))
		assert.Equal(t, []string{"access"}, md.Get("token-type"))
	})

	t.Run("Service-only method", func(t *testing.T) {
		_, err := call(t, i, "/gameplaza.v1.ReservationService/ProcessAutoNoShow", access, "")
		assert.Equal(t, codes.PermissionDenied, status.Code(err))

		_, err = call(t, i, "/gameplaza.v1.ReservationService/ProcessAutoNoShow", svc, "")
		assert.NoError(t, err)
	})
}
