package interceptor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestLoggingUnary(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/gameplaza.v1.CheckInService/ProcessCheckIn"}
	intercept := LoggingUnary()

	t.Run("Passes results through", func(t *testing.T) {
		resp, err := intercept(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return "ok", nil
		})
		assert.NoError(t, err)
		assert.Equal(t, "ok", resp)

		_, err = intercept(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
			return nil, status.Error(codes.NotFound, "missing")
		})
		assert.Equal(t, codes.NotFound, status.Code(err))
	})

	t.Run("Recovers panics", func(t *testing.T) {
		var err error
		assert.NotPanics(t, func() {
			_, err = intercept(context.Background(), nil, info, func(ctx context.Context, req interface{}) (interface{}, error) {
				panic(errors.New("boom"))
			})
		})
		assert.Equal(t, codes.Internal, status.Code(err))
	})
}
