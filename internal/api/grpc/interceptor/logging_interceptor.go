package interceptor

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gameplaza-backend/internal/logger"
)

// LoggingUnary logs every RPC with its status code and latency, and turns a
// handler panic into an Internal error.
func LoggingUnary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in RPC handler", "method", info.FullMethod, "panic", r)
				resp, err = nil, status.Error(codes.Internal, "서버 오류가 발생했습니다")
			}
			code := status.Code(err)
			args := []any{"method", info.FullMethod, "code", code.String(), "elapsed", time.Since(start)}
			switch code {
			case codes.OK:
				logger.Info("RPC completed", args...)
			case codes.Internal, codes.Unknown, codes.DataLoss:
				logger.Error("RPC failed", append(args, "error", err)...)
			default:
				logger.Warn("RPC rejected", append(args, "error", err)...)
			}
		}()
		return handler(ctx, req)
	}
}
