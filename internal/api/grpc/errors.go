package grpc

import (
	"errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"gameplaza-backend/internal/domain"
	"gameplaza-backend/internal/logger"
)

const errorDomain = "gameplaza"

var kindCodes = map[domain.ErrorKind]codes.Code{
	domain.KindNotFound:          codes.NotFound,
	domain.KindInvalidState:      codes.FailedPrecondition,
	domain.KindSlotConflict:      codes.AlreadyExists,
	domain.KindAlreadyCheckedIn:  codes.AlreadyExists,
	domain.KindDeviceInUse:       codes.FailedPrecondition,
	domain.KindDeviceUnavailable: codes.FailedPrecondition,
	domain.KindReasonRequired:    codes.InvalidArgument,
	domain.KindInvalidAmount:     codes.InvalidArgument,
	domain.KindInvalidRange:      codes.InvalidArgument,
	domain.KindValidation:        codes.InvalidArgument,
	domain.KindAccessDenied:      codes.PermissionDenied,
}

// toStatus converts a handler error into a gRPC status error. Domain errors
// keep their Korean message and carry their kind in an ErrorInfo detail;
// anything unrecognised is logged and reported as Internal.
func toStatus(method string, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}

	kind := domain.KindOf(err)
	code, ok := kindCodes[kind]
	if !ok {
		logger.Error("Unhandled error in RPC", "method", method, "error", err)
		return status.Error(codes.Internal, "서버 오류가 발생했습니다")
	}

	info := &errdetails.ErrorInfo{Reason: string(kind), Domain: errorDomain}
	var de *domain.Error
	if errors.As(err, &de) && de.RequiredRole != "" {
		info.Metadata = map[string]string{"required_role": string(de.RequiredRole)}
	}
	st, detailErr := status.New(code, err.Error()).WithDetails(info)
	if detailErr != nil {
		return status.Error(code, err.Error())
	}
	return st.Err()
}
