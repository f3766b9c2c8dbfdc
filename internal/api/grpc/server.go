// Package grpc exposes the reservation, check-in and account services over
// gRPC. Messages are google.protobuf.Struct documents so clients need no
// generated stubs; field names are snake_case. The contract lives in
// api/proto/gameplaza/v1/gameplaza.proto.
package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const protoFile = "gameplaza/v1/gameplaza.proto"

type ReservationServer interface {
	CreateReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListDeviceReservations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateReservationSlot(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ApproveReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RejectReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CancelReservation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	MarkNoShow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ProcessAutoNoShow(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type CheckInServer interface {
	ProcessCheckIn(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ConfirmPayment(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AdjustTimeAndAmount(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ProcessCheckOut(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCheckInDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetActiveCheckIns(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetCheckInsByDateRange(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListPendingPayments(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type AccountServer interface {
	GetUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SuspendUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	BanUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ActivateUser(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ChangeRole(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RecordLoginAttempt(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// unary adapts a Struct-in/Struct-out method to a grpc.MethodDesc. Errors
// returned by fn are converted to gRPC statuses here.
func unary[S any](service, name string, fn func(S, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + name
	call := func(srv S, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		resp, err := fn(srv, ctx, req)
		if err != nil {
			return nil, toStatus(fullMethod, err)
		}
		return resp, nil
	}
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(S)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

const (
	reservationServiceName = "gameplaza.v1.ReservationService"
	checkInServiceName     = "gameplaza.v1.CheckInService"
	accountServiceName     = "gameplaza.v1.AccountService"
)

var ReservationServiceDesc = grpc.ServiceDesc{
	ServiceName: reservationServiceName,
	HandlerType: (*ReservationServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(reservationServiceName, "CreateReservation", ReservationServer.CreateReservation),
		unary(reservationServiceName, "GetReservation", ReservationServer.GetReservation),
		unary(reservationServiceName, "ListDeviceReservations", ReservationServer.ListDeviceReservations),
		unary(reservationServiceName, "UpdateReservationSlot", ReservationServer.UpdateReservationSlot),
		unary(reservationServiceName, "ApproveReservation", ReservationServer.ApproveReservation),
		unary(reservationServiceName, "RejectReservation", ReservationServer.RejectReservation),
		unary(reservationServiceName, "CancelReservation", ReservationServer.CancelReservation),
		unary(reservationServiceName, "MarkNoShow", ReservationServer.MarkNoShow),
		unary(reservationServiceName, "ProcessAutoNoShow", ReservationServer.ProcessAutoNoShow),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

var CheckInServiceDesc = grpc.ServiceDesc{
	ServiceName: checkInServiceName,
	HandlerType: (*CheckInServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(checkInServiceName, "ProcessCheckIn", CheckInServer.ProcessCheckIn),
		unary(checkInServiceName, "ConfirmPayment", CheckInServer.ConfirmPayment),
		unary(checkInServiceName, "AdjustTimeAndAmount", CheckInServer.AdjustTimeAndAmount),
		unary(checkInServiceName, "ProcessCheckOut", CheckInServer.ProcessCheckOut),
		unary(checkInServiceName, "GetCheckInDetails", CheckInServer.GetCheckInDetails),
		unary(checkInServiceName, "GetActiveCheckIns", CheckInServer.GetActiveCheckIns),
		unary(checkInServiceName, "GetCheckInsByDateRange", CheckInServer.GetCheckInsByDateRange),
		unary(checkInServiceName, "ListPendingPayments", CheckInServer.ListPendingPayments),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: accountServiceName,
	HandlerType: (*AccountServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(accountServiceName, "GetUser", AccountServer.GetUser),
		unary(accountServiceName, "SuspendUser", AccountServer.SuspendUser),
		unary(accountServiceName, "BanUser", AccountServer.BanUser),
		unary(accountServiceName, "ActivateUser", AccountServer.ActivateUser),
		unary(accountServiceName, "ChangeRole", AccountServer.ChangeRole),
		unary(accountServiceName, "RecordLoginAttempt", AccountServer.RecordLoginAttempt),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: protoFile,
}

// Register adds all three services to s.
func Register(s grpc.ServiceRegistrar, reservations ReservationServer, checkIns CheckInServer, accounts AccountServer) {
	s.RegisterService(&ReservationServiceDesc, reservations)
	s.RegisterService(&CheckInServiceDesc, checkIns)
	s.RegisterService(&AccountServiceDesc, accounts)
}
