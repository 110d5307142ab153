package reservations_service_api

import (
	"context"

	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/service/settlement"
	"google.golang.org/grpc"
)

const ServiceName = "busreservation.v1.ReservationService"

const (
	CreateReservationMethod = "/" + ServiceName + "/CreateReservation"
	CancelReservationMethod = "/" + ServiceName + "/CancelReservation"
	PresentCredentialMethod = "/" + ServiceName + "/PresentCredential"
)

// ReservationServiceServer is the server API of the reservation service.
type ReservationServiceServer interface {
	CreateReservation(context.Context, *CreateReservationRequest) (*domain.Reservation, error)
	CancelReservation(context.Context, *CancelReservationRequest) (*domain.Reservation, error)
	PresentCredential(context.Context, *PresentCredentialRequest) (*settlement.Result, error)
}

func RegisterReservationServiceServer(s grpc.ServiceRegistrar, srv ReservationServiceServer) {
	s.RegisterService(&ReservationService_ServiceDesc, srv)
}

func _ReservationService_CreateReservation_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CreateReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).CreateReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CreateReservationMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReservationServiceServer).CreateReservation(ctx, req.(*CreateReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_CancelReservation_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(CancelReservationRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).CancelReservation(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: CancelReservationMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReservationServiceServer).CancelReservation(ctx, req.(*CancelReservationRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ReservationService_PresentCredential_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PresentCredentialRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReservationServiceServer).PresentCredential(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PresentCredentialMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ReservationServiceServer).PresentCredential(ctx, req.(*PresentCredentialRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ReservationService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReservationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateReservation", Handler: _ReservationService_CreateReservation_Handler},
		{MethodName: "CancelReservation", Handler: _ReservationService_CancelReservation_Handler},
		{MethodName: "PresentCredential", Handler: _ReservationService_PresentCredential_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "busreservation/v1/reservation_service.proto",
}
