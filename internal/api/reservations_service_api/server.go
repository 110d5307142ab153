package reservations_service_api

import (
	"context"

	"github.com/Domenick1991/busreservation/internal/auth"
	"github.com/Domenick1991/busreservation/internal/domain"
	"github.com/Domenick1991/busreservation/internal/service/reservation"
	"github.com/Domenick1991/busreservation/internal/service/settlement"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type CreateReservationRequest struct {
	DepartureID   int64  `json:"departure_id"`
	SeatNumber    int32  `json:"seat_number"`
	Price         string `json:"price,omitempty"`
	PassengerName string `json:"passenger_name,omitempty"`
	RouteOverride string `json:"route_override,omitempty"`
}

type CancelReservationRequest struct {
	ReservationID int64 `json:"reservation_id"`
}

type PresentCredentialRequest struct {
	Credential string `json:"credential"`
}

// Server implements ReservationServiceServer on top of the use cases.
type Server struct {
	reservations reservation.ReservationUseCase
	settlement   settlement.SettlementUseCase
}

func NewServer(reservations reservation.ReservationUseCase, settlement settlement.SettlementUseCase) *Server {
	return &Server{reservations: reservations, settlement: settlement}
}

func (s *Server) CreateReservation(ctx context.Context, req *CreateReservationRequest) (*domain.Reservation, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	input := reservation.CreateInput{
		DepartureID:   req.DepartureID,
		SeatNumber:    int(req.SeatNumber),
		PassengerName: req.PassengerName,
		RouteOverride: req.RouteOverride,
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			return nil, toStatus(domain.Invalid("price", "not a decimal number"))
		}
		input.Price = &price
	}
	created, err := s.reservations.Create(ctx, actor, input)
	if err != nil {
		return nil, toStatus(err)
	}
	return created, nil
}

func (s *Server) CancelReservation(ctx context.Context, req *CancelReservationRequest) (*domain.Reservation, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.reservations.Cancel(ctx, req.ReservationID, actor)
	if err != nil {
		return nil, toStatus(err)
	}
	return cancelled, nil
}

func (s *Server) PresentCredential(ctx context.Context, req *PresentCredentialRequest) (*settlement.Result, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return nil, err
	}
	result, err := s.settlement.Present(ctx, req.Credential, actor)
	if err != nil {
		return nil, toStatus(err)
	}
	return result, nil
}

func actorFrom(ctx context.Context) (domain.Actor, error) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok {
		return domain.Actor{}, status.Error(codes.Unauthenticated, auth.ErrUnauthenticated.Error())
	}
	return actor, nil
}

// toStatus converts a domain error into a gRPC status carrying its code.
func toStatus(err error) error {
	var code codes.Code
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		code = codes.NotFound
	case domain.KindConflict:
		code = codes.FailedPrecondition
	case domain.KindForbidden:
		code = codes.PermissionDenied
	case domain.KindExhausted:
		code = codes.ResourceExhausted
	case domain.KindInvalid:
		code = codes.InvalidArgument
	default:
		return status.Error(codes.Unavailable, domain.ErrStorageFailure.Code+": outcome unknown")
	}
	return status.Error(code, domain.CodeOf(err)+": "+err.Error())
}

var _ ReservationServiceServer = (*Server)(nil)
