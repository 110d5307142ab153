package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/busreservation/api"
	"github.com/Domenick1991/busreservation/config"
	reservationsapi "github.com/Domenick1991/busreservation/internal/api/reservations_service_api"
	"github.com/Domenick1991/busreservation/internal/auth"
	"google.golang.org/grpc"
)

const shutdownTimeout = 5 * time.Second

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
	logger     *slog.Logger
}

// Deps is everything the servers need from the composition root.
type Deps struct {
	Services      api.Services
	Authenticator *auth.Authenticator
	Logger        *slog.Logger
	HealthChecks  map[string]api.HealthCheck
}

// Run starts the gRPC and HTTP servers and blocks until ctx is canceled or
// a server fails.
func Run(ctx context.Context, cfg *config.Config, deps Deps) error {
	s := NewServers(cfg, deps)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	return s.Serve(ctx, lis)
}

func NewServers(cfg *config.Config, deps Deps) *Servers {
	grpcSrv := grpc.NewServer(grpc.ChainUnaryInterceptor(auth.UnaryInterceptor(deps.Authenticator)))
	reservationsapi.RegisterReservationServiceServer(grpcSrv,
		reservationsapi.NewServer(deps.Services.Reservations, deps.Services.Settlement))

	router := api.NewRouter(cfg.HTTP, deps.Services, deps.Authenticator, deps.Logger, deps.HealthChecks)
	httpSrv := &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Servers{grpcServer: grpcSrv, httpServer: httpSrv, logger: deps.Logger}
}

// Serve runs both servers, gRPC on lis, until ctx is done.
func (s *Servers) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 2)

	go func() {
		s.logger.Info("grpc server listening", "address", lis.Addr().String())
		errCh <- s.grpcServer.Serve(lis)
	}()
	go func() {
		s.logger.Info("http server listening", "address", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.grpcServer.Stop()
		_ = s.httpServer.Close()
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
