package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/busreservation/api"
	"github.com/Domenick1991/busreservation/config"
	"github.com/Domenick1991/busreservation/internal/auth"
	"github.com/Domenick1991/busreservation/internal/bootstrap"
	"github.com/Domenick1991/busreservation/internal/cache"
	"github.com/Domenick1991/busreservation/internal/kafka"
	"github.com/Domenick1991/busreservation/internal/logging"
	"github.com/Domenick1991/busreservation/internal/repository"
	"github.com/Domenick1991/busreservation/internal/repository/sqlite"
	"github.com/Domenick1991/busreservation/internal/service/departures"
	"github.com/Domenick1991/busreservation/internal/service/ledger"
	"github.com/Domenick1991/busreservation/internal/service/reservation"
	"github.com/Domenick1991/busreservation/internal/service/settlement"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type stores struct {
	departures   repository.DepartureRepository
	reservations repository.ReservationRepository
	ledger       repository.LedgerRepository
	tx           repository.TxManager
	ping         func(ctx context.Context) error
	close        func()
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	st, err := openStores(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer st.close()

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Booking.DeparturesCacheTTL())
	defer redisCache.Close()

	reservationOpts := []reservation.ReservationServiceOption{
		reservation.WithCache(redisCache, cfg.Booking.SeatLockTTL()),
		reservation.WithDeposit(cfg.Booking.Deposit),
		reservation.WithLogger(logger.With("component", "reservation")),
	}
	settlementOpts := []settlement.SettlementServiceOption{
		settlement.WithCurrency(cfg.Booking.Currency),
		settlement.WithLogger(logger.With("component", "settlement")),
	}
	checks := map[string]api.HealthCheck{
		"database": func(c *gin.Context) error { return st.ping(c.Request.Context()) },
		"redis":    func(c *gin.Context) error { return redisCache.Ping(c.Request.Context()) },
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, logger.With("component", "kafka"))
		defer producer.Close()
		events := kafka.NewEventPublisher(producer, cfg.Kafka.ReservationsTopic, cfg.Kafka.NotificationsTopic)
		reservationOpts = append(reservationOpts, reservation.WithEvents(events))
		settlementOpts = append(settlementOpts, settlement.WithEvents(events))
		checks["kafka"] = func(c *gin.Context) error { return producer.CheckConnection(c.Request.Context()) }
	} else {
		logger.Warn("kafka brokers not configured, reservation events are disabled")
	}

	services := api.Services{
		Departures:   departures.NewDepartureService(st.departures, redisCache, logger.With("component", "departures")),
		Reservations: reservation.NewReservationService(st.tx, st.reservations, reservationOpts...),
		Settlement:   settlement.NewSettlementService(st.tx, st.reservations, st.ledger, settlementOpts...),
		Ledger:       ledger.NewLedgerService(st.ledger),
	}

	return bootstrap.Run(ctx, cfg, bootstrap.Deps{
		Services:      services,
		Authenticator: auth.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer),
		Logger:        logger,
		HealthChecks:  checks,
	})
}

func openStores(ctx context.Context, cfg config.DatabaseConfig) (*stores, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		store, err := sqlite.New(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return &stores{
			departures:   store.Departures(),
			reservations: store.Reservations(),
			ledger:       store.Ledger(),
			tx:           store,
			ping:         store.Ping,
			close:        func() { _ = store.Close() },
		}, nil
	default:
		pool, err := pgxpool.New(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := repository.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		return &stores{
			departures:   repository.NewDepartureRepository(pool),
			reservations: repository.NewReservationRepository(pool),
			ledger:       repository.NewLedgerRepository(pool),
			tx:           repository.NewTxManager(pool),
			ping:         pool.Ping,
			close:        pool.Close,
		}, nil
	}
}
