package api

import (
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"time"

	"github.com/Domenick1991/busreservation/config"
	"github.com/Domenick1991/busreservation/internal/auth"
	"github.com/Domenick1991/busreservation/internal/clock"
	"github.com/Domenick1991/busreservation/internal/service/departures"
	"github.com/Domenick1991/busreservation/internal/service/ledger"
	"github.com/Domenick1991/busreservation/internal/service/reservation"
	"github.com/Domenick1991/busreservation/internal/service/settlement"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpSwagger "github.com/swaggo/http-swagger"
)

const openAPIPath = "/openapi.json"

// Services bundles the use cases the HTTP API exposes.
type Services struct {
	Departures   departures.DepartureUseCase
	Reservations reservation.ReservationUseCase
	Settlement   settlement.SettlementUseCase
	Ledger       ledger.LedgerUseCase
	// Clock defaults to the wall clock.
	Clock clock.Clock
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(c *gin.Context) error

func NewRouter(cfg config.HTTPConfig, svc Services, authenticator *auth.Authenticator, logger *slog.Logger, checks map[string]HealthCheck) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), Logger(logger))
	if len(cfg.AllowedOrigins) > 0 {
		router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	}

	router.GET("/healthz", healthz(checks))

	if cfg.SwaggerDir != "" {
		router.StaticFile(openAPIPath, filepath.Join(cfg.SwaggerDir, "openapi.json"))
		router.GET("/swagger/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(openAPIPath))))
	}

	v1 := router.Group("/api/v1", auth.Middleware(authenticator))
	NewDepartureHandler(svc.Departures).Register(v1.Group("/departures"))
	NewReservationHandler(svc.Reservations, svc.Departures, svc.Clock).Register(v1.Group("/reservations"))
	NewScanHandler(svc.Settlement).Register(v1.Group("/scans"))
	NewLedgerHandler(svc.Ledger).Register(v1)

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func healthz(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		statuses := make(map[string]string, len(checks))
		code := http.StatusOK
		for name, check := range checks {
			if err := check(c); err != nil {
				statuses[name] = err.Error()
				code = http.StatusServiceUnavailable
				continue
			}
			statuses[name] = "ok"
		}
		c.JSON(code, gin.H{"status": http.StatusText(code), "checks": statuses})
	}
}
