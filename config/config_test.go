package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
http:
  address: ":8081"
database:
  driver: sqlite
  sqlite_path: /tmp/bus.db
kafka:
  brokers: ["localhost:9092"]
booking:
  deposit: 250.50
  seat_lock_ttl_seconds: 10
auth:
  jwt_secret: secret
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.HTTP.Address)
	assert.Equal(t, ":9090", cfg.GRPC.Address)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "/tmp/bus.db", cfg.Database.SQLitePath)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "reservations", cfg.Kafka.ReservationsTopic)
	assert.True(t, decimal.RequireFromString("250.50").Equal(cfg.Booking.Deposit))
	assert.Equal(t, "FCFA", cfg.Booking.Currency)
	assert.Equal(t, 10*time.Second, cfg.Booking.SeatLockTTL())
	assert.Equal(t, time.Minute, cfg.Booking.DeparturesCacheTTL())
}

func TestParse_DefaultDeposit(t *testing.T) {
	cfg, err := Parse([]byte("auth:\n  jwt_secret: s\n"))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(cfg.Booking.Deposit))
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte(`
database:
  driver: mysql
booking:
  deposit: -1
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "booking.deposit")
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read config")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "bus", Password: "pw", Name: "busdb", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=bus password=pw dbname=busdb sslmode=disable", d.DSN())
}
