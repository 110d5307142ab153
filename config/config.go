package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Auth     AuthConfig     `yaml:"auth"`
	Log      LogConfig      `yaml:"log"`
}

type HTTPConfig struct {
	Address        string   `yaml:"address"`
	SwaggerDir     string   `yaml:"swagger_dir"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name"`
	SSLMode    string `yaml:"ssl_mode"`
	SQLitePath string `yaml:"sqlite_path"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	ReservationsTopic  string   `yaml:"reservations_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	// Deposit is charged on top of the ticket price and settled at boarding.
	Deposit                   decimal.Decimal `yaml:"deposit"`
	Currency                  string          `yaml:"currency"`
	SeatLockTTLSeconds        int             `yaml:"seat_lock_ttl_seconds"`
	DeparturesCacheTTLSeconds int             `yaml:"departures_cache_ttl_seconds"`
}

func (b BookingConfig) SeatLockTTL() time.Duration {
	return time.Duration(b.SeatLockTTLSeconds) * time.Second
}

func (b BookingConfig) DeparturesCacheTTL() time.Duration {
	return time.Duration(b.DeparturesCacheTTLSeconds) * time.Second
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret"`
	Issuer    string `yaml:"issuer"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns the configuration used for any key the file leaves out.
func Defaults() Config {
	return Config{
		HTTP: HTTPConfig{Address: ":8080"},
		GRPC: GRPCConfig{Address: ":9090"},
		Database: DatabaseConfig{
			Driver:     DriverPostgres,
			Host:       "localhost",
			Port:       5432,
			SSLMode:    "disable",
			SQLitePath: "busreservation.db",
		},
		Kafka: KafkaConfig{
			ReservationsTopic:  "reservations",
			NotificationsTopic: "reservation-notifications",
			GroupID:            "busreservation-worker",
		},
		Booking: BookingConfig{
			Deposit:                   decimal.NewFromInt(100),
			Currency:                  "FCFA",
			SeatLockTTLSeconds:        30,
			DeparturesCacheTTLSeconds: 60,
		},
		Auth: AuthConfig{Issuer: "busreservation"},
		Log:  LogConfig{Level: "info", Format: "text"},
	}
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver))
	}
	if c.Booking.Deposit.IsNegative() {
		errs = append(errs, errors.New("booking.deposit: must not be negative"))
	}
	if c.Booking.SeatLockTTLSeconds < 0 {
		errs = append(errs, errors.New("booking.seat_lock_ttl_seconds: must not be negative"))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret: required"))
	}
	return errors.Join(errs...)
}
