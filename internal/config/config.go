package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	SinkNone  = "none"
	SinkKafka = "kafka"
	SinkRedis = "redis"

	EnvDevelopment = "development"
	EnvProduction  = "production"

	defaultJWTSecret = "dev-secret"
)

// Config holds every runtime setting of the server
type Config struct {
	AppEnv string

	GRPCAddr        string
	HTTPAddr        string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration

	StoreDriver string
	DBConnStr   string

	JWTSecret string
	JWTIssuer string
	JWTTTL    time.Duration

	EventSink     string
	KafkaBrokers  []string
	KafkaTopic    string
	RedisAddr     string
	RedisPassword string
	RedisChannel  string

	SeedBalance decimal.Decimal
	SeedSecret  string
}

// IsProduction reports whether the server runs with production settings
func (c *Config) IsProduction() bool {
	return c.AppEnv == EnvProduction
}

// LoadDotEnv loads variables from .env files into the environment.
// Variables already set are not overridden.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}

// Load reads the configuration from environment variables, applying defaults
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", EnvDevelopment),
		GRPCAddr:       getEnv("GRPC_ADDR", ":8080"),
		HTTPAddr:       getEnv("HTTP_ADDR", ":3000"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		DBConnStr:      dbConnString(),
		JWTSecret:      getEnv("JWT_SECRET", defaultJWTSecret),
		JWTIssuer:      getEnv("JWT_ISSUER", "minibank"),
		EventSink:      strings.ToLower(getEnv("EVENT_SINK", SinkNone)),
		KafkaBrokers:   getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "transfer_completed"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASS", ""),
		RedisChannel:   getEnv("REDIS_CHANNEL", "transfer_events"),
		SeedSecret:     getEnv("SEED_SECRET", "password123"),
	}

	var err error
	if cfg.JWTTTL, err = time.ParseDuration(getEnv("JWT_ACCESS_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_TTL: %w", err)
	}
	if cfg.ShutdownTimeout, err = time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s")); err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.SeedBalance, err = decimal.NewFromString(getEnv("SEED_BALANCE", "10000")); err != nil {
		return nil, fmt.Errorf("invalid SEED_BALANCE: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings are usable together
func (c *Config) Validate() error {
	switch c.AppEnv {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("APP_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.AppEnv)
	}
	switch c.StoreDriver {
	case StoreMemory, StorePostgres:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StorePostgres, c.StoreDriver)
	}
	switch c.EventSink {
	case SinkNone, SinkKafka, SinkRedis:
	default:
		return fmt.Errorf("EVENT_SINK must be one of none, kafka, redis, got %q", c.EventSink)
	}
	if c.EventSink == SinkKafka && len(c.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required when EVENT_SINK=kafka")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_ACCESS_TTL must be positive")
	}
	if c.JWTSecret == "" || (c.IsProduction() && c.JWTSecret == defaultJWTSecret) {
		return errors.New("JWT_SECRET must be set to a non-default value in production")
	}
	if !c.SeedBalance.IsPositive() {
		return errors.New("SEED_BALANCE must be positive")
	}
	if c.SeedSecret == "" {
		return errors.New("SEED_SECRET cannot be empty")
	}
	return nil
}

// dbConnString returns DB_CONN_STR or builds it from individual vars (Docker friendly)
func dbConnString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_NAME", "minibank"),
		getEnv("DB_SSLMODE", "disable"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
