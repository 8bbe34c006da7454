package main

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/minibank-backend/internal/adapter/events/kafka"
	"github.com/simaogato/minibank-backend/internal/adapter/events/nop"
	"github.com/simaogato/minibank-backend/internal/adapter/events/redis"
	grpcadapter "github.com/simaogato/minibank-backend/internal/adapter/grpc"
	"github.com/simaogato/minibank-backend/internal/adapter/repository/memory"
	"github.com/simaogato/minibank-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/minibank-backend/internal/adapter/rest"
	"github.com/simaogato/minibank-backend/internal/config"
	"github.com/simaogato/minibank-backend/internal/domain"
	"github.com/simaogato/minibank-backend/internal/token"
	"github.com/simaogato/minibank-backend/internal/usecase/admin"
	"github.com/simaogato/minibank-backend/internal/usecase/auth"
	"github.com/simaogato/minibank-backend/internal/usecase/query"
	"github.com/simaogato/minibank-backend/internal/usecase/seeder"
	"github.com/simaogato/minibank-backend/internal/usecase/transfer"
)

const dbConnectAttempts = 5

// eventSink is a publisher the server owns and closes on shutdown
type eventSink interface {
	domain.EventPublisher
	io.Closer
}

func main() {
	// 1. Load configuration
	dotEnvErr := config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("invalid configuration", zap.Error(err))
	}

	logger := newLogger(cfg)
	defer logger.Sync()
	if dotEnvErr != nil {
		logger.Info("no .env file loaded, using process environment")
	}

	// 2. Setup Ledger Store
	store, db := openStore(cfg, logger)
	if db != nil {
		defer db.Close()
	}

	// 3. Setup Event Sink
	publisher := openPublisher(cfg, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	// 4. Seed demo accounts
	accountSeeder := seeder.NewAccountSeeder(store, cfg.SeedBalance, cfg.SeedSecret)
	if err := accountSeeder.Seed(context.Background()); err != nil {
		logger.Fatal("failed to seed accounts", zap.Error(err))
	}
	logger.Info("demo accounts seeded", zap.Int("count", len(accountSeeder.Accounts())))

	// 5. Initialize Services (Use Cases)
	tokens, err := token.NewManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	if err != nil {
		logger.Fatal("failed to create token manager", zap.Error(err))
	}
	authService := auth.NewAuthService(store)
	transferService := transfer.NewTransferService(store, publisher, logger)
	queryService := query.NewQueryService(store)
	adminService := admin.NewAdminService(store, accountSeeder, logger)

	// 6. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(logger),
			grpcadapter.AuthInterceptor(tokens, grpcadapter.PublicMethods()...),
		),
	)
	grpcadapter.RegisterBankServiceServer(grpcServer,
		grpcadapter.NewServer(authService, transferService, queryService, adminService, tokens))
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatal("failed to listen", zap.String("addr", cfg.GRPCAddr), zap.Error(err))
	}
	go func() {
		logger.Info("gRPC server listening", zap.String("addr", cfg.GRPCAddr))
		if err := grpcServer.Serve(lis); err != nil {
			logger.Fatal("failed to serve gRPC server", zap.Error(err))
		}
	}()

	// 7. Start HTTP Server
	var pinger rest.Pinger
	if db != nil {
		pinger = db
	}
	handler := rest.NewHandler(authService, transferService, queryService, adminService, tokens, pinger)
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: rest.NewRouter(handler, tokens, logger, rest.RouterOptions{
			AllowedOrigins: cfg.AllowedOrigins,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to serve HTTP server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	waitForShutdown(logger, cfg.ShutdownTimeout, grpcServer, httpServer)
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return zap.NewExample()
	}
	return logger
}

// openStore returns the configured ledger store. db is nil for the memory store.
func openStore(cfg *config.Config, logger *zap.Logger) (domain.LedgerStore, *postgres.DB) {
	if cfg.StoreDriver == config.StoreMemory {
		logger.Info("using in-memory ledger store")
		return memory.NewStore(), nil
	}

	// Postgres may still be starting up when running under compose
	var (
		db  *postgres.DB
		err error
	)
	for attempt := 1; attempt <= dbConnectAttempts; attempt++ {
		if db, err = postgres.NewDB(cfg.DBConnStr); err == nil {
			break
		}
		logger.Warn("database not ready", zap.Int("attempt", attempt), zap.Error(err))
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	logger.Info("using postgres ledger store")
	return postgres.NewLedgerStore(db), db
}

func openPublisher(cfg *config.Config, logger *zap.Logger) eventSink {
	switch cfg.EventSink {
	case config.SinkKafka:
		logger.Info("publishing transfer events to kafka",
			zap.Strings("brokers", cfg.KafkaBrokers), zap.String("topic", cfg.KafkaTopic))
		return kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	case config.SinkRedis:
		logger.Info("publishing transfer events to redis",
			zap.String("addr", cfg.RedisAddr), zap.String("channel", cfg.RedisChannel))
		return redis.NewPublisher(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisChannel)
	default:
		return nop.Publisher{}
	}
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down both servers
func waitForShutdown(logger *zap.Logger, timeout time.Duration, grpcServer *grpclib.Server, httpServer *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	logger.Info("shutting down gracefully", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Warn("HTTP server shutdown", zap.Error(err))
	}
	logger.Info("HTTP server stopped")

	grpcServer.GracefulStop()
	logger.Info("gRPC server stopped")
}
