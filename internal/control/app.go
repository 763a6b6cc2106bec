package control

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/vietddude/payroll/internal/api"
	"github.com/vietddude/payroll/internal/auth"
	"github.com/vietddude/payroll/internal/core/config"
	redisclient "github.com/vietddude/payroll/internal/infra/redis"
	"github.com/vietddude/payroll/internal/infra/storage"
	"github.com/vietddude/payroll/internal/infra/storage/memory"
	"github.com/vietddude/payroll/internal/infra/storage/postgres"
	"github.com/vietddude/payroll/internal/server"
	"github.com/vietddude/payroll/internal/settings"
)

// App is the main application struct that manages the service lifecycle.
type App struct {
	cfg         *config.AppConfig
	httpServer  *http.Server
	grpcServer  *grpc.Server
	grpcHealth  *health.Server
	db          *postgres.DB
	redisClient *redisclient.Client
	log         *slog.Logger
}

// New creates a new App instance with all dependencies initialized.
func New(cfg *config.AppConfig) (*App, error) {
	log := slog.Default()

	// 1. Initialize Storage
	var users storage.UserRepository
	var employees storage.EmployeeRepository
	var payroll storage.PayrollRepository
	var db *postgres.DB
	checks := make(map[string]api.HealthChecker)

	if cfg.Database.URL != "" {
		var err error
		db, err = postgres.NewDB(context.Background(), cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to init db: %w", err)
		}
		users = postgres.NewUserRepo(db)
		employees = postgres.NewEmployeeRepo(db)
		payroll = postgres.NewPayrollRepo(db)
		checks["database"] = db
		log.Info("Using PostgreSQL storage")
	} else {
		store := memory.NewMemoryStorage()
		users = memory.NewUserRepo(store)
		employees = memory.NewEmployeeRepo(store)
		payroll = memory.NewPayrollRepo(store)
		log.Info("Using Memory storage")
	}

	// 2. Initialize Redis (optional, in-process fallbacks otherwise)
	var redisClient *redisclient.Client
	var denylist redisclient.Denylist
	var limiter redisclient.RateLimiter
	var kv settings.KV

	if cfg.Redis.URL != "" {
		var err error
		redisClient, err = redisclient.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("failed to init redis: %w", err)
		}
		denylist = redisClient
		limiter = redisClient
		kv = redisClient
		checks["redis"] = redisClient
		log.Info("Using Redis for token denylist and rate limiting")
	} else {
		denylist = redisclient.NewMemoryDenylist()
		limiter = redisclient.NewMemoryRateLimiter()
		log.Info("Redis not configured, using in-process denylist and rate limiter")
	}

	// 3. Initialize Settings Store
	settingsStore, err := newSettingsStore(cfg.Settings, kv)
	if err != nil {
		return nil, fmt.Errorf("failed to init settings store: %w", err)
	}

	// 4. Initialize Auth
	issuer := auth.NewTokenIssuer([]byte(cfg.Auth.Secret), cfg.Auth.TokenTTL)

	// 5. Build HTTP Server
	router := server.NewRouter(server.Deps{
		Users:     users,
		Employees: employees,
		Payroll:   payroll,
		Settings:  settingsStore,
		Issuer:    issuer,
		Denylist:  denylist,
		Limiter:   limiter,
		Checks:    checks,
		Logger:    log,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 6. Build gRPC Health Server (optional)
	var grpcServer *grpc.Server
	var grpcHealth *health.Server
	if cfg.Server.GRPCPort > 0 {
		grpcServer = grpc.NewServer()
		grpcHealth = health.NewServer()
		healthpb.RegisterHealthServer(grpcServer, grpcHealth)
	}

	return &App{
		cfg:         cfg,
		httpServer:  httpServer,
		grpcServer:  grpcServer,
		grpcHealth:  grpcHealth,
		db:          db,
		redisClient: redisClient,
		log:         log,
	}, nil
}

func newSettingsStore(cfg config.SettingsConfig, kv settings.KV) (settings.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return settings.NewMemoryStore(), nil
	case "file":
		if cfg.Path == "" {
			return nil, fmt.Errorf("settings.path is required for file backend")
		}
		return settings.NewFileStore(cfg.Path), nil
	case "redis":
		if kv == nil {
			return nil, fmt.Errorf("settings backend is redis but redis.url is not set")
		}
		return settings.NewRedisStore(kv), nil
	default:
		return nil, fmt.Errorf("unknown settings backend: %s", cfg.Backend)
	}
}

// Start starts the application and all its components.
func (a *App) Start(ctx context.Context) error {
	// Start DB Metrics Collector
	if a.db != nil {
		a.db.StartMetricsCollector(ctx)
	}

	// Start gRPC Health Server
	if a.grpcServer != nil {
		addr := fmt.Sprintf(":%d", a.cfg.Server.GRPCPort)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", addr, err)
		}
		a.grpcHealth.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
		go func() {
			a.log.Info("Starting gRPC health server", "addr", addr)
			if err := a.grpcServer.Serve(lis); err != nil {
				a.log.Error("gRPC server failed", "error", err)
			}
		}()
	}

	// Start HTTP Server
	go func() {
		a.log.Info("Starting HTTP server", "addr", a.httpServer.Addr)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("HTTP server failed", "error", err)
		}
	}()

	return nil
}

// Stop stops the application.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("Stopping payroll service...")

	if a.grpcServer != nil {
		a.grpcHealth.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
		a.grpcServer.GracefulStop()
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Warn("Failed to close Redis", "error", err)
		}
	}

	if a.db != nil {
		defer a.db.Close()
	}

	return a.httpServer.Shutdown(ctx)
}
