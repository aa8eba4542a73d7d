package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/taskforge/backend/api/handler"
	"github.com/taskforge/backend/internal/config"
	"github.com/taskforge/backend/internal/infrastructure/audit"
	"github.com/taskforge/backend/internal/infrastructure/monitor"
	pgInfra "github.com/taskforge/backend/internal/infrastructure/postgres"
	redisInfra "github.com/taskforge/backend/internal/infrastructure/redis"
	"github.com/taskforge/backend/internal/middleware"
	"github.com/taskforge/backend/internal/router"
	"github.com/taskforge/backend/internal/services"
	"github.com/taskforge/backend/internal/services/lifecycle"
	"github.com/taskforge/backend/pkg/httpcontext"
	"github.com/taskforge/backend/pkg/logger"
	"github.com/taskforge/backend/pkg/password"
	"github.com/taskforge/backend/pkg/token"
	"github.com/taskforge/backend/repository/postgres"
	redisRepo "github.com/taskforge/backend/repository/redis"
	authUC "github.com/taskforge/backend/usecase/auth"
	taskUC "github.com/taskforge/backend/usecase/task"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pool.Close()
		return nil
	})

	redisClient, err := redisInfra.NewClient(cfg.Redis)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	auditStore, err := audit.Open(cfg.Audit.Path, "audit")
	if err != nil {
		zapLogger.Fatal("failed to open audit store", zap.Error(err))
	}
	manager.Register("audit_store", func(ctx context.Context) error {
		return auditStore.Close()
	})

	mon := monitor.New(pool, redisClient, auditStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := redisRepo.NewCachedUserRepository(
		postgres.NewUserRepository(pool),
		redisClient,
		cfg.Redis.CacheTTL,
	)
	taskRepo := postgres.NewTaskRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)

	auditRecorder := services.NewAuditRecorder(
		auditStore,
		mon,
		auditRepo,
		zapLogger,
		services.RecorderConfig{
			Interval:  cfg.Audit.SyncInterval,
			BatchSize: cfg.Audit.BatchSize,
			MaxRetry:  cfg.Audit.MaxRetry,
			Retention: time.Duration(cfg.Audit.RetentionHours) * time.Hour,
		},
	)
	auditRecorder.Start()
	manager.Register("audit_recorder", func(ctx context.Context) error {
		auditRecorder.Stop(ctx)
		return nil
	})

	tokenService, err := token.New(token.Config{
		Secret: cfg.JWT.Secret,
		Issuer: cfg.JWT.Issuer,
		TTL:    cfg.JWT.TTL,
	})
	if err != nil {
		zapLogger.Fatal("token service init failed", zap.Error(err))
	}
	hasher := password.NewBcryptHasher(cfg.Bcrypt.Cost)

	authUseCase := authUC.New(userRepo, hasher, tokenService, auditRecorder, zapLogger)
	taskUseCase := taskUC.New(taskRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(authUseCase, ctxAdapter, zapLogger),
		Task:   apiHandler.NewTaskHandler(taskUseCase, ctxAdapter, zapLogger),
		Health: apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authGate := middleware.AuthGate(tokenService, userRepo, auditRecorder, ctxAdapter, zapLogger)
	r := router.New(handlers, authGate)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.Shutdown()
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
