package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignatzorin/barter-backend/internal/config"
	"github.com/ignatzorin/barter-backend/internal/db"
	"github.com/ignatzorin/barter-backend/internal/goroutine"
	"github.com/ignatzorin/barter-backend/internal/http/middleware"
	httpRouter "github.com/ignatzorin/barter-backend/internal/http/router"
	"github.com/ignatzorin/barter-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/barter-backend/internal/interface/http/handler"
	"github.com/ignatzorin/barter-backend/internal/logger"
	"github.com/ignatzorin/barter-backend/internal/service"
	"github.com/ignatzorin/barter-backend/internal/usecase/bid"
	"github.com/ignatzorin/barter-backend/internal/usecase/project"
	"github.com/ignatzorin/barter-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	// Подключение к базе и миграции.
	pg, err := db.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Log.Fatalf("main: ошибка подключения к базе: %v", err)
	}
	defer safeClose("база", pg.Close)

	if err := pg.RunMigrations(); err != nil {
		logger.Log.Fatalf("main: ошибка миграций: %v", err)
	}

	// Redis нужен только для общего счётчика rate limit между экземплярами.
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Log.Fatalf("main: redis недоступен (%s): %v", cfg.RedisAddr, err)
		}
		defer safeClose("redis", redisClient.Close)
		logger.Log.WithField("addr", cfg.RedisAddr).Info("main: rate limit хранится в redis")
	}

	authLimiter, err := middleware.NewRateLimiter(cfg.RateLimitLimit, cfg.RateLimitPeriod, redisClient)
	if err != nil {
		logger.Log.Fatalf("main: %v", err)
	}

	// Репозитории.
	userRepo := persistence.NewUserRepository(pg)
	projectRepo := persistence.NewProjectRepository(pg)
	bidRepo := persistence.NewBidRepository(pg)

	// Realtime.
	hub := ws.NewHub()
	goroutine.SafeGoWithContext(ctx, hub.Run)

	// Сервисы и use cases.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	authService := service.NewAuthService(userRepo, tokenManager)

	handlers := httpRouter.Handlers{
		Auth: handler.NewAuthHandler(authService),
		Project: handler.NewProjectHandler(
			project.NewCreateProjectUseCase(projectRepo),
			project.NewListProjectsUseCase(projectRepo),
			project.NewGetProjectUseCase(projectRepo),
			project.NewUpdateProjectStatusUseCase(projectRepo),
			project.NewDeleteProjectUseCase(projectRepo),
		),
		Bid: handler.NewBidHandler(
			bid.NewSubmitBidUseCase(bidRepo, projectRepo, hub),
			bid.NewListProjectBidsUseCase(bidRepo, projectRepo),
			bid.NewListMyBidsUseCase(bidRepo),
			bid.NewSetBidStatusUseCase(bidRepo, projectRepo, hub),
		),
		Health: handler.NewHealthHandler(pg),
		WS:     handler.NewWSHandler(hub, authService, cfg.AllowedOrigins),
	}

	engine := httpRouter.SetupRouter(cfg, handlers, authService, authLimiter)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.Errorf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	logger.Log.WithField("port", cfg.HTTPPort).WithField("env", cfg.Env).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
	logger.Log.Info("main: сервер остановлен")
}

func safeClose(name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.Log.Errorf("main: ошибка закрытия (%s): %v", name, err)
	}
}
