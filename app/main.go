package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"protocol-system/internal/repositories"
	"protocol-system/internal/repositories/memory"
	"protocol-system/internal/routes"
	"protocol-system/pkg/config"
	"protocol-system/pkg/database/postgresql"
	apperrors "protocol-system/pkg/errors"
	"protocol-system/pkg/eventbus"
	applogger "protocol-system/pkg/logger"
	appmiddleware "protocol-system/pkg/middleware"
	"protocol-system/pkg/service"
	"protocol-system/pkg/utils"
	"protocol-system/pkg/validation"
	"protocol-system/pkg/websocket"
	"protocol-system/seeders"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic while serving request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				_ = utils.ErrorResponse(c, apperrors.Internal(err), logger)
			}
			return nil
		},
	}))
	e.Use(appmiddleware.RequestLogger(logger))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
	}))
	e.Use(middleware.ContextTimeout(cfg.Server.RequestTimeout))

	stores, closeStorage, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeStorage()

	cacheRepo, closeCache := openCache(ctx, cfg.Redis, logger)
	defer closeCache()

	bus := eventbus.New(logger.Named("eventbus"))
	hub := websocket.NewHub(logger.Named("websocket"))
	go hub.Run(ctx)

	routes.InitRouter(e, routes.Dependencies{
		Stores: stores,
		Cache:  cacheRepo,
		JWT:    service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL),
		Bus:    bus,
		Hub:    hub,
		Config: cfg,
		Loggers: &routes.Loggers{
			Main:     logger,
			Auth:     logger.Named("auth"),
			Document: logger.Named("document"),
			Notify:   logger.Named("notify"),
		},
	})

	go func() {
		logger.Info("server started", zap.String("port", cfg.Server.Port), zap.String("storage", cfg.StorageDriver))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	bus.Wait()
}

// openStorage picks the driver named by STORAGE_DRIVER. The memory driver
// is seeded on start since it begins empty every time.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repositories.Stores, func(), error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		stores := memory.NewStore().Stores()
		if err := seeders.Run(ctx, stores, cfg.Seed, logger.Named("seed")); err != nil {
			return repositories.Stores{}, nil, err
		}
		logger.Warn("using in-memory storage, data is lost on restart")
		return stores, func() {}, nil
	case config.StorageDriverPostgres:
		pool, err := postgresql.ConnectDB(ctx, cfg.Postgres, logger)
		if err != nil {
			return repositories.Stores{}, nil, err
		}
		return repositories.NewPostgresStores(pool, logger.Named("repository")), pool.Close, nil
	}
	return repositories.Stores{}, nil, errors.New("unknown STORAGE_DRIVER " + cfg.StorageDriver)
}

// openCache connects to Redis when an address is configured. Without one,
// or when Redis is unreachable, identities are read from storage on every
// request.
func openCache(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (repositories.CacheRepositoryInterface, func()) {
	if cfg.Address == "" {
		logger.Info("REDIS_ADDRESS not set, identity cache disabled")
		return repositories.NewNoopCacheRepository(), func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unreachable, identity cache disabled", zap.String("address", cfg.Address), zap.Error(err))
		_ = client.Close()
		return repositories.NewNoopCacheRepository(), func() {}
	}
	logger.Info("connected to redis", zap.String("address", cfg.Address))
	return repositories.NewRedisCacheRepository(client), func() { _ = client.Close() }
}
