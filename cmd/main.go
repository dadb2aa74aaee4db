package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"asset-vault/config"
	_ "asset-vault/docs"
	"asset-vault/internal/access"
	"asset-vault/internal/handler"
	"asset-vault/internal/ports"
	"asset-vault/internal/repository"
	"asset-vault/internal/security"
	"asset-vault/internal/service"
	"asset-vault/internal/storage"
	"asset-vault/internal/util"

	"github.com/spf13/afero"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

// @title asset-vault
// @version 1.0
// @description REST API хранилища медиа-ассетов с защитой PIN и ссылками для совместного доступа

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("DAM_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger, err := util.NewLogger(cfg.Logger.Mode)
	if err != nil {
		log.Fatalf("Ошибка создания логгера: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer func() { _ = logger.Sync() }()

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		zap.L().Fatal("Не удалось подключиться к БД", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zap.L().Warn("Ошибка при закрытии БД", zap.Error(err))
		}
	}()

	if cfg.DatabaseConfig.RunMigrations {
		if err := db.RunMigrations(ctx); err != nil {
			zap.L().Fatal("Ошибка миграций", zap.Error(err))
		}
	}

	limiter, closeLimiter := setupLimiter(cfg)
	defer closeLimiter()

	files, filesHandler, err := setupStorage(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Ошибка создания хранилища файлов", zap.Error(err))
	}

	srv, router := config.SetupServer(cfg.Server.Addr)

	userRepo := repository.NewUserRepository(db)
	jwtRepo := repository.NewJWTRepository(db)
	assetRepo := repository.NewAssetRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	engine := access.NewEngine(access.NewPinPolicy(cfg.Pin.MinLength, cfg.Pin.MaxLength))
	roles := access.NewRolePolicy(cfg.Admin.Emails)

	jwtService := security.NewJWTService(&cfg.JWT)
	authService := service.NewAuthenticationService(db, jwtRepo, jwtService, userRepo, roles)
	assetService := service.NewAssetService(db, assetRepo, files, engine, limiter)
	shareService := service.NewShareService(db, assetRepo, files, engine, limiter)
	userService := service.NewUserService(db, userRepo, assetRepo, statsRepo, files, engine)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	handler.RegisterRoutes(router, handler.Handlers{
		Auth:   handler.NewAuthenticationHandler(authService),
		Assets: handler.NewAssetHandler(assetService, cfg.Server.MaxUploadSize),
		Share:  handler.NewShareHandler(shareService),
		Admin:  handler.NewAdminHandler(userService),
		Files:  filesHandler,
	}, security.JWTMiddleware(jwtService, jwtRepo))

	runServer(ctx, srv)
}

// setupLimiter : без Redis попытки ввода PIN не ограничиваются, сервер продолжает работать
func setupLimiter(cfg *config.AppConfig) (ports.AttemptLimiter, func()) {
	if cfg.RedisConfig.Addr == "" {
		zap.L().Warn("Redis не настроен, ограничение попыток ввода PIN отключено")
		return nil, func() {}
	}

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		zap.L().Warn("Redis недоступен, ограничение попыток ввода PIN отключено", zap.Error(err))
		return nil, func() {}
	}

	limiter := repository.NewAttemptRepository(redisClient, cfg.Pin.MaxAttempts, cfg.LockoutDuration())
	return limiter, func() {
		if err := redisClient.Close(); err != nil {
			zap.L().Warn("Ошибка при закрытии Redis", zap.Error(err))
		}
	}
}

// setupStorage : для диска дополнительно возвращает обработчик /files/*
func setupStorage(ctx context.Context, cfg *config.AppConfig) (ports.FileStorage, http.Handler, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s3Service, err := service.NewS3Service(ctx, &cfg.S3Config, cfg.PresignedURLTTL())
		if err != nil {
			return nil, nil, err
		}
		return s3Service, nil, nil
	case "disk":
		root, err := filepath.Abs(cfg.Storage.Root)
		if err != nil {
			return nil, nil, err
		}
		fs := afero.NewOsFs()
		if err := fs.MkdirAll(root, 0o755); err != nil {
			return nil, nil, err
		}
		disk := storage.NewDiskStorage(fs, root, cfg.Server.PublicURL)
		return disk, disk.Handler(), nil
	default:
		return nil, nil, errors.New("неизвестный драйвер хранилища: " + cfg.Storage.Driver)
	}
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		zap.L().Info("сервер запущен", zap.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("ошибка работы сервера", zap.Error(err))
		}
	case sig := <-signalChannel:
		zap.L().Info("получен сигнал остановки работы сервера", zap.String("signal", sig.String()))
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		zap.L().Warn("ошибка при остановке сервера", zap.Error(err))
	} else {
		zap.L().Info("Сервер успешно остановлен")
	}
}
