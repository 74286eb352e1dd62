package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "gamehub/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"gamehub/internal/auth"
	"gamehub/internal/cache"
	"gamehub/internal/config"
	"gamehub/internal/db"
	"gamehub/internal/handler"
	"gamehub/internal/logging"
	"gamehub/internal/repository"
	"gamehub/internal/router"
	"gamehub/internal/service"
	"gamehub/internal/storage"
)

// @title GameHub API
// @version 1.0
// @description Community game catalog: browse, comment and react; moderators curate games and ban users; admins manage roles.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.Open(cfg.DBDriver, cfg.MySQLDSN, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("database init", zap.Error(err))
	}

	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.Fatal("reset database", zap.Error(err))
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("migrate database", zap.Error(err))
	}

	rdb, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis init", zap.Error(err))
	}
	defer rdb.Close()

	var objects storage.ObjectStore
	if cfg.MinioEndpoint != "" {
		minioStore, err := storage.NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			logger.Fatal("minio init", zap.Error(err))
		}
		objects = minioStore
	} else {
		logger.Info("MINIO_ENDPOINT not set, profile image uploads disabled")
	}

	store := repository.NewStore(gormDB)
	cacheClient := cache.New(rdb)

	// Initialize auth components
	tokens := auth.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)
	sessions := auth.NewRedisSessionStore(rdb)

	// Initialize services
	banService := service.NewBanService(store, cacheClient, logger)
	authService := service.NewAuthService(store, banService, tokens, sessions, logger)
	gameService := service.NewGameService(store, banService, logger)
	commentService := service.NewCommentService(store, banService, logger)
	reactionService := service.NewReactionService(store, banService, logger)
	userService := service.NewUserService(store, banService, cacheClient, objects, logger)
	dashboardService := service.NewDashboardService(store)

	if _, err := service.EnsureDefaultAccounts(ctx, store, service.DefaultAccounts(cfg.SeedAdminPassword, cfg.SeedModeratorPassword), logger); err != nil {
		logger.Fatal("seed default accounts", zap.Error(err))
	}

	e := echo.New()
	e.HideBanner = true

	// Register routes
	router.Register(e, logger, tokens, authService, banService, router.Handlers{
		Auth:      handler.NewAuthHandler(authService, cfg.CookieSecure),
		Games:     handler.NewGameHandler(gameService),
		Community: handler.NewCommunityHandler(commentService, reactionService),
		Users:     handler.NewUserHandler(userService),
		Admin:     handler.NewAdminHandler(banService, userService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	})

	logger.Info("swagger documentation available", zap.String("url", swaggerURL(cfg.SwaggerHost, cfg.ServerPort)))

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

// swaggerURL builds the docs URL; host may already carry a scheme.
func swaggerURL(host, port string) string {
	if host == "" {
		return "http://localhost:" + port + "/swagger/index.html"
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return host + "/swagger/index.html"
}
