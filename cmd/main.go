package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	"go.uber.org/zap"

	"adminplatform/internal/caching"
	"adminplatform/internal/config"
	"adminplatform/internal/handlers"
	"adminplatform/internal/hashing"
	"adminplatform/internal/jobs"
	"adminplatform/internal/middleware"
	"adminplatform/internal/provisioner"
	"adminplatform/internal/repositories"
	"adminplatform/internal/services"
	"adminplatform/pkg/database"
)

const version = "1.0.0"

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.toml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(32)
		logger.Warn("no JWT secret configured, using a generated one; sessions will not survive restarts")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	pool, err := database.NewPool(ctx, cfg.Database.DSN())
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("database connected", zap.String("host", cfg.Database.Host))

	sessions := caching.NewRedisSessionStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
		time.Duration(cfg.Auth.SessionTTLMinutes)*time.Minute)

	// Repositories and core services
	tenantRepo := repositories.NewTenantRepo(pool)
	adminUserRepo := repositories.NewAdminUserRepo(pool)
	hasher := hashing.NewBcryptHasher(cfg.Auth.BcryptCost)
	prov := provisioner.NewSchemaProvisioner(pool, logger)

	tenantSvc := services.NewTenantService(tenantRepo, prov, hasher, logger)
	adminUserSvc := services.NewAdminUserService(adminUserRepo, hasher, logger)
	tokenSvc := services.NewTokenService(jwtSecret, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(adminUserSvc, tokenSvc, sessions, logger)
	tenantHandlers := handlers.NewTenantHandlers(tenantSvc, logger)
	adminUserHandlers := handlers.NewAdminUserHandlers(adminUserSvc, logger)
	healthHandlers := handlers.NewHealthHandlers(pool, sessions)

	e := echo.New()
	e.HideBanner = true

	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestID())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	e.GET("/health", healthHandlers.Health)

	api := e.Group("/api")
	api.POST("/auth/login", authHandlers.Login)

	guarded := api.Group("", middleware.JWTMiddleware(tokenSvc, sessions))
	guarded.POST("/auth/logout", authHandlers.Logout)

	guarded.GET("/tenants", tenantHandlers.ListTenants)
	guarded.POST("/tenants", tenantHandlers.CreateTenant)
	guarded.GET("/tenants/:id", tenantHandlers.GetTenant)
	guarded.PUT("/tenants/:id", tenantHandlers.UpdateTenant)
	guarded.DELETE("/tenants/:id", tenantHandlers.DeleteTenant)

	guarded.GET("/admin-users", adminUserHandlers.ListAdminUsers)
	guarded.POST("/admin-users", adminUserHandlers.CreateAdminUser)
	guarded.GET("/admin-users/:id", adminUserHandlers.GetAdminUser)
	guarded.PUT("/admin-users/:id", adminUserHandlers.UpdateAdminUser)
	guarded.DELETE("/admin-users/:id", adminUserHandlers.DeleteAdminUser)

	// Consistency audit: reports registry/schema mismatches, never repairs.
	if cfg.Audit.Enabled {
		audit, err := jobs.NewSchemaAudit(prov, tenantRepo, logger)
		if err != nil {
			logger.Fatal("failed to create schema audit", zap.Error(err))
		}
		if err := audit.Start(time.Duration(cfg.Audit.IntervalMinutes) * time.Minute); err != nil {
			logger.Fatal("failed to start schema audit", zap.Error(err))
		}
		defer audit.Stop()
	}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Server.Addr), zap.String("version", version))
		if err := e.Start(cfg.Server.Addr); err != nil {
			logger.Info("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
