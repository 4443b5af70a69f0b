package main

import (
	"flag"
	"os"
	"strings"
	"syscall"

	"github.com/ezlab-crm/internal/app"
	"github.com/ezlab-crm/internal/config"
	"github.com/ezlab-crm/internal/logger"
	"github.com/ezlab-crm/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	var mode string
	flag.StringVar(&mode, "mode", envOr("APP_MODE", app.ModeAll), "启动模式: all (默认), api, worker")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	log := logger.S()

	if isWeakSecret(cfg.JWT.SecretKey) {
		if cfg.Server.Mode == "release" {
			log.Fatalw("jwt_secret_weak", "hint", "configure a random secret of at least 32 bytes")
		}
		log.Warnw("jwt_secret_weak", "hint", "replace before deploying")
	}
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Server.Mode == "debug", models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		log.Fatalw("database_init_failed", "driver", cfg.Database.Driver, "error", err)
	}
	defer func() {
		if err := models.CloseDB(); err != nil {
			log.Warnw("database_close_failed", "error", err)
		}
	}()

	if err := models.AutoMigrate(models.DB); err != nil {
		log.Fatalw("database_migrate_failed", "error", err)
	}
	if cfg.Bootstrap.SuperAdminPassword == "" || cfg.Bootstrap.SuperAdminPassword == config.DefaultSuperAdminPassword {
		log.Warnw("super_admin_default_password", "hint", "set bootstrap.super_admin_password before first start")
	}
	if err := models.InitSuperAdmin(models.DB, cfg.Bootstrap.SuperAdminPassword, config.DefaultSuperAdminPassword, cfg.Bcrypt.Cost); err != nil {
		log.Fatalw("super_admin_init_failed", "error", err)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  log,
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		log.Errorw("app_run_failed", "mode", mode, "error", err)
		logger.Sync()
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func isWeakSecret(secret string) bool {
	if len(secret) < 32 {
		return true
	}
	normalized := strings.ToLower(secret)
	return strings.Contains(normalized, "change-me") ||
		strings.Contains(normalized, "change-in-production") ||
		strings.Contains(normalized, "your-secret-key")
}
