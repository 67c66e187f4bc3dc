package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"haushaltsbuch/internal/auth"
	"haushaltsbuch/internal/config"
	"haushaltsbuch/internal/database"
	"haushaltsbuch/internal/logger"
	"haushaltsbuch/internal/metrics"
	"haushaltsbuch/internal/migration"
	"haushaltsbuch/internal/router"
	"haushaltsbuch/internal/store"
	"haushaltsbuch/internal/validator"
)

// @title           Haushaltsbuch API
// @version         1.0
// @description     Haushaltsbuch keeps per-user income and expense lines with categories, subitems and summaries.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	// Open the record store
	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer dbManager.Close()

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	m := metrics.New()
	repo := store.NewRepository(dbManager.Backend())
	repo.OnWrite(m.ObserveWrite)

	hasher := auth.NewPasswordHasher(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Upgrade the dataset and make sure someone can log in
	result, err := migration.NewRunner(repo, hasher, migration.Seed{
		Username:     cfg.SeedUsername,
		Password:     cfg.SeedPassword,
		PasswordHash: cfg.SeedPasswordHash,
	}).Run(ctx)
	if err != nil {
		return fmt.Errorf("failed to migrate dataset: %w", err)
	}
	log.Infow("startup",
		"backend", dbManager.Kind(),
		"location", repo.Location(),
		"users", result.Users,
		"lines", result.Lines,
	)

	engine := router.New(router.Deps{
		Repo:        repo,
		Hasher:      hasher,
		Tokens:      auth.NewTokenManager(cfg.AuthSecret, cfg.JWTExpirationDur),
		Metrics:     m,
		StaticDir:   cfg.StaticDir,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Starting Haushaltsbuch server on port %s", cfg.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
