package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aakash768/imf-gadget-api/internal/api"
	"github.com/Aakash768/imf-gadget-api/internal/api/handlers"
	"github.com/Aakash768/imf-gadget-api/internal/auth"
	"github.com/Aakash768/imf-gadget-api/internal/config"
	"github.com/Aakash768/imf-gadget-api/internal/db"
	"github.com/Aakash768/imf-gadget-api/internal/logger"
	"github.com/Aakash768/imf-gadget-api/internal/metrics"
	"github.com/Aakash768/imf-gadget-api/internal/middleware"
	"github.com/Aakash768/imf-gadget-api/internal/repository/postgres"
	"github.com/Aakash768/imf-gadget-api/internal/services"
	"github.com/Aakash768/imf-gadget-api/internal/worker"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	userSvc := services.NewUserService(repos.Users, tm, repos.AuditLogs, wp)
	gadgetSvc := services.NewGadgetService(repos.Gadgets, repos.AuditLogs, wp)

	r := api.NewRouter(api.RouterDeps{
		Cfg:     cfg,
		Auth:    middleware.NewAuthMiddleware(tm, repos.Users),
		Users:   handlers.NewUserHandler(userSvc, tm),
		Gadgets: handlers.NewGadgetHandler(gadgetSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
