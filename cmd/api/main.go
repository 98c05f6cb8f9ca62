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

	"go.uber.org/zap"

	"github.com/Sohammathur/Chat-Application--AI/config"
	"github.com/Sohammathur/Chat-Application--AI/internal/ai"
	httpapi "github.com/Sohammathur/Chat-Application--AI/internal/api/http"
	"github.com/Sohammathur/Chat-Application--AI/internal/api/http/routes"
	"github.com/Sohammathur/Chat-Application--AI/internal/auth"
	"github.com/Sohammathur/Chat-Application--AI/internal/bootstrap"
	"github.com/Sohammathur/Chat-Application--AI/internal/logging"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/events"
	"github.com/Sohammathur/Chat-Application--AI/internal/projects/service"
	"github.com/Sohammathur/Chat-Application--AI/internal/storage/redis"
)

const serviceName = "workspace-api"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bootstrap.SetGinMode(cfg.App.Environment)

	stores, err := bootstrap.OpenStores(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		cctx, ccancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer ccancel()
		if err := stores.Close(cctx); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()
	logger.Info("store connected", zap.String("driver", cfg.Store.Driver))

	health := map[string]httpapi.Pinger{cfg.Store.Driver: stores.Pinger}

	rdb, err := redis.NewClient(ctx, &cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	var bus events.Bus = events.NoopBus{}
	if rdb != nil {
		defer rdb.Close()
		bus = events.NewRedisBus(rdb, logger)
		health["redis"] = httpapi.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() })
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		health["redis"] = nil
		logger.Info("redis disabled; realtime updates and logout revocation are off")
	}

	verifier, err := bootstrap.NewVerifier(ctx, cfg)
	if err != nil {
		return fmt.Errorf("init auth: %w", err)
	}

	generator, err := ai.NewGemini(ctx, &cfg.AI)
	if err != nil {
		return fmt.Errorf("init ai: %w", err)
	}

	projects := service.NewProjectService(stores.Projects, stores.Users, bus, service.Options{
		EnforceMembership: cfg.Projects.EnforceMembership,
	})

	router := routes.NewRouter(routes.Deps{
		Logger:         logger,
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Health:         health,
		Verifier:       verifier,
		Revocations:    auth.NewRevocationList(rdb),
		Users:          stores.Users,
		Projects:       projects,
		Events:         bus,
		AI:             generator,
	})

	srv := httpapi.NewServer(":"+cfg.Server.Port, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("auth", cfg.Auth.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
