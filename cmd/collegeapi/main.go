package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"time"

	"college_api/internal/config"
	"college_api/internal/db"
	"college_api/internal/logger"
	"college_api/internal/server"

	"github.com/oklog/run"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Загрузка конфигурации
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		logger.Init(false)
		logger.Log.Fatalf("Config load error: %v", err)
	}

	logger.Init(cfg.Debug)
	defer logger.Log.Info("Application stopped")

	// Подключение к базе данных; без неё сервис всё равно стартует
	store := openStore(ctx, cfg)

	srv := server.NewServer(store, cfg)
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var g run.Group
	g.Add(func() error {
		logger.Log.Infof("Starting HTTP server on %s", cfg.Addr())
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}, func(error) {
		logger.Log.Info("Shutting down...")
		ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()

		if err := httpServer.Shutdown(ctxShutdown); err != nil {
			logger.Log.Errorf("Forced shutdown: %v", err)
		}
	})
	g.Add(run.SignalHandler(ctx, os.Interrupt, syscall.SIGTERM))

	err = g.Run()
	closeStore(store)

	var sigErr run.SignalError
	if err != nil && !errors.As(err, &sigErr) {
		logger.Log.Fatalf("Server error: %v", err)
	}
}

func openStore(ctx context.Context, cfg *config.Config) db.Store {
	if !cfg.DatabaseConfigured() {
		logger.Log.Warn("DATABASE_URL is not set, running without a database")
		return nil
	}

	store, err := db.Open(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		logger.Log.Errorf("DB connection error: %v", err)
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		logger.Log.Warnf("Database %q is not reachable yet: %v", store.Name(), err)
	} else {
		logger.Log.Infof("Connected to database %q", store.Name())
	}
	return store
}

func closeStore(store db.Store) {
	if store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Close(ctx); err != nil {
		logger.Log.Errorf("DB close error: %v", err)
	}
}
