// @title           Todo API
// @version         1.0
// @description     Todo CRUD API with schema validation and typed error responses.
// @host            localhost:8080
// @BasePath        /api
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TodoAPI/internal/app"
	"TodoAPI/internal/config"
	"TodoAPI/internal/logging"

	_ "TodoAPI/docs"

	"github.com/charmbracelet/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config", "err", err)
	}
	logger := logging.New(cfg.Log)
	logger.Info("config loaded", "env", cfg.App.Env, "store", cfg.Store.Driver, "redis", cfg.Redis.Enabled())

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal("app init", "err", err)
	}
	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.HTTP.Port,
		Handler:      application.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout.Duration(),
		WriteTimeout: cfg.HTTP.WriteTimeout.Duration(),
		IdleTimeout:  cfg.HTTP.IdleTimeout.Duration(),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-serverErr:
		logger.Error("HTTP server error", "err", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", "err", err)
	}
	if err := application.Close(ctx); err != nil {
		logger.Error("app close", "err", err)
	}
	logger.Info("stopped")
}
