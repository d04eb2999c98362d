package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mailstudio/internal/config"
	"mailstudio/internal/logger"
	"mailstudio/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.OpenAIKey == "" {
		logger.Warn("OPENAI_API_KEY missing", "hint", "set in environment for /api/openai")
	}
	if cfg.EnableCORS {
		logger.Info("CORS enabled", "origin", "*")
	}

	srv, err := server.New(cfg)
	if err != nil {
		logger.Error("failed to initialize server", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Heartbeat {
		srv.StartHeartbeat(ctx, time.Minute)
	}
	if cfg.SelfPing {
		srv.StartSelfPing(ctx, 2*time.Minute)
	}

	go func() {
		if err := srv.Run(); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
