package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/tkahng/bowling"
	"github.com/tkahng/bowling/config"
	"github.com/tkahng/bowling/server"
)

// Main function with graceful shutdown
func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	broker := bowling.NewBroker(bowling.BrokerOptions{
		MaxConcurrentGames: cfg.Broker.MaxConcurrentGames,
		GameTimeout:        cfg.Broker.GameTimeout,
		FinishedRetention:  cfg.Broker.FinishedRetention,
		CleanupInterval:    cfg.Broker.CleanupInterval,
		MetricsInterval:    cfg.Broker.MetricsInterval,
		Logger:             logger,
	})

	srv := server.NewGameServer(cfg.HTTP, broker, logger)
	srv.Start()

	// nolint:exhaustruct
	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: srv.Handler(),
	}

	go func() {
		logger.Info("server starting", slog.String("addr", cfg.HTTP.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown", slog.Any("error", err))
	}

	srv.Stop()

	logger.Info("server stopped")
}
