// Package main is the entry point for the labelkit API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"labelkit/internal/app"
	"labelkit/internal/config"
	"labelkit/pkg/logger"
)

func main() {
	configPath := flag.String("config", getEnv("LABELKIT_CONFIG", "labelkit.yaml"), "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting labelkit server", "config", *configPath, "version", app.Version)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize", "error", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warnw("failed to close storage", "error", err)
		}
	}()

	if err := a.Serve(ctx); err != nil {
		log.Errorw("server exited", "error", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
