// Package main is the entry point for the unattended scan station: it scans
// continuously and records every identifier under the configured prefix.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
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

	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Development(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Infow("starting scan station", "prefix", cfg.Scanner.Prefix)

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("failed to initialize", "error", err)
	}
	defer a.Close()

	station, err := a.Station()
	if err != nil {
		log.Fatalw("failed to configure station", "error", err)
	}
	for name, ok := range a.Scans.Backends() {
		log.Infow("scanner backend", "backend", name, "available", ok)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := station.Run(ctx); err != nil {
			log.Errorw("station stopped", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down station...")
	cancel()

	wg.Wait()
	log.Info("station stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
