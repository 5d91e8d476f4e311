// Package main is the entry point for the objbatch viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/objbatch/internal/app"
	"github.com/Faultbox/objbatch/internal/config"
	"github.com/Faultbox/objbatch/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== objbatch viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// Missing model files and device exhaustion are unrecoverable.
	a, err := app.New(cfg)
	if err != nil {
		logger.Fatal("failed to start viewer", zap.Error(err))
	}

	if err := a.Run(); err != nil {
		a.Close()
		logger.Fatal("viewer stopped", zap.Error(err))
	}
	a.Close()

	logger.Info("viewer closed normally")
}
