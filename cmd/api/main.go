package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/api"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/app"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/config"
	"github.com/razstvien01/pbi-top-ph-youtubers-2024/internal/util"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if envErr != nil {
		logger.Warn(".env file not found")
	}

	// The server has no per-row fallback, so a key is required here.
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	container, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to build services", zap.Error(err))
	}
	defer container.Close()

	gin.SetMode(gin.ReleaseMode)
	server := api.NewServer(cfg.Server, container.Fetcher, container.ServerArchive(), logger)

	logger.Info("Server starting", zap.String("port", cfg.Server.Port))
	if err := server.Start(cfg.Server.Port); err != nil {
		logger.Error("Failed to start server", zap.Error(err))
		container.Close()
		os.Exit(1)
	}
}
