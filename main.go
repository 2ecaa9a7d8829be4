package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"boardroom/internal"
	"boardroom/internal/config"
	"boardroom/internal/container"
	"boardroom/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("[Server] No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[Server] Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	defer logger.Sync()

	gin.SetMode(cfg.Server.GinMode)

	c, err := container.New(cfg, logger)
	if err != nil {
		logger.Error("[Server] Failed to initialize: %v", err)
		os.Exit(1)
	}

	server, err := ui.NewServer(c.Service, c.Sessions, ui.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Logger:         logger,
		Usage:          c.Usage,
	})
	if err != nil {
		logger.Error("[Server] Failed to build HTTP server: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, ":"+cfg.Server.Port); err != nil {
		logger.Error("[Server] %v", err)
		os.Exit(1)
	}
}
