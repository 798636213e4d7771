package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"weband-backend/config"
	"weband-backend/internal/api"
	"weband-backend/internal/auth"
	"weband-backend/internal/block"
	"weband-backend/internal/calendar"
	"weband-backend/internal/db"
	"weband-backend/internal/meet"
	"weband-backend/internal/store"
)

func main() {
	// Setup logger
	logger := log.New(os.Stdout, "weband-backend ", log.LstdFlags)

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}
	logger.Printf("configuration loaded successfully from %s", configPath)

	if cfg.JWT.AccessSecret == "" || cfg.JWT.RefreshSecret == "" {
		logger.Fatalf("JWT secrets must be configured. Please add them to your config file.")
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	// Wire the codec, store and services
	codec := block.New(cfg.Calendar.SlotsPerDay)
	appStore := store.NewGormStore(gormDB, codec)
	calendarSvc := calendar.NewService(appStore, codec, cfg.Calendar.WeekStartDay)
	meetSvc := meet.NewService(appStore, codec)
	tokenSvc := auth.NewTokenService(cfg.JWT)
	kakaoClient := auth.NewKakaoClient(cfg.Kakao)
	logger.Println("services initialized")

	// Initialize router
	handler := api.NewHandler(cfg, appStore, calendarSvc, meetSvc, tokenSvc, kakaoClient)
	router := api.NewRouter(handler)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Println("Shutdown signal received, stopping services...")

	// Create a deadline to wait for.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	logger.Println("Server gracefully stopped")
}
