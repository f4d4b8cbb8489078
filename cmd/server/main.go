package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"batch-scanner/internal/config"
	"batch-scanner/internal/handler"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}
	// Wiring
	container := config.NewContainer()

	// Probe the scanning subsystem so a missing scanner shows up in the
	// logs immediately instead of on the first capture.
	probeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if container.CaptureDevice.Available(probeCtx) {
		if listing, err := container.CaptureDevice.Devices(probeCtx); err == nil {
			container.Logger.Info("Scanner detected", "devices", listing)
		}
	} else {
		container.Logger.Warn("No scanner detected; captures will fail until one is connected")
	}
	cancel()

	// Router
	router := handler.NewRouter(
		container.SessionService,
		container.Config,
		container.Logger,
	)

	// start server
	server := &http.Server{
		Addr:    ":" + container.Config.GetServerPort(),
		Handler: router,
	}

	// Run server
	go func() {
		container.Logger.Info("Server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			container.Logger.Error("Server failed to start", err)
			os.Exit(1)
		}
	}()
	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	container.Logger.Info("Shutting down server...")
	_ = server.Close()

	container.Logger.Info("Server exited")
}
