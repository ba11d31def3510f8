package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"reading-companion/internal/config"
	"reading-companion/internal/handler"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Wiring
	container := config.NewContainer()

	// Session expiry enforcement runs for the lifetime of the process and is
	// stopped explicitly on shutdown, paired with construction here.
	container.Store.StartReaper()
	container.Logger.Info("Started session cleanup background task",
		"ttl", container.Config.GetSessionTTL(),
		"interval", container.Config.GetCleanupInterval())

	// Router
	router := handler.NewRouter(
		container.ReadingService,
		container.Logger,
		container.Config.GetAllowedOrigins(),
	)

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

	// All session data is in-memory only; stopping the reaper is the only
	// cleanup there is. Nothing survives the process.
	container.Store.Stop()
	container.Logger.Info("Stopped session cleanup background task")

	container.Logger.Info("Server exited")
}
