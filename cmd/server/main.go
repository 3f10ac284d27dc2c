// Command main is the entry point for the Trove backend server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trove/internal/bootstrap"
	"trove/internal/config"
	"trove/internal/observability"
	"trove/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	observability.ConfigureLevel(cfg.LogLevel)

	store, err := bootstrap.OpenStorage(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	srv := server.New(cfg, store)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	if err := srv.Listen(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
