package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tamapet-data-api/internal/config"
	"tamapet-data-api/internal/database"
	"tamapet-data-api/internal/handler"
	"tamapet-data-api/internal/repository"
	"tamapet-data-api/internal/router"
	"tamapet-data-api/internal/service"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting tamapet data API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize the connection manager. A store failure is fatal; a
	// cache failure leaves the manager degraded but functional.
	mgr, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize connections: %v", err)
	}

	// Build the repositories for the configured store backend
	petRepo, shopRepo, err := repository.New(mgr)
	if err != nil {
		mgr.Close()
		log.Fatalf("Failed to initialize repositories: %v", err)
	}
	log.Printf("%s repositories initialized", mgr.StoreType())

	// Initialize services
	petService := service.NewPetService(petRepo)
	shopService := service.NewShopService(shopRepo)

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(mgr, cfg.App.Version)
	petHandler := handler.NewPetHandler(petService)
	shopHandler := handler.NewShopHandler(shopService)

	// Create router
	r := router.New(router.Config{
		HealthHandler: healthHandler,
		PetHandler:    petHandler,
		ShopHandler:   shopHandler,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Drain in-flight requests first so no unit of work is interrupted
	// mid-transaction, then release the pool and cache client.
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := mgr.Close(); err != nil {
		log.Printf("Connection close error: %v", err)
	}

	log.Println("Server stopped")
}
