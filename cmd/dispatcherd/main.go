package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sereenat7/DISHA-sub001/internal/config"
	"github.com/sereenat7/DISHA-sub001/internal/feed"
	"github.com/sereenat7/DISHA-sub001/internal/policy"
	"github.com/sereenat7/DISHA-sub001/internal/provider"
	"github.com/sereenat7/DISHA-sub001/internal/roster"
	"github.com/sereenat7/DISHA-sub001/internal/service"
	"github.com/sereenat7/DISHA-sub001/internal/store"
	transport "github.com/sereenat7/DISHA-sub001/internal/transport/http"
)

func main() {
	// Load configuration
	cfg := config.Load()

	log.Printf("Starting dispatcher...")
	log.Printf("External HTTP Port: %d", cfg.HTTPPort)
	log.Printf("Internal HTTP Port: %d", cfg.InternalPort)
	log.Printf("Database: %s", cfg.DatabaseURL)
	log.Printf("Provider mode: %s", cfg.ProviderMode)

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer db.Close()

	// Initialize provider client
	notifier := provider.NewNotifier(cfg.ProviderMode, cfg.TwilioBaseURL, cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.CallTimeout)
	if !cfg.ProviderConfigured() {
		log.Printf("WARN: provider mode %s is missing credentials; dispatch triggers will be rejected", cfg.ProviderMode)
	}

	// Initialize policy engine
	ctx := context.Background()
	policyContent := policy.DefaultPolicy
	if cfg.PolicyPath != "" {
		data, err := os.ReadFile(cfg.PolicyPath)
		if err != nil {
			log.Fatalf("Failed to read policy file: %v", err)
		}
		policyContent = string(data)
		log.Printf("Policy loaded from %s", cfg.PolicyPath)
	}
	policyEngine, err := policy.NewEngine(ctx, policyContent)
	if err != nil {
		log.Fatalf("Failed to initialize policy engine: %v", err)
	}

	// Load the default contact roster when configured
	var defaults *roster.Roster
	if cfg.RosterPath != "" {
		defaults, err = roster.Load(cfg.RosterPath)
		if err != nil {
			log.Fatalf("Failed to load roster: %v", err)
		}
		log.Printf("Roster loaded: %d contacts from %s", len(defaults.Contacts), cfg.RosterPath)
	}

	// Initialize feed hub
	hub := feed.NewHub()
	go hub.Run()

	// Initialize service
	svc := service.New(db, notifier, hub, policyEngine, defaults, cfg)

	// Create servers
	externalServer := transport.NewExternalServer(svc, hub, cfg)
	internalServer := transport.NewInternalServer(svc)

	// Start external server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := externalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start external server: %v", err)
		}
	}()

	// Start internal server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.InternalPort)
		if err := internalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start internal server: %v", err)
		}
	}()

	log.Printf("External API started on port %d", cfg.HTTPPort)
	log.Printf("Internal API started on port %d", cfg.InternalPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down dispatcher...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown both servers
	if err := externalServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown external server gracefully: %v", err)
	}
	if err := internalServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Failed to shutdown internal server gracefully: %v", err)
	}

	log.Println("Dispatcher stopped")
}
