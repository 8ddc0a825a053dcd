package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwebster45206/overland/internal/config"
	"github.com/jwebster45206/overland/internal/handlers"
	"github.com/jwebster45206/overland/internal/logger"
	"github.com/jwebster45206/overland/internal/middleware"
	"github.com/jwebster45206/overland/internal/services/events"
	"github.com/jwebster45206/overland/internal/storage"
	"github.com/jwebster45206/overland/pkg/dice"
	"github.com/jwebster45206/overland/pkg/encounter"
	"github.com/jwebster45206/overland/pkg/progression"
	"github.com/jwebster45206/overland/pkg/state"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting Overland API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"world_width", cfg.WorldWidth,
		"world_height", cfg.WorldHeight)

	store, err := storage.NewRedisStorage(storage.Options{
		RedisURL:        cfg.RedisURL,
		DataDir:         cfg.DataDir,
		EncounterTables: cfg.EncounterTables,
		SessionTTL:      cfg.SessionTTL,
	}, log)
	if err != nil {
		log.Error("Failed to configure storage", "error", err)
		os.Exit(1)
	}

	storageCtx, storageCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer storageCancel()
	if err := store.WaitForConnection(storageCtx, 30, 2*time.Second); err != nil {
		log.Error("Failed to connect to storage", "error", err)
		os.Exit(1)
	}
	log.Info("Storage connection established successfully")

	tables, err := store.GetEncounterTables(storageCtx)
	if err != nil {
		log.Error("Failed to load encounter tables", "error", err, "path", cfg.EncounterTables)
		os.Exit(1)
	}
	resolver, err := encounter.NewResolver(tables, nil, log)
	if err != nil {
		log.Error("Invalid encounter tables", "error", err)
		os.Exit(1)
	}
	roller := dice.NewRoller(nil)
	engine := state.NewEngine(resolver, roller, progression.ClassHitDice{}, log)
	broadcaster := events.NewBroadcaster(store.Client(), log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(store, log)
	mux.Handle("/health", healthHandler)

	sessionHandler := handlers.NewSessionHandler(store, engine, broadcaster, handlers.SessionDefaults{
		Width:    cfg.WorldWidth,
		Height:   cfg.WorldHeight,
		Options:  cfg.WorldOptions(),
		Settings: cfg.EncounterSettings(),
	}, log)
	mux.Handle("/v1/sessions", sessionHandler)
	mux.Handle("/v1/sessions/", sessionHandler)

	characterHandler := handlers.NewCharacterHandler(store, log)
	mux.Handle("/v1/characters", characterHandler)
	mux.Handle("/v1/characters/", characterHandler)

	diceHandler := handlers.NewDiceHandler(roller, log)
	mux.Handle("/v1/dice/", diceHandler)

	handler := middleware.Chain(mux,
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recover(log))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
	}

	if err := store.Close(); err != nil {
		log.Error("Error closing storage connection", "error", err)
	}

	log.Info("Server exited")
}
