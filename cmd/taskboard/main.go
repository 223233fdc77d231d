package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ent0n29/taskboard/internal/assist"
	"github.com/ent0n29/taskboard/internal/board"
	"github.com/ent0n29/taskboard/internal/config"
	"github.com/ent0n29/taskboard/internal/httpapi"
	"github.com/ent0n29/taskboard/internal/observability"
	"github.com/ent0n29/taskboard/internal/persist"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	db, err := persist.NewStore(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatalf("persistence init failed: %v", err)
	}
	defer db.Close()
	log.Printf("persistence backend: %s", db.Mode())

	store := board.NewStore(db, metrics)
	store.Hydrate(ctx)
	defer store.Close()

	provider, assistMode, err := assist.NewProvider(assist.Config{
		Mode:       cfg.AssistMode,
		APIURL:     cfg.AssistAPIURL,
		APIKey:     cfg.AssistAPIKey,
		Model:      cfg.AssistModel,
		MaxRetries: cfg.AssistMaxRetries,
		CacheTTL:   cfg.AssistCacheTTL,
	})
	if err != nil {
		log.Fatalf("assist provider init failed: %v", err)
	}
	assistSvc := assist.NewService(provider, assistMode, assist.Config{CacheTTL: cfg.AssistCacheTTL}, metrics)
	log.Printf("assist provider: %s", assistMode)

	api := httpapi.New(cfg, store, assistSvc, db.Mode(), metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
