package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nickkhg/rewind/internal/adminauth"
	"github.com/nickkhg/rewind/internal/app"
	"github.com/nickkhg/rewind/internal/config"
	"github.com/nickkhg/rewind/internal/live"
	"github.com/nickkhg/rewind/internal/search"
	"github.com/nickkhg/rewind/internal/session"
	"github.com/nickkhg/rewind/internal/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	db, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	if err := store.ApplyMigrations(ctx, db, cfg.MigrationsDir); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}

	dataStore := store.NewPostgresStore(db)

	pgfts := search.NewPgFTS(db)
	var meiliClient *search.Meili
	if strings.TrimSpace(cfg.MeiliURL) != "" {
		meiliClient = search.NewMeili(cfg.MeiliURL, cfg.MeiliMasterKey)
	}
	searchService := search.NewService(meiliClient, pgfts)
	defer searchService.Close()

	// Verdict cache for the admin token: Redis when configured, in-process
	// otherwise.
	var verdictCache adminauth.VerdictCache
	if strings.TrimSpace(cfg.RedisURL) != "" {
		log.Printf("Using Redis for admin verdict caching")
		redisCache, err := session.NewRedisCache(cfg.RedisURL)
		if err != nil {
			log.Fatalf("redis connection failed: %v", err)
		}
		defer redisCache.Close()
		verdictCache = redisCache
	} else {
		log.Printf("Using in-memory admin verdict caching")
		verdictCache = session.NewMemoryCache()
	}

	adminVerifier, err := adminauth.NewVerifier(cfg.AdminTokenHash, verdictCache, cfg.AdminCacheTTL)
	if err != nil {
		log.Fatalf("admin token hash invalid: %v", err)
	}
	if !adminVerifier.Enabled() {
		log.Printf("WARNING: ADMIN_TOKEN_HASH not set, admin endpoints disabled")
	}

	registry := live.NewRegistry()
	snapshots := live.NewSnapshotStore()
	dispatcher := live.NewDispatcher(dataStore, snapshots)
	liveHandler := live.NewHandler(dataStore, registry, dispatcher, searchService)

	service := app.NewService(dataStore, registry, snapshots, adminVerifier, searchService)
	httpServer := app.NewHTTPServer(service, liveHandler, cfg.CORSOrigin)

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpServer.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No read/write timeouts: websocket sessions stay open for the whole
		// retrospective.
	}

	go func() {
		log.Printf("Rewind API listening on %s", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
