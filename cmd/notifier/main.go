package main

import (
	"context"
	"log"
	"os"

	"surplus-restock-notifier/internal/cache"
	"surplus-restock-notifier/internal/config"
	"surplus-restock-notifier/internal/enrich"
	"surplus-restock-notifier/internal/repository"
	"surplus-restock-notifier/internal/ringcentral"
	"surplus-restock-notifier/internal/service"
	"surplus-restock-notifier/internal/state"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Surplus Restock Notifier...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize source repository based on config
	var source repository.SourceRepository
	var err error
	switch cfg.SourceDB.Type {
	case "mysql":
		source, err = repository.NewMySQLSourceRepository(cfg.SourceDB.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL source: %v", err)
		}
		log.Println("MySQL source repository initialized")
	default: // postgres
		source, err = repository.NewPostgresSourceRepository(cfg.SourceDB.PostgresDSN())
		if err != nil {
			log.Fatalf("Failed to initialize PostgreSQL source: %v", err)
		}
		log.Println("PostgreSQL source repository initialized")
	}
	defer source.Close()

	// Initialize run-state store based on config
	var store state.Store
	switch cfg.State.Type {
	case "sqlite":
		store, err = state.NewSQLiteStore(cfg.State.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite state store: %v", err)
		}
		log.Println("SQLite state store initialized")
	default: // file
		store, err = state.NewFileStore(cfg.State.Path)
		if err != nil {
			log.Fatalf("Failed to initialize file state store: %v", err)
		}
		log.Println("File state store initialized")
	}
	defer store.Close()

	// Initialize component-lookup cache (optional)
	var lookupCache cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		lookupCache, err = cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			log.Printf("Warning: Redis cache unavailable, lookups uncached: %v", err)
			lookupCache = nil
		} else {
			log.Println("Redis lookup cache initialized")
		}
	case "none":
		// uncached lookups
	default: // memory
		lookupCache = cache.NewMemoryCache()
		log.Println("Memory lookup cache initialized")
	}
	if lookupCache != nil {
		defer lookupCache.Close()
	}

	// Initialize chat client
	chat, err := ringcentral.NewClient(ringcentral.ClientConfig{
		ServerURL:    cfg.RingCentral.ServerURL,
		ClientID:     cfg.RingCentral.ClientID,
		ClientSecret: cfg.RingCentral.ClientSecret,
		JWT:          cfg.RingCentral.JWT,
		ChatID:       cfg.RingCentral.ChatID,
		HTTPTimeout:  cfg.RingCentral.HTTPTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize chat client: %v", err)
	}

	// Wire the run
	enricher := enrich.NewEnricher(source, lookupCache, cfg.Cache.TTL)
	dispatcher := service.NewDispatcher(source, chat)
	runner := service.NewRunner(store, source, enricher, dispatcher)

	report, err := runner.Run(context.Background())
	if err != nil {
		os.Exit(1)
	}
	log.Printf("Run %s complete: %s", report.RunID, report.Outcome)
}
