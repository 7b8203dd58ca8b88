package main

import (
	"log"
	"os"

	"blood-orders/internal/api"
	"blood-orders/internal/config"
	"blood-orders/internal/store"
	"blood-orders/internal/stream"
)

func main() {
	cfg, err := config.Load(os.Getenv("BLOOD_ORDERS_CONFIG"))
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	repo, err := buildRepository(cfg)
	if err != nil {
		log.Fatalf("initializing store: %v", err)
	}

	hub := stream.NewHub()
	hub.Start()
	defer hub.Stop()

	router := api.NewRouter(repo, hub)

	log.Printf("order API listening on %s (store=%s)", cfg.ListenAddr, cfg.Store)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func buildRepository(cfg *config.Config) (store.Repository, error) {
	if cfg.Store == config.StoreMemory {
		return store.NewMemoryRepository(), nil
	}

	db, err := store.Open(cfg.DBConfig())
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(db); err != nil {
		return nil, err
	}
	return store.NewGormRepository(db), nil
}
