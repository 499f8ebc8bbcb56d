package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/chatguard/bot-app/internal/audit"
	"github.com/chatguard/bot-app/internal/events"
)

func main() {
	log.Println("Starting chatguard auditor...")

	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	migrationsPath := "file://migrations"
	if v := os.Getenv("MIGRATIONS_PATH"); v != "" {
		migrationsPath = v
	}

	// --- Schema ---
	m, err := migrate.New(migrationsPath, databaseURL)
	if err != nil {
		log.Fatalf("failed to init migrations: %v", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("failed to run migrations: %v", err)
	}
	m.Close()

	// --- Postgres ---
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatalf("failed to open Postgres: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(ctx); err != nil {
		cancel()
		log.Fatalf("failed to connect to Postgres: %v", err)
	}
	cancel()
	store := audit.NewStore(db)

	// --- NATS ---
	natsConfig := events.DefaultConfig()
	if v := os.Getenv("NATS_URL"); v != "" {
		natsConfig.URL = v
	}
	natsConfig.Name = "chatguard-auditor"

	subscriber, err := events.NewSubscriber(natsConfig)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}

	err = subscriber.SubscribeEnforcement(func(event events.EnforcementEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := store.Insert(ctx, event); err != nil {
			log.Printf("[auditor] insert event %s: %v", event.EventID, err)
			return
		}
		if event.Handled() {
			log.Printf("[auditor] recorded: chat=%d user=%d phrase=%q", event.ChatID, event.UserID, event.Phrase)
		} else {
			log.Printf("[auditor] recorded PARTIAL: chat=%d user=%d banned=%v deleted=%v",
				event.ChatID, event.UserID, event.Banned, event.Deleted)
		}
	})
	if err != nil {
		log.Fatalf("failed to subscribe to enforcement events: %v", err)
	}

	log.Printf("chatguard auditor running")
	log.Printf("  nats_url: %s", natsConfig.URL)

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal %v, shutting down...", sig)

	subscriber.Close()
	db.Close()
}
