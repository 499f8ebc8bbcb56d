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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/chatguard/bot-app/internal/admin"
	"github.com/chatguard/bot-app/internal/enforce"
	"github.com/chatguard/bot-app/internal/events"
	"github.com/chatguard/bot-app/internal/metrics"
	"github.com/chatguard/bot-app/internal/moderation"
	"github.com/chatguard/bot-app/internal/ocr"
	"github.com/chatguard/bot-app/internal/phrase"
	"github.com/chatguard/bot-app/internal/telegram"
)

func main() {
	log.Println("Starting chatguard moderation bot...")

	// .env is a convenience for local runs; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err == nil {
		log.Println("loaded configuration from .env")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		log.Fatal("BOT_TOKEN is required")
	}

	adminUsernames := splitList(os.Getenv("ADMIN_USERNAMES"))
	if len(adminUsernames) == 0 {
		log.Fatal("ADMIN_USERNAMES is required (comma-separated Telegram usernames)")
	}

	phrasesFile := "banned_phrases.txt"
	if v := os.Getenv("PHRASES_FILE"); v != "" {
		phrasesFile = v
	}
	imageWordsFile := "banned_image_words.txt"
	if v := os.Getenv("IMAGE_WORDS_FILE"); v != "" {
		imageWordsFile = v
	}

	ocrURL := "http://localhost:8484"
	if v := os.Getenv("OCR_URL"); v != "" {
		ocrURL = v
	}

	// --- Deny-list stores ---
	textStore, err := phrase.NewStore(phrase.CategoryText, phrasesFile)
	if err != nil {
		log.Fatalf("failed to load text deny-list: %v", err)
	}
	imageStore, err := phrase.NewStore(phrase.CategoryImage, imageWordsFile)
	if err != nil {
		log.Fatalf("failed to load image deny-list: %v", err)
	}
	metrics.DenyListSize.WithLabelValues(string(phrase.CategoryText)).Set(float64(textStore.Len()))
	metrics.DenyListSize.WithLabelValues(string(phrase.CategoryImage)).Set(float64(imageStore.Len()))

	// --- Redis (optional offense ledger) ---
	var ledger *enforce.Ledger
	var rdb *redis.Client
	if redisAddr := os.Getenv("REDIS_ADDR"); redisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: redisAddr})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			cancel()
			log.Fatalf("failed to connect to Redis: %v", err)
		}
		cancel()
		ledger = enforce.NewLedger(rdb)
	}

	// --- NATS (optional enforcement events) ---
	var publisher *events.Publisher
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		natsConfig := events.DefaultConfig()
		natsConfig.URL = natsURL
		natsConfig.Name = "chatguard-bot"
		publisher, err = events.NewPublisher(natsConfig)
		if err != nil {
			log.Fatalf("failed to connect to NATS: %v", err)
		}
	}

	// --- Telegram ---
	tb, err := telegram.Connect(token)
	if err != nil {
		log.Fatalf("failed to connect to Telegram: %v", err)
	}
	actions := telegram.NewActions(tb)

	// --- Moderation pipeline ---
	matcher := moderation.NewMatcher(textStore, imageStore)
	enforcer := enforce.NewEnforcer(actions, ledger, publisher)
	ocrClient := ocr.NewClient(ocrURL, nil)
	decider := moderation.NewDecider(matcher, actions, actions, ocrClient, enforcer, nil)

	adminHandler := admin.NewHandler(adminUsernames, textStore, imageStore)
	bot := telegram.NewBot(tb, adminHandler, decider)

	// --- Metrics endpoint (optional) ---
	metricsAddr := os.Getenv("METRICS_ADDR")
	if metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(metricsAddr, mux); err != nil {
				log.Printf("[metrics] server stopped: %v", err)
			}
		}()
	}

	log.Printf("chatguard bot running")
	log.Printf("  admins:           %s", strings.Join(adminUsernames, ", "))
	log.Printf("  phrases_file:     %s (%d entries)", phrasesFile, textStore.Len())
	log.Printf("  image_words_file: %s (%d entries)", imageWordsFile, imageStore.Len())
	log.Printf("  ocr_url:          %s", ocrURL)
	log.Printf("  redis:            %v", rdb != nil)
	log.Printf("  nats:             %v", publisher != nil)
	log.Printf("  metrics_addr:     %s", metricsAddr)

	go bot.Start()

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("received signal %v, shutting down...", sig)

	bot.Stop()
	publisher.Close()
	if rdb != nil {
		rdb.Close()
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
