package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"anonchatik/backend/internal/api/handler"
	"anonchatik/backend/internal/config"
	"anonchatik/backend/internal/localization"
	"anonchatik/backend/internal/matchmaking"
	"anonchatik/backend/internal/models"
	"anonchatik/backend/internal/payment"
	"anonchatik/backend/internal/storage"
	"anonchatik/backend/internal/telegram"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	if err := db.AutoMigrate(&models.Profile{}, &models.ChatSession{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting anonchatik backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file loaded")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db, rdb)
	if err := store.WarmCache(); err != nil {
		log.Fatalf("Failed to warm profile cache: %v", err)
	}

	// Live pairing state does not survive a restart; close leftovers so
	// the history table agrees with the empty in-memory registry.
	if n, err := store.CloseAllActiveSessions(); err != nil {
		log.Printf("WARN: failed to close stale sessions: %v", err)
	} else if n > 0 {
		log.Printf("closed %d sessions left over from a previous run", n)
	}
	if err := store.ClearSearchSet(); err != nil {
		log.Printf("WARN: failed to clear search queue mirror: %v", err)
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to start Telegram bot: %v", err)
	}
	bot.Debug = false
	log.Printf("✅ Authorized on account %s", bot.Self.UserName)

	localizer, err := localization.NewLocalizer(cfg.LocalesDir)
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	notifier := telegram.NewNotifier(bot, store, localizer)
	engine := matchmaking.NewEngine(store.GetProfile, notifier, storage.NewRecorder(store))

	payClient := payment.NewClient(cfg.CryptoPayToken)
	botService := telegram.NewBotService(bot, engine, store, localizer, payClient, cfg.PremiumPriceRUB)
	go botService.Run()

	r := gin.Default()
	h := handler.NewHandler(engine, store, cfg.APISecret)

	r.GET("/healthz", h.Healthz)
	r.POST("/auth/token", h.IssueToken)
	authed := r.Group("/", h.AuthRequired())
	authed.GET("/stats", h.GetStats)
	authed.GET("/ws", h.ServeStatsWS)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   0, // the stats WS holds the connection open
		MaxHeaderBytes: 1 << 20,
	}
	log.Fatal(server.ListenAndServe())
}
