package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"resolve/backend/internal/ai"
	"resolve/backend/internal/alerts"
	"resolve/backend/internal/analytics"
	"resolve/backend/internal/api/handler"
	"resolve/backend/internal/config"
	"resolve/backend/internal/feed"
	"resolve/backend/internal/files"
	"resolve/backend/internal/models"
	"resolve/backend/internal/security"
	"resolve/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		env("DB_HOST", "localhost"),
		env("DB_USER", "user"),
		env("DB_PASSWORD", "password"),
		env("DB_NAME", "resolvedb"),
		env("DB_PORT", "5432"),
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     env("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції (Створення таблиць)
	err = db.AutoMigrate(
		&models.User{},
		&models.Profile{},
		&models.UserRole{},
		&models.Complaint{},
		&models.Comment{},
		&models.Attachment{},
		&models.Rating{},
		&models.SecurityLog{},
		&models.SuspiciousActivity{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting Resolve Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET не встановлено!")
	}

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)

	store, err := files.NewStore(env("UPLOAD_DIR", "uploads"))
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	gateway := ai.NewGateway(
		env("AI_GATEWAY_URL", "https://openrouter.ai/api/v1/chat/completions"),
		os.Getenv("AI_GATEWAY_KEY"),
		config.AITimeout,
	)

	// 2. Hub, монітор безпеки та аналітика
	hub := feed.NewHub(s)
	monitor := security.NewMonitor(s, config.DetectionInterval)
	dashboard := analytics.NewDashboard(s)

	h := handler.NewHandler(s, hub, gateway, store, monitor, dashboard, []byte(secret))

	// Telegram-алерти опціональні: без токена сервіс працює далі
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_ADMIN_CHAT_ID"), 10, 64)
		if err != nil {
			log.Fatalf("Invalid TELEGRAM_ADMIN_CHAT_ID: %v", err)
		}
		alerter, err := alerts.NewAlerter(token, chatID)
		if err != nil {
			log.Fatalf("Не вдалося запустити Telegram-бота: %v", err)
		}
		h.Alerter = alerter
		go alerter.Run()
	}

	// 3. Запуск основних Goroutines
	hub.StartFeedListener() // Слухач Redis Pub/Sub
	dashboard.Watch(s)      // Аналітика слухає зміни скарг
	go hub.Run()            // Головний диспетчер
	go monitor.Run()        // Періодична детекція аномалій

	// 4. Налаштування Gin та роутингу
	r := gin.Default()

	auth := r.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/verify", h.VerifyEmail)
		auth.POST("/signin", h.SignIn)
		auth.POST("/signout", h.AuthRequired(), h.SignOut)
		auth.GET("/session", h.AuthRequired(), h.Session)
	}

	r.GET("/ws", h.ServeWebSocket) // WebSocket Upgrade, токен у query

	api := r.Group("/api", h.AuthRequired(), h.VerifiedRequired())
	{
		api.POST("/complaints", h.CreateComplaint)
		api.GET("/complaints", h.ListComplaints)
		api.GET("/complaints/:id", h.GetComplaint)

		api.POST("/complaints/:id/comments", h.CreateComment)
		api.GET("/complaints/:id/comments", h.ListComments)

		api.POST("/complaints/:id/attachments", h.UploadAttachments)
		api.GET("/complaints/:id/attachments", h.ListAttachments)

		api.POST("/complaints/:id/rating", h.CreateRating)
		api.GET("/complaints/:id/rating", h.GetRating)

		api.POST("/ai/assist", h.Assist)
	}

	admin := r.Group("/api/admin", h.AuthRequired(), h.VerifiedRequired(), h.AdminRequired())
	{
		admin.PATCH("/complaints/:id/status", h.UpdateComplaintStatus)
		admin.POST("/complaints/:id/replies", h.GenerateReplies)
		admin.GET("/analytics", h.GetAnalytics)
		admin.GET("/security-logs", h.ListSecurityLogs)
		admin.GET("/suspicious-activities", h.ListSuspiciousActivities)
		admin.POST("/suspicious-activities/:id/resolve", h.ResolveSuspiciousActivity)
		admin.POST("/detect", h.RunDetection)
	}

	// Запуск HTTP-сервера
	server := &http.Server{
		Addr:           ":" + env("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
