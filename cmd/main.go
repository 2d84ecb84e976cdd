package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"aichat/backend/internal/ai"
	"aichat/backend/internal/api/handler"
	"aichat/backend/internal/chat"
	"aichat/backend/internal/chathub"
	"aichat/backend/internal/config"
	"aichat/backend/internal/memory"
	"aichat/backend/internal/storage"
)

func setupDependencies(cfg config.Config) *storage.Service {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	s := storage.NewService(db, rdb)
	if err := s.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return s
}

func main() {
	log.Println("Starting AI Chat Backend...")

	cfg := config.Load()

	s := setupDependencies(cfg)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatalf("Failed to create upload directory: %v", err)
	}

	// The bot identity is a hard requirement: without it the real-time
	// layer cannot run.
	bot, err := s.EnsureBotUser(cfg.BotUsername, cfg.BotEmail)
	if err != nil {
		log.Fatalf("Failed to initialize bot user: %v", err)
	}

	mem := memory.NewStore()
	responder := ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel, mem)

	hub := chathub.NewHub(s)
	go hub.Run()

	orchestrator, err := chat.NewOrchestrator(s, hub, responder, bot.ID)
	if err != nil {
		log.Fatalf("Failed to initialize orchestrator: %v", err)
	}

	r := gin.Default()
	h := handler.NewHandler(s, hub, orchestrator, cfg)

	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)

	authed := r.Group("/", h.AuthRequired())
	authed.POST("/api/logout", h.Logout)
	authed.GET("/api/me", h.Me)
	authed.GET("/api/bot", h.Bot)
	authed.GET("/api/messages", h.ListMessages)
	authed.GET("/api/posts", h.ListPosts)
	authed.POST("/api/posts", h.CreatePost)
	authed.GET("/api/posts/:id", h.GetPost)
	authed.GET("/api/files", h.ListFiles)
	authed.POST("/api/files", h.UploadFile)

	r.GET("/ws", h.ServeWebSocket)

	server := &http.Server{
		Addr:           cfg.HTTPAddr,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
