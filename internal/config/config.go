package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Default bot identity, shared with the admin CLI so the responder account
// resolves to the same row everywhere.
const (
	DefaultBotUsername = "ai_assistant"
	DefaultBotEmail    = "ai@assistant.com"
)

// Config holds every runtime setting, loaded from the environment.
type Config struct {
	HTTPAddr      string
	DatabaseDSN   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string

	AIAPIKey  string
	AIBaseURL string
	AIModel   string

	BotUsername string
	BotEmail    string

	UploadDir     string
	MaxUploadSize int64
}

// Load reads the optional .env file and builds the configuration.
// Secrets without usable defaults are required.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DatabaseDSN:   getEnv("DATABASE_DSN", "host=localhost user=user password=password dbname=aichatdb port=5432 sslmode=disable"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		JWTSecret:     getEnv("JWT_SECRET", ""),
		AIAPIKey:      getEnv("AI_API_KEY", ""),
		AIBaseURL:     getEnv("AI_BASE_URL", "https://api.deepseek.com/v1"),
		AIModel:       getEnv("AI_MODEL", "deepseek-chat"),
		BotUsername:   getEnv("BOT_USERNAME", DefaultBotUsername),
		BotEmail:      getEnv("BOT_EMAIL", DefaultBotEmail),
		UploadDir:     getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 50<<20),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}
	if cfg.AIAPIKey == "" {
		log.Fatal("AI_API_KEY environment variable is required")
	}

	return cfg
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}
