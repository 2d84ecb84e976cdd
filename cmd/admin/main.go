package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"aichat/backend/internal/config"
	"aichat/backend/internal/storage"
)

func main() {
	cfg := loadAdminConfig()

	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	s := storage.NewService(db, nil) // No redis needed for admin CLI

	if len(os.Args) < 2 {
		fmt.Println("Usage: admin <command> [args]")
		os.Exit(1)
	}

	switch os.Args[1] {
	case "init-bot":
		bot, err := s.EnsureBotUser(cfg.BotUsername, cfg.BotEmail)
		if err != nil {
			log.Fatalf("Error initializing bot user: %v", err)
		}
		fmt.Printf("Bot user %q ready (id %d).\n", bot.Username, bot.ID)
	case "list-users":
		if err := listUsers(s); err != nil {
			log.Fatalf("Error listing users: %v", err)
		}
	case "delete-user":
		if len(os.Args) != 3 {
			fmt.Println("Usage: admin delete-user <user_id>")
			os.Exit(1)
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 32)
		if err != nil {
			fmt.Println("Invalid user id. Please provide an integer.")
			os.Exit(1)
		}
		if err := deleteUser(s, uint(id)); err != nil {
			log.Fatalf("Error deleting user: %v", err)
		}
		fmt.Printf("User %d deleted together with their posts, files and sent messages.\n", id)
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

// loadAdminConfig reads the same environment as the server but only needs
// the database and bot settings, so the secret checks in config.Load are
// skipped.
func loadAdminConfig() config.Config {
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
	}
	botUsername := os.Getenv("BOT_USERNAME")
	if botUsername == "" {
		botUsername = config.DefaultBotUsername
	}
	botEmail := os.Getenv("BOT_EMAIL")
	if botEmail == "" {
		botEmail = config.DefaultBotEmail
	}
	return config.Config{
		DatabaseDSN: dsn,
		BotUsername: botUsername,
		BotEmail:    botEmail,
	}
}

func listUsers(s *storage.Service) error {
	var users []struct {
		ID       uint
		Username string
		Email    string
		IsBot    bool
	}
	if err := s.DB.Table("users").Select("id", "username", "email", "is_bot").Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		marker := ""
		if u.IsBot {
			marker = " [bot]"
		}
		fmt.Printf("%d\t%s\t%s%s\n", u.ID, u.Username, u.Email, marker)
	}
	return nil
}

func deleteUser(s *storage.Service, id uint) error {
	user, err := s.GetUserByID(id)
	if err != nil {
		return err
	}
	if user.IsBot {
		return fmt.Errorf("refusing to delete the bot user %q", user.Username)
	}
	return s.DeleteUser(id)
}
