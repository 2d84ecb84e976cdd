package storage

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"aichat/backend/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Storage is the persistence surface used by the rest of the application.
type Storage interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	EnsureBotUser(username, email string) (*models.User, error)
	DeleteUser(id uint) error

	SaveMessage(msg *models.Message) error
	GetConversation(userID, peerID uint, limit int) ([]models.Message, error)
	MarkMessagesRead(senderID, recipientID uint) (int64, error)

	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	ListPosts() ([]models.Post, error)

	SaveFileShare(file *models.FileShare) error
	ListFileShares() ([]models.FileShare, error)

	RevokeToken(token string, ttl time.Duration) error
	IsTokenRevoked(token string) (bool, error)
	SetUserOnline(userID uint, connID string) error
	SetUserOffline(userID uint, connID string) error
	IsUserOnline(userID uint) (bool, error)
}

// Service implements Storage on PostgreSQL (GORM) and Redis.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewService constructs a Service. The Redis client may be nil for tools
// that only touch the relational store.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// Migrate creates or updates the schema for all entities.
func (s *Service) Migrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Post{},
		&models.FileShare{},
	)
}

// --- Users ---

func (s *Service) CreateUser(user *models.User) error {
	return s.DB.Create(user).Error
}

func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// EnsureBotUser returns the bot user with the given username, creating it
// if absent. The generated password is random; nobody logs in as the bot.
func (s *Service) EnsureBotUser(username, email string) (*models.User, error) {
	defaults := models.User{
		Username: username,
		Email:    email,
		IsBot:    true,
	}
	if err := defaults.SetPassword(uuid.New().String()); err != nil {
		return nil, err
	}

	var bot models.User
	result := s.DB.Where("username = ? AND is_bot = ?", username, true).
		Attrs(defaults).
		FirstOrCreate(&bot)
	if result.Error != nil {
		log.Printf("ERROR: Failed to ensure bot user %q: %v", username, result.Error)
		return nil, result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("INFO: Bot user %q created with id %d.", username, bot.ID)
	}
	return &bot, nil
}

// DeleteUser removes a user together with their posts, file shares and sent
// messages in one transaction. Messages the user only received are kept.
func (s *Service) DeleteUser(id uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.FileShare{}).Error; err != nil {
			return err
		}
		if err := tx.Where("sender_id = ?", id).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

// --- Messages ---

// SaveMessage stores a message. The row ID is filled in on success.
func (s *Service) SaveMessage(msg *models.Message) error {
	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Create(msg).Error
	}); err != nil {
		log.Printf("ERROR: Failed to save message from %d to %d: %v", msg.SenderID, msg.RecipientID, err)
		return err
	}
	return nil
}

// GetConversation returns the most recent messages exchanged between two
// users, oldest first.
func (s *Service) GetConversation(userID, peerID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := s.DB.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, peerID, peerID, userID).
		Order("timestamp desc").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// MarkMessagesRead flips every "sent" message from senderID to recipientID
// into "read" with read_at set, as a single update. Returns the number of
// rows touched.
func (s *Service) MarkMessagesRead(senderID, recipientID uint) (int64, error) {
	result := s.DB.Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND status = ?",
			senderID, recipientID, models.StatusSent).
		Updates(map[string]interface{}{
			"status":  models.StatusRead,
			"read_at": time.Now().UTC(),
		})
	if result.Error != nil {
		log.Printf("ERROR: Failed to mark messages read (%d -> %d): %v", senderID, recipientID, result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// --- Posts ---

func (s *Service) CreatePost(post *models.Post) error {
	return s.DB.Create(post).Error
}

func (s *Service) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	err := s.DB.First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *Service) ListPosts() ([]models.Post, error) {
	var posts []models.Post
	if err := s.DB.Order("created_at desc").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// --- File shares ---

func (s *Service) SaveFileShare(file *models.FileShare) error {
	return s.DB.Create(file).Error
}

func (s *Service) ListFileShares() ([]models.FileShare, error) {
	var files []models.FileShare
	if err := s.DB.Order("upload_time desc").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

// --- Sessions and presence (Redis) ---

// RevokeToken blacklists a session token until it would have expired.
func (s *Service) RevokeToken(token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.Redis.Set(s.Ctx, "revoked:"+token, "1", ttl).Err()
}

// IsTokenRevoked reports whether a token was blacklisted by logout.
func (s *Service) IsTokenRevoked(token string) (bool, error) {
	_, err := s.Redis.Get(s.Ctx, "revoked:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetUserOnline records a live connection for the user.
func (s *Service) SetUserOnline(userID uint, connID string) error {
	return s.Redis.SAdd(s.Ctx, presenceKey(userID), connID).Err()
}

// SetUserOffline removes a connection from the user's presence set.
func (s *Service) SetUserOffline(userID uint, connID string) error {
	return s.Redis.SRem(s.Ctx, presenceKey(userID), connID).Err()
}

// IsUserOnline reports whether any connection is joined to the user's
// channel.
func (s *Service) IsUserOnline(userID uint) (bool, error) {
	n, err := s.Redis.SCard(s.Ctx, presenceKey(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func presenceKey(userID uint) string {
	return "online:" + strconv.FormatUint(uint64(userID), 10)
}
