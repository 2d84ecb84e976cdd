package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User represents an account in the system.
// Exactly one user with IsBot=true acts as the AI responder; it is created
// lazily on startup and resolved by its configured username.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:120;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	IsBot        bool      `gorm:"default:false" json:"is_bot"`

	Posts            []Post      `gorm:"foreignKey:UserID" json:"-"`
	MessagesSent     []Message   `gorm:"foreignKey:SenderID" json:"-"`
	MessagesReceived []Message   `gorm:"foreignKey:RecipientID" json:"-"`
	Files            []FileShare `gorm:"foreignKey:UserID" json:"-"`
}

// SetPassword hashes the plaintext password with bcrypt.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compares a plaintext password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
