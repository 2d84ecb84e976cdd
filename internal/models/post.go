package models

import (
	"time"

	"github.com/lib/pq"
)

// Post is an authored forum entry. Posts are removed together with their
// author.
type Post struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Title     string         `gorm:"size:100;not null" json:"title"`
	Content   string         `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Tags      pq.StringArray `gorm:"type:text[]" json:"tags"`
}
