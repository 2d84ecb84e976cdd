package models

import "time"

// FileShare describes an uploaded file. Filename is the name on disk
// (generated), OriginalFilename is the name the uploader supplied.
type FileShare struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Filename         string    `gorm:"size:255;not null" json:"filename"`
	OriginalFilename string    `gorm:"size:255;not null;index" json:"original_filename"`
	FileSize         int64     `gorm:"not null" json:"file_size"`
	FileType         string    `gorm:"size:50;index" json:"file_type"`
	UploadTime       time.Time `gorm:"index" json:"upload_time"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	Description      string    `gorm:"size:500" json:"description"`
}
