package handler

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aichat/backend/internal/models"
)

// allowedExtensions is the upload allow-list.
var allowedExtensions = map[string]bool{
	".txt": true, ".pdf": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
}

// UploadFile stores a shared file under a generated name and records it.
func (h *Handler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if fileHeader.Size > h.Cfg.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File is too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type is not allowed"})
		return
	}

	storedName := uuid.New().String() + ext
	dst := filepath.Join(h.Cfg.UploadDir, storedName)
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed, please try again later"})
		return
	}

	file := &models.FileShare{
		Filename:         storedName,
		OriginalFilename: fileHeader.Filename,
		FileSize:         fileHeader.Size,
		FileType:         strings.TrimPrefix(ext, "."),
		UploadTime:       time.Now().UTC(),
		UserID:           c.GetUint("user_id"),
		Description:      c.PostForm("description"),
	}
	if err := h.Storage.SaveFileShare(file); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed, please try again later"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"file": file})
}

// ListFiles returns all shared files, newest first.
func (h *Handler) ListFiles(c *gin.Context) {
	files, err := h.Storage.ListFileShares()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}
