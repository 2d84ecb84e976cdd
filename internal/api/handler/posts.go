package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"aichat/backend/internal/models"
)

type createPostRequest struct {
	Title   string   `json:"title" binding:"required,max=100"`
	Content string   `json:"content" binding:"required"`
	Tags    []string `json:"tags"`
}

// CreatePost publishes a forum post authored by the caller.
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Title and content must not be empty"})
		return
	}

	post := &models.Post{
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
		UserID:    c.GetUint("user_id"),
		Tags:      pq.StringArray(req.Tags),
	}
	if err := h.Storage.CreatePost(post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Publishing failed, please try again later"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// ListPosts returns all posts, newest first.
func (h *Handler) ListPosts(c *gin.Context) {
	posts, err := h.Storage.ListPosts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost returns one post by id.
func (h *Handler) GetPost(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}
	post, err := h.Storage.GetPostByID(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}
