package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"

	"aichat/backend/internal/models"
	"aichat/backend/internal/storage"
)

const tokenLifetime = 72 * time.Hour

var errInvalidToken = errors.New("invalid or expired token")

// generateJWT issues a signed token carrying the user id.
func (h *Handler) generateJWT(userID uint) (string, error) {
	claims := jwt.MapClaims{
		"user_id": float64(userID),
		"exp":     time.Now().Add(tokenLifetime).Unix(),
		"iss":     "aichat-service",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Cfg.JWTSecret))
}

// parseToken validates a token and returns the user id it carries, together
// with the token's expiry. Revoked tokens are rejected.
func (h *Handler) parseToken(tokenString string) (uint, time.Time, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, time.Time{}, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, time.Time{}, errInvalidToken
	}
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, time.Time{}, errInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return 0, time.Time{}, errInvalidToken
	}

	revoked, err := h.Storage.IsTokenRevoked(tokenString)
	if err != nil {
		return 0, time.Time{}, err
	}
	if revoked {
		return 0, time.Time{}, errInvalidToken
	}

	return uint(rawID), exp.Time, nil
}

// bearerToken extracts the token from the Authorization header, falling
// back to the "token" query parameter for WebSocket clients.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}

// AuthRequired validates the session token and stores the caller's identity
// in the request context.
func (h *Handler) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}
		userID, exp, err := h.parseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}
		c.Set("user_id", userID)
		c.Set("token", tokenString)
		c.Set("token_exp", exp)
		c.Next()
	}
}

type registerRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

// Register creates a new account.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all fields correctly"})
		return
	}
	if req.Password != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	if _, err := h.Storage.GetUserByUsername(req.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed, please try again later"})
		return
	}
	if _, err := h.Storage.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered"})
		return
	} else if !errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed, please try again later"})
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
	}
	if err := user.SetPassword(req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed, please try again later"})
		return
	}
	if err := h.Storage.CreateUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed, please try again later"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and returns a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide username and password"})
		return
	}

	user, err := h.Storage.GetUserByUsername(req.Username)
	if err != nil || !user.CheckPassword(req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	token, err := h.generateJWT(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout revokes the active session token for its remaining lifetime.
func (h *Handler) Logout(c *gin.Context) {
	tokenString := c.GetString("token")
	exp, _ := c.MustGet("token_exp").(time.Time)
	if err := h.Storage.RevokeToken(tokenString, time.Until(exp)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Logout failed, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "You have been logged out"})
}

// Me returns the authenticated user's record.
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetUint("user_id")
	user, err := h.Storage.GetUserByID(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Bot exposes the AI responder's identity so clients know where to address
// their messages.
func (h *Handler) Bot(c *gin.Context) {
	bot, err := h.Storage.GetUserByUsername(h.Cfg.BotUsername)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System error: the assistant is not configured"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bot": bot})
}
