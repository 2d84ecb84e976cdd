package models_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aichat/backend/internal/models"
)

func TestUserPassword(t *testing.T) {
	user := &models.User{Username: "alice", Email: "alice@example.com"}

	require.NoError(t, user.SetPassword("correct horse"))
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correct horse", user.PasswordHash, "password is never stored in plaintext")

	assert.True(t, user.CheckPassword("correct horse"))
	assert.False(t, user.CheckPassword("wrong horse"))
}

// TestUserStructTags verifies the tags that keep credentials private and
// identities unique (useful for catching accidental tag removal during
// refactoring).
func TestUserStructTags(t *testing.T) {
	userType := reflect.TypeOf(models.User{})

	hashField, found := userType.FieldByName("PasswordHash")
	require.True(t, found)
	assert.Equal(t, "-", hashField.Tag.Get("json"), "password hash never leaves the API")

	usernameField, found := userType.FieldByName("Username")
	require.True(t, found)
	assert.Contains(t, usernameField.Tag.Get("gorm"), "uniqueIndex")

	emailField, found := userType.FieldByName("Email")
	require.True(t, found)
	assert.Contains(t, emailField.Tag.Get("gorm"), "uniqueIndex")
}
