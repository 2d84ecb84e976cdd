package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"aichat/backend/internal/models"
	"aichat/backend/internal/storage"
)

func newTestService(t *testing.T) *storage.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	s := storage.NewService(db, nil)
	require.NoError(t, s.Migrate())
	return s
}

func createUser(t *testing.T, s *storage.Service, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, s.CreateUser(user))
	return user
}

func textMessage(senderID, recipientID uint, text, status string) *models.Message {
	return &models.Message{
		Content:     &text,
		MessageType: models.TypeText,
		Timestamp:   time.Now().UTC(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      status,
	}
}

func TestEnsureBotUser_CreatesOnce(t *testing.T) {
	s := newTestService(t)

	bot, err := s.EnsureBotUser("ai_assistant", "ai@assistant.com")
	require.NoError(t, err)
	assert.True(t, bot.IsBot)
	assert.NotZero(t, bot.ID)

	again, err := s.EnsureBotUser("ai_assistant", "ai@assistant.com")
	require.NoError(t, err)
	assert.Equal(t, bot.ID, again.ID, "second call must resolve the same bot user")

	var count int64
	require.NoError(t, s.DB.Model(&models.User{}).Where("is_bot = ?", true).Count(&count).Error)
	assert.EqualValues(t, 1, count, "exactly one bot user exists")
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestService(t)

	_, err := s.GetUserByID(12345)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.GetUserByUsername("ghost")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSaveMessage_AssignsID(t *testing.T) {
	s := newTestService(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	msg := textMessage(alice.ID, bob.ID, "hello", models.StatusSent)
	require.NoError(t, s.SaveMessage(msg))
	assert.NotZero(t, msg.ID)
}

func TestMarkMessagesRead(t *testing.T) {
	s := newTestService(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")
	carol := createUser(t, s, "carol")

	pending1 := textMessage(alice.ID, bob.ID, "one", models.StatusSent)
	pending2 := textMessage(alice.ID, bob.ID, "two", models.StatusSent)
	alreadyRead := textMessage(alice.ID, bob.ID, "old", models.StatusRead)
	otherSender := textMessage(carol.ID, bob.ID, "hi", models.StatusSent)
	reverse := textMessage(bob.ID, alice.ID, "back", models.StatusSent)
	for _, msg := range []*models.Message{pending1, pending2, alreadyRead, otherSender, reverse} {
		require.NoError(t, s.SaveMessage(msg))
	}

	count, err := s.MarkMessagesRead(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count, "only the pending alice->bob messages transition")

	var reloaded models.Message
	require.NoError(t, s.DB.First(&reloaded, pending1.ID).Error)
	assert.Equal(t, models.StatusRead, reloaded.Status)
	assert.NotNil(t, reloaded.ReadAt)

	reloaded = models.Message{}
	require.NoError(t, s.DB.First(&reloaded, otherSender.ID).Error)
	assert.Equal(t, models.StatusSent, reloaded.Status, "other senders are untouched")
	reloaded = models.Message{}
	require.NoError(t, s.DB.First(&reloaded, reverse.ID).Error)
	assert.Equal(t, models.StatusSent, reloaded.Status, "opposite direction is untouched")

	count, err = s.MarkMessagesRead(alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "second call finds nothing pending")
}

// TestDeleteUser_CascadeAsymmetry verifies that deleting a user removes
// their posts, file shares and sent messages, while messages they only
// received survive.
func TestDeleteUser_CascadeAsymmetry(t *testing.T) {
	s := newTestService(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	require.NoError(t, s.CreatePost(&models.Post{
		Title: "hello forum", Content: "first", CreatedAt: time.Now().UTC(), UserID: alice.ID,
	}))
	require.NoError(t, s.CreatePost(&models.Post{
		Title: "bob's post", Content: "still here", CreatedAt: time.Now().UTC(), UserID: bob.ID,
	}))
	require.NoError(t, s.SaveFileShare(&models.FileShare{
		Filename: "abc.pdf", OriginalFilename: "notes.pdf", FileSize: 123,
		FileType: "pdf", UploadTime: time.Now().UTC(), UserID: alice.ID,
	}))

	sentByAlice := textMessage(alice.ID, bob.ID, "from alice", models.StatusSent)
	receivedByAlice := textMessage(bob.ID, alice.ID, "from bob", models.StatusSent)
	require.NoError(t, s.SaveMessage(sentByAlice))
	require.NoError(t, s.SaveMessage(receivedByAlice))

	require.NoError(t, s.DeleteUser(alice.ID))

	_, err := s.GetUserByID(alice.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	var count int64
	require.NoError(t, s.DB.Model(&models.Post{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.Zero(t, count, "alice's posts are removed")
	require.NoError(t, s.DB.Model(&models.Post{}).Where("user_id = ?", bob.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "bob's posts stay")

	require.NoError(t, s.DB.Model(&models.FileShare{}).Where("user_id = ?", alice.ID).Count(&count).Error)
	assert.Zero(t, count, "alice's files are removed")

	require.NoError(t, s.DB.Model(&models.Message{}).Where("id = ?", sentByAlice.ID).Count(&count).Error)
	assert.Zero(t, count, "messages alice sent are removed")
	require.NoError(t, s.DB.Model(&models.Message{}).Where("id = ?", receivedByAlice.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "messages alice only received survive")
}

func TestGetConversation_OrderAndLimit(t *testing.T) {
	s := newTestService(t)
	alice := createUser(t, s, "alice")
	bob := createUser(t, s, "bob")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		text := string(rune('a' + i))
		msg := &models.Message{
			Content:     &text,
			MessageType: models.TypeText,
			Timestamp:   base.Add(time.Duration(i) * time.Minute),
			SenderID:    alice.ID,
			RecipientID: bob.ID,
			Status:      models.StatusSent,
		}
		require.NoError(t, s.SaveMessage(msg))
	}

	messages, err := s.GetConversation(alice.ID, bob.ID, 3)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "c", *messages[0].Content, "oldest of the retained window comes first")
	assert.Equal(t, "e", *messages[2].Content)
}
