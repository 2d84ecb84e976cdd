package chat_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"aichat/backend/internal/models"
)

// MockStorage is a testify mock of the storage.Storage interface.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) EnsureBotUser(username, email string) (*models.User, error) {
	args := m.Called(username, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) DeleteUser(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetConversation(userID, peerID uint, limit int) ([]models.Message, error) {
	args := m.Called(userID, peerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) MarkMessagesRead(senderID, recipientID uint) (int64, error) {
	args := m.Called(senderID, recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorage) CreatePost(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockStorage) GetPostByID(id uint) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockStorage) ListPosts() ([]models.Post, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockStorage) SaveFileShare(file *models.FileShare) error {
	args := m.Called(file)
	return args.Error(0)
}

func (m *MockStorage) ListFileShares() ([]models.FileShare, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.FileShare), args.Error(1)
}

func (m *MockStorage) RevokeToken(token string, ttl time.Duration) error {
	args := m.Called(token, ttl)
	return args.Error(0)
}

func (m *MockStorage) IsTokenRevoked(token string) (bool, error) {
	args := m.Called(token)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) SetUserOnline(userID uint, connID string) error {
	args := m.Called(userID, connID)
	return args.Error(0)
}

func (m *MockStorage) SetUserOffline(userID uint, connID string) error {
	args := m.Called(userID, connID)
	return args.Error(0)
}

func (m *MockStorage) IsUserOnline(userID uint) (bool, error) {
	args := m.Called(userID)
	return args.Bool(0), args.Error(1)
}

// mockSession records events emitted to a single connection.
type mockSession struct {
	userID uint
	events []models.ServerEvent
}

func (s *mockSession) UserID() uint                  { return s.userID }
func (s *mockSession) Emit(event models.ServerEvent) { s.events = append(s.events, event) }

// mockRouter records channel-wide pushes.
type mockRouter struct {
	pushes []pushedEvent
}

type pushedEvent struct {
	UserID uint
	Event  models.ServerEvent
}

func (r *mockRouter) Push(userID uint, event models.ServerEvent) {
	r.pushes = append(r.pushes, pushedEvent{UserID: userID, Event: event})
}

// stubResponder returns a fixed reply and records its invocations.
type stubResponder struct {
	reply   string
	cleared bool
	calls   []responderCall
}

type responderCall struct {
	UserID  uint
	Message string
}

func (r *stubResponder) Respond(_ context.Context, userID uint, message string) string {
	r.calls = append(r.calls, responderCall{UserID: userID, Message: message})
	return r.reply
}

func (r *stubResponder) ClearHistory(userID uint) bool {
	return r.cleared
}
