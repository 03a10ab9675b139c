package service

import (
	"database/sql"
	"go-events-api/model"
	"go-events-api/repository"

	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateRefreshTokenHash(userID string, hash sql.NullString) error {
	args := m.Called(userID, hash)
	return args.Error(0)
}

func (m *MockUserRepository) RotateRefreshTokenHash(userID, oldHash, newHash string) (bool, error) {
	args := m.Called(userID, oldHash, newHash)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(limit, offset int) ([]*model.User, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func (m *MockUserRepository) CountUsers() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) CreateEvent(event *model.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventRepository) GetEventByID(id string) (*model.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) ListEvents(filter repository.EventFilter) ([]*model.Event, int64, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Event), args.Get(1).(int64), args.Error(2)
}

func (m *MockEventRepository) UpdateEvent(event *model.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

func (m *MockEventRepository) SetCancelled(id string, cancelled bool) error {
	args := m.Called(id, cancelled)
	return args.Error(0)
}

func (m *MockEventRepository) DeleteEvent(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockEventRepository) AddAttendee(eventID, userID string, isHost bool) error {
	args := m.Called(eventID, userID, isHost)
	return args.Error(0)
}

func (m *MockEventRepository) RemoveAttendee(eventID, userID string) error {
	args := m.Called(eventID, userID)
	return args.Error(0)
}

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) CreateMessage(msg *model.ChatMessage) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockChatRepository) ListRecentByEvent(eventID string, limit int) ([]*model.ChatMessage, error) {
	args := m.Called(eventID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChatMessage), args.Error(1)
}
