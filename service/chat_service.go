package service

import (
	"database/sql"
	"errors"
	"go-events-api/model"
	"go-events-api/repository"

	"github.com/google/uuid"
)

// chatWindow is the fixed number of recent messages a listing returns.
const chatWindow = 50

// ChatService posts and lists per-event chat messages.
type ChatService struct {
	chatRepo  repository.IChatRepository
	eventRepo repository.IEventRepository
}

func NewChatService(chatRepo repository.IChatRepository, eventRepo repository.IEventRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, eventRepo: eventRepo}
}

// PostMessage appends a message to an existing event's chat. The author
// summary is echoed back so the response matches what a listing returns.
func (s *ChatService) PostMessage(eventID string, author model.UserSummary, content string) (*model.ChatMessage, error) {
	if err := s.ensureEventExists(eventID); err != nil {
		return nil, err
	}

	msg := &model.ChatMessage{
		ID:      uuid.NewString(),
		EventID: eventID,
		UserID:  author.ID,
		Content: content,
		User:    author,
	}
	if err := s.chatRepo.CreateMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns the most recent messages for an event in
// chronological order.
func (s *ChatService) ListMessages(eventID string) ([]*model.ChatMessage, error) {
	if err := s.ensureEventExists(eventID); err != nil {
		return nil, err
	}

	messages, err := s.chatRepo.ListRecentByEvent(eventID, chatWindow)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*model.ChatMessage{}
	}
	return messages, nil
}

func (s *ChatService) ensureEventExists(eventID string) error {
	if _, err := s.eventRepo.GetEventByID(eventID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}
