package repository

import (
	"database/sql"
	"go-events-api/logger"
	"go-events-api/model"

	"github.com/sirupsen/logrus"
)

// IChatRepository defines the contract for event chat persistence.
type IChatRepository interface {
	CreateMessage(msg *model.ChatMessage) error
	ListRecentByEvent(eventID string, limit int) ([]*model.ChatMessage, error)
}

type ChatRepository struct {
	DB *sql.DB
}

func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

func (r *ChatRepository) CreateMessage(msg *model.ChatMessage) error {
	log := logger.Log.WithFields(logrus.Fields{
		"event_id": msg.EventID,
		"user_id":  msg.UserID,
	})
	log.Info("Executing query to create a chat message")

	query := `INSERT INTO chat_messages (id, event_id, user_id, content) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := r.DB.QueryRow(query, msg.ID, msg.EventID, msg.UserID, msg.Content).Scan(&msg.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create chat message query")
		return err
	}
	return nil
}

// ListRecentByEvent returns the latest limit messages for an event in
// chronological order.
func (r *ChatRepository) ListRecentByEvent(eventID string, limit int) ([]*model.ChatMessage, error) {
	log := logger.Log.WithField("event_id", eventID)
	log.Info("Executing query to list recent chat messages")

	query := `SELECT m.id, m.event_id, m.user_id, m.content, m.created_at, u.display_name, u.photo_url
		FROM (
			SELECT id, event_id, user_id, content, created_at
			FROM chat_messages WHERE event_id = $1
			ORDER BY created_at DESC LIMIT $2
		) m
		JOIN users u ON u.id = m.user_id
		ORDER BY m.created_at ASC`
	rows, err := r.DB.Query(query, eventID, limit)
	if err != nil {
		log.WithError(err).Error("Failed to execute list chat messages query")
		return nil, err
	}
	defer rows.Close()

	var messages []*model.ChatMessage
	for rows.Next() {
		msg := &model.ChatMessage{}
		if err := rows.Scan(&msg.ID, &msg.EventID, &msg.UserID, &msg.Content, &msg.CreatedAt,
			&msg.User.DisplayName, &msg.User.PhotoURL); err != nil {
			log.WithError(err).Error("Failed to scan chat message row")
			return nil, err
		}
		msg.User.ID = msg.UserID
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
