package repository

import (
	"go-events-api/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newChatRepo(t *testing.T) (*ChatRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewChatRepository(db), mock
}

func TestCreateMessage(t *testing.T) {
	repo, mock := newChatRepo(t)

	msg := &model.ChatMessage{
		ID:      "msg-1",
		EventID: "event-1",
		UserID:  "user-1",
		Content: "hello",
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO chat_messages (id, event_id, user_id, content) VALUES ($1, $2, $3, $4) RETURNING created_at`)).
		WithArgs(msg.ID, msg.EventID, msg.UserID, msg.Content).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	err := repo.CreateMessage(msg)

	assert.NoError(t, err)
	assert.False(t, msg.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecentByEvent(t *testing.T) {
	repo, mock := newChatRepo(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at DESC LIMIT $2`)).
		WithArgs("event-1", 50).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "event_id", "user_id", "content", "created_at", "display_name", "photo_url",
		}).
			AddRow("msg-1", "event-1", "user-1", "first", now.Add(-time.Minute), "Jane", "").
			AddRow("msg-2", "event-1", "user-2", "second", now, "John", ""))

	messages, err := repo.ListRecentByEvent("event-1", 50)

	assert.NoError(t, err)
	assert.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)
	assert.Equal(t, "user-1", messages[0].User.ID)
	assert.Equal(t, "Jane", messages[0].User.DisplayName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
