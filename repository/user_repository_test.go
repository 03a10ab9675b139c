package repository

import (
	"database/sql"
	"go-events-api/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func newUserRepo(t *testing.T) (*UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(db), mock
}

func userRows(user *model.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password_hash", "display_name",
		"photo_url", "description", "refresh_token_hash", "created_at",
	}).AddRow(user.ID, user.Email, user.PasswordHash, user.DisplayName,
		user.PhotoURL, user.Description, user.RefreshTokenHash, user.CreatedAt)
}

func TestCreateUser(t *testing.T) {
	repo, mock := newUserRepo(t)

	user := &model.User{
		ID:           "user-1",
		Email:        "jane@example.com",
		PasswordHash: "hashed",
		DisplayName:  "Jane",
	}

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id, email, password_hash, display_name) VALUES ($1, $2, $3, $4) RETURNING created_at`)).
		WithArgs(user.ID, user.Email, user.PasswordHash, user.DisplayName).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	err := repo.CreateUser(user)

	assert.NoError(t, err)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.CreateUser(&model.User{ID: "user-1", Email: "jane@example.com"})

	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestGetUserByEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	stored := &model.User{
		ID:               "user-1",
		Email:            "jane@example.com",
		PasswordHash:     "hashed",
		DisplayName:      "Jane",
		RefreshTokenHash: sql.NullString{String: "abc", Valid: true},
		CreatedAt:        time.Now(),
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = $1`)).
		WithArgs(stored.Email).
		WillReturnRows(userRows(stored))

	user, err := repo.GetUserByEmail(stored.Email)

	assert.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
	assert.True(t, user.RefreshTokenHash.Valid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByIDNoRows(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1`)).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetUserByID("nope")

	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUpdateRefreshTokenHashRevokes(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET refresh_token_hash = $2 WHERE id = $1`)).
		WithArgs("user-1", sql.NullString{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateRefreshTokenHash("user-1", sql.NullString{})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotateRefreshTokenHashWins(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET refresh_token_hash = $3 WHERE id = $1 AND refresh_token_hash = $2`)).
		WithArgs("user-1", "old-hash", "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	rotated, err := repo.RotateRefreshTokenHash("user-1", "old-hash", "new-hash")

	assert.NoError(t, err)
	assert.True(t, rotated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotateRefreshTokenHashLoses(t *testing.T) {
	repo, mock := newUserRepo(t)

	// The stored hash no longer matches: zero rows updated.
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET refresh_token_hash = $3`)).
		WithArgs("user-1", "stale-hash", "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 0))

	rotated, err := repo.RotateRefreshTokenHash("user-1", "stale-hash", "new-hash")

	assert.NoError(t, err)
	assert.False(t, rotated)
}

func TestListUsers(t *testing.T) {
	repo, mock := newUserRepo(t)

	stored := &model.User{ID: "user-1", Email: "jane@example.com", CreatedAt: time.Now()}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`)).
		WithArgs(10, 0).
		WillReturnRows(userRows(stored))

	users, err := repo.ListUsers(10, 0)

	assert.NoError(t, err)
	assert.Len(t, users, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
