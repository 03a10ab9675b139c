package repository

import (
	"database/sql"
	"errors"
	"go-events-api/logger"
	"go-events-api/model"

	"github.com/lib/pq"
)

// ErrDuplicateEmail is returned when an insert violates the unique email
// constraint.
var ErrDuplicateEmail = errors.New("email already registered")

const pqUniqueViolation = "23505"

// IUserRepository defines the contract for user credential and profile
// persistence.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id string) (*model.User, error)
	UpdateRefreshTokenHash(userID string, hash sql.NullString) error
	RotateRefreshTokenHash(userID, oldHash, newHash string) (bool, error)
	UpdateProfile(user *model.User) error
	ListUsers(limit, offset int) ([]*model.User, error)
	CountUsers() (int64, error)
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, email, password_hash, display_name, photo_url, description, refresh_token_hash, created_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DisplayName,
		&user.PhotoURL, &user.Description, &user.RefreshTokenHash, &user.CreatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) CreateUser(user *model.User) error {
	log := logger.Log.WithField("email", user.Email)
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (id, email, password_hash, display_name) VALUES ($1, $2, $3, $4) RETURNING created_at`
	err := r.DB.QueryRow(query, user.ID, user.Email, user.PasswordHash, user.DisplayName).Scan(&user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return ErrDuplicateEmail
		}
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.DB.QueryRow(query, email))
}

func (r *UserRepository) GetUserByID(id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(query, id))
}

// UpdateRefreshTokenHash overwrites the stored refresh fingerprint in a
// single statement. A NULL hash revokes the session.
func (r *UserRepository) UpdateRefreshTokenHash(userID string, hash sql.NullString) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to update refresh token hash")

	query := `UPDATE users SET refresh_token_hash = $2 WHERE id = $1`
	_, err := r.DB.Exec(query, userID, hash)
	if err != nil {
		log.WithError(err).Error("Failed to execute update refresh token hash query")
		return err
	}
	return nil
}

// RotateRefreshTokenHash swaps the stored fingerprint only if it still holds
// oldHash. It reports false when the stored value changed underneath the
// caller, which makes a concurrent refresh with a stale token lose the race
// inside the database rather than in application code.
func (r *UserRepository) RotateRefreshTokenHash(userID, oldHash, newHash string) (bool, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to rotate refresh token hash")

	query := `UPDATE users SET refresh_token_hash = $3 WHERE id = $1 AND refresh_token_hash = $2`
	result, err := r.DB.Exec(query, userID, oldHash, newHash)
	if err != nil {
		log.WithError(err).Error("Failed to execute rotate refresh token hash query")
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *UserRepository) UpdateProfile(user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Info("Executing query to update user profile")

	query := `UPDATE users SET display_name = $2, photo_url = $3, description = $4 WHERE id = $1`
	_, err := r.DB.Exec(query, user.ID, user.DisplayName, user.PhotoURL, user.Description)
	if err != nil {
		log.WithError(err).Error("Failed to execute update profile query")
		return err
	}
	return nil
}

func (r *UserRepository) ListUsers(limit, offset int) ([]*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(query, limit, offset)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute list users query")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			logger.Log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *UserRepository) CountUsers() (int64, error) {
	var total int64
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&total)
	return total, err
}
