package service

import (
	"database/sql"
	"errors"
	"go-events-api/logger"
	"go-events-api/model"
	"go-events-api/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailInUse is returned by sign-up when the email is taken.
	ErrEmailInUse = errors.New("email already in use")
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// The merged message avoids revealing which field was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated covers every refresh/guard failure: missing,
	// unverifiable or revoked token, or a vanished user.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// credentialError tags ErrInvalidCredentials with the offending field.
// The tag stays internal (logs only); callers match with errors.Is.
type credentialError struct {
	field string
}

func (e *credentialError) Error() string { return ErrInvalidCredentials.Error() }
func (e *credentialError) Unwrap() error { return ErrInvalidCredentials }

// CredentialField reports which field caused a sign-in rejection, or "" for
// other errors. It exists for diagnostics; the client-facing message never
// distinguishes the two cases.
func CredentialField(err error) string {
	var credErr *credentialError
	if errors.As(err, &credErr) {
		return credErr.field
	}
	return ""
}

// AuthService orchestrates sign-up, sign-in, refresh and logout over the
// credential store and the token service.
type AuthService struct {
	userRepo   repository.IUserRepository
	tokens     *TokenService
	bcryptCost int
}

func NewAuthService(userRepo repository.IUserRepository, tokens *TokenService, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// SignUp creates a new user record. It deliberately does not issue tokens;
// the client signs in separately.
func (s *AuthService) SignUp(req model.SignUpRequest) (*model.User, error) {
	passwordHash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: passwordHash,
		DisplayName:  req.DisplayName,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User created successfully")
	return user, nil
}

// SignIn verifies credentials and establishes a session: it issues a token
// pair and overwrites the stored refresh fingerprint, invalidating any
// previous session for the user.
func (s *AuthService) SignIn(req model.SignInRequest) (*model.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			logger.Log.WithField("field", "email").Info("Sign-in rejected")
			return nil, &credentialError{field: "email"}
		}
		return nil, err
	}

	if !s.CheckPasswordHash(req.Password, user.PasswordHash) {
		logger.Log.WithField("field", "password").Info("Sign-in rejected")
		return nil, &credentialError{field: "password"}
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	hash := sql.NullString{String: Fingerprint(pair.RefreshToken), Valid: true}
	if err := s.userRepo.UpdateRefreshTokenHash(user.ID, hash); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("User signed in successfully")
	return pair, nil
}

// Refresh rotates the session. The presented token must verify against the
// refresh secret and its fingerprint must match the single stored value;
// on success a new pair is issued and the stored fingerprint is swapped in
// one conditional write. Concurrent refreshes with the same token resolve to
// exactly one winner.
func (s *AuthService) Refresh(presented string) (*model.TokenPair, error) {
	if presented == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := s.tokens.VerifyRefresh(presented)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetUserByID(claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	presentedHash := Fingerprint(presented)
	if !user.RefreshTokenHash.Valid || user.RefreshTokenHash.String != presentedHash {
		logger.Log.WithField("user_id", user.ID).Warn("Refresh token fingerprint mismatch")
		return nil, ErrUnauthenticated
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	rotated, err := s.userRepo.RotateRefreshTokenHash(user.ID, presentedHash, Fingerprint(pair.RefreshToken))
	if err != nil {
		return nil, err
	}
	if !rotated {
		// Lost the race against a concurrent refresh or a logout.
		logger.Log.WithField("user_id", user.ID).Warn("Refresh rotation lost to a concurrent update")
		return nil, ErrUnauthenticated
	}

	logger.Log.WithField("user_id", user.ID).Info("Session refreshed")
	return pair, nil
}

// Logout revokes the user's session unconditionally. Calling it without an
// active session is a no-op.
func (s *AuthService) Logout(userID string) error {
	if err := s.userRepo.UpdateRefreshTokenHash(userID, sql.NullString{}); err != nil {
		return err
	}
	logger.Log.WithField("user_id", userID).Info("User logged out")
	return nil
}

// Identity resolves an access token to the caller's identity for the session
// guard. The user is re-read so that a token issued before account deletion
// stops working immediately.
func (s *AuthService) Identity(accessToken string) (*model.AuthIdentity, error) {
	claims, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.GetUserByID(claims.Subject)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}

	return &model.AuthIdentity{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
	}, nil
}
