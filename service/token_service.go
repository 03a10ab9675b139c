package service

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"go-events-api/config"
	"go-events-api/logger"
	"go-events-api/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken is returned when a token fails signature, algorithm or
// expiry checks.
var ErrInvalidToken = errors.New("invalid or expired token")

// TokenConfig carries the signing material for one token pair. The access
// and refresh secrets must be independent values.
type TokenConfig struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// TokenService issues and verifies signed access/refresh token pairs.
type TokenService struct {
	cfg TokenConfig
}

func NewTokenService(cfg TokenConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// NewTokenServiceFromConfig builds a TokenService from the loaded app config.
func NewTokenServiceFromConfig() *TokenService {
	jwtCfg := config.AppConfig.JWT
	return NewTokenService(TokenConfig{
		AccessSecret:  []byte(jwtCfg.AccessSecret),
		RefreshSecret: []byte(jwtCfg.RefreshSecret),
		AccessTTL:     jwtCfg.AccessTTL,
		RefreshTTL:    jwtCfg.RefreshTTL,
	})
}

// IssuePair signs a fresh access/refresh pair for the user. Each call embeds
// a unique token id, so repeated calls produce distinct tokens for the same
// user even within the same clock second.
func (s *TokenService) IssuePair(userID, email string) (*model.TokenPair, error) {
	now := time.Now()

	accessToken, err := s.sign(userID, email, now, s.cfg.AccessTTL, s.cfg.AccessSecret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign access token")
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshToken, err := s.sign(userID, email, now, s.cfg.RefreshTTL, s.cfg.RefreshSecret)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", userID).Error("Failed to sign refresh token")
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *TokenService) sign(userID, email string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	// iat/exp only have second granularity; the jti keeps back-to-back
	// issues for the same user distinct, which the fingerprint rotation
	// depends on.
	claims := &model.AppClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccess validates an access token and returns its claims.
func (s *TokenService) VerifyAccess(tokenString string) (*model.AppClaims, error) {
	return verify(tokenString, s.cfg.AccessSecret)
}

// VerifyRefresh validates a refresh token against the refresh secret. A
// passing signature is necessary but not sufficient to accept a refresh: the
// stored fingerprint comparison in the auth service is the actual revocation
// mechanism.
func (s *TokenService) VerifyRefresh(tokenString string) (*model.AppClaims, error) {
	return verify(tokenString, s.cfg.RefreshSecret)
}

func verify(tokenString string, secret []byte) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Fingerprint returns the SHA-256 hex digest of a raw token. Only this
// digest is persisted for refresh tokens; bcrypt is unsuitable here because
// signed tokens exceed its input limit, and the token itself already carries
// enough entropy.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
