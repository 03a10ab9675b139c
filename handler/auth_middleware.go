package handler

import (
	"context"
	"go-events-api/common"
	"go-events-api/model"
	"go-events-api/service"
	"net/http"
	"strings"
)

type contextKey string

const identityKey contextKey = "authIdentity"

// IdentityFromContext returns the identity the session guard attached to the
// request, if any.
func IdentityFromContext(ctx context.Context) (model.AuthIdentity, bool) {
	identity, ok := ctx.Value(identityKey).(model.AuthIdentity)
	return identity, ok
}

// AuthMiddleware is the session guard: it verifies the bearer access token,
// confirms the user still exists and threads the resolved identity through
// the request context.
type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// Require rejects the request with 401 unless a valid access token resolves
// to an existing user.
func (m *AuthMiddleware) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, appErr := bearerToken(r)
		if appErr != nil {
			appErr.Send(w)
			return
		}

		identity, err := m.auth.Identity(token)
		if err != nil {
			common.NewAppError(http.StatusUnauthorized, "Invalid or expired token", nil).Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, *identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional attaches an identity when a valid bearer token is present and
// passes the request through anonymously otherwise.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, appErr := bearerToken(r)
		if appErr == nil {
			if identity, err := m.auth.Identity(token); err == nil {
				ctx := context.WithValue(r.Context(), identityKey, *identity)
				r = r.WithContext(ctx)
			}
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, *common.AppError) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", common.NewAppError(http.StatusUnauthorized, "Authorization header is required", nil)
	}

	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return "", common.NewAppError(http.StatusUnauthorized, "Invalid authorization header format", nil)
	}

	return headerParts[1], nil
}
