package handler

import (
	"encoding/json"
	"errors"
	"go-events-api/common"
	"go-events-api/logger"
	"go-events-api/model"
	"go-events-api/service"
	"net/http"
	"time"
)

const refreshCookieName = "refreshToken"

// refreshCookiePath scopes the cookie to the refresh endpoint so the
// long-lived token never rides along on other requests.
const refreshCookiePath = "/auth/refresh"

type AuthHandler struct {
	auth       *service.AuthService
	profiles   *service.ProfileService
	refreshTTL time.Duration
}

func NewAuthHandler(auth *service.AuthService, profiles *service.ProfileService, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		profiles:   profiles,
		refreshTTL: refreshTTL,
	}
}

// SignUp godoc
// @Summary      Register a new user
// @Description  Creates a user account. Tokens are not issued here; sign in separately.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body model.SignUpRequest true "Sign-up payload"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Validation failure or email already in use"
// @Router       /auth/sign-up [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SignUpRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	if _, err := h.auth.SignUp(req); err != nil {
		if errors.Is(err, service.ErrEmailInUse) {
			return common.NewFieldError(http.StatusBadRequest, "email", "Email already in use")
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create user", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"message": "User created successfully"})
	return nil
}

// SignIn godoc
// @Summary      Sign in
// @Description  Verifies credentials, returns an access token and sets the refresh token cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body model.SignInRequest true "Sign-in payload"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  common.AppError "Validation failure"
// @Failure      401  {object}  common.AppError "Invalid email or password"
// @Router       /auth/sign-in [post]
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.SignInRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	pair, err := h.auth.SignIn(req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// The rejected field stays in the logs; the response never
			// reveals whether the email or the password was wrong.
			logger.Log.WithField("field", service.CredentialField(err)).Info("Sign-in failed")
			return common.NewAppError(http.StatusUnauthorized, "Invalid email or password", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not sign in", err)
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeAccessToken(w, http.StatusOK, pair.AccessToken)
	return nil
}

// Refresh godoc
// @Summary      Refresh the session
// @Description  Rotates the refresh token cookie and returns a new access token.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  common.AppError "Missing, invalid or superseded refresh token"
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) *common.AppError {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil {
		return common.NewAppError(http.StatusUnauthorized, "Refresh token is missing", nil)
	}

	pair, err := h.auth.Refresh(cookie.Value)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			return common.NewAppError(http.StatusUnauthorized, "Invalid or expired refresh token", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not refresh session", err)
	}

	h.setRefreshCookie(w, pair.RefreshToken)
	writeAccessToken(w, http.StatusOK, pair.AccessToken)
	return nil
}

// Logout godoc
// @Summary      Log out
// @Description  Revokes the current session and clears the refresh cookie.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  common.AppError
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	if err := h.auth.Logout(identity.ID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Me godoc
// @Summary      Current user profile
// @Description  Returns the caller's full profile with hosted and attending events.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.MeResponse
// @Failure      401  {object}  common.AppError
// @Router       /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	me, err := h.profiles.GetMe(identity.ID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not load profile", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(me)
	return nil
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    refreshToken,
		Path:     refreshCookiePath,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.refreshTTL.Seconds()),
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

func writeAccessToken(w http.ResponseWriter, status int, accessToken string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"accessToken": accessToken})
}
