package handler

import (
	"errors"
	"go-events-api/common"
	"go-events-api/model"
	"go-events-api/service"
	"net/http"
)

type ProfileHandler struct {
	service *service.ProfileService
}

func NewProfileHandler(s *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: s}
}

// ListProfiles godoc
// @Summary      List profiles
// @Tags         profiles
// @Produce      json
// @Param        page  query int false "Page number"
// @Param        limit query int false "Page size (max 50)"
// @Success      200  {object}  common.Page
// @Router       /profiles [get]
func (h *ProfileHandler) ListProfiles(w http.ResponseWriter, r *http.Request) *common.AppError {
	pagination := common.PaginationFromRequest(r)

	page, err := h.service.ListProfiles(pagination.Page, pagination.Limit)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve profiles", err)
	}

	writeJSON(w, http.StatusOK, page)
	return nil
}

// GetProfile godoc
// @Summary      Get a profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "User ID"
// @Success      200  {object}  model.Profile
// @Failure      404  {object}  common.AppError
// @Router       /api/profiles/{id} [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	profile, err := h.service.GetProfile(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve profile", err)
	}

	writeJSON(w, http.StatusOK, profile)
	return nil
}

// UpdateMyProfile godoc
// @Summary      Update own profile
// @Description  Updates the caller's display name, photo URL or description.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body model.UpdateProfileRequest true "Fields to update"
// @Success      200  {object}  model.Profile
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Router       /api/profiles/me [put]
func (h *ProfileHandler) UpdateMyProfile(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	var req model.UpdateProfileRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	profile, err := h.service.UpdateMyProfile(identity.ID, req)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not update profile", err)
	}

	writeJSON(w, http.StatusOK, profile)
	return nil
}

// GetUserEvents godoc
// @Summary      List a user's events
// @Description  Lists events a user hosts or attends, filtered by role (host|attending|all) and time (past|future|all).
// @Tags         profiles
// @Produce      json
// @Param        id    path  string true  "User ID"
// @Param        role  query string false "host, attending or all"
// @Param        time  query string false "past, future or all"
// @Param        page  query int    false "Page number"
// @Param        limit query int    false "Page size (max 50)"
// @Success      200  {object}  common.Page
// @Failure      404  {object}  common.AppError
// @Router       /profiles/{id}/events [get]
func (h *ProfileHandler) GetUserEvents(w http.ResponseWriter, r *http.Request) *common.AppError {
	pagination := common.PaginationFromRequest(r)

	page, err := h.service.GetUserEvents(r.PathValue("id"), service.UserEventsQuery{
		Role:  r.URL.Query().Get("role"),
		Time:  r.URL.Query().Get("time"),
		Page:  pagination.Page,
		Limit: pagination.Limit,
	})
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve user events", err)
	}

	writeJSON(w, http.StatusOK, page)
	return nil
}
