package handler

import (
	"encoding/json"
	"errors"
	"go-events-api/common"
	"go-events-api/logger"
	"go-events-api/model"
	"go-events-api/service"
	"net/http"

	"github.com/sirupsen/logrus"
)

type EventHandler struct {
	service *service.EventService
}

func NewEventHandler(s *service.EventService) *EventHandler {
	return &EventHandler{service: s}
}

// CreateEvent godoc
// @Summary      Create an event
// @Description  Creates an event hosted by the caller, who is enrolled as its first attendee.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body model.CreateEventRequest true "Event payload"
// @Success      201  {object}  model.Event
// @Failure      400  {object}  common.AppError
// @Failure      401  {object}  common.AppError
// @Router       /api/events [post]
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	var req model.CreateEventRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	log := logger.Log.WithFields(logrus.Fields{
		"host_id": identity.ID,
		"title":   req.Title,
	})
	log.Info("Create event request received")

	event, err := h.service.CreateEvent(identity.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return common.NewFieldError(http.StatusBadRequest, "date", err.Error())
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not create event", err)
	}

	writeJSON(w, http.StatusCreated, event)
	return nil
}

// ListEvents godoc
// @Summary      List events
// @Description  Lists events with optional query (all|going|hosting), startDate and pagination. going/hosting need authentication.
// @Tags         events
// @Produce      json
// @Param        query     query string false "all, going or hosting"
// @Param        startDate query string false "RFC 3339 lower bound for the event date"
// @Param        page      query int    false "Page number"
// @Param        limit     query int    false "Page size (max 50)"
// @Success      200  {object}  common.Page
// @Router       /events [get]
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) *common.AppError {
	pagination := common.PaginationFromRequest(r)

	q := service.EventListQuery{
		Query:     r.URL.Query().Get("query"),
		StartDate: r.URL.Query().Get("startDate"),
		Page:      pagination.Page,
		Limit:     pagination.Limit,
	}
	if identity, ok := IdentityFromContext(r.Context()); ok {
		q.UserID = identity.ID
	}

	page, err := h.service.ListEvents(q)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve events", err)
	}

	writeJSON(w, http.StatusOK, page)
	return nil
}

// GetEvent godoc
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id path string true "Event ID"
// @Success      200  {object}  model.Event
// @Failure      404  {object}  common.AppError
// @Router       /events/{id} [get]
func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) *common.AppError {
	event, err := h.service.GetEvent(r.PathValue("id"))
	if err != nil {
		return eventError(err, "Could not retrieve event")
	}

	writeJSON(w, http.StatusOK, event)
	return nil
}

// UpdateEvent godoc
// @Summary      Update an event
// @Description  Applies a partial update. Only the host may update an event.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Event ID"
// @Param        body body model.UpdateEventRequest true "Fields to update"
// @Success      200  {object}  model.Event
// @Failure      400  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/events/{id} [patch]
func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	var req model.UpdateEventRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	event, err := h.service.UpdateEvent(r.PathValue("id"), identity.ID, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			return common.NewFieldError(http.StatusBadRequest, "date", err.Error())
		}
		return eventError(err, "Could not update event")
	}

	writeJSON(w, http.StatusOK, event)
	return nil
}

// DeleteEvent godoc
// @Summary      Delete an event
// @Tags         events
// @Security     BearerAuth
// @Param        id path string true "Event ID"
// @Success      204
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/events/{id} [delete]
func (h *EventHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	if err := h.service.DeleteEvent(r.PathValue("id"), identity.ID); err != nil {
		return eventError(err, "Could not delete event")
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ManageEvent godoc
// @Summary      Toggle event cancellation
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Event ID"
// @Success      200  {object}  model.Event
// @Failure      403  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/events/{id}/manage [patch]
func (h *EventHandler) ManageEvent(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	event, err := h.service.ToggleCancelled(r.PathValue("id"), identity.ID)
	if err != nil {
		return eventError(err, "Could not update event")
	}

	writeJSON(w, http.StatusOK, event)
	return nil
}

// JoinEvent godoc
// @Summary      Join an event
// @Description  Enrolls the caller as an attendee. Joining twice is a no-op.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Event ID"
// @Success      200  {object}  model.Event
// @Failure      404  {object}  common.AppError
// @Router       /api/events/{id}/attendees [post]
func (h *EventHandler) JoinEvent(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	event, err := h.service.Join(r.PathValue("id"), identity.ID)
	if err != nil {
		return eventError(err, "Could not join event")
	}

	writeJSON(w, http.StatusOK, event)
	return nil
}

// LeaveEvent godoc
// @Summary      Leave an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Event ID"
// @Success      200  {object}  model.Event
// @Failure      404  {object}  common.AppError
// @Router       /api/events/{id}/attendees [delete]
func (h *EventHandler) LeaveEvent(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	event, err := h.service.Leave(r.PathValue("id"), identity.ID)
	if err != nil {
		return eventError(err, "Could not leave event")
	}

	writeJSON(w, http.StatusOK, event)
	return nil
}

func eventError(err error, fallback string) *common.AppError {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return common.NewAppError(http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, service.ErrNotEventHost):
		return common.NewAppError(http.StatusForbidden, err.Error(), nil)
	default:
		return common.NewAppError(http.StatusInternalServerError, fallback, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
