package handler

import (
	"errors"
	"go-events-api/common"
	"go-events-api/model"
	"go-events-api/service"
	"net/http"
)

type ChatHandler struct {
	service *service.ChatService
}

func NewChatHandler(s *service.ChatService) *ChatHandler {
	return &ChatHandler{service: s}
}

// PostMessage godoc
// @Summary      Post a chat message
// @Description  Appends a message to an event's chat.
// @Tags         chats
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Event ID"
// @Param        body body model.CreateChatMessageRequest true "Message payload"
// @Success      201  {object}  model.ChatMessage
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/events/{id}/chats [post]
func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) *common.AppError {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Unauthorized", nil)
	}

	var req model.CreateChatMessageRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	author := model.UserSummary{
		ID:          identity.ID,
		DisplayName: identity.DisplayName,
		PhotoURL:    identity.PhotoURL,
	}
	msg, err := h.service.PostMessage(r.PathValue("id"), author, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not post message", err)
	}

	writeJSON(w, http.StatusCreated, msg)
	return nil
}

// ListMessages godoc
// @Summary      List recent chat messages
// @Description  Returns the most recent messages for an event in chronological order.
// @Tags         chats
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Event ID"
// @Success      200  {array}   model.ChatMessage
// @Failure      404  {object}  common.AppError
// @Router       /api/events/{id}/chats [get]
func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) *common.AppError {
	messages, err := h.service.ListMessages(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return common.NewAppError(http.StatusNotFound, err.Error(), nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve messages", err)
	}

	writeJSON(w, http.StatusOK, messages)
	return nil
}
