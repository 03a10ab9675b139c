package router

import (
	"go-events-api/common"
	"go-events-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type appHandler func(http.ResponseWriter, *http.Request) *common.AppError

// NewRouter builds the route table. Guarded routes are wrapped explicitly:
// auth middleware first, then the error-handling middleware around the
// handler itself.
func NewRouter(
	authHandler *handler.AuthHandler,
	eventHandler *handler.EventHandler,
	profileHandler *handler.ProfileHandler,
	chatHandler *handler.ChatHandler,
	authMW *handler.AuthMiddleware,
) http.Handler {
	mux := http.NewServeMux()

	public := func(h appHandler) http.Handler {
		return handler.ErrorHandlingMiddleware(h)
	}
	protected := func(h appHandler) http.Handler {
		return authMW.Require(handler.ErrorHandlingMiddleware(h))
	}
	optional := func(h appHandler) http.Handler {
		return authMW.Optional(handler.ErrorHandlingMiddleware(h))
	}

	mux.HandleFunc("GET /health", handler.HealthCheck)
	// TODO: blank-import the docs package from cmd/main.go once the
	// `swag init -g cmd/main.go` output is checked in; until then the UI
	// serves but /swagger/doc.json has no document to load.
	mux.Handle("GET /swagger/", httpSwagger.Handler())

	// Auth core.
	mux.Handle("POST /auth/sign-up", public(authHandler.SignUp))
	mux.Handle("POST /auth/sign-in", public(authHandler.SignIn))
	mux.Handle("POST /auth/refresh", public(authHandler.Refresh))
	mux.Handle("POST /auth/logout", protected(authHandler.Logout))
	mux.Handle("GET /auth/me", protected(authHandler.Me))

	// Events.
	mux.Handle("GET /events", optional(eventHandler.ListEvents))
	mux.Handle("GET /events/{id}", public(eventHandler.GetEvent))
	mux.Handle("POST /api/events", protected(eventHandler.CreateEvent))
	mux.Handle("PATCH /api/events/{id}", protected(eventHandler.UpdateEvent))
	mux.Handle("DELETE /api/events/{id}", protected(eventHandler.DeleteEvent))
	mux.Handle("PATCH /api/events/{id}/manage", protected(eventHandler.ManageEvent))
	mux.Handle("POST /api/events/{id}/attendees", protected(eventHandler.JoinEvent))
	mux.Handle("DELETE /api/events/{id}/attendees", protected(eventHandler.LeaveEvent))

	// Event chats.
	mux.Handle("POST /api/events/{id}/chats", protected(chatHandler.PostMessage))
	mux.Handle("GET /api/events/{id}/chats", protected(chatHandler.ListMessages))

	// Profiles.
	mux.Handle("GET /profiles", public(profileHandler.ListProfiles))
	mux.Handle("GET /profiles/{id}/events", public(profileHandler.GetUserEvents))
	mux.Handle("GET /api/profiles/{id}", protected(profileHandler.GetProfile))
	mux.Handle("PUT /api/profiles/me", protected(profileHandler.UpdateMyProfile))

	return mux
}
