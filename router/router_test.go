package router

import (
	"go-events-api/handler"
	"go-events-api/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// testRouter wires the route table over empty services. Dispatch and guard
// behavior are observable without touching any backend.
func testRouter() http.Handler {
	tokens := service.NewTokenService(service.TokenConfig{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	auth := service.NewAuthService(nil, tokens, 10)
	profiles := service.NewProfileService(nil, nil)
	events := service.NewEventService(nil, nil)
	chats := service.NewChatService(nil, nil)

	return NewRouter(
		handler.NewAuthHandler(auth, profiles, 7*24*time.Hour),
		handler.NewEventHandler(events),
		handler.NewProfileHandler(profiles),
		handler.NewChatHandler(chats),
		handler.NewAuthMiddleware(auth),
	)
}

func TestHealthRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "healthy")
}

func TestGuardedRoutesRejectAnonymousCallers(t *testing.T) {
	r := testRouter()

	guarded := []struct {
		method string
		target string
	}{
		{http.MethodPost, "/api/events"},
		{http.MethodPatch, "/api/events/event-1"},
		{http.MethodDelete, "/api/events/event-1"},
		{http.MethodPatch, "/api/events/event-1/manage"},
		{http.MethodPost, "/api/events/event-1/attendees"},
		{http.MethodDelete, "/api/events/event-1/attendees"},
		{http.MethodPost, "/api/events/event-1/chats"},
		{http.MethodGet, "/api/events/event-1/chats"},
		{http.MethodGet, "/api/profiles/user-1"},
		{http.MethodPut, "/api/profiles/me"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/auth/me"},
	}

	for _, route := range guarded {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(route.method, route.target, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", route.method, route.target)
	}
}

func TestRefreshWithoutCookieIsUnauthorized(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/refresh", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/auth/sign-in", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestUnknownRoute(t *testing.T) {
	rr := httptest.NewRecorder()
	testRouter().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
