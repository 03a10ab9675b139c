package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"go-events-api/model"
	"go-events-api/repository"
	"go-events-api/service"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo is an in-memory credential store so the full sign-up, sign-in,
// refresh and logout flow can run against real handlers without a database.
type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (f *fakeUserRepo) CreateUser(user *model.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.CreatedAt = time.Now()
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetUserByEmail(email string) (*model.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) GetUserByID(id string) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) UpdateRefreshTokenHash(userID string, hash sql.NullString) error {
	if user, ok := f.users[userID]; ok {
		user.RefreshTokenHash = hash
	}
	return nil
}

func (f *fakeUserRepo) RotateRefreshTokenHash(userID, oldHash, newHash string) (bool, error) {
	user, ok := f.users[userID]
	if !ok || !user.RefreshTokenHash.Valid || user.RefreshTokenHash.String != oldHash {
		return false, nil
	}
	user.RefreshTokenHash = sql.NullString{String: newHash, Valid: true}
	return true, nil
}

func (f *fakeUserRepo) UpdateProfile(user *model.User) error {
	if stored, ok := f.users[user.ID]; ok {
		stored.DisplayName = user.DisplayName
		stored.PhotoURL = user.PhotoURL
		stored.Description = user.Description
	}
	return nil
}

func (f *fakeUserRepo) ListUsers(limit, offset int) ([]*model.User, error) {
	var users []*model.User
	for _, user := range f.users {
		copied := *user
		users = append(users, &copied)
	}
	return users, nil
}

func (f *fakeUserRepo) CountUsers() (int64, error) {
	return int64(len(f.users)), nil
}

// fakeEventRepo satisfies the event contract with empty results; the auth
// flow only touches it through /auth/me.
type fakeEventRepo struct{}

func (f *fakeEventRepo) CreateEvent(*model.Event) error                 { return nil }
func (f *fakeEventRepo) GetEventByID(string) (*model.Event, error)      { return nil, sql.ErrNoRows }
func (f *fakeEventRepo) UpdateEvent(*model.Event) error                 { return nil }
func (f *fakeEventRepo) SetCancelled(string, bool) error                { return nil }
func (f *fakeEventRepo) DeleteEvent(string) error                       { return nil }
func (f *fakeEventRepo) AddAttendee(string, string, bool) error         { return nil }
func (f *fakeEventRepo) RemoveAttendee(string, string) error            { return nil }
func (f *fakeEventRepo) ListEvents(repository.EventFilter) ([]*model.Event, int64, error) {
	return nil, 0, nil
}

type authStack struct {
	repo    *fakeUserRepo
	auth    *service.AuthService
	handler *AuthHandler
	mw      *AuthMiddleware
}

func newAuthStack() *authStack {
	repo := newFakeUserRepo()
	tokens := service.NewTokenService(service.TokenConfig{
		AccessSecret:  []byte("access-secret-for-tests"),
		RefreshSecret: []byte("refresh-secret-for-tests"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
	})
	auth := service.NewAuthService(repo, tokens, bcrypt.MinCost)
	profiles := service.NewProfileService(repo, &fakeEventRepo{})

	return &authStack{
		repo:    repo,
		auth:    auth,
		handler: NewAuthHandler(auth, profiles, 7*24*time.Hour),
		mw:      NewAuthMiddleware(auth),
	}
}

func postJSON(t *testing.T, h http.HandlerFunc, target string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	assert.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(payload))
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func signUp(t *testing.T, stack *authStack) {
	t.Helper()
	rr := postJSON(t, ErrorHandlingMiddleware(stack.handler.SignUp), "/auth/sign-up", model.SignUpRequest{
		Email:       "jane@example.com",
		Password:    "super-secret",
		DisplayName: "Jane",
	})
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func signIn(t *testing.T, stack *authStack) (accessToken string, refreshCookie *http.Cookie) {
	t.Helper()
	rr := postJSON(t, ErrorHandlingMiddleware(stack.handler.SignIn), "/auth/sign-in", model.SignInRequest{
		Email:    "jane@example.com",
		Password: "super-secret",
	})
	assert.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body["accessToken"])

	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == "refreshToken" {
			refreshCookie = cookie
		}
	}
	assert.NotNil(t, refreshCookie)
	return body["accessToken"], refreshCookie
}

func TestSignUpValidation(t *testing.T) {
	stack := newAuthStack()

	rr := postJSON(t, ErrorHandlingMiddleware(stack.handler.SignUp), "/auth/sign-up", model.SignUpRequest{
		Email:    "not-an-email",
		Password: "super-secret",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "email", body["field"])
}

func TestSignUpDuplicateEmailResponse(t *testing.T) {
	stack := newAuthStack()
	signUp(t, stack)

	rr := postJSON(t, ErrorHandlingMiddleware(stack.handler.SignUp), "/auth/sign-up", model.SignUpRequest{
		Email:    "jane@example.com",
		Password: "super-secret",
	})

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "email", body["field"])
}

func TestSignInSetsScopedRefreshCookie(t *testing.T) {
	stack := newAuthStack()
	signUp(t, stack)

	_, cookie := signIn(t, stack)

	assert.Equal(t, "/auth/refresh", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.NotEmpty(t, cookie.Value)
	assert.Greater(t, cookie.MaxAge, 0)
}

func TestSignInWrongCredentials(t *testing.T) {
	stack := newAuthStack()
	signUp(t, stack)

	rr := postJSON(t, ErrorHandlingMiddleware(stack.handler.SignIn), "/auth/sign-in", model.SignInRequest{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Invalid email or password", body["message"])
	assert.NotContains(t, body, "field")
}

func TestRefreshRotatesCookie(t *testing.T) {
	stack := newAuthStack()
	signUp(t, stack)
	_, cookie := signIn(t, stack)

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	req.AddCookie(cookie)
	rr := httptest.NewRecorder()
	ErrorHandlingMiddleware(stack.handler.Refresh)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var rotated *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "refreshToken" {
			rotated = c
		}
	}
	assert.NotNil(t, rotated)
	assert.NotEqual(t, cookie.Value, rotated.Value)
}

func TestRefreshRejectsReusedCookie(t *testing.T) {
	stack := newAuthStack()
	signUp(t, stack)
	_, cookie := signIn(t, stack)

	first := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	first.AddCookie(cookie)
	rr := httptest.NewRecorder()
	ErrorHandlingMiddleware(stack.handler.Refresh)(rr, first)
	assert.Equal(t, http.StatusOK, rr.Code)

	// The same cookie again: its fingerprint was rotated away.
	second := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	second.AddCookie(cookie)
	rr = httptest.NewRecorder()
	ErrorHandlingMiddleware(stack.handler.Refresh)(rr, second)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRefreshWithoutCookie(t *testing.T) {
	stack := newAuthStack()

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	rr := httptest.NewRecorder()
	ErrorHandlingMiddleware(stack.handler.Refresh)(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutRevokesAndClearsCookie(t *testing.T) {
	stack := newAuthStack()
	signUp(t, stack)
	accessToken, cookie := signIn(t, stack)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rr := httptest.NewRecorder()
	stack.mw.Require(ErrorHandlingMiddleware(stack.handler.Logout)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	var cleared *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == "refreshToken" {
			cleared = c
		}
	}
	assert.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)

	// The old refresh cookie is now revoked.
	refresh := httptest.NewRequest(http.MethodPost, "/auth/refresh", nil)
	refresh.AddCookie(cookie)
	rr = httptest.NewRecorder()
	ErrorHandlingMiddleware(stack.handler.Refresh)(rr, refresh)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestMeReturnsProfileWithInvolvement(t *testing.T) {
	stack := newAuthStack()
	signUp(t, stack)
	accessToken, _ := signIn(t, stack)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	rr := httptest.NewRecorder()
	stack.mw.Require(ErrorHandlingMiddleware(stack.handler.Me)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var me service.MeResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &me))
	assert.Equal(t, "jane@example.com", me.Email)
	assert.Equal(t, "Jane", me.DisplayName)
	assert.NotNil(t, me.HostedEvents)
	assert.NotNil(t, me.AttendingEvents)
}
