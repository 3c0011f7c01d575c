package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"invoicebox/internal/common"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Set(ctx context.Context, sessionID string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, sessionID, userID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, sessionID string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

func (m *MockSessionStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func guardedRequest(t *testing.T, sessions *MockSessionStore, cookie *http.Cookie) (*httptest.ResponseRecorder, bool, uuid.UUID) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var nextCalled bool
	var seenUserID uuid.UUID
	next := func(c echo.Context) error {
		nextCalled = true
		seenUserID, _ = common.GetUserIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}

	require.NoError(t, SessionGuard(sessions)(next)(c))
	return rec, nextCalled, seenUserID
}

func TestSessionGuard_NoCookieRedirectsToLogin(t *testing.T) {
	sessions := &MockSessionStore{}

	rec, nextCalled, _ := guardedRequest(t, sessions, nil)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	assert.False(t, nextCalled)
	sessions.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestSessionGuard_UnknownSessionRedirectsToLogin(t *testing.T) {
	sessions := &MockSessionStore{}
	sessions.On("Get", mock.Anything, "stale").Return(uuid.Nil, false, nil)

	rec, nextCalled, _ := guardedRequest(t, sessions, &http.Cookie{Name: SessionCookieName, Value: "stale"})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))
	assert.False(t, nextCalled)
}

func TestSessionGuard_ValidSessionPassesUserID(t *testing.T) {
	sessions := &MockSessionStore{}
	userID := uuid.New()
	sessions.On("Get", mock.Anything, "live").Return(userID, true, nil)

	rec, nextCalled, seenUserID := guardedRequest(t, sessions, &http.Cookie{Name: SessionCookieName, Value: "live"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, nextCalled)
	assert.Equal(t, userID, seenUserID)
}

func TestSessionGuard_StoreErrorIsServerError(t *testing.T) {
	sessions := &MockSessionStore{}
	sessions.On("Get", mock.Anything, "broken").Return(uuid.Nil, false, errors.New("redis down"))

	rec, nextCalled, _ := guardedRequest(t, sessions, &http.Cookie{Name: SessionCookieName, Value: "broken"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, nextCalled)
}
