package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"invoicebox/internal/caching"
	"invoicebox/internal/common"
	"invoicebox/internal/middleware"
	"invoicebox/internal/repositories"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthHandlers handles login and logout.
type AuthHandlers struct {
	userRepo   repositories.UserRepository
	sessions   caching.SessionStore
	sessionTTL time.Duration
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(userRepo repositories.UserRepository, sessions caching.SessionStore, sessionTTL time.Duration) *AuthHandlers {
	return &AuthHandlers{
		userRepo:   userRepo,
		sessions:   sessions,
		sessionTTL: sessionTTL,
	}
}

// Login handles POST /login with form fields username and password.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	username := strings.TrimSpace(c.FormValue("username"))
	password := strings.TrimSpace(c.FormValue("password"))
	if username == "" || password == "" {
		return common.SendClientError(c, "Username and password are required")
	}

	user, err := h.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return common.SendServerError(c, "Failed to look up user: "+err.Error())
	}
	if user == nil {
		return common.SendUnauthorizedError(c, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return common.SendUnauthorizedError(c, "Invalid credentials")
	}

	sessionID := generateSessionID()
	if err := h.sessions.Set(ctx, sessionID, user.ID, h.sessionTTL); err != nil {
		return common.SendServerError(c, "Failed to create session: "+err.Error())
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  time.Now().Add(h.sessionTTL),
		HttpOnly: true,
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    user,
	})
}

// Logout handles POST /logout: drops the session and sends the client back to
// the login page.
func (h *AuthHandlers) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Delete(c.Request().Context(), cookie.Value); err != nil {
			return common.SendServerError(c, "Failed to clear session: "+err.Error())
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	return c.Redirect(http.StatusFound, "/login")
}

// generateSessionID returns a cryptographically random session identifier.
func generateSessionID() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	return base64.URLEncoding.EncodeToString(bytes)
}
