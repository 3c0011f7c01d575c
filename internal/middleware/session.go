package middleware

import (
	"net/http"

	"invoicebox/internal/caching"
	"invoicebox/internal/common"

	"github.com/labstack/echo/v4"
)

// SessionCookieName is the cookie carrying the session ID.
const SessionCookieName = "session_id"

// SessionGuard gates handlers on an active session. Requests without one are
// redirected to the login page; authenticated requests get the user ID placed
// into the request context.
func SessionGuard(sessions caching.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.Redirect(http.StatusFound, "/login")
			}

			userID, ok, err := sessions.Get(c.Request().Context(), cookie.Value)
			if err != nil {
				return common.SendServerError(c, "Failed to check session: "+err.Error())
			}
			if !ok {
				return c.Redirect(http.StatusFound, "/login")
			}

			ctx := common.WithUserID(c.Request().Context(), userID)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
