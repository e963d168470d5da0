package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/core/domain"
)

// SessionReader exposes the process-wide session slot.
type SessionReader interface {
	CurrentUser() (*domain.User, bool)
}

// Session admits a request only when the token belongs to the active session
// user. Logging out, or anyone else logging in, therefore retires older
// tokens. The role in the context is refreshed from the live user record.
func Session(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, _ := c.Get(KeyUserID).(string)
			current, ok := sessions.CurrentUser()
			if !ok || userID == "" || current.ID != userID {
				return echo.NewHTTPError(http.StatusUnauthorized, "session expired")
			}

			c.Set(KeyUsername, current.Username)
			c.Set(KeyRole, string(current.Role))
			return next(c)
		}
	}
}
