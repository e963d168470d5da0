package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/api/middleware"
	"github.com/99minutos/club-admin/internal/core/domain"
)

// identity extracts the caller injected by the Auth and Session middleware.
// A missing user id means the handler was mounted without them.
func identity(c echo.Context) (userID string, role domain.Role, err error) {
	userID, _ = c.Get(middleware.KeyUserID).(string)
	r, _ := c.Get(middleware.KeyRole).(string)
	if userID == "" || !domain.Role(r).Valid() {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, domain.Role(r), nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
