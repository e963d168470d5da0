package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/core/domain"
)

type stubSessions struct {
	current *domain.User
}

func (s stubSessions) CurrentUser() (*domain.User, bool) {
	return s.current, s.current != nil
}

func runSession(t *testing.T, sessions stubSessions, userID string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(KeyUserID, userID)
	c.Set(KeyRole, "MEMBER")

	called := false
	handler := Session(sessions)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c, called
}

func TestSession_ActiveUser(t *testing.T) {
	admin := &domain.User{ID: "admin-1", Username: "admin", Role: domain.RoleAdmin}

	rec, c, called := runSession(t, stubSessions{current: admin}, "admin-1")
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through, got %d", rec.Code)
	}
	if c.Get(KeyRole) != "ADMIN" {
		t.Fatalf("role must follow the live user, got %v", c.Get(KeyRole))
	}
}

func TestSession_Rejects(t *testing.T) {
	admin := &domain.User{ID: "admin-1", Role: domain.RoleAdmin}

	cases := map[string]struct {
		sessions stubSessions
		userID   string
	}{
		"anonymous":  {sessions: stubSessions{}, userID: "admin-1"},
		"other user": {sessions: stubSessions{current: admin}, userID: "member-1"},
		"missing id": {sessions: stubSessions{current: admin}, userID: ""},
	}
	for name, tc := range cases {
		rec, _, called := runSession(t, tc.sessions, tc.userID)
		if called {
			t.Fatalf("%s: should not reach next", name)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}
