package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/core/ports"
)

type DashboardHandler struct {
	dashboards ports.DashboardService
	store      ports.ClubStore
	now        func() time.Time
}

func NewDashboardHandler(dashboards ports.DashboardService, store ports.ClubStore, now func() time.Time) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &DashboardHandler{dashboards: dashboards, store: store, now: now}
}

// Admin returns the administrator overview.
//
// @Summary      Admin overview
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  adminDashboardResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/dashboard/admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	userID, _, err := identity(c)
	if err != nil {
		return err
	}
	overview := h.dashboards.AdminOverview()
	return c.JSON(http.StatusOK, toAdminDashboardResponse(overview, usernames(h.store.ListUsers()), userID, h.now()))
}

// Me returns the caller's board: own tasks by status, events and news.
//
// @Summary      Member board
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  memberDashboardResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/dashboard/me [get]
func (h *DashboardHandler) Me(c echo.Context) error {
	userID, _, err := identity(c)
	if err != nil {
		return err
	}
	overview := h.dashboards.MemberOverview(userID)
	return c.JSON(http.StatusOK, toMemberDashboardResponse(overview, usernames(h.store.ListUsers()), h.now()))
}
