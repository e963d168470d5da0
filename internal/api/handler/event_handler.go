package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

// EventHandler serves club events and attendance.
type EventHandler struct {
	store ports.ClubStore
	now   func() time.Time
}

func NewEventHandler(store ports.ClubStore, now func() time.Time) *EventHandler {
	if now == nil {
		now = time.Now
	}
	return &EventHandler{store: store, now: now}
}

// List returns events split into upcoming (soonest first) and past (latest
// first).
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  eventListResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/events [get]
func (h *EventHandler) List(c echo.Context) error {
	userID, _, err := identity(c)
	if err != nil {
		return err
	}
	now := h.now()
	upcoming, past := domain.PartitionEvents(h.store.ListEvents(), now)
	return c.JSON(http.StatusOK, eventListResponse{
		Upcoming: toEventResponses(upcoming, userID, now),
		Past:     toEventResponses(past, userID, now),
	})
}

// Create schedules a new event.
//
// @Summary      Create event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event"
// @Success      201   {object}  eventResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	userID, _, err := identity(c)
	if err != nil {
		return err
	}
	var req createEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.store.AddEvent(c.Request().Context(), req.Name, req.Description, req.Date)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toEventResponse(*event, userID, h.now()))
}

// ToggleAttendance joins the caller to the event, or removes them when they
// already attend. Members can only change upcoming events.
//
// @Summary      Toggle own attendance
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  eventResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Failure      503  {object}  errorResponse
// @Router       /v1/events/{id}/attendance [post]
func (h *EventHandler) ToggleAttendance(c echo.Context) error {
	userID, role, err := identity(c)
	if err != nil {
		return err
	}

	id := c.Param("id")
	event, ok := h.store.FindEvent(id)
	if !ok {
		return domain.ErrEventNotFound
	}
	now := h.now()
	if role != domain.RoleAdmin && !event.IsUpcoming(now) {
		return domain.ErrEventClosed
	}

	if err := h.store.ToggleEventAttendance(c.Request().Context(), id, userID); err != nil {
		return err
	}
	updated, ok := h.store.FindEvent(id)
	if !ok {
		return domain.ErrEventNotFound
	}
	return c.JSON(http.StatusOK, toEventResponse(*updated, userID, now))
}
