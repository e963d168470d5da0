package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/club-admin/internal/core/ports"
)

type MeetingHandler struct {
	store ports.ClubStore
}

func NewMeetingHandler(store ports.ClubStore) *MeetingHandler {
	return &MeetingHandler{store: store}
}

// List returns meetings, most recently created first.
//
// @Summary      List meetings
// @Tags         meetings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   meetingResponse
// @Router       /v1/meetings [get]
func (h *MeetingHandler) List(c echo.Context) error {
	meetings := h.store.ListMeetings()
	out := make([]meetingResponse, 0, len(meetings))
	for _, m := range meetings {
		out = append(out, toMeetingResponse(m))
	}
	return c.JSON(http.StatusOK, out)
}

// Create schedules a meeting.
//
// @Summary      Create meeting
// @Tags         meetings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createMeetingRequest  true  "Meeting"
// @Success      201   {object}  meetingResponse
// @Failure      422   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/meetings [post]
func (h *MeetingHandler) Create(c echo.Context) error {
	var req createMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	meeting, err := h.store.AddMeeting(c.Request().Context(), req.Topic, req.Date, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toMeetingResponse(*meeting))
}
