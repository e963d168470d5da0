package handler

import (
	"time"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

const dayLayout = "2006-01-02"

// --- Requests ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	NewPassword     string `json:"new_password"     validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type createUserRequest struct {
	Username string `json:"username" validate:"notblank,max=64"`
	Password string `json:"password" validate:"required"`
}

type createTaskRequest struct {
	Title       string `json:"title"       validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	AssignedTo  string `json:"assigned_to" validate:"notblank"`
	DueDate     string `json:"due_date"    validate:"omitempty,datetime=2006-01-02"`
}

type updateTaskStatusRequest struct {
	Status string `json:"status" validate:"required,taskstatus"`
}

type createEventRequest struct {
	Name        string    `json:"name"        validate:"notblank"`
	Description string    `json:"description" validate:"notblank"`
	Date        time.Time `json:"date"        validate:"required"`
}

type createMeetingRequest struct {
	Topic string    `json:"topic" validate:"notblank"`
	Date  time.Time `json:"date"  validate:"required"`
	Notes string    `json:"notes"`
}

type createNewsRequest struct {
	Title   string `json:"title"   validate:"notblank"`
	Content string `json:"content" validate:"notblank"`
}

// --- Responses ---
// Response types are owned by the transport layer so the JSON contract is
// not coupled to the persisted shape.

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type taskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assigned_to"`
	Assignee    string    `json:"assignee,omitempty"`
	Status      string    `json:"status"`
	StatusLabel string    `json:"status_label"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	DueDate     *string   `json:"due_date"`
}

type taskBoardResponse struct {
	NotStarted []taskResponse `json:"not_started"`
	Ongoing    []taskResponse `json:"ongoing"`
	Finished   []taskResponse `json:"finished"`
}

type eventResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Attendees     []string  `json:"attendees"`
	AttendeeCount int       `json:"attendee_count"`
	Attending     bool      `json:"attending"`
	Upcoming      bool      `json:"upcoming"`
}

type eventListResponse struct {
	Upcoming []eventResponse `json:"upcoming"`
	Past     []eventResponse `json:"past"`
}

type meetingResponse struct {
	ID    string    `json:"id"`
	Topic string    `json:"topic"`
	Date  time.Time `json:"date"`
	Notes string    `json:"notes"`
}

type newsResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type adminDashboardResponse struct {
	MemberCount    int             `json:"member_count"`
	TaskCount      int             `json:"task_count"`
	EventCount     int             `json:"event_count"`
	TasksByStatus  map[string]int  `json:"tasks_by_status"`
	UpcomingEvents []eventResponse `json:"upcoming_events"`
	OverdueTasks   []taskResponse  `json:"overdue_tasks"`
}

type memberDashboardResponse struct {
	Tasks          taskBoardResponse `json:"tasks"`
	UpcomingEvents []eventResponse   `json:"upcoming_events"`
	PastEvents     []eventResponse   `json:"past_events"`
	News           []newsResponse    `json:"news"`
}

type reportResponse struct {
	Report      string    `json:"report"`
	GeneratedAt time.Time `json:"generated_at"`
}

// --- Mappers ---

func toUserResponse(u domain.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Role: string(u.Role)}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

// usernames indexes users by id so task responses can name the assignee.
// Dangling ids simply have no entry.
func usernames(users []domain.User) map[string]string {
	out := make(map[string]string, len(users))
	for _, u := range users {
		out[u.ID] = u.Username
	}
	return out
}

func toTaskResponse(t domain.Task, names map[string]string) taskResponse {
	resp := taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		AssignedTo:  t.AssignedTo,
		Assignee:    names[t.AssignedTo],
		Status:      string(t.Status),
		StatusLabel: t.Status.Label(),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if due, ok := t.DueDate.Get(); ok {
		s := due.Format(dayLayout)
		resp.DueDate = &s
	}
	return resp
}

func toTaskResponses(tasks []domain.Task, names map[string]string) []taskResponse {
	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t, names))
	}
	return out
}

func toEventResponse(e domain.Event, callerID string, now time.Time) eventResponse {
	attendees := e.Attendees
	if attendees == nil {
		attendees = []string{}
	}
	return eventResponse{
		ID:            e.ID,
		Name:          e.Name,
		Description:   e.Description,
		Date:          e.Date,
		Attendees:     attendees,
		AttendeeCount: len(attendees),
		Attending:     e.IsAttending(callerID),
		Upcoming:      e.IsUpcoming(now),
	}
}

func toEventResponses(events []domain.Event, callerID string, now time.Time) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e, callerID, now))
	}
	return out
}

func toMeetingResponse(m domain.Meeting) meetingResponse {
	return meetingResponse{ID: m.ID, Topic: m.Topic, Date: m.Date, Notes: m.Notes}
}

func toNewsResponse(n domain.NewsItem) newsResponse {
	return newsResponse{ID: n.ID, Title: n.Title, Content: n.Content, CreatedAt: n.CreatedAt}
}

func toNewsResponses(news []domain.NewsItem) []newsResponse {
	out := make([]newsResponse, 0, len(news))
	for _, n := range news {
		out = append(out, toNewsResponse(n))
	}
	return out
}

func toAdminDashboardResponse(o ports.AdminOverview, names map[string]string, callerID string, now time.Time) adminDashboardResponse {
	counts := make(map[string]int, len(o.StatusCounts))
	for s, n := range o.StatusCounts {
		counts[string(s)] = n
	}
	return adminDashboardResponse{
		MemberCount:    o.MemberCount,
		TaskCount:      o.TaskCount,
		EventCount:     o.EventCount,
		TasksByStatus:  counts,
		UpcomingEvents: toEventResponses(o.UpcomingEvents, callerID, now),
		OverdueTasks:   toTaskResponses(o.OverdueTasks, names),
	}
}

func toMemberDashboardResponse(o ports.MemberOverview, names map[string]string, now time.Time) memberDashboardResponse {
	return memberDashboardResponse{
		Tasks: taskBoardResponse{
			NotStarted: toTaskResponses(o.Tasks.NotStarted, names),
			Ongoing:    toTaskResponses(o.Tasks.Ongoing, names),
			Finished:   toTaskResponses(o.Tasks.Finished, names),
		},
		UpcomingEvents: toEventResponses(o.UpcomingEvents, o.UserID, now),
		PastEvents:     toEventResponses(o.PastEvents, o.UserID, now),
		News:           toNewsResponses(o.News),
	}
}
