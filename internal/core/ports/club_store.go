package ports

import (
	"context"
	"time"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/pkg/optional"
)

// ClubStore is the read and mutation surface of the entity store that the
// transport layer depends on.
type ClubStore interface {
	ListUsers() []domain.User
	ListTasks() []domain.Task
	ListEvents() []domain.Event
	ListMeetings() []domain.Meeting
	ListNews() []domain.NewsItem
	Snapshot() domain.Snapshot

	FindUser(id string) (*domain.User, bool)
	FindTask(id string) (*domain.Task, bool)
	FindEvent(id string) (*domain.Event, bool)

	AddUser(ctx context.Context, username, secret string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string) error
	AddTask(ctx context.Context, title, description, assignedTo string, dueDate optional.Value[time.Time]) (*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, taskID string, status domain.TaskStatus) error
	DeleteTask(ctx context.Context, taskID string) error
	AddEvent(ctx context.Context, name, description string, date time.Time) (*domain.Event, error)
	ToggleEventAttendance(ctx context.Context, eventID, userID string) error
	AddMeeting(ctx context.Context, topic string, date time.Time, notes string) (*domain.Meeting, error)
	AddNewsItem(ctx context.Context, title, content string) (*domain.NewsItem, error)
	UpdateCredential(ctx context.Context, userID, newSecret string) error
}
