package domain

import (
	"time"

	"github.com/99minutos/club-admin/internal/pkg/optional"
)

// TaskStatus represents the progress of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "NOT_STARTED"
	StatusOngoing    TaskStatus = "ONGOING"
	StatusFinished   TaskStatus = "FINISHED"
)

// TaskStatuses lists every status in board order.
var TaskStatuses = []TaskStatus{StatusNotStarted, StatusOngoing, StatusFinished}

var statusLabels = map[TaskStatus]string{
	StatusNotStarted: "Not Started",
	StatusOngoing:    "Ongoing",
	StatusFinished:   "Finished",
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the human readable form of the status.
func (s TaskStatus) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Task is a unit of club work assigned to one user.
// AssignedTo may reference a user that has since been deleted.
type Task struct {
	ID          string                    `json:"id"`
	Title       string                    `json:"title"`
	Description string                    `json:"description"`
	AssignedTo  string                    `json:"assignedTo"`
	Status      TaskStatus                `json:"status"`
	CreatedAt   time.Time                 `json:"createdAt"`
	UpdatedAt   time.Time                 `json:"updatedAt"`
	DueDate     optional.Value[time.Time] `json:"dueDate"`
}

// DueDay truncates t to midnight UTC of its calendar day.
func DueDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
