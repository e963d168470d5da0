package ports

import "github.com/99minutos/club-admin/internal/core/domain"

// AdminOverview is the administrator landing summary.
type AdminOverview struct {
	MemberCount    int
	TaskCount      int
	EventCount     int
	StatusCounts   map[domain.TaskStatus]int
	UpcomingEvents []domain.Event
	OverdueTasks   []domain.Task
}

// MemberOverview is one member's board.
type MemberOverview struct {
	UserID         string
	Tasks          domain.TaskBoard
	UpcomingEvents []domain.Event
	PastEvents     []domain.Event
	News           []domain.NewsItem
}

type DashboardService interface {
	AdminOverview() AdminOverview
	MemberOverview(userID string) MemberOverview
}
