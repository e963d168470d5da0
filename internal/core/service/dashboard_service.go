package service

import (
	"time"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/core/ports"
)

// upcomingPreview is how many upcoming events the admin overview lists.
const upcomingPreview = 4

type snapshotReader interface {
	Snapshot() domain.Snapshot
}

// DashboardService computes the read-only dashboards. Nothing is cached; each
// call projects a fresh snapshot.
type DashboardService struct {
	store snapshotReader
	now   func() time.Time
}

var _ ports.DashboardService = (*DashboardService)(nil)

func NewDashboardService(store snapshotReader, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	return &DashboardService{store: store, now: now}
}

func (s *DashboardService) AdminOverview() ports.AdminOverview {
	snap := s.store.Snapshot()
	now := s.now()

	upcoming, _ := domain.PartitionEvents(snap.Events, now)
	if len(upcoming) > upcomingPreview {
		upcoming = upcoming[:upcomingPreview]
	}

	return ports.AdminOverview{
		MemberCount:    len(domain.Members(snap.Users)),
		TaskCount:      len(snap.Tasks),
		EventCount:     len(snap.Events),
		StatusCounts:   domain.CountTasksByStatus(snap.Tasks),
		UpcomingEvents: upcoming,
		OverdueTasks:   domain.OverdueTasks(snap.Tasks, now),
	}
}

func (s *DashboardService) MemberOverview(userID string) ports.MemberOverview {
	snap := s.store.Snapshot()
	upcoming, past := domain.PartitionEvents(snap.Events, s.now())

	return ports.MemberOverview{
		UserID:         userID,
		Tasks:          domain.BoardFor(snap.Tasks, userID),
		UpcomingEvents: upcoming,
		PastEvents:     past,
		News:           domain.NewsByRecency(snap.News),
	}
}
