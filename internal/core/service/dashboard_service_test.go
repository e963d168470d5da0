package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/club-admin/internal/core/domain"
	"github.com/99minutos/club-admin/internal/pkg/optional"
)

// seedDay is one day after the step clock used by newTestStore starts.
var seedDay = func() time.Time { return time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC) }

type staticSnapshot domain.Snapshot

func (s staticSnapshot) Snapshot() domain.Snapshot { return domain.Snapshot(s) }

func TestDashboardService_AdminOverview_Seed(t *testing.T) {
	s := newTestStore(t, nil)
	dash := NewDashboardService(s, seedDay)

	o := dash.AdminOverview()
	assert.Equal(t, 4, o.MemberCount)
	assert.Equal(t, 4, o.TaskCount)
	assert.Equal(t, 2, o.EventCount)
	assert.Equal(t, map[domain.TaskStatus]int{
		domain.StatusNotStarted: 2,
		domain.StatusOngoing:    2,
		domain.StatusFinished:   0,
	}, o.StatusCounts)
	require.Len(t, o.UpcomingEvents, 1)
	assert.Equal(t, "event-1", o.UpcomingEvents[0].ID)
	assert.Empty(t, o.OverdueTasks)
}

func TestDashboardService_AdminOverview_CapsUpcoming(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	events := []domain.Event{}
	for i := 6; i >= 1; i-- {
		events = append(events, domain.Event{ID: string(rune('a' + i)), Date: now.Add(time.Duration(i) * time.Hour)})
	}
	events = append(events, domain.Event{ID: "now", Date: now})

	dash := NewDashboardService(staticSnapshot{Events: events}, func() time.Time { return now })
	o := dash.AdminOverview()

	require.Len(t, o.UpcomingEvents, 4)
	for i := 1; i < len(o.UpcomingEvents); i++ {
		assert.True(t, o.UpcomingEvents[i-1].Date.Before(o.UpcomingEvents[i].Date))
	}
	assert.Equal(t, 7, o.EventCount)
}

func TestDashboardService_AdminOverview_Overdue(t *testing.T) {
	now := time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)
	yesterday := optional.Some(time.Date(2026, 5, 9, 0, 0, 0, 0, time.UTC))
	tasks := []domain.Task{
		{ID: "late", Status: domain.StatusOngoing, DueDate: yesterday},
		{ID: "done", Status: domain.StatusFinished, DueDate: yesterday},
		{ID: "today", Status: domain.StatusNotStarted, DueDate: optional.Some(domain.DueDay(now))},
		{ID: "none", Status: domain.StatusNotStarted},
	}

	o := NewDashboardService(staticSnapshot{Tasks: tasks}, func() time.Time { return now }).AdminOverview()
	require.Len(t, o.OverdueTasks, 1)
	assert.Equal(t, "late", o.OverdueTasks[0].ID)
}

func TestDashboardService_MemberOverview(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()
	_, err := s.AddNewsItem(ctx, "Fresh", "news")
	require.NoError(t, err)

	o := NewDashboardService(s, seedDay).MemberOverview("member-1")

	assert.Equal(t, "member-1", o.UserID)
	assert.Equal(t, 1, o.Tasks.Total())
	require.Len(t, o.Tasks.Ongoing, 1)
	assert.Equal(t, "task-1", o.Tasks.Ongoing[0].ID)
	assert.Empty(t, o.Tasks.NotStarted)
	require.Len(t, o.UpcomingEvents, 1)
	require.Len(t, o.PastEvents, 1)
	require.Len(t, o.News, 3)
	assert.Equal(t, "Fresh", o.News[0].Title)
}

func TestDashboardService_MemberOverview_UnknownUser(t *testing.T) {
	s := newTestStore(t, nil)
	o := NewDashboardService(s, seedDay).MemberOverview("member-404")
	assert.Equal(t, 0, o.Tasks.Total())
	assert.NotNil(t, o.Tasks.Finished)
}
