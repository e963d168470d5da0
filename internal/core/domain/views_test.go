package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/club-admin/internal/pkg/optional"
)

var refNow = time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

func TestCountTasksByStatus(t *testing.T) {
	counts := CountTasksByStatus(SeedTasks(refNow))
	assert.Equal(t, map[TaskStatus]int{
		StatusNotStarted: 2,
		StatusOngoing:    2,
		StatusFinished:   0,
	}, counts)

	empty := CountTasksByStatus(nil)
	assert.Len(t, empty, 3)
}

func TestPartitionEvents(t *testing.T) {
	events := []Event{
		{ID: "far", Date: refNow.Add(10 * day)},
		{ID: "old", Date: refNow.Add(-20 * day)},
		{ID: "now", Date: refNow},
		{ID: "soon", Date: refNow.Add(time.Hour)},
		{ID: "recent", Date: refNow.Add(-time.Hour)},
	}

	upcoming, past := PartitionEvents(events, refNow)

	require.Len(t, upcoming, 2)
	assert.Equal(t, "soon", upcoming[0].ID)
	assert.Equal(t, "far", upcoming[1].ID)

	// an event at exactly now is not upcoming
	require.Len(t, past, 3)
	assert.Equal(t, "now", past[0].ID)
	assert.Equal(t, "recent", past[1].ID)
	assert.Equal(t, "old", past[2].ID)
}

func TestBoardFor(t *testing.T) {
	tasks := []Task{
		{ID: "t1", AssignedTo: "m1", Status: StatusOngoing},
		{ID: "t2", AssignedTo: "m2", Status: StatusOngoing},
		{ID: "t3", AssignedTo: "m1", Status: StatusFinished},
		{ID: "t4", AssignedTo: "m1", Status: StatusNotStarted},
		{ID: "t5", AssignedTo: "m1", Status: StatusOngoing},
	}

	board := BoardFor(tasks, "m1")
	assert.Equal(t, 4, board.Total())
	require.Len(t, board.Ongoing, 2)
	assert.Equal(t, "t1", board.Ongoing[0].ID)
	assert.Equal(t, "t5", board.Ongoing[1].ID)
	assert.Len(t, board.NotStarted, 1)
	assert.Len(t, board.Finished, 1)

	none := BoardFor(tasks, "ghost")
	assert.Equal(t, 0, none.Total())
	assert.NotNil(t, none.Ongoing)
}

func TestMembers(t *testing.T) {
	members := Members(SeedUsers())
	assert.Len(t, members, 4)
	for _, m := range members {
		assert.Equal(t, RoleMember, m.Role)
	}
}

func TestNewsByRecency(t *testing.T) {
	news := []NewsItem{
		{ID: "old", CreatedAt: refNow.Add(-day)},
		{ID: "new", CreatedAt: refNow},
	}
	sorted := NewsByRecency(news)
	assert.Equal(t, "new", sorted[0].ID)
	assert.Equal(t, "old", news[0].ID, "input must not be reordered")
}

func TestOverdueTasks(t *testing.T) {
	tasks := []Task{
		{ID: "late", Status: StatusOngoing, DueDate: optional.Some(DueDay(refNow.Add(-2 * day)))},
		{ID: "today", Status: StatusOngoing, DueDate: optional.Some(DueDay(refNow))},
		{ID: "done", Status: StatusFinished, DueDate: optional.Some(DueDay(refNow.Add(-2 * day)))},
		{ID: "undated", Status: StatusNotStarted},
	}
	overdue := OverdueTasks(tasks, refNow)
	require.Len(t, overdue, 1)
	assert.Equal(t, "late", overdue[0].ID)
}

func TestTaskStatus_Label(t *testing.T) {
	assert.Equal(t, "Not Started", StatusNotStarted.Label())
	assert.True(t, StatusFinished.Valid())
	assert.False(t, TaskStatus("Done").Valid())
}
