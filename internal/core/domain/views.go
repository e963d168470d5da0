package domain

import (
	"slices"
	"time"
)

// The helpers below are pure projections over a snapshot. Callers recompute
// them on every read.

// CountTasksByStatus returns the number of tasks per status. Every known
// status is present, zero when no task has it.
func CountTasksByStatus(tasks []Task) map[TaskStatus]int {
	counts := make(map[TaskStatus]int, len(TaskStatuses))
	for _, s := range TaskStatuses {
		counts[s] = 0
	}
	for _, t := range tasks {
		counts[t.Status]++
	}
	return counts
}

// PartitionEvents splits events into those strictly after now, ascending by
// date, and the rest, descending by date.
func PartitionEvents(events []Event, now time.Time) (upcoming, past []Event) {
	upcoming = make([]Event, 0, len(events))
	past = make([]Event, 0, len(events))
	for _, e := range events {
		if e.IsUpcoming(now) {
			upcoming = append(upcoming, e)
		} else {
			past = append(past, e)
		}
	}
	slices.SortStableFunc(upcoming, func(a, b Event) int { return a.Date.Compare(b.Date) })
	slices.SortStableFunc(past, func(a, b Event) int { return b.Date.Compare(a.Date) })
	return upcoming, past
}

// TaskBoard groups one member's tasks by status.
type TaskBoard struct {
	NotStarted []Task `json:"not_started"`
	Ongoing    []Task `json:"ongoing"`
	Finished   []Task `json:"finished"`
}

// Total returns the number of tasks on the board.
func (b TaskBoard) Total() int {
	return len(b.NotStarted) + len(b.Ongoing) + len(b.Finished)
}

// BoardFor collects the tasks assigned to userID, keeping collection order.
func BoardFor(tasks []Task, userID string) TaskBoard {
	board := TaskBoard{
		NotStarted: []Task{},
		Ongoing:    []Task{},
		Finished:   []Task{},
	}
	for _, t := range tasks {
		if t.AssignedTo != userID {
			continue
		}
		switch t.Status {
		case StatusNotStarted:
			board.NotStarted = append(board.NotStarted, t)
		case StatusOngoing:
			board.Ongoing = append(board.Ongoing, t)
		case StatusFinished:
			board.Finished = append(board.Finished, t)
		}
	}
	return board
}

// Members filters users down to the MEMBER role.
func Members(users []User) []User {
	out := make([]User, 0, len(users))
	for _, u := range users {
		if u.Role == RoleMember {
			out = append(out, u)
		}
	}
	return out
}

// NewsByRecency returns a copy of news sorted newest first.
func NewsByRecency(news []NewsItem) []NewsItem {
	out := slices.Clone(news)
	slices.SortStableFunc(out, func(a, b NewsItem) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out
}

// OverdueTasks returns unfinished tasks whose due day is before the day of now.
func OverdueTasks(tasks []Task, now time.Time) []Task {
	today := DueDay(now)
	out := []Task{}
	for _, t := range tasks {
		due, ok := t.DueDate.Get()
		if !ok || t.Status == StatusFinished {
			continue
		}
		if DueDay(due).Before(today) {
			out = append(out, t)
		}
	}
	return out
}
