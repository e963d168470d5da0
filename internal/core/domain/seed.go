package domain

import (
	"time"

	"github.com/99minutos/club-admin/internal/pkg/optional"
)

const day = 24 * time.Hour

// SeedUsers is the account population used when nothing was persisted yet.
func SeedUsers() []User {
	return []User{
		{ID: "admin-1", Username: "admin", PasswordHash: Digest("adminpass"), Role: RoleAdmin},
		{ID: "admin-2", Username: "super.admin", PasswordHash: Digest("superadminpass"), Role: RoleAdmin},
		{ID: "member-1", Username: "john.doe", PasswordHash: Digest("memberpass"), Role: RoleMember},
		{ID: "member-2", Username: "jane.smith", PasswordHash: Digest("memberpass2"), Role: RoleMember},
		{ID: "member-3", Username: "peter.jones", PasswordHash: Digest("peterpass"), Role: RoleMember},
		{ID: "member-4", Username: "susan.williams", PasswordHash: Digest("susanpass"), Role: RoleMember},
	}
}

// SeedTasks returns the initial tasks with timestamps relative to now.
func SeedTasks(now time.Time) []Task {
	due := func(days int) optional.Value[time.Time] {
		return optional.Some(DueDay(now.Add(time.Duration(days) * day)))
	}
	return []Task{
		{
			ID:          "task-1",
			Title:       "Organize Welcome BBQ",
			Description: "Plan and organize the welcome BBQ for new members. Book venue, arrange catering.",
			AssignedTo:  "member-1",
			Status:      StatusOngoing,
			CreatedAt:   now.Add(-5 * day),
			UpdatedAt:   now,
			DueDate:     due(10),
		},
		{
			ID:          "task-2",
			Title:       "Update Social Media",
			Description: "Post weekly updates on all social media channels.",
			AssignedTo:  "member-2",
			Status:      StatusNotStarted,
			CreatedAt:   now.Add(-2 * day),
			UpdatedAt:   now.Add(-2 * day),
			DueDate:     due(5),
		},
		{
			ID:          "task-3",
			Title:       "Design Club T-Shirts",
			Description: "Create a new design for the annual club t-shirts.",
			AssignedTo:  "member-3",
			Status:      StatusNotStarted,
			CreatedAt:   now,
			UpdatedAt:   now,
			DueDate:     due(20),
		},
		{
			ID:          "task-4",
			Title:       "Collect Member Feedback",
			Description: "Create and distribute a survey to collect feedback from all members.",
			AssignedTo:  "member-4",
			Status:      StatusOngoing,
			CreatedAt:   now,
			UpdatedAt:   now,
			DueDate:     due(15),
		},
	}
}

// SeedEvents returns one upcoming and one past event.
func SeedEvents(now time.Time) []Event {
	return []Event{
		{
			ID:          "event-1",
			Name:        "Annual Club Gala",
			Description: "The most anticipated event of the year. Dress to impress!",
			Date:        now.Add(30 * day),
			Attendees:   []string{"member-1", "member-3"},
		},
		{
			ID:          "event-2",
			Name:        "Past Workshop on Public Speaking",
			Description: "A workshop to improve public speaking skills.",
			Date:        now.Add(-15 * day),
			Attendees:   []string{"member-1", "member-2", "member-4"},
		},
	}
}

func SeedMeetings(now time.Time) []Meeting {
	return []Meeting{
		{
			ID:    "meeting-1",
			Topic: "Q3 Planning Session",
			Date:  now.Add(7 * day),
			Notes: "Discussion points: budget allocation, upcoming events, member feedback.",
		},
	}
}

func SeedNews(now time.Time) []NewsItem {
	return []NewsItem{
		{
			ID:        "news-1",
			Title:     "Welcome New Members!",
			Content:   "A big welcome to all our new members who joined this month. We are excited to have you!",
			CreatedAt: now,
		},
		{
			ID:        "news-2",
			Title:     "Recap of the Annual Charity Run",
			Content:   "Thanks to everyone who participated, we raised over $5000 for a great cause. Attendance was at an all-time high!",
			CreatedAt: now.Add(-10 * day),
		},
	}
}
