package domain

import (
	"slices"
	"time"
)

// Event is a club gathering members can opt into.
// Attendees holds user ids in join order, without duplicates.
type Event struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Attendees   []string  `json:"attendees"`
}

// IsAttending reports whether userID has joined the event.
func (e Event) IsAttending(userID string) bool {
	return slices.Contains(e.Attendees, userID)
}

// IsUpcoming reports whether the event happens strictly after now.
func (e Event) IsUpcoming(now time.Time) bool {
	return e.Date.After(now)
}
