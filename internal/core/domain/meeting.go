package domain

import "time"

// Meeting is a scheduled board meeting.
type Meeting struct {
	ID    string    `json:"id"`
	Topic string    `json:"topic"`
	Date  time.Time `json:"date"`
	Notes string    `json:"notes"`
}
