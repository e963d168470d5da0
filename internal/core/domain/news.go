package domain

import "time"

// NewsItem is an announcement. It never changes after creation.
type NewsItem struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
