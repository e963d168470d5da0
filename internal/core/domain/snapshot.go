package domain

// Snapshot is a read-only copy of every collection, handed to collaborators
// that must not touch the store.
type Snapshot struct {
	Users    []User     `json:"users"`
	Tasks    []Task     `json:"tasks"`
	Events   []Event    `json:"events"`
	Meetings []Meeting  `json:"meetings"`
	News     []NewsItem `json:"news"`
}
