package content

import "time"

// Announcement is a portal-wide notice; read-only, newest first.
type Announcement struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// Material is a course resource (slides, recordings, reading).
type Material struct {
	ID     string `json:"id"`
	Course string `json:"course"`
	Title  string `json:"title"`
	Link   string `json:"link"`
}
