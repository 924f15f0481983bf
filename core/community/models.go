package community

import "time"

// Message is one post on a course's message board.
type Message struct {
	ID      string `json:"id"`
	Sender  string `json:"sender"`
	Name    string `json:"name"`
	Content string `json:"content"`
	// Timestamp is nil while the post is in flight (the server time is
	// written in a second step after the message document exists).
	Timestamp *time.Time `json:"timestamp,omitempty"`
	// Mine marks messages sent by the viewing learner.
	Mine bool `json:"mine,omitempty"`
}
