package assignment

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCourseMapping means an enrolled course has no known catalog
	// collection; that course's assignments are omitted and a warning
	// surfaced, other courses are unaffected.
	ErrInvalidCourseMapping = errors.New("course has no assignment catalog")

	// catalog collection per course name
	collectionsByCourse = map[string]string{
		"Graphic Design":  "GD",
		"Web Development": "WD",
		"Video Editing":   "VE",
	}
)

// CollectionFor maps a course name to its assignment-catalog collection.
func CollectionFor(course string) (string, error) {
	coll, ok := collectionsByCourse[course]
	if !ok {
		return "", ErrInvalidCourseMapping
	}
	return coll, nil
}

type Status string

const (
	StatusActive Status = "Active"
	StatusClosed Status = "Closed"
)

// Assignment is one catalog entry; read-only to this engine.
type Assignment struct {
	Course      string `json:"course"`
	Number      int    `json:"submissionNumber"`
	Title       string `json:"title"`
	Description string `json:"description"`
	// Deadline is a bare date; the whole day is within the deadline.
	// nil means no deadline.
	Deadline *time.Time `json:"deadline,omitempty"`
}

// StatusAt derives the assignment lifecycle status at now: Active while now's
// calendar date is on or before the deadline date, Closed after. Assignments
// without a deadline are always Active. Independent of submission state: an
// assignment can be Closed yet already submitted.
func (a Assignment) StatusAt(now time.Time) Status {
	if a.Deadline == nil {
		return StatusActive
	}
	d := *a.Deadline
	now = now.In(d.Location())
	ny, nm, nd := now.Date()
	dy, dm, dd := d.Date()
	nowDate := time.Date(ny, nm, nd, 0, 0, 0, 0, d.Location())
	deadlineDate := time.Date(dy, dm, dd, 0, 0, 0, 0, d.Location())
	if nowDate.After(deadlineDate) {
		return StatusClosed
	}
	return StatusActive
}

// Catalog groups a learner's assignments per course.
type Catalog struct {
	// ByCourse holds each fetched course's assignments, ordered by
	// assignment number descending (portal display order).
	ByCourse map[string][]Assignment
	// Partial is set when at least one course's catalog could not be fetched
	// or mapped; the affected courses are simply absent from ByCourse.
	Partial bool
}
