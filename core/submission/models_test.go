package submission

import (
	"testing"
	"time"
)

func TestSubmissionStatus(t *testing.T) {
	s := Submission{Course: "Web Development", Number: 1}
	if got := s.Status(); got != StatusPendingReview {
		t.Errorf("Status() = %v, want %v", got, StatusPendingReview)
	}
	s.Remarks = "solid work"
	if got := s.Status(); got != StatusReviewed {
		t.Errorf("Status() = %v, want %v", got, StatusReviewed)
	}
}

func TestLatest(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty is no submission", func(t *testing.T) {
		if _, ok := Latest(nil); ok {
			t.Error("Latest(nil) ok = true")
		}
	})

	t.Run("max timestamp wins across courses", func(t *testing.T) {
		subs := []Submission{
			{Course: "Web Development", Number: 1, SubmittedAt: t1},
			{Course: "Video Editing", Number: 2, SubmittedAt: t2},
		}
		latest, ok := Latest(subs)
		if !ok || latest.Course != "Video Editing" {
			t.Errorf("Latest() = %+v, %v", latest, ok)
		}
	})

	t.Run("ties break deterministically", func(t *testing.T) {
		subs := []Submission{
			{Course: "Graphic Design", Number: 3, SubmittedAt: t1},
			{Course: "Web Development", Number: 1, SubmittedAt: t1},
			{Course: "Web Development", Number: 2, SubmittedAt: t1},
		}
		for i := 0; i < 10; i++ {
			latest, ok := Latest(subs)
			if !ok || latest.Course != "Web Development" || latest.Number != 2 {
				t.Fatalf("Latest() = %+v, %v", latest, ok)
			}
		}
	})
}
