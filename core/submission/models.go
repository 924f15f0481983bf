package submission

import "time"

type Status string

const (
	StatusNotSubmitted  Status = "NotSubmitted"
	StatusPendingReview Status = "PendingReview"
	StatusReviewed      Status = "Reviewed"
)

// Submission is one piece of submitted work, uniquely identified by
// (course, assignment number, learner email). Created exactly once by
// Service.SubmitWork; Remarks and Marks are written later by the grading
// collaborator, never by this engine.
type Submission struct {
	Course      string    `json:"course" mapstructure:"-"`
	Number      int       `json:"submissionNumber" mapstructure:"-"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	SubmittedAt time.Time `json:"submittedAt" mapstructure:"Timestamp"`
	Description string    `json:"description"`
	Link        string    `json:"link" mapstructure:"Submission Link"`
	// Remarks empty means the work has not been graded yet.
	Remarks string `json:"remarks"`
	Marks   int    `json:"marks"`
}

// Status derives the review state: PendingReview until the grading
// collaborator writes non-empty Remarks, Reviewed after (terminal).
func (s Submission) Status() Status {
	if s.Remarks == "" {
		return StatusPendingReview
	}
	return StatusReviewed
}

// Latest selects the globally-latest submission by SubmittedAt. Two
// submissions cannot share a timestamp in practice; ties are still broken
// deterministically by course name then assignment number. ok is false when
// subs is empty (no submission is not an error).
func Latest(subs []Submission) (latest Submission, ok bool) {
	for _, s := range subs {
		if !ok || after(s, latest) {
			latest, ok = s, true
		}
	}
	return latest, ok
}

func after(a, b Submission) bool {
	if !a.SubmittedAt.Equal(b.SubmittedAt) {
		return a.SubmittedAt.After(b.SubmittedAt)
	}
	if a.Course != b.Course {
		return a.Course > b.Course
	}
	return a.Number > b.Number
}

// NewSubmission is the validated input to SubmitWork.
type NewSubmission struct {
	Course      string `json:"course" validate:"required"`
	Number      int    `json:"submissionNumber" validate:"required,min=1"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Link        string `json:"link" validate:"required,url"`
}
