package learner

// Profile is a learner's account document, with the enrollment field already
// canonicalized.
type Profile struct {
	// Email is the account key (documents live at "users/{email}").
	Email string `json:"email"`
	Name  string `json:"name"`
	// ID is the learner's ordinal id, displayed next to the name.
	ID string `json:"id"`
	// Courses is the enrolled course set: trimmed, de-duplicated, first-seen
	// order preserved.
	Courses []string `json:"courses"`
	// Submissions is the running count of accepted submissions.
	Submissions int `json:"submissions"`
}

// IsEnrolled reports whether the learner is enrolled in course.
func (p Profile) IsEnrolled(course string) bool {
	for _, c := range p.Courses {
		if c == course {
			return true
		}
	}
	return false
}
