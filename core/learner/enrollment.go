package learner

import (
	"errors"
	"strings"
)

// ErrMalformedEnrollment means the profile carries no courses field at all.
// An empty enrollment is not malformed; downstream components treat it as
// "no enrollment".
var ErrMalformedEnrollment = errors.New("profile has no courses")

// NormalizeCourses canonicalizes the raw courses field of a profile document.
// Capture-side writes are loose: the field is either a comma-delimited string
// with arbitrary whitespace or an already-structured sequence. The result is
// trimmed, has empties dropped and duplicates removed, preserving the order
// of first occurrence.
func NormalizeCourses(raw interface{}) ([]string, error) {
	var parts []string
	switch v := raw.(type) {
	case string:
		parts = strings.Split(v, ",")
	case []string:
		parts = v
	case []interface{}:
		parts = make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, ErrMalformedEnrollment
			}
			parts = append(parts, s)
		}
	default:
		return nil, ErrMalformedEnrollment
	}

	courses := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		c := strings.TrimSpace(p)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		courses = append(courses, c)
	}
	return courses, nil
}
