package attendance

// Report aggregates a learner's attendance for one course.
type Report struct {
	Course string `json:"course"`
	// Qualifying counts sessions where the learner's recorded duration met
	// the portal threshold.
	Qualifying int `json:"qualifying"`
	// Total counts every session held in the course's attendance groups,
	// attended or not.
	Total int `json:"total"`
	// Degraded is set when at least one group or session fetch failed and
	// contributed zero instead of aborting the aggregation.
	Degraded bool `json:"degraded,omitempty"`
}

// Ratio returns qualifying/total. ok is false when the course held no
// sessions; render that as 0% with a "no sessions" note, never divide.
func (r Report) Ratio() (ratio float64, ok bool) {
	if r.Total == 0 {
		return 0, false
	}
	return float64(r.Qualifying) / float64(r.Total), true
}
