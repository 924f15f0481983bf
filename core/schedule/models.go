package schedule

import "time"

// ClassSession is one scheduled class. Sessions are immutable once scheduled
// and read-only to this engine; duration is fixed portal-wide
// (core.PortalConfig.ClassDuration).
type ClassSession struct {
	ID      string    `json:"id"`
	Course  string    `json:"course"`
	Start   time.Time `json:"start"`
	JoinURL string    `json:"joinUrl,omitempty"`
}

// End returns the instant the session elapses.
func (s ClassSession) End(duration time.Duration) time.Time {
	return s.Start.Add(duration)
}

// Window is the upcoming subset of a learner's class sessions, soonest first.
type Window struct {
	Sessions []ClassSession
	// Skipped counts sessions excluded for having no resolvable start time
	// (data quality, not an error).
	Skipped int
}

// Next returns the soonest upcoming session, or nil when there is none.
func (w Window) Next() *ClassSession {
	if len(w.Sessions) == 0 {
		return nil
	}
	return &w.Sessions[0]
}
