package schedule

import (
	"context"
	"sort"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const classesCollection = "classes"

type Service struct {
	store core.DocStore
	log   core.Logger
	conf  *core.Config
}

func NewService(store core.DocStore, log core.Logger, conf *core.Config) *Service {
	return &Service{store: store, log: log, conf: conf}
}

// Upcoming fetches the class sessions for the learner's courses and keeps the
// ones still relevant at now. A session without a resolvable start time is
// skipped and logged, never surfaced as upcoming.
func (svc *Service) Upcoming(ctx context.Context, courses []string, now time.Time) (Window, error) {
	if len(courses) == 0 {
		return Window{}, nil
	}

	recs, err := svc.store.List(ctx, classesCollection, core.ListOptions{
		Filters: []core.QueryFilter{{Field: "course", In: courses}},
	})
	if err != nil {
		return Window{}, pkgerrors.Wrap(err, "fetching class sessions")
	}

	sessions := make([]ClassSession, 0, len(recs))
	var skipped int
	for _, rec := range recs {
		start, ok := rec.Time("time")
		if !ok {
			skipped++
			svc.log.Warn("class session has no resolvable start time", rec.String("id"))
			continue
		}
		sessions = append(sessions, ClassSession{
			ID:      rec.String("id"),
			Course:  rec.String("course"),
			Start:   start,
			JoinURL: rec.String("link"),
		})
	}

	win := UpcomingSessions(sessions, now, svc.conf.Portal.ClassDuration)
	win.Skipped += skipped
	return win, nil
}

// UpcomingSessions is the pure windowing derivation: a session is upcoming
// iff its end (start + duration) is after now. The result is ordered by start
// ascending, ties broken by course name for determinism.
func UpcomingSessions(sessions []ClassSession, now time.Time, duration time.Duration) Window {
	upcoming := make([]ClassSession, 0, len(sessions))
	for _, s := range sessions {
		if s.End(duration).After(now) {
			upcoming = append(upcoming, s)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		if upcoming[i].Start.Equal(upcoming[j].Start) {
			return upcoming[i].Course < upcoming[j].Course
		}
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	return Window{Sessions: upcoming}
}
