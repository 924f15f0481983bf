package attendance

import (
	"context"
	"errors"
	"path"
	"strings"
	"sync"
	"sync/atomic"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assignment"
)

const (
	attendanceCollection = "attendance"

	// field written per learner by the attendance-capture collaborator
	durationField = "Total Duration (Minutes)"
)

type Service struct {
	store core.DocStore
	log   core.Logger
	conf  *core.Config
}

func NewService(store core.DocStore, log core.Logger, conf *core.Config) *Service {
	return &Service{store: store, log: log, conf: conf}
}

// counters collects one course's tallies across the fan-out; all fields are
// touched atomically so sibling fetches never contend on a lock.
type counters struct {
	qualifying int64
	total      int64
	degraded   int32
}

// Aggregate computes per-course attendance for the learner. Per course it
// fans out one fetch per attendance group, then one per session within each
// group, and joins all of them before reporting. A single failed unit is
// logged and contributes zero to both tallies; it never aborts the batch.
// The aggregation is a pure function of the stored snapshot: recomputing
// yields the same report.
func (svc *Service) Aggregate(ctx context.Context, courses []string, learnerKey string) (map[string]Report, error) {
	learnerKey = core.CleanString(learnerKey, true)
	reports := make(map[string]Report, len(courses))
	if len(courses) == 0 {
		return reports, nil
	}

	groups, err := svc.store.ListChildren(ctx, attendanceCollection)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "listing attendance groups")
	}

	ctx, cancel := context.WithTimeout(ctx, svc.conf.Portal.FetchTimeout)
	defer cancel()

	var (
		wg  sync.WaitGroup
		sem = make(chan struct{}, svc.conf.Portal.FanOutWidth)
	)
	tallies := make(map[string]*counters, len(courses))
	for _, course := range courses {
		tally := &counters{}
		tallies[course] = tally

		for _, group := range groupsForCourse(course, groups) {
			wg.Add(1)
			go func(group string) {
				defer wg.Done()
				svc.aggregateGroup(ctx, group, learnerKey, tally, &wg, sem)
			}(group)
		}
	}
	wg.Wait() // join barrier: no report before every unit settled

	for course, tally := range tallies {
		reports[course] = Report{
			Course:     course,
			Qualifying: int(atomic.LoadInt64(&tally.qualifying)),
			Total:      int(atomic.LoadInt64(&tally.total)),
			Degraded:   atomic.LoadInt32(&tally.degraded) > 0,
		}
	}
	return reports, nil
}

func (svc *Service) aggregateGroup(ctx context.Context, group, learnerKey string, tally *counters, wg *sync.WaitGroup, sem chan struct{}) {
	sem <- struct{}{}
	sessions, err := svc.store.ListChildren(ctx, path.Join(attendanceCollection, group))
	<-sem
	if err != nil {
		svc.log.Warn("skipping attendance group", group, err)
		atomic.StoreInt32(&tally.degraded, 1)
		return
	}

	for _, session := range sessions {
		wg.Add(1)
		go func(session string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			svc.tallySession(ctx, group, session, learnerKey, tally)
		}(session)
	}
}

func (svc *Service) tallySession(ctx context.Context, group, session, learnerKey string, tally *counters) {
	rec, err := svc.store.Get(ctx, path.Join(attendanceCollection, group, session, learnerKey))
	switch {
	case err == nil:
		atomic.AddInt64(&tally.total, 1)
		if rec.Int(durationField) >= svc.conf.Portal.MinAttendanceMinutes {
			atomic.AddInt64(&tally.qualifying, 1)
		}
	case errors.Is(err, core.ErrRecordNotFound):
		// session held, learner absent
		atomic.AddInt64(&tally.total, 1)
	default:
		svc.log.Warn("skipping attendance session", group, session, err)
		atomic.StoreInt32(&tally.degraded, 1)
	}
}

// groupsForCourse selects the attendance groups belonging to a course: group
// ids are prefixed with the course's catalog code ("WD-01"). Groups with
// unknown prefixes belong to nobody and are ignored.
func groupsForCourse(course string, groups []string) []string {
	code, err := assignment.CollectionFor(course)
	if err != nil {
		return nil
	}
	var matched []string
	for _, g := range groups {
		if g == code || strings.HasPrefix(g, code+"-") {
			matched = append(matched, g)
		}
	}
	return matched
}
