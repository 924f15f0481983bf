// Package portal derives everything the learner portal displays from one
// profile snapshot: upcoming classes, assignment statuses, the latest
// submission, attendance ratios and portal content. All derivations are pure
// projections of fetched records; screens share one Overview instead of
// re-deriving state locally.
package portal

import (
	"context"
	"sync"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/learner"
	"github.com/trezcool/shule/core/schedule"
	"github.com/trezcool/shule/core/submission"
)

type (
	// Overview is the read-only projection consumed by display code.
	Overview struct {
		Profile learner.Profile

		// dashboard counters
		CoursesCount        int
		SubmissionsCount    int
		ExpectedSubmissions int

		Classes       schedule.Window
		Assignments   assignment.Catalog
		Latest        *LatestSubmission
		Attendance    map[string]attendance.Report
		Announcements []content.Announcement
		Materials     []content.Material

		// Degraded is set when any branch fell back to an empty slice after
		// a fetch failure; the view renders what it has.
		Degraded bool
	}

	// LatestSubmission pairs the learner's most recent submission with its
	// derived review status.
	LatestSubmission struct {
		submission.Submission
		Status submission.Status
	}

	Service struct {
		learners    *learner.Service
		schedules   *schedule.Service
		assignments *assignment.Service
		submissions *submission.Service
		attendances *attendance.Service
		contents    *content.Service
		log         core.Logger
		conf        *core.Config
	}
)

func NewService(store core.DocStore, log core.Logger, conf *core.Config) *Service {
	return &Service{
		learners:    learner.NewService(store, log),
		schedules:   schedule.NewService(store, log, conf),
		assignments: assignment.NewService(store, log, conf),
		submissions: submission.NewService(store, log, conf),
		attendances: attendance.NewService(store, log, conf),
		contents:    content.NewService(store, log),
		log:         log,
		conf:        conf,
	}
}

// Learners exposes the profile service for enrollment writes.
func (svc *Service) Learners() *learner.Service { return svc.learners }

// Submissions exposes the submission workflow guard.
func (svc *Service) Submissions() *submission.Service { return svc.submissions }

// Overview computes the learner's derived state at now. The profile is
// loaded first (its course set keys every other derivation), then the
// independent derivations run concurrently over that snapshot and are joined
// before returning. Each branch degrades on its own: a failure empties its
// slice, sets Degraded and logs, but never fails the Overview. Only a
// missing profile or a profile without a courses field is an error.
//
// Callers racing refreshes keep the last result and discard stale ones;
// there is no engine-side cancellation beyond ctx.
func (svc *Service) Overview(ctx context.Context, email string, now time.Time) (Overview, error) {
	prof, err := svc.learners.GetProfile(ctx, email)
	if err != nil {
		return Overview{}, err
	}

	ov := Overview{
		Profile:             prof,
		CoursesCount:        len(prof.Courses),
		SubmissionsCount:    prof.Submissions,
		ExpectedSubmissions: len(prof.Courses) * svc.conf.Portal.AssignmentsPerCourse,
		Attendance:          make(map[string]attendance.Report),
	}

	// Each branch writes only its own fields; the join barrier below is the
	// only synchronization the branches need.
	var (
		wg       sync.WaitGroup
		degraded [5]bool
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		win, err := svc.schedules.Upcoming(ctx, prof.Courses, now)
		if err != nil {
			svc.log.Warn("overview: class schedule unavailable", prof, err)
			degraded[0] = true
			return
		}
		ov.Classes = win
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		cat, err := svc.assignments.CatalogForCourses(ctx, prof.Courses)
		if err != nil {
			svc.log.Warn("overview: assignment catalog unavailable", prof, err)
			degraded[1] = true
			return
		}
		ov.Assignments = cat
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		latest, ok, err := svc.submissions.Latest(ctx, prof.Courses, prof.Email)
		if err != nil {
			svc.log.Warn("overview: submission lookup unavailable", prof, err)
			degraded[2] = true
			return
		}
		if ok {
			ov.Latest = &LatestSubmission{Submission: latest, Status: latest.Status()}
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		reports, err := svc.attendances.Aggregate(ctx, prof.Courses, prof.Email)
		if err != nil {
			svc.log.Warn("overview: attendance unavailable", prof, err)
			degraded[3] = true
			return
		}
		ov.Attendance = reports
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		anns, err := svc.contents.Announcements(ctx)
		if err != nil {
			svc.log.Warn("overview: announcements unavailable", prof, err)
			degraded[4] = true
		} else {
			ov.Announcements = anns
		}
		mats, err := svc.contents.Materials(ctx, prof.Courses)
		if err != nil {
			svc.log.Warn("overview: materials unavailable", prof, err)
			degraded[4] = true
			return
		}
		ov.Materials = mats
	}()

	wg.Wait()

	for _, d := range degraded {
		ov.Degraded = ov.Degraded || d
	}
	ov.Degraded = ov.Degraded || ov.Assignments.Partial
	for _, rep := range ov.Attendance {
		ov.Degraded = ov.Degraded || rep.Degraded
	}
	return ov, nil
}
