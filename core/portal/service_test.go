package portal_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/learner"
	"github.com/trezcool/shule/core/portal"
	"github.com/trezcool/shule/core/submission"
	inmemstore "github.com/trezcool/shule/storage/docstore/inmem"
	testutil "github.com/trezcool/shule/tests"
)

func seedPortal(t *testing.T, store core.DocStore, now time.Time) {
	t.Helper()
	testutil.CreateProfile(t, store, "jane@shule.app", "Jane", "S001", "Web Development, Video Editing", 2)

	testutil.CreateClass(t, store, "c1", "Web Development", now.Add(2*time.Hour))
	testutil.CreateClass(t, store, "c2", "Video Editing", now.Add(-2*time.Hour))

	testutil.CreateAssignment(t, store, "WD", 1, "Landing page", now.AddDate(0, 0, 7).Format("2006-01-02"))
	testutil.CreateAssignment(t, store, "WD", 2, "API client", "")
	testutil.CreateAssignment(t, store, "VE", 1, "Short cut", now.AddDate(0, 0, -7).Format("2006-01-02"))

	testutil.CreateSubmission(t, store, "Web Development", 1, "jane@shule.app", now.Add(-48*time.Hour), "", 0)
	testutil.CreateSubmission(t, store, "Video Editing", 1, "jane@shule.app", now.Add(-24*time.Hour), "good cut", 91)

	testutil.CreateAttendanceEntry(t, store, "WD-01", "s1", "jane@shule.app", 45)
	testutil.CreateAttendanceEntry(t, store, "WD-01", "s2", "jane@shule.app", 30)

	testutil.CreateAnnouncement(t, store, "a1", "2024-06-23", "live session on graphic design")
	testutil.CreateMaterial(t, store, "m1", "Web Development", "Flexbox deck", "https://materials.test/flexbox")
	testutil.CreateMaterial(t, store, "m2", "Graphic Design", "Color theory", "https://materials.test/color")
}

func TestServiceOverview(t *testing.T) {
	ctx := context.Background()
	store := inmemstore.Open()
	conf := testutil.NewConfig()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seedPortal(t, store, now)

	svc := portal.NewService(store, core.NopLogger{}, conf)
	ov, err := svc.Overview(ctx, "jane@shule.app", now)
	assert.NoError(t, err)
	assert.False(t, ov.Degraded)

	assert.Equal(t, 2, ov.CoursesCount)
	assert.Equal(t, 2, ov.SubmissionsCount)
	assert.Equal(t, 2*conf.Portal.AssignmentsPerCourse, ov.ExpectedSubmissions)

	if assert.Len(t, ov.Classes.Sessions, 1) {
		assert.Equal(t, "c1", ov.Classes.Sessions[0].ID)
	}

	assert.Len(t, ov.Assignments.ByCourse, 2)
	assert.False(t, ov.Assignments.Partial)

	if assert.NotNil(t, ov.Latest) {
		assert.Equal(t, "Video Editing", ov.Latest.Course)
		assert.Equal(t, submission.StatusReviewed, ov.Latest.Status)
		assert.Equal(t, 91, ov.Latest.Marks)
	}

	wd := ov.Attendance["Web Development"]
	assert.Equal(t, 1, wd.Qualifying)
	assert.Equal(t, 2, wd.Total)

	assert.Len(t, ov.Announcements, 1)
	if assert.Len(t, ov.Materials, 1) {
		assert.Equal(t, "m1", ov.Materials[0].ID)
	}
}

func TestServiceOverviewDegrades(t *testing.T) {
	ctx := context.Background()
	store := inmemstore.Open()
	conf := testutil.NewConfig()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seedPortal(t, store, now)

	// classes and announcements unreachable; everything else still renders
	faulty := &testutil.FaultyStore{Store: store, FailPrefixes: []string{"classes", "announcements"}}
	svc := portal.NewService(faulty, core.NopLogger{}, conf)

	ov, err := svc.Overview(ctx, "jane@shule.app", now)
	assert.NoError(t, err)
	assert.True(t, ov.Degraded)
	assert.Empty(t, ov.Classes.Sessions)
	assert.Empty(t, ov.Announcements)
	assert.NotNil(t, ov.Latest)
	assert.Len(t, ov.Assignments.ByCourse, 2)
}

func TestServiceOverviewErrors(t *testing.T) {
	ctx := context.Background()
	store := inmemstore.Open()
	conf := testutil.NewConfig()
	now := time.Now()
	svc := portal.NewService(store, core.NopLogger{}, conf)

	_, err := svc.Overview(ctx, "ghost@shule.app", now)
	assert.Equal(t, learner.ErrNotFound, err)

	testutil.CreateProfile(t, store, "bare@shule.app", "Bare", "S009", nil, 0)
	_, err = svc.Overview(ctx, "bare@shule.app", now)
	assert.Equal(t, learner.ErrMalformedEnrollment, err)
}
