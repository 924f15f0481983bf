package attendance_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	inmemstore "github.com/trezcool/shule/storage/docstore/inmem"
	testutil "github.com/trezcool/shule/tests"
)

func TestReportRatio(t *testing.T) {
	if ratio, ok := (attendance.Report{Qualifying: 2, Total: 3}).Ratio(); !ok || ratio < 0.66 || ratio > 0.67 {
		t.Errorf("Ratio() = %v, %v", ratio, ok)
	}
	if _, ok := (attendance.Report{}).Ratio(); ok {
		t.Error("Ratio() with no sessions should be undefined")
	}
}

func TestServiceAggregate(t *testing.T) {
	ctx := context.Background()
	store := inmemstore.Open()
	conf := testutil.NewConfig()
	svc := attendance.NewService(store, core.NopLogger{}, conf)

	// threshold 40: durations 45, 30, 50 -> 2 qualifying of 3
	testutil.CreateAttendanceEntry(t, store, "WD-01", "s1", "jane@shule.app", 45)
	testutil.CreateAttendanceEntry(t, store, "WD-01", "s2", "jane@shule.app", 30)
	testutil.CreateAttendanceEntry(t, store, "WD-02", "s3", "jane@shule.app", 50)
	// a session jane missed entirely still counts toward the total
	testutil.CreateAttendanceEntry(t, store, "VE-01", "s1", "jane@shule.app", 60)
	testutil.CreateHeldSession(t, store, "VE-01", "s2")

	reports, err := svc.Aggregate(ctx, []string{"Web Development", "Video Editing", "Graphic Design"}, "jane@shule.app")
	if err != nil {
		t.Fatalf("Aggregate() failed: %v", err)
	}

	wd := reports["Web Development"]
	if wd.Qualifying != 2 || wd.Total != 3 || wd.Degraded {
		t.Errorf("Web Development report = %+v", wd)
	}
	if ratio, ok := wd.Ratio(); !ok || ratio < 0.66 || ratio > 0.67 {
		t.Errorf("Web Development ratio = %v, %v", ratio, ok)
	}
	ve := reports["Video Editing"]
	if ve.Qualifying != 1 || ve.Total != 2 {
		t.Errorf("Video Editing report = %+v", ve)
	}
	// no groups at all: ratio undefined, no crash
	gd := reports["Graphic Design"]
	if gd.Total != 0 {
		t.Errorf("Graphic Design report = %+v", gd)
	}
	if _, ok := gd.Ratio(); ok {
		t.Error("Graphic Design ratio should be undefined")
	}

	t.Run("recomputation is idempotent", func(t *testing.T) {
		again, err := svc.Aggregate(ctx, []string{"Web Development", "Video Editing", "Graphic Design"}, "jane@shule.app")
		if err != nil {
			t.Fatalf("Aggregate() failed: %v", err)
		}
		if !reflect.DeepEqual(reports, again) {
			t.Errorf("recomputed reports differ:\n%+v\n%+v", reports, again)
		}
	})
}

func TestServiceAggregateThreshold(t *testing.T) {
	ctx := context.Background()
	store := inmemstore.Open()
	conf := testutil.NewConfig()
	svc := attendance.NewService(store, core.NopLogger{}, conf)

	// exactly at the threshold qualifies
	testutil.CreateAttendanceEntry(t, store, "GD-01", "s1", "jane@shule.app", conf.Portal.MinAttendanceMinutes)
	testutil.CreateAttendanceEntry(t, store, "GD-01", "s2", "jane@shule.app", conf.Portal.MinAttendanceMinutes-1)

	reports, err := svc.Aggregate(ctx, []string{"Graphic Design"}, "jane@shule.app")
	if err != nil {
		t.Fatalf("Aggregate() failed: %v", err)
	}
	if got := reports["Graphic Design"]; got.Qualifying != 1 || got.Total != 2 {
		t.Errorf("report = %+v", got)
	}
}

func TestServiceAggregateFailureIsolation(t *testing.T) {
	ctx := context.Background()
	store := inmemstore.Open()
	conf := testutil.NewConfig()

	testutil.CreateAttendanceEntry(t, store, "WD-01", "s1", "jane@shule.app", 45)
	testutil.CreateAttendanceEntry(t, store, "WD-02", "s2", "jane@shule.app", 50)

	faulty := &testutil.FaultyStore{Store: store, FailPrefixes: []string{"attendance/WD-02"}}
	svc := attendance.NewService(faulty, core.NopLogger{}, conf)

	reports, err := svc.Aggregate(ctx, []string{"Web Development"}, "jane@shule.app")
	if err != nil {
		t.Fatalf("Aggregate() failed: %v", err)
	}
	wd := reports["Web Development"]
	if wd.Qualifying != 1 || wd.Total != 1 {
		t.Errorf("report = %+v: the failed group must contribute zero, not abort", wd)
	}
	if !wd.Degraded {
		t.Error("Degraded not set after group fetch failure")
	}
}
