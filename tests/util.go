package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/trezcool/shule/core"
	inmemstore "github.com/trezcool/shule/storage/docstore/inmem"
)

// NewConfig returns the default config; tests tweak knobs on the copy.
func NewConfig() *core.Config {
	return core.NewConfig()
}

func CreateProfile(t *testing.T, store core.DocStore, email, name, id string, courses interface{}, submissions int) {
	t.Helper()
	rec := core.Record{"Name": name, "Id": id, "submissions": submissions}
	if courses != nil {
		rec["courses"] = courses
	}
	if err := store.Put(context.Background(), "users/"+email, rec); err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}
}

func CreateClass(t *testing.T, store core.DocStore, id, course string, start interface{}) {
	t.Helper()
	rec := core.Record{"course": course}
	if start != nil {
		rec["time"] = start
	}
	if err := store.Put(context.Background(), "classes/"+id, rec); err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
}

func CreateAssignment(t *testing.T, store core.DocStore, collection string, number int, title, deadline string) {
	t.Helper()
	rec := core.Record{"submissionNumber": number, "title": title, "description": title + " details"}
	if deadline != "" {
		rec["deadline"] = deadline
	}
	key := fmt.Sprintf("%s/%d", collection, number)
	if err := store.Put(context.Background(), key, rec); err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
}

func CreateSubmission(t *testing.T, store core.DocStore, course string, number int, email string, at time.Time, remarks string, marks int) {
	t.Helper()
	key := fmt.Sprintf("submissions/%s/%d/%s", course, number, email)
	rec := core.Record{
		"Timestamp":       at,
		"Title":           fmt.Sprintf("Assignment %d", number),
		"Email":           email,
		"Name":            "Test Learner",
		"Description":     "",
		"Submission Link": "https://drive.test/work",
		"Remarks":         remarks,
		"Marks":           marks,
	}
	if err := store.Put(context.Background(), key, rec); err != nil {
		t.Fatalf("CreateSubmission() failed: %v", err)
	}
}

func CreateAttendanceEntry(t *testing.T, store core.DocStore, group, session, learnerKey string, minutes int) {
	t.Helper()
	key := fmt.Sprintf("attendance/%s/%s/%s", group, session, learnerKey)
	rec := core.Record{"Total Duration (Minutes)": minutes}
	if err := store.Put(context.Background(), key, rec); err != nil {
		t.Fatalf("CreateAttendanceEntry() failed: %v", err)
	}
}

// CreateHeldSession records a session that took place without the learner:
// an entry for another learner keeps the session enumerable.
func CreateHeldSession(t *testing.T, store core.DocStore, group, session string) {
	t.Helper()
	CreateAttendanceEntry(t, store, group, session, "someone.else@shule.app", 60)
}

func CreateAnnouncement(t *testing.T, store core.DocStore, id, date, text string) {
	t.Helper()
	rec := core.Record{"date": date, "text": text}
	if err := store.Put(context.Background(), "announcements/"+id, rec); err != nil {
		t.Fatalf("CreateAnnouncement() failed: %v", err)
	}
}

func CreateMaterial(t *testing.T, store core.DocStore, id, course, title, link string) {
	t.Helper()
	rec := core.Record{"course": course, "title": title, "link": link}
	if err := store.Put(context.Background(), "materials/"+id, rec); err != nil {
		t.Fatalf("CreateMaterial() failed: %v", err)
	}
}

// FaultyStore wraps an in-memory store and fails reads whose path starts
// with one of the given prefixes; used to exercise failure isolation.
type FaultyStore struct {
	*inmemstore.Store
	FailPrefixes []string
}

var _ core.DocStore = (*FaultyStore)(nil)

func (s *FaultyStore) failing(path string) error {
	for _, p := range s.FailPrefixes {
		if strings.HasPrefix(path, p) {
			return fmt.Errorf("injected fault on %s", path)
		}
	}
	return nil
}

func (s *FaultyStore) Get(ctx context.Context, path string) (core.Record, error) {
	if err := s.failing(path); err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, path)
}

func (s *FaultyStore) List(ctx context.Context, collection string, opts core.ListOptions) ([]core.Record, error) {
	if err := s.failing(collection); err != nil {
		return nil, err
	}
	return s.Store.List(ctx, collection, opts)
}

func (s *FaultyStore) ListChildren(ctx context.Context, path string) ([]string, error) {
	if err := s.failing(path); err != nil {
		return nil, err
	}
	return s.Store.ListChildren(ctx, path)
}
