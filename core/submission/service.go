package submission

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/learner"
)

var (
	// errors
	ErrDuplicateSubmission = errors.New("work has already been submitted for this assignment")

	nowFunc = time.Now // mockable
)

const (
	submissionsCollection = "submissions"
	usersCollection       = "users"
)

type Service struct {
	store core.DocStore
	log   core.Logger
	conf  *core.Config
}

func NewService(store core.DocStore, log core.Logger, conf *core.Config) *Service {
	return &Service{store: store, log: log, conf: conf}
}

// SubmitWork records the learner's work for an assignment and bumps the
// profile's submission counter. At most one submission may exist per
// (course, assignment, learner): a second attempt fails with
// ErrDuplicateSubmission and writes nothing. The existence check and the
// create are two store operations, so two near-simultaneous attempts for the
// same key can both pass the check; the store has no write-if-absent
// primitive, both writes carry the same key and payload, and the counter
// increment is atomic store-side, so the accepted residue is last-write-wins
// on one record.
func (svc *Service) SubmitWork(ctx context.Context, prof learner.Profile, ns NewSubmission) (Submission, error) {
	if err := core.ValidateStruct(ns); err != nil {
		return Submission{}, err
	}

	key := submissionKey(ns.Course, ns.Number, prof.Email)
	if _, err := svc.store.Get(ctx, key); err == nil {
		return Submission{}, ErrDuplicateSubmission
	} else if !errors.Is(err, core.ErrRecordNotFound) {
		return Submission{}, pkgerrors.Wrapf(err, "checking submission %s", key)
	}

	now := nowFunc().UTC()
	rec := core.Record{
		"Timestamp":       now,
		"Title":           ns.Title,
		"Email":           prof.Email,
		"Name":            prof.Name,
		"Description":     ns.Description,
		"Submission Link": ns.Link,
		"Remarks":         "",
		"Marks":           0,
	}
	if err := svc.store.Put(ctx, key, rec); err != nil {
		return Submission{}, pkgerrors.Wrapf(err, "creating submission %s", key)
	}
	if err := svc.store.Increment(ctx, path.Join(usersCollection, prof.Email), "submissions", 1); err != nil {
		return Submission{}, pkgerrors.Wrapf(err, "incrementing submission count for %s", prof.Email)
	}

	return Submission{
		Course:      ns.Course,
		Number:      ns.Number,
		Email:       prof.Email,
		Name:        prof.Name,
		SubmittedAt: now,
		Description: ns.Description,
		Link:        ns.Link,
	}, nil
}

// ForLearner collects the learner's submissions across all enrolled courses,
// one parallel scan per course. A failed unit is logged and contributes
// nothing; it never aborts the scan.
func (svc *Service) ForLearner(ctx context.Context, courses []string, email string) ([]Submission, error) {
	email = core.CleanString(email, true)
	if len(courses) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, svc.conf.Portal.FetchTimeout)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		subs []Submission
	)
	for _, course := range courses {
		wg.Add(1)
		go func(course string) {
			defer wg.Done()
			found, err := svc.scanCourse(ctx, course, email)
			if err != nil {
				svc.log.Warn("skipping submission scan", course, err)
				return
			}
			mu.Lock()
			subs = append(subs, found...)
			mu.Unlock()
		}(course)
	}
	wg.Wait()
	return subs, nil
}

// Latest finds the learner's globally-latest submission across courses.
// ok is false when the learner has not submitted anything.
func (svc *Service) Latest(ctx context.Context, courses []string, email string) (Submission, bool, error) {
	subs, err := svc.ForLearner(ctx, courses, email)
	if err != nil {
		return Submission{}, false, err
	}
	latest, ok := Latest(subs)
	return latest, ok, nil
}

func (svc *Service) scanCourse(ctx context.Context, course, email string) ([]Submission, error) {
	numbers, err := svc.store.ListChildren(ctx, path.Join(submissionsCollection, course))
	if err != nil {
		return nil, err
	}

	subs := make([]Submission, 0, len(numbers))
	for _, numStr := range numbers {
		num, err := strconv.Atoi(numStr)
		if err != nil {
			svc.log.Warn("ignoring non-numeric assignment key", course, numStr)
			continue
		}
		rec, err := svc.store.Get(ctx, submissionKey(course, num, email))
		if errors.Is(err, core.ErrRecordNotFound) {
			continue // not submitted for this assignment
		}
		if err != nil {
			svc.log.Warn("skipping submission fetch", course, numStr, err)
			continue
		}
		var sub Submission
		if err := rec.Decode(&sub); err != nil {
			svc.log.Warn("skipping undecodable submission", course, numStr, err)
			continue
		}
		sub.Course, sub.Number = course, num
		subs = append(subs, sub)
	}
	return subs, nil
}

func submissionKey(course string, number int, email string) string {
	return fmt.Sprintf("%s/%s/%d/%s", submissionsCollection, course, number, email)
}
