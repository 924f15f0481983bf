package learner

import (
	"context"
	"errors"
	"path"
	"strings"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

var (
	// errors
	ErrNotFound = errors.New("learner profile not found")
)

const usersCollection = "users"

type Service struct {
	store core.DocStore
	log   core.Logger
}

func NewService(store core.DocStore, log core.Logger) *Service {
	return &Service{store: store, log: log}
}

// GetProfile loads and canonicalizes the learner's profile document.
// A missing document or a document without a courses field is surfaced as a
// user-visible condition (ErrNotFound / ErrMalformedEnrollment); everything
// else derives from the returned course set.
func (svc *Service) GetProfile(ctx context.Context, email string) (Profile, error) {
	email = core.CleanString(email, true)
	rec, err := svc.store.Get(ctx, path.Join(usersCollection, email))
	if err != nil {
		if errors.Is(err, core.ErrRecordNotFound) {
			return Profile{}, ErrNotFound
		}
		return Profile{}, pkgerrors.Wrapf(err, "fetching profile %s", email)
	}

	courses, err := NormalizeCourses(rec["courses"])
	if err != nil {
		return Profile{}, err
	}
	return Profile{
		Email:       email,
		Name:        rec.String("Name"),
		ID:          rec.String("Id"),
		Courses:     courses,
		Submissions: rec.Int("submissions"),
	}, nil
}

// Enroll adds course to the learner's enrollment and writes it back in the
// store's delimited-string representation. Enrolling in a course the learner
// already has is a no-op.
func (svc *Service) Enroll(ctx context.Context, prof Profile, course string) (Profile, error) {
	course = core.CleanString(course)
	if course == "" || prof.IsEnrolled(course) {
		return prof, nil
	}

	courses := make([]string, 0, len(prof.Courses)+1)
	courses = append(courses, prof.Courses...)
	courses = append(courses, course)

	key := path.Join(usersCollection, prof.Email)
	fields := core.Record{"courses": strings.Join(courses, ", ")}
	if err := svc.store.Update(ctx, key, fields); err != nil {
		return prof, pkgerrors.Wrapf(err, "enrolling %s in %s", prof.Email, course)
	}
	prof.Courses = courses
	return prof, nil
}
