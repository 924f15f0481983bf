package content

import (
	"context"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const (
	announcementsCollection = "announcements"
	materialsCollection     = "materials"
)

type Service struct {
	store core.DocStore
	log   core.Logger
}

func NewService(store core.DocStore, log core.Logger) *Service {
	return &Service{store: store, log: log}
}

// Announcements returns portal notices ordered by date descending.
func (svc *Service) Announcements(ctx context.Context) ([]Announcement, error) {
	recs, err := svc.store.List(ctx, announcementsCollection, core.ListOptions{
		Order: &core.Ordering{Field: "date", Ascending: false},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fetching announcements")
	}

	anns := make([]Announcement, 0, len(recs))
	for _, rec := range recs {
		ann := Announcement{
			ID:   rec.String("id"),
			Text: rec.String("text"),
		}
		if date, ok := rec.Time("date"); ok {
			ann.Date = date
		}
		anns = append(anns, ann)
	}
	return anns, nil
}

// Materials returns the resources for the learner's courses.
func (svc *Service) Materials(ctx context.Context, courses []string) ([]Material, error) {
	if len(courses) == 0 {
		return nil, nil
	}
	recs, err := svc.store.List(ctx, materialsCollection, core.ListOptions{
		Filters: []core.QueryFilter{{Field: "course", In: courses}},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "fetching materials")
	}

	mats := make([]Material, 0, len(recs))
	for _, rec := range recs {
		mats = append(mats, Material{
			ID:     rec.String("id"),
			Course: rec.String("course"),
			Title:  rec.String("title"),
			Link:   rec.String("link"),
		})
	}
	return mats, nil
}
