package assignment

import (
	"context"
	"sort"
	"sync"

	"github.com/trezcool/shule/core"
)

type Service struct {
	store core.DocStore
	log   core.Logger
	conf  *core.Config
}

func NewService(store core.DocStore, log core.Logger, conf *core.Config) *Service {
	return &Service{store: store, log: log, conf: conf}
}

// CatalogForCourses fetches each enrolled course's assignment catalog with
// one parallel fetch per course. A failed or unmappable course is omitted and
// flagged via Catalog.Partial; it never blocks the other courses.
func (svc *Service) CatalogForCourses(ctx context.Context, courses []string) (Catalog, error) {
	cat := Catalog{ByCourse: make(map[string][]Assignment, len(courses))}
	if len(courses) == 0 {
		return cat, nil
	}

	ctx, cancel := context.WithTimeout(ctx, svc.conf.Portal.FetchTimeout)
	defer cancel()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, svc.conf.Portal.FanOutWidth)
	)
	for _, course := range courses {
		wg.Add(1)
		go func(course string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			assignments, err := svc.fetchCourse(ctx, course)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				svc.log.Warn("omitting assignment catalog", course, err)
				cat.Partial = true
				return
			}
			cat.ByCourse[course] = assignments
		}(course)
	}
	wg.Wait()
	return cat, nil
}

func (svc *Service) fetchCourse(ctx context.Context, course string) ([]Assignment, error) {
	coll, err := CollectionFor(course)
	if err != nil {
		return nil, err
	}
	recs, err := svc.store.List(ctx, coll, core.ListOptions{})
	if err != nil {
		return nil, err
	}

	assignments := make([]Assignment, 0, len(recs))
	for _, rec := range recs {
		a := Assignment{
			Course:      course,
			Number:      rec.Int("submissionNumber"),
			Title:       rec.String("title"),
			Description: rec.String("description"),
		}
		if deadline, ok := rec.Time("deadline"); ok {
			a.Deadline = &deadline
		}
		assignments = append(assignments, a)
	}
	sort.Slice(assignments, func(i, j int) bool {
		return assignments[i].Number > assignments[j].Number
	})
	return assignments, nil
}
