// Package inmemstore is a mutex-guarded, in-memory core.DocStore used by
// tests and local development wiring.
package inmemstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/shule/core"
)

type Store struct {
	mutex sync.RWMutex
	docs  map[string]core.Record // full path -> record
}

var _ core.DocStore = (*Store)(nil)

func Open() *Store {
	return &Store{docs: make(map[string]core.Record)}
}

func (s *Store) Get(_ context.Context, path string) (core.Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	rec, ok := s.docs[path]
	if !ok {
		return nil, core.ErrRecordNotFound
	}
	return clone(rec), nil
}

func (s *Store) List(_ context.Context, collection string, opts core.ListOptions) ([]core.Record, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	prefix := collection + "/"
	res := make([]core.Record, 0)
	for path, rec := range s.docs {
		if !strings.HasPrefix(path, prefix) {
			continue
		}
		id := strings.TrimPrefix(path, prefix)
		if strings.Contains(id, "/") {
			continue // nested under a sub-entity, not a direct document
		}
		if !matchesAll(rec, opts.Filters) {
			continue
		}
		out := clone(rec)
		out["id"] = id
		res = append(res, out)
	}

	if opts.Order != nil {
		ord := *opts.Order
		sort.SliceStable(res, func(i, j int) bool {
			less := lessValue(res[i][ord.Field], res[j][ord.Field])
			if ord.Ascending {
				return less
			}
			return lessValue(res[j][ord.Field], res[i][ord.Field])
		})
	}
	if opts.Limit > 0 && len(res) > opts.Limit {
		res = res[:opts.Limit]
	}
	return res, nil
}

func (s *Store) Add(ctx context.Context, collection string, rec core.Record) (string, error) {
	path := collection + "/" + uuid.New().String()
	return path, s.Put(ctx, path, rec)
}

func (s *Store) Put(_ context.Context, path string, rec core.Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.docs[path] = clone(rec)
	return nil
}

func (s *Store) Update(_ context.Context, path string, fields core.Record) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rec, ok := s.docs[path]
	if !ok {
		return core.ErrRecordNotFound
	}
	for k, v := range fields {
		rec[k] = v
	}
	return nil
}

func (s *Store) Increment(_ context.Context, path, field string, delta int) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	rec, ok := s.docs[path]
	if !ok {
		return core.ErrRecordNotFound
	}
	rec[field] = rec.Int(field) + delta
	return nil
}

func (s *Store) ListChildren(_ context.Context, path string) ([]string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	prefix := path + "/"
	seen := make(map[string]bool)
	children := make([]string, 0)
	for p := range s.docs {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		child := strings.SplitN(strings.TrimPrefix(p, prefix), "/", 2)[0]
		if !seen[child] {
			seen[child] = true
			children = append(children, child)
		}
	}
	sort.Strings(children)
	return children, nil
}

func clone(rec core.Record) core.Record {
	out := make(core.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func matchesAll(rec core.Record, filters []core.QueryFilter) bool {
	for _, f := range filters {
		if !f.Matches(rec) {
			return false
		}
	}
	return true
}

// lessValue orders loosely-typed field values: timestamps by instant,
// numbers numerically, everything else as strings. nil sorts first.
func lessValue(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b != nil
	}
	ra, rb := core.Record{"v": a}, core.Record{"v": b}
	if ta, ok := ra.Time("v"); ok {
		if tb, ok := rb.Time("v"); ok {
			return ta.Before(tb)
		}
	}
	switch a.(type) {
	case int, int64, float64:
		return float64(ra.Int("v")) < float64(rb.Int("v"))
	}
	return ra.String("v") < rb.String("v")
}
