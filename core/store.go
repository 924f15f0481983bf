package core

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// ErrRecordNotFound is returned by DocStore.Get when no record lives at the
// given path.
var ErrRecordNotFound = errors.New("record not found")

type (
	// Record is one loosely-normalized document as stored. Field names and
	// value types follow whatever the capture side wrote ("courses" may be a
	// delimited string or an array, timestamps may be time.Time or ISO
	// strings); consumers go through Decode or the typed accessors.
	Record map[string]interface{}

	// QueryFilter restricts List results. Eq and In are mutually exclusive;
	// In matches when the record field equals any of the given values.
	QueryFilter struct {
		Field string
		Eq    interface{}
		In    []string
	}

	Ordering struct {
		Field     string
		Ascending bool
	}

	ListOptions struct {
		Filters []QueryFilter
		Order   *Ordering
		Limit   int
	}

	// DocStore is the document-store collaborator. Paths are slash-separated
	// ("users/jane@shule.app", "submissions/WD/3/jane@shule.app"); a
	// collection is the path prefix above its direct documents.
	DocStore interface {
		// Get returns the record at path or ErrRecordNotFound.
		Get(ctx context.Context, path string) (Record, error)
		// List returns the direct documents of a collection.
		List(ctx context.Context, collection string, opts ListOptions) ([]Record, error)
		// Add creates a document under collection with a generated id and
		// returns its path.
		Add(ctx context.Context, collection string, rec Record) (string, error)
		// Put creates or overwrites the record at path.
		Put(ctx context.Context, path string, rec Record) error
		// Update merges the given fields into the record at path.
		Update(ctx context.Context, path string, fields Record) error
		// Increment atomically adds delta to a numeric field at path,
		// treating a missing field as zero.
		Increment(ctx context.Context, path string, field string, delta int) error
		// ListChildren enumerates the ids of the direct sub-entities of path.
		ListChildren(ctx context.Context, path string) ([]string, error)
	}
)

// Decode maps the record onto out (a struct pointer), tolerating the loose
// typing of stored documents: numbers arrive as any numeric type, timestamps
// as time.Time, RFC3339 strings, bare ISO dates or epoch seconds.
func (r Record) Decode(out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       timeDecodeHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]interface{}(r))
}

func timeDecodeHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	switch v := data.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t, nil
		}
		return data, nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case float64:
		return time.Unix(int64(v), 0).UTC(), nil
	}
	return data, nil
}

// Time resolves a timestamp field, reporting ok=false when the field is
// absent or not in a recognizable format.
func (r Record) Time(field string) (time.Time, bool) {
	v, exists := r[field]
	if !exists || v == nil {
		return time.Time{}, false
	}
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse("2006-01-02", t); err == nil {
			return parsed, true
		}
	case int64:
		return time.Unix(t, 0).UTC(), true
	case float64:
		return time.Unix(int64(t), 0).UTC(), true
	}
	return time.Time{}, false
}

// Int resolves a numeric field, treating absent/invalid as zero.
func (r Record) Int(field string) int {
	switch v := r[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

// String resolves a text field, treating absent/invalid as "".
func (r Record) String(field string) string {
	if s, ok := r[field].(string); ok {
		return s
	}
	return ""
}

// Matches reports whether the record passes the filter.
func (f QueryFilter) Matches(rec Record) bool {
	v := rec[f.Field]
	if f.Eq != nil {
		return v == f.Eq
	}
	s, _ := v.(string)
	for _, in := range f.In {
		if s == in {
			return true
		}
	}
	return false
}
