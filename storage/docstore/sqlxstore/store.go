package sqlxstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

type Store struct {
	db *sqlx.DB
}

var _ core.DocStore = (*Store)(nil)

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, path string) (core.Record, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT data FROM documents WHERE path=$1", path).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, core.ErrRecordNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting %s", path)
	}

	var rec core.Record
	if err = json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrapf(err, "decoding %s", path)
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context, collection string, opts core.ListOptions) ([]core.Record, error) {
	query := "SELECT path, data FROM documents WHERE collection=$1"
	args := []interface{}{collection}
	for _, f := range opts.Filters {
		if f.Eq != nil {
			args = append(args, fmt.Sprint(f.Eq))
			query += fmt.Sprintf(" AND data->>'%s' = $%d", f.Field, len(args))
		} else {
			args = append(args, pq.Array(f.In))
			query += fmt.Sprintf(" AND data->>'%s' = ANY($%d)", f.Field, len(args))
		}
	}
	if opts.Order != nil {
		// lexicographic on the JSON text form; RFC3339/ISO timestamps sort
		// correctly this way
		direction := "DESC"
		if opts.Order.Ascending {
			direction = "ASC"
		}
		query += fmt.Sprintf(" ORDER BY data->>'%s' %s", opts.Order.Field, direction)
	}
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", collection)
	}
	defer func() { _ = rows.Close() }()

	res := make([]core.Record, 0)
	for rows.Next() {
		var (
			path string
			data []byte
		)
		if err = rows.Scan(&path, &data); err != nil {
			return nil, errors.Wrapf(err, "listing %s", collection)
		}
		var rec core.Record
		if err = json.Unmarshal(data, &rec); err != nil {
			return nil, errors.Wrapf(err, "decoding %s", path)
		}
		rec["id"] = strings.TrimPrefix(path, collection+"/")
		res = append(res, rec)
	}
	return res, rows.Err()
}

func (s *Store) Add(ctx context.Context, collection string, rec core.Record) (string, error) {
	path := collection + "/" + uuid.New().String()
	return path, s.Put(ctx, path, rec)
}

func (s *Store) Put(ctx context.Context, path string, rec core.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	collection := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		collection = path[:i]
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (path, collection, data) VALUES ($1, $2, $3)
		 ON CONFLICT (path) DO UPDATE SET collection=excluded.collection, data=excluded.data`,
		path, collection, data,
	)
	return errors.Wrapf(err, "putting %s", path)
}

func (s *Store) Update(ctx context.Context, path string, fields core.Record) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", path)
	}
	res, err := s.db.ExecContext(ctx, "UPDATE documents SET data = data || $2 WHERE path=$1", path, data)
	if err != nil {
		return errors.Wrapf(err, "updating %s", path)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

// Increment is a single statement: the read-modify-write happens inside
// Postgres, so concurrent increments never lose updates.
func (s *Store) Increment(ctx context.Context, path, field string, delta int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents
		 SET data = jsonb_set(data, ARRAY[$2], to_jsonb(COALESCE((data->>$2)::numeric, 0) + $3))
		 WHERE path=$1`,
		path, field, delta,
	)
	if err != nil {
		return errors.Wrapf(err, "incrementing %s.%s", path, field)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return core.ErrRecordNotFound
	}
	return nil
}

func (s *Store) ListChildren(ctx context.Context, path string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT split_part(substr(path, length($1)+2), '/', 1)
		 FROM documents WHERE path LIKE $1 || '/%' ORDER BY 1`,
		path,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "listing children of %s", path)
	}
	defer func() { _ = rows.Close() }()

	children := make([]string, 0)
	for rows.Next() {
		var child string
		if err = rows.Scan(&child); err != nil {
			return nil, errors.Wrapf(err, "listing children of %s", path)
		}
		children = append(children, child)
	}
	return children, rows.Err()
}
