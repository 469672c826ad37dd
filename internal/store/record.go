package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

type recordRepo struct {
	s *Store
}

func (r *recordRepo) Get(ctx context.Context, key string) ([]byte, error) {
	q := r.s.builder().Select("value").
		From(entsql.Table(recordsTable)).
		Where(entsql.EQ("key", key)).
		Limit(1)

	var (
		value []byte
		found bool
	)
	err := r.s.query(ctx, q, func(rows *entsql.Rows) error {
		if !rows.Next() {
			return nil
		}
		found = true
		return rows.Scan(&value)
	})
	if err != nil {
		return nil, fmt.Errorf("get record %q: %w", key, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return value, nil
}

func (r *recordRepo) Put(ctx context.Context, key string, value []byte) error {
	q := r.s.builder().Insert(recordsTable).
		Columns("key", "value", "updated_at").
		Values(key, value, r.s.now().UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		)
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("put record %q: %w", key, err)
	}
	return nil
}

func (r *recordRepo) Delete(ctx context.Context, key string) error {
	q := r.s.builder().Delete(recordsTable).Where(entsql.EQ("key", key))
	if _, err := r.s.exec(ctx, q); err != nil {
		return fmt.Errorf("delete record %q: %w", key, err)
	}
	return nil
}
