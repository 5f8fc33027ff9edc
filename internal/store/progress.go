package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// progressRowID is the single row holding the progress document.
const progressRowID = 1

// progressRepo implements ProgressRepo as a one-row upserted table.
type progressRepo struct {
	s *Store
}

func (r *progressRepo) LoadProgress(ctx context.Context) ([]byte, error) {
	query, args := r.s.builder().
		Select("document").
		From(r.s.builder().Table(tableProgress)).
		Where(entsql.EQ("id", progressRowID)).
		Query()

	var doc string
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return []byte(doc), nil
}

func (r *progressRepo) SaveProgress(ctx context.Context, doc []byte) error {
	query, args := r.s.builder().
		Insert(tableProgress).
		Columns("id", "document", "updated_at").
		Values(progressRowID, string(doc), time.Now().UTC()).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
