package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/syllogiz/internal/syllogism"
)

// ErrInvalidRow is returned by InsertBatch for rows that fail validation.
var ErrInvalidRow = syllogism.ErrInvalidRow

var questionFields = []string{
	"id",
	"macro_block_id",
	"stimulus_text",
	"conclusion_text",
	"is_correct",
	"logic_group",
	"trick_type",
	"explanation",
}

// questionRepo implements QuestionRepo with ent's SQL builder.
type questionRepo struct {
	s *Store
}

func (r *questionRepo) InsertBatch(ctx context.Context, qs []syllogism.Question, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	inserted := 0
	for start := 0; start < len(qs); start += batchSize {
		end := min(start+batchSize, len(qs))
		if err := r.insertChunk(ctx, qs[start:end]); err != nil {
			return inserted, fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
		inserted = end
	}
	return inserted, nil
}

func (r *questionRepo) insertChunk(ctx context.Context, chunk []syllogism.Question) error {
	if err := syllogism.ValidateRows(chunk); err != nil {
		return err
	}

	now := time.Now().UTC()
	ins := r.s.builder().Insert(tableQuestions).Columns(append(questionFields, "created_at")...)
	for _, q := range chunk {
		ins.Values(
			q.ID,
			nullString(q.MacroBlockID),
			q.StimulusText,
			q.ConclusionText,
			q.IsCorrect,
			string(q.LogicGroup),
			nullString(string(q.TrickType)),
			nullString(q.Explanation),
			now,
		)
	}
	query, args := ins.Query()

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (r *questionRepo) SampleMicro(ctx context.Context, limit int) ([]syllogism.Question, error) {
	query, args := r.s.builder().
		Select(questionFields...).
		From(r.s.builder().Table(tableQuestions)).
		OrderExpr(entsql.Expr("random()")).
		Limit(limit).
		Query()
	return r.query(ctx, query, args)
}

func (r *questionRepo) SampleMacro(ctx context.Context, limit int) ([]syllogism.Question, error) {
	blocks := max(limit/syllogism.ConclusionsPerBlock, 1)
	query, args := r.completeBlocks().
		OrderExpr(entsql.Expr("random()")).
		Limit(blocks).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sample block ids: %w", err)
	}
	var ids []any
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan block id: %w", err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query, args = r.s.builder().
		Select(questionFields...).
		From(r.s.builder().Table(tableQuestions)).
		Where(entsql.In("macro_block_id", ids...)).
		OrderBy("macro_block_id").
		Limit(limit).
		Query()
	return r.query(ctx, query, args)
}

// completeBlocks selects the ids of blocks holding exactly one full set of
// conclusions.
func (r *questionRepo) completeBlocks() *entsql.Selector {
	return r.s.builder().
		Select("macro_block_id").
		From(r.s.builder().Table(tableQuestions)).
		Where(entsql.NotNull("macro_block_id")).
		GroupBy("macro_block_id").
		Having(entsql.ExprP(fmt.Sprintf("COUNT(*) = %d", syllogism.ConclusionsPerBlock)))
}

func (r *questionRepo) Count(ctx context.Context) (int, int, error) {
	var total, inBlocks int

	query, args := r.s.builder().
		Select(entsql.Count("*")).
		From(r.s.builder().Table(tableQuestions)).
		Query()
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, 0, fmt.Errorf("count questions: %w", err)
	}

	query, args = r.s.builder().
		Select(entsql.Count("*")).
		From(r.s.builder().Table(tableQuestions)).
		Where(entsql.In("macro_block_id", r.completeBlocks())).
		Query()
	if err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&inBlocks); err != nil {
		return 0, 0, fmt.Errorf("count block questions: %w", err)
	}
	return total, inBlocks, nil
}

func (r *questionRepo) DeleteAll(ctx context.Context) error {
	query, args := r.s.builder().Delete(tableQuestions).Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete questions: %w", err)
	}
	return nil
}

func (r *questionRepo) query(ctx context.Context, query string, args []any) ([]syllogism.Question, error) {
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []syllogism.Question
	for rows.Next() {
		var (
			q                     syllogism.Question
			block, trick, explain sql.NullString
			group                 string
		)
		if err := rows.Scan(&q.ID, &block, &q.StimulusText, &q.ConclusionText, &q.IsCorrect, &group, &trick, &explain); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		q.MacroBlockID = block.String
		q.LogicGroup = syllogism.LogicGroup(group)
		q.TrickType = syllogism.TrickType(trick.String)
		q.Explanation = explain.String
		out = append(out, q)
	}
	return out, rows.Err()
}

// nullString maps "" to SQL NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
