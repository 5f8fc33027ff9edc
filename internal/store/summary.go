package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var summaryFields = []string{
	"id",
	"sequence",
	"timestamp",
	"session_id",
	"mode",
	"score",
	"correct",
	"total_questions",
	"average_time_per_decision",
	"elapsed_seconds",
	"categorical_accuracy",
	"relative_accuracy",
	"majority_accuracy",
	"complex_accuracy",
}

// summaryRepo implements SummaryRepo.
type summaryRepo struct {
	s *Store
}

func (r *summaryRepo) AppendSummary(ctx context.Context, rec SummaryRecord) error {
	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := r.s.builder().
		Insert(tableSessions).
		Columns(summaryFields[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			rec.SessionID,
			rec.Mode,
			rec.Score,
			rec.Correct,
			rec.TotalQuestions,
			rec.AverageTimePerDecision,
			rec.ElapsedSeconds,
			nullFloat(rec.CategoricalAccuracy),
			nullFloat(rec.RelativeAccuracy),
			nullFloat(rec.MajorityAccuracy),
			nullFloat(rec.ComplexAccuracy),
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session summary: %w", err)
	}
	return nil
}

func (r *summaryRepo) QuerySummaries(ctx context.Context, opts QueryOpts) ([]SummaryRecord, error) {
	sel := r.s.builder().
		Select(summaryFields...).
		From(r.s.builder().Table(tableSessions)).
		OrderBy(entsql.Desc("sequence"))

	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if opts.Mode != "" {
		preds = append(preds, entsql.EQ("mode", opts.Mode))
	}
	if opts.SessionID != "" {
		preds = append(preds, entsql.EQ("session_id", opts.SessionID))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query session summaries: %w", err)
	}
	defer rows.Close()

	var out []SummaryRecord
	for rows.Next() {
		var (
			rec                       SummaryRecord
			cat, rel, major, complexA sql.NullFloat64
		)
		if err := rows.Scan(
			&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.SessionID, &rec.Mode,
			&rec.Score, &rec.Correct, &rec.TotalQuestions,
			&rec.AverageTimePerDecision, &rec.ElapsedSeconds,
			&cat, &rel, &major, &complexA,
		); err != nil {
			return nil, fmt.Errorf("scan session summary: %w", err)
		}
		rec.CategoricalAccuracy = floatPtr(cat)
		rec.RelativeAccuracy = floatPtr(rel)
		rec.MajorityAccuracy = floatPtr(major)
		rec.ComplexAccuracy = floatPtr(complexA)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *summaryRepo) ModeStats(ctx context.Context) ([]ModeStats, error) {
	query, args := r.s.builder().
		Select(
			"mode",
			entsql.Count("*"),
			entsql.Max("score"),
			entsql.Avg("score"),
			entsql.Avg("average_time_per_decision"),
			entsql.Avg("categorical_accuracy"),
			entsql.Avg("relative_accuracy"),
			entsql.Avg("majority_accuracy"),
			entsql.Avg("complex_accuracy"),
		).
		From(r.s.builder().Table(tableSessions)).
		GroupBy("mode").
		OrderBy("mode").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mode stats: %w", err)
	}
	defer rows.Close()

	var out []ModeStats
	for rows.Next() {
		var (
			st                        ModeStats
			cat, rel, major, complexA sql.NullFloat64
		)
		if err := rows.Scan(
			&st.Mode, &st.Sessions, &st.BestScore, &st.AverageScore, &st.AverageTime,
			&cat, &rel, &major, &complexA,
		); err != nil {
			return nil, fmt.Errorf("scan mode stats: %w", err)
		}
		st.CategoricalAccuracy = floatPtr(cat)
		st.RelativeAccuracy = floatPtr(rel)
		st.MajorityAccuracy = floatPtr(major)
		st.ComplexAccuracy = floatPtr(complexA)
		out = append(out, st)
	}
	return out, rows.Err()
}

// nullFloat maps a nil accuracy to SQL NULL, never to zero.
func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
