package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/abhisek/syllogiz/internal/syllogism"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(DriverSQLite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func generated(t *testing.T, micro, macroBlocks int) []syllogism.Question {
	t.Helper()
	g, err := syllogism.NewSeeded(syllogism.DefaultConfig(), 17)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	m, err := g.GenerateMicroBatch(micro)
	if err != nil {
		t.Fatalf("micro batch: %v", err)
	}
	b, err := g.GenerateMacroBatch(macroBlocks)
	if err != nil {
		t.Fatalf("macro batch: %v", err)
	}
	return append(m, b...)
}

func ptr(f float64) *float64 { return &f }

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
	if s.Dialect() != "sqlite3" {
		t.Errorf("dialect = %q, want sqlite3", s.Dialect())
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	if _, err := Open("oracle", "x"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so we skip journal_mode here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	for _, tbl := range Tables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", tbl.Name,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", tbl.Name, err)
		}
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Seeding twice must not reset the counter.
	sc, err := newSequenceCounter(ctx, s.DB(), s.Dialect())
	if err != nil {
		t.Fatalf("new sequence counter: %v", err)
	}

	for i := 0; i < 5; i++ {
		seq, err := sc.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if want := int64(i + 1); seq != want {
			t.Errorf("seq[%d] = %d, want %d", i, seq, want)
		}
	}
}

func TestInsertBatch_Chunks(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	qs := generated(t, 7, 3)
	n, err := repo.InsertBatch(ctx, qs, 4)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if n != len(qs) {
		t.Errorf("inserted = %d, want %d", n, len(qs))
	}

	total, inBlocks, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 22 || inBlocks != 15 {
		t.Errorf("count = (%d, %d), want (22, 15)", total, inBlocks)
	}
}

func TestInsertBatch_AbortsOnFirstError(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	qs := generated(t, 10, 0)
	qs[6].LogicGroup = "spatial"

	n, err := repo.InsertBatch(ctx, qs, 3)
	if !errors.Is(err, ErrInvalidRow) {
		t.Fatalf("err = %v, want ErrInvalidRow", err)
	}
	if n != 6 {
		t.Errorf("inserted = %d, want 6", n)
	}
	total, _, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 6 {
		t.Errorf("rows in table = %d, want 6", total)
	}
}

func TestInsertBatch_DuplicateRollsBackChunk(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	qs := generated(t, 4, 0)
	qs[3].ID = qs[2].ID

	n, err := repo.InsertBatch(ctx, qs, 2)
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}
	total, _, _ := repo.Count(ctx)
	if total != 2 {
		t.Errorf("rows in table = %d, want 2 (failed chunk rolled back)", total)
	}
}

func TestSampleMicro(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	if _, err := repo.InsertBatch(ctx, generated(t, 12, 2), 0); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.SampleMicro(ctx, 5)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("len = %d, want 5", len(got))
	}
	for _, q := range got {
		if err := syllogism.ValidateRow(q); err != nil {
			t.Errorf("row read back invalid: %v", err)
		}
	}
}

func TestSampleMacro_OnlyCompleteBlocks(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	qs := generated(t, 6, 3)
	partial := generated(t, 0, 1)[:3]
	for i := range partial {
		partial[i].ID = fmt.Sprintf("partial-%d", i)
		partial[i].MacroBlockID = "partial"
	}
	if _, err := repo.InsertBatch(ctx, append(qs, partial...), 0); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.SampleMacro(ctx, 200)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(got) != 15 {
		t.Errorf("len = %d, want 15", len(got))
	}
	if blocks := syllogism.GroupBlocks(got); len(blocks) != 3 {
		t.Errorf("complete blocks = %d, want 3", len(blocks))
	}

	got, err = repo.SampleMacro(ctx, 5)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if blocks := syllogism.GroupBlocks(got); len(blocks) != 1 {
		t.Errorf("complete blocks = %d, want 1", len(blocks))
	}
}

func TestSampleMacro_Empty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.QuestionRepo().SampleMacro(context.Background(), 200)
	if err != nil {
		t.Fatalf("sample: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestDeleteAll(t *testing.T) {
	s := openTestStore(t)
	repo := s.QuestionRepo()
	ctx := context.Background()

	if _, err := repo.InsertBatch(ctx, generated(t, 3, 1), 0); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.DeleteAll(ctx); err != nil {
		t.Fatalf("delete: %v", err)
	}
	total, _, _ := repo.Count(ctx)
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
}

func TestAppendSummary_NullAccuracy(t *testing.T) {
	s := openTestStore(t)
	repo := s.SummaryRepo()
	ctx := context.Background()

	err := repo.AppendSummary(ctx, SummaryRecord{
		SessionID:              "s1",
		Mode:                   "macro",
		Score:                  1,
		Correct:                4,
		TotalQuestions:         5,
		AverageTimePerDecision: 3.5,
		ElapsedSeconds:         17.5,
		RelativeAccuracy:       ptr(0.5),
		MajorityAccuracy:       ptr(1),
		ComplexAccuracy:        ptr(1),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	var nulls int
	if err := s.DB().QueryRow(
		"SELECT COUNT(*) FROM syllogism_sessions WHERE categorical_accuracy IS NULL",
	).Scan(&nulls); err != nil {
		t.Fatalf("count nulls: %v", err)
	}
	if nulls != 1 {
		t.Errorf("null categorical rows = %d, want 1", nulls)
	}

	recs, err := repo.QuerySummaries(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("len = %d, want 1", len(recs))
	}
	r := recs[0]
	if r.CategoricalAccuracy != nil {
		t.Errorf("categorical = %v, want nil", *r.CategoricalAccuracy)
	}
	if r.RelativeAccuracy == nil || *r.RelativeAccuracy != 0.5 {
		t.Errorf("relative = %v, want 0.5", r.RelativeAccuracy)
	}
	if r.Sequence != 1 || r.Score != 1 || r.TotalQuestions != 5 {
		t.Errorf("unexpected record %+v", r)
	}
	if r.Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}
}

func TestQuerySummaries_Filters(t *testing.T) {
	s := openTestStore(t)
	repo := s.SummaryRepo()
	ctx := context.Background()

	for i, mode := range []string{"micro", "macro", "micro", "micro"} {
		if err := repo.AppendSummary(ctx, SummaryRecord{SessionID: fmt.Sprint(i), Mode: mode, Score: i}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	recs, err := repo.QuerySummaries(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 || recs[0].SessionID != "3" || recs[1].SessionID != "2" {
		t.Errorf("expected newest first, got %+v", recs)
	}

	recs, err = repo.QuerySummaries(ctx, QueryOpts{Mode: "micro", Before: 4})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(recs) != 2 {
		t.Errorf("len = %d, want 2", len(recs))
	}
}

func TestModeStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.SummaryRepo()
	ctx := context.Background()

	recs := []SummaryRecord{
		{Mode: "micro", Score: 7, TotalQuestions: 10, AverageTimePerDecision: 2, CategoricalAccuracy: ptr(1)},
		{Mode: "micro", Score: 9, TotalQuestions: 10, AverageTimePerDecision: 4, CategoricalAccuracy: ptr(0.5)},
		{Mode: "macro", Score: 2, TotalQuestions: 5, AverageTimePerDecision: 6, ComplexAccuracy: ptr(1)},
	}
	for i, r := range recs {
		r.SessionID = fmt.Sprint(i)
		if err := repo.AppendSummary(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	stats, err := repo.ModeStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("len = %d, want 2", len(stats))
	}
	macro, micro := stats[0], stats[1]
	if macro.Mode != "macro" || micro.Mode != "micro" {
		t.Fatalf("unexpected order: %s, %s", macro.Mode, micro.Mode)
	}
	if micro.Sessions != 2 || micro.BestScore != 9 || micro.AverageScore != 8 || micro.AverageTime != 3 {
		t.Errorf("micro stats = %+v", micro)
	}
	if micro.CategoricalAccuracy == nil || *micro.CategoricalAccuracy != 0.75 {
		t.Errorf("micro categorical = %v, want 0.75", micro.CategoricalAccuracy)
	}
	if micro.ComplexAccuracy != nil {
		t.Errorf("micro complex = %v, want nil", *micro.ComplexAccuracy)
	}
	if macro.CategoricalAccuracy != nil {
		t.Error("macro categorical should be nil")
	}
}

func TestProgressRoundTrip(t *testing.T) {
	s := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	doc, err := repo.LoadProgress(ctx)
	if err != nil {
		t.Fatalf("load (empty): %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil document, got %s", doc)
	}

	for _, want := range []string{`{"version":1}`, `{"version":2}`} {
		if err := repo.SaveProgress(ctx, []byte(want)); err != nil {
			t.Fatalf("save: %v", err)
		}
		got, err := repo.LoadProgress(ctx)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if string(got) != want {
			t.Errorf("document = %s, want %s", got, want)
		}
	}
}

func TestLLMUsageByPurpose(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "m", Purpose: "debrief", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Provider: "mock", Model: "m", Purpose: "debrief", InputTokens: 20, OutputTokens: 0, LatencyMs: 300, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	usage, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 1 {
		t.Fatalf("len = %d, want 1", len(usage))
	}
	u := usage[0]
	if u.Requests != 2 || u.Failures != 1 || u.InputTokens != 30 || u.OutputTokens != 5 || u.AvgLatencyMs != 200 {
		t.Errorf("usage = %+v", u)
	}
}

func TestLLMEvents_QueryAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-x", Purpose: "debrief", InputTokens: 100, OutputTokens: 40, Success: true,
			RequestBody: `{"messages":[]}`, ResponseBody: `{"headline":"h"}`},
		{Provider: "openai", Model: "gpt-y", Purpose: "smoke-test", InputTokens: 5, OutputTokens: 1, Success: true},
		{Provider: "anthropic", Model: "claude-x", Purpose: "debrief", InputTokens: 50, ErrorMessage: "overloaded"},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].ErrorMessage != "overloaded" || events[0].Success {
		t.Errorf("newest first: got %+v", events[0])
	}
	if events[0].Sequence <= events[1].Sequence {
		t.Error("expected descending sequence")
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	first := all[len(all)-1]
	if first.RequestBody != "" {
		t.Error("list query must not load bodies")
	}

	got, err := repo.GetLLMEvent(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || got.RequestBody != `{"messages":[]}` || got.ResponseBody != `{"headline":"h"}` {
		t.Errorf("get = %+v", got)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("missing event: got %v, %v", missing, err)
	}

	usage, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("models = %d, want 2", len(usage))
	}
	if u := usage[0]; u.Model != "claude-x" || u.Calls != 2 || u.InputTokens != 150 || u.OutputTokens != 40 {
		t.Errorf("claude usage = %+v", u)
	}
}

func TestLLMEvents_FilterByPurposeAndSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "mock", Model: "m", Purpose: "debrief", SessionID: "run-a", Success: true},
		{Provider: "mock", Model: "m", Purpose: "smoke-test", Success: true},
		{Provider: "mock", Model: "m", Purpose: "debrief", SessionID: "run-b", ErrorMessage: "timeout"},
		{Provider: "mock", Model: "m", Purpose: "debrief", SessionID: "run-a", Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	debriefs, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "debrief"})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(debriefs) != 3 {
		t.Fatalf("debriefs = %d, want 3", len(debriefs))
	}

	runA, err := repo.QueryLLMEvents(ctx, QueryOpts{SessionID: "run-a"})
	if err != nil {
		t.Fatalf("query session: %v", err)
	}
	if len(runA) != 2 {
		t.Fatalf("run-a calls = %d, want 2", len(runA))
	}
	for _, e := range runA {
		if e.SessionID != "run-a" || e.Purpose != "debrief" {
			t.Errorf("unexpected event %+v", e)
		}
	}

	smoke, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "smoke-test"})
	if err != nil {
		t.Fatalf("query smoke: %v", err)
	}
	if len(smoke) != 1 || smoke[0].SessionID != "" {
		t.Errorf("smoke = %+v, want one call without session", smoke)
	}

	got, err := repo.GetLLMEvent(ctx, runA[0].ID)
	if err != nil || got == nil || got.SessionID != "run-a" {
		t.Errorf("get = %+v, %v", got, err)
	}
}

func TestQuerySummaries_BySession(t *testing.T) {
	s := openTestStore(t)
	repo := s.SummaryRepo()
	ctx := context.Background()

	for _, rec := range []SummaryRecord{
		{SessionID: "run-a", Mode: "micro", Score: 7, Correct: 7, TotalQuestions: 10},
		{SessionID: "run-b", Mode: "macro", Score: 2, Correct: 5, TotalQuestions: 5},
	} {
		if err := repo.AppendSummary(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QuerySummaries(ctx, QueryOpts{SessionID: "run-b"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].Mode != "macro" || got[0].Score != 2 {
		t.Errorf("got %+v, want the run-b macro summary", got)
	}
}
