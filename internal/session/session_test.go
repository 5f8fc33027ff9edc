package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/syllogiz/internal/store"
	"github.com/abhisek/syllogiz/internal/syllogism"
)

// fakeSource serves canned rows, optionally failing the first calls.
type fakeSource struct {
	mu       sync.Mutex
	micro    []syllogism.Question
	macro    []syllogism.Question
	failures int
	block    chan struct{}
	calls    int
}

func (f *fakeSource) serve(ctx context.Context, rows []syllogism.Question) ([]syllogism.Question, error) {
	f.mu.Lock()
	f.calls++
	fail := f.calls <= f.failures
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if fail {
		return nil, errors.New("connection reset by peer")
	}
	return append([]syllogism.Question(nil), rows...), nil
}

func (f *fakeSource) SampleMicro(ctx context.Context, _ int) ([]syllogism.Question, error) {
	return f.serve(ctx, f.micro)
}

func (f *fakeSource) SampleMacro(ctx context.Context, _ int) ([]syllogism.Question, error) {
	return f.serve(ctx, f.macro)
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSink struct {
	mu   sync.Mutex
	recs []store.SummaryRecord
	err  error
}

func (s *fakeSink) AppendSummary(_ context.Context, rec store.SummaryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.recs = append(s.recs, rec)
	return nil
}

type fakeTicker struct {
	ch      chan time.Time
	stopped atomic.Bool
}

func (t *fakeTicker) C() <-chan time.Time { return t.ch }
func (t *fakeTicker) Stop()               { t.stopped.Store(true) }

// fakeClock advances by step on every read.
type fakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func block(id string, groups ...syllogism.LogicGroup) []syllogism.Question {
	qs := make([]syllogism.Question, len(groups))
	for i, g := range groups {
		qs[i] = syllogism.Question{
			ID:             fmt.Sprintf("%s-%d", id, i),
			MacroBlockID:   id,
			StimulusText:   "stimulus " + id,
			ConclusionText: fmt.Sprintf("conclusion %d of %s", i, id),
			IsCorrect:      i%2 == 0,
			LogicGroup:     g,
			TrickType:      syllogism.TrickLinkRestatement,
		}
	}
	return qs
}

func fullBlock(id string) []syllogism.Question {
	return block(id, syllogism.GroupCategorical, syllogism.GroupRelative, syllogism.GroupRelative,
		syllogism.GroupMajority, syllogism.GroupComplex)
}

// generatedBlock returns one macro block from a seeded generator.
func generatedBlock(t *testing.T) []syllogism.Question {
	t.Helper()
	gen, err := syllogism.NewSeeded(syllogism.DefaultConfig(), 42)
	require.NoError(t, err)
	qs, err := gen.GenerateMacroBatch(1)
	require.NoError(t, err)
	require.Len(t, qs, syllogism.ConclusionsPerBlock)
	return qs
}

func microRows(n int) []syllogism.Question {
	qs := make([]syllogism.Question, n)
	for i := range qs {
		qs[i] = syllogism.Question{
			ID:             fmt.Sprintf("m-%d", i),
			MacroBlockID:   fmt.Sprintf("mb-%d", i),
			StimulusText:   fmt.Sprintf("stimulus %d", i),
			ConclusionText: fmt.Sprintf("conclusion %d", i),
			IsCorrect:      i%3 != 0,
			LogicGroup:     syllogism.AllGroups[i%len(syllogism.AllGroups)],
			TrickType:      syllogism.TrickContrapositive,
		}
	}
	return qs
}

type harness struct {
	ctrl    *Controller
	src     *fakeSource
	sink    *fakeSink
	tickers chan *fakeTicker
	saved   []Progress
	logs    *test.Hook
	mu      sync.Mutex
}

func newHarness(t *testing.T, src *fakeSource, mutate func(*Config, *Deps)) *harness {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	h := &harness{src: src, sink: &fakeSink{}, tickers: make(chan *fakeTicker, 16), logs: hook}
	cfg := DefaultConfig()
	cfg.RetryWait = time.Millisecond
	clock := &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), step: 2 * time.Second}
	deps := Deps{
		Source: src,
		Sink:   h.sink,
		Log:    logger,
		Now:    clock.Now,
		Rand:   rand.New(rand.NewPCG(1, 2)),
		NewTicker: func(time.Duration) Ticker {
			ft := &fakeTicker{ch: make(chan time.Time)}
			h.tickers <- ft
			return ft
		},
		SaveProgress: func(_ context.Context, p Progress) error {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.saved = append(h.saved, p)
			return nil
		},
	}
	if mutate != nil {
		mutate(&cfg, &deps)
	}
	ctrl, err := New(context.Background(), cfg, deps)
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)
	h.ctrl = ctrl
	return h
}

// answerMacro answers conclusion i with its ground truth when right[i] is
// true and with the opposite otherwise.
func answerMacro(t *testing.T, c *Controller, right []bool) {
	t.Helper()
	st := c.Snapshot()
	for i, q := range st.Questions {
		v := q.IsCorrect
		if !right[i] {
			v = !v
		}
		require.NoError(t, c.SetAnswer(i, v))
	}
}

func TestMacroAllCorrectScoresTwo(t *testing.T) {
	h := newHarness(t, &fakeSource{macro: generatedBlock(t)}, nil)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))
	st := h.ctrl.Snapshot()
	assert.Equal(t, PhaseActive, st.Phase)
	require.Len(t, st.Questions, 5)
	assert.NotEmpty(t, st.SessionID)

	answerMacro(t, h.ctrl, []bool{true, true, true, true, true})
	sum, err := h.ctrl.Submit(ctx)
	require.NoError(t, err)
	require.NotNil(t, sum)

	assert.Equal(t, 2, sum.Score)
	assert.Equal(t, 5, sum.Correct)
	assert.Equal(t, 5, sum.TotalQuestions)
	assert.True(t, sum.Persisted)
	assert.Equal(t, PhaseFinished, h.ctrl.Snapshot().Phase)
}

func TestMacroFourCorrectScoresOne(t *testing.T) {
	h := newHarness(t, &fakeSource{macro: generatedBlock(t)}, nil)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))
	answerMacro(t, h.ctrl, []bool{true, false, true, true, true})
	sum, err := h.ctrl.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Score)
	assert.Equal(t, 4, sum.Correct)
}

func TestMacroThreeCorrectScoresZero(t *testing.T) {
	h := newHarness(t, &fakeSource{macro: fullBlock("b1")}, nil)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))
	answerMacro(t, h.ctrl, []bool{false, false, true, true, true})
	sum, err := h.ctrl.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Score)
}

func TestMicroRunScoresCorrectCount(t *testing.T) {
	h := newHarness(t, &fakeSource{micro: microRows(30)}, nil)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMicro))
	st := h.ctrl.Snapshot()
	require.Len(t, st.Questions, 10)

	var sum *Summary
	for i := range 10 {
		q := h.ctrl.Snapshot().CurrentQuestion()
		require.NotNil(t, q)
		v := q.IsCorrect
		if i >= 7 {
			v = !v
		}
		require.NoError(t, h.ctrl.Answer(v))
		s, err := h.ctrl.Advance(ctx)
		require.NoError(t, err)
		if i < 9 {
			assert.Nil(t, s)
		}
		sum = s
	}
	require.NotNil(t, sum)
	assert.Equal(t, 7, sum.Score)
	assert.Equal(t, 7, sum.Correct)
	assert.Equal(t, 10, sum.TotalQuestions)
	// Every decision took one clock step.
	assert.InDelta(t, 2.0, sum.AverageTimePerDecision, 1e-9)
}

func TestMicroFetchShufflesAndTruncates(t *testing.T) {
	h := newHarness(t, &fakeSource{micro: microRows(4)}, nil)
	require.NoError(t, h.ctrl.Fetch(context.Background(), ModeMicro))
	assert.Len(t, h.ctrl.Snapshot().Questions, 4)
}

func TestMacroWithoutCompleteBlockReportsNoQuestions(t *testing.T) {
	rows := append(block("three", syllogism.GroupCategorical, syllogism.GroupRelative, syllogism.GroupMajority),
		block("four", syllogism.GroupCategorical, syllogism.GroupRelative, syllogism.GroupMajority, syllogism.GroupComplex)...)
	h := newHarness(t, &fakeSource{macro: rows}, nil)

	err := h.ctrl.Fetch(context.Background(), ModeMacro)
	require.ErrorIs(t, err, ErrNoQuestions)

	st := h.ctrl.Snapshot()
	assert.Equal(t, PhaseError, st.Phase)
	assert.Equal(t, "No questions available. Seed the question bank and try again.", st.Message)
	assert.Empty(t, st.Questions)
	assert.Empty(t, st.Answers)
	assert.Empty(t, st.SessionID)
}

func TestFailedFetchKeepsPreviousQuestions(t *testing.T) {
	src := &fakeSource{macro: fullBlock("b1")}
	h := newHarness(t, src, nil)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))
	before := h.ctrl.Snapshot()

	src.mu.Lock()
	src.macro = nil
	src.mu.Unlock()
	require.ErrorIs(t, h.ctrl.Fetch(ctx, ModeMacro), ErrNoQuestions)

	after := h.ctrl.Snapshot()
	assert.Equal(t, PhaseError, after.Phase)
	assert.Equal(t, before.SessionID, after.SessionID)
	assert.Equal(t, before.Questions, after.Questions)
}

func TestMalformedRowsAreDropped(t *testing.T) {
	rows := microRows(3)
	rows[1].LogicGroup = "syllogistic"
	rows[2].StimulusText = ""
	h := newHarness(t, &fakeSource{micro: rows}, nil)

	require.NoError(t, h.ctrl.Fetch(context.Background(), ModeMicro))
	st := h.ctrl.Snapshot()
	require.Len(t, st.Questions, 1)
	assert.Equal(t, "m-0", st.Questions[0].ID)
}

func TestAdvanceWithoutAnswerIsNoop(t *testing.T) {
	h := newHarness(t, &fakeSource{micro: microRows(3)}, nil)
	ctx := context.Background()
	require.NoError(t, h.ctrl.Fetch(ctx, ModeMicro))

	sum, err := h.ctrl.Advance(ctx)
	require.NoError(t, err)
	assert.Nil(t, sum)
	assert.Equal(t, 0, h.ctrl.Snapshot().Current)
}

func TestMicroAnswerIsFinal(t *testing.T) {
	h := newHarness(t, &fakeSource{micro: microRows(3)}, nil)
	require.NoError(t, h.ctrl.Fetch(context.Background(), ModeMicro))

	require.NoError(t, h.ctrl.Answer(true))
	require.NoError(t, h.ctrl.Answer(false))
	st := h.ctrl.Snapshot()
	require.NotNil(t, st.Answers[0])
	assert.True(t, *st.Answers[0])
}

func TestAdvanceKeepsEarlierAnswerAndLatency(t *testing.T) {
	h := newHarness(t, &fakeSource{micro: microRows(3)}, nil)
	ctx := context.Background()
	require.NoError(t, h.ctrl.Fetch(ctx, ModeMicro))

	require.NoError(t, h.ctrl.Answer(true))
	before := h.ctrl.Snapshot()
	require.NotNil(t, before.Answers[0])
	latency := before.Latencies[0]
	assert.Equal(t, 2*time.Second, latency)

	sum, err := h.ctrl.Advance(ctx)
	require.NoError(t, err)
	assert.Nil(t, sum)
	require.NoError(t, h.ctrl.Answer(false))

	after := h.ctrl.Snapshot()
	assert.Equal(t, 1, after.Current)
	require.NotNil(t, after.Answers[0])
	assert.True(t, *after.Answers[0])
	assert.Equal(t, latency, after.Latencies[0])
	require.NotNil(t, after.Answers[1])
	assert.False(t, *after.Answers[1])
}

func TestSnapshotHelpers(t *testing.T) {
	h := newHarness(t, &fakeSource{micro: microRows(3)}, nil)
	require.NoError(t, h.ctrl.Fetch(context.Background(), ModeMicro))

	q := h.ctrl.Snapshot().CurrentQuestion()
	require.NotNil(t, q)
	assert.Equal(t, h.ctrl.Snapshot().Questions[0].ID, q.ID)
	assert.Equal(t, 0, h.ctrl.Snapshot().Answered())

	require.NoError(t, h.ctrl.Answer(true))
	assert.Equal(t, 1, h.ctrl.Snapshot().Answered())
	assert.Nil(t, State{}.CurrentQuestion())
}

func TestMacroAnswerCanBeChangedBeforeSubmit(t *testing.T) {
	h := newHarness(t, &fakeSource{macro: fullBlock("b1")}, nil)
	require.NoError(t, h.ctrl.Fetch(context.Background(), ModeMacro))

	require.NoError(t, h.ctrl.SetAnswer(2, true))
	first := h.ctrl.Snapshot().Latencies[2]
	require.NoError(t, h.ctrl.SetAnswer(2, false))

	st := h.ctrl.Snapshot()
	require.NotNil(t, st.Answers[2])
	assert.False(t, *st.Answers[2])
	assert.Equal(t, first, st.Latencies[2])
	assert.Equal(t, 1, st.Answered())
}

func TestSubmitRequiresEveryAnswer(t *testing.T) {
	h := newHarness(t, &fakeSource{macro: fullBlock("b1")}, nil)
	ctx := context.Background()
	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))

	for i := range 4 {
		require.NoError(t, h.ctrl.SetAnswer(i, true))
	}
	sum, err := h.ctrl.Submit(ctx)
	require.ErrorIs(t, err, ErrIncomplete)
	assert.Nil(t, sum)
	assert.Equal(t, PhaseActive, h.ctrl.Snapshot().Phase)
	assert.Empty(t, h.sink.recs)
}

func TestSetAnswerOutOfRange(t *testing.T) {
	h := newHarness(t, &fakeSource{macro: fullBlock("b1")}, nil)
	require.NoError(t, h.ctrl.Fetch(context.Background(), ModeMacro))
	assert.Error(t, h.ctrl.SetAnswer(5, true))
	assert.Error(t, h.ctrl.SetAnswer(-1, true))
}

func TestEventsOutsideActiveRun(t *testing.T) {
	h := newHarness(t, &fakeSource{macro: fullBlock("b1")}, nil)
	ctx := context.Background()

	assert.ErrorIs(t, h.ctrl.Answer(true), ErrNotActive)
	assert.ErrorIs(t, h.ctrl.SetAnswer(0, true), ErrNotActive)

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))
	// Micro events do not apply to a macro run.
	assert.ErrorIs(t, h.ctrl.Answer(true), ErrNotActive)
	_, err := h.ctrl.Advance(ctx)
	assert.ErrorIs(t, err, ErrNotActive)
}

func TestUnknownModeRejected(t *testing.T) {
	h := newHarness(t, &fakeSource{}, nil)
	assert.Error(t, h.ctrl.Fetch(context.Background(), Mode("endless")))
	assert.Equal(t, 0, h.src.callCount())
}

func TestStaleFetchIsDiscarded(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{macro: fullBlock("old"), block: gate}
	h := newHarness(t, src, nil)
	ctx := context.Background()

	errc := make(chan error, 1)
	go func() { errc <- h.ctrl.Fetch(ctx, ModeMacro) }()
	require.Eventually(t, func() bool { return src.callCount() == 1 }, time.Second, time.Millisecond)

	// A second fetch supersedes the first.
	src.mu.Lock()
	src.block = nil
	src.macro = fullBlock("new")
	src.mu.Unlock()
	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))

	close(gate)
	require.ErrorIs(t, <-errc, ErrStale)

	st := h.ctrl.Snapshot()
	assert.Equal(t, PhaseActive, st.Phase)
	assert.Equal(t, "new", st.Questions[0].MacroBlockID)
}

func TestCloseDiscardsInFlightFetch(t *testing.T) {
	gate := make(chan struct{})
	src := &fakeSource{macro: fullBlock("b1"), block: gate}
	h := newHarness(t, src, nil)

	errc := make(chan error, 1)
	go func() { errc <- h.ctrl.Fetch(context.Background(), ModeMacro) }()
	require.Eventually(t, func() bool { return src.callCount() == 1 }, time.Second, time.Millisecond)

	h.ctrl.Close()
	close(gate)
	require.ErrorIs(t, <-errc, ErrStale)
	assert.Empty(t, h.ctrl.Snapshot().Questions)
	assert.ErrorIs(t, h.ctrl.Fetch(context.Background(), ModeMacro), ErrClosed)
}

func TestFetchTimesOut(t *testing.T) {
	src := &fakeSource{macro: fullBlock("b1"), block: make(chan struct{})}
	h := newHarness(t, src, func(cfg *Config, _ *Deps) {
		cfg.MacroTimeout = 10 * time.Millisecond
		cfg.FetchAttempts = 2
	})

	err := h.ctrl.Fetch(context.Background(), ModeMacro)
	require.ErrorIs(t, err, ErrFetchTimeout)
	assert.Equal(t, 2, src.callCount())

	st := h.ctrl.Snapshot()
	assert.Equal(t, PhaseError, st.Phase)
	assert.Equal(t, "Loading questions took too long. Please try again.", st.Message)
}

func TestFetchRetriesTransientFailures(t *testing.T) {
	src := &fakeSource{micro: microRows(12), failures: 2}
	h := newHarness(t, src, nil)

	require.NoError(t, h.ctrl.Fetch(context.Background(), ModeMicro))
	assert.Equal(t, 3, src.callCount())
	assert.Equal(t, PhaseActive, h.ctrl.Snapshot().Phase)
}

func TestFetchGivesUpAfterAttempts(t *testing.T) {
	src := &fakeSource{micro: microRows(12), failures: 10}
	h := newHarness(t, src, nil)

	err := h.ctrl.Fetch(context.Background(), ModeMicro)
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Equal(t, 3, src.callCount())

	st := h.ctrl.Snapshot()
	assert.Equal(t, "Could not load questions. Please try again.", st.Message)
	assert.NotContains(t, st.Message, "connection reset")
}

func TestTickAdvancesElapsedUntilFinish(t *testing.T) {
	var ticks atomic.Int64
	h := newHarness(t, &fakeSource{macro: fullBlock("b1")}, func(_ *Config, d *Deps) {
		d.OnTick = func(time.Duration) { ticks.Add(1) }
	})
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))
	ft := <-h.tickers
	ft.ch <- time.Now()
	ft.ch <- time.Now()
	require.Eventually(t, func() bool { return ticks.Load() == 2 }, time.Second, time.Millisecond)
	assert.Equal(t, 2*time.Second, h.ctrl.Snapshot().Elapsed)

	answerMacro(t, h.ctrl, []bool{true, true, true, true, true})
	sum, err := h.ctrl.Submit(ctx)
	require.NoError(t, err)
	assert.True(t, ft.stopped.Load())
	assert.InDelta(t, 2.0, sum.ElapsedSeconds, 1e-9)
}

func TestNewFetchStopsPreviousTicker(t *testing.T) {
	h := newHarness(t, &fakeSource{micro: microRows(5)}, nil)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMicro))
	first := <-h.tickers
	require.NoError(t, h.ctrl.Fetch(ctx, ModeMicro))
	second := <-h.tickers

	assert.True(t, first.stopped.Load())
	assert.False(t, second.stopped.Load())

	h.ctrl.Close()
	assert.True(t, second.stopped.Load())
}

func TestSummaryPersistedWithNullAccuracy(t *testing.T) {
	rows := microRows(1)
	rows[0].LogicGroup = syllogism.GroupComplex
	h := newHarness(t, &fakeSource{micro: rows}, nil)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMicro))
	require.NoError(t, h.ctrl.Answer(rows[0].IsCorrect))
	sum, err := h.ctrl.Advance(ctx)
	require.NoError(t, err)
	require.NotNil(t, sum)

	require.Len(t, h.sink.recs, 1)
	rec := h.sink.recs[0]
	assert.Equal(t, sum.SessionID, rec.SessionID)
	assert.Equal(t, "micro", rec.Mode)
	assert.Nil(t, rec.CategoricalAccuracy)
	assert.Nil(t, rec.RelativeAccuracy)
	assert.Nil(t, rec.MajorityAccuracy)
	require.NotNil(t, rec.ComplexAccuracy)
	assert.InDelta(t, 1.0, *rec.ComplexAccuracy, 1e-9)
}

func TestSinkFailureStillFinishes(t *testing.T) {
	h := newHarness(t, &fakeSource{macro: fullBlock("b1")}, nil)
	h.sink.err = errors.New("disk full")
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))
	answerMacro(t, h.ctrl, []bool{true, true, true, true, true})
	sum, err := h.ctrl.Submit(ctx)
	require.NoError(t, err)
	assert.False(t, sum.Persisted)
	assert.Equal(t, PhaseFinished, h.ctrl.Snapshot().Phase)

	var logged bool
	for _, e := range h.logs.AllEntries() {
		if e.Level == logrus.ErrorLevel && e.Message == "failed to persist session summary" {
			logged = true
		}
	}
	assert.True(t, logged)
}

func TestFinishUpdatesProgress(t *testing.T) {
	h := newHarness(t, &fakeSource{macro: fullBlock("b1")}, nil)
	ctx := context.Background()

	require.NoError(t, h.ctrl.Fetch(ctx, ModeMacro))
	answerMacro(t, h.ctrl, []bool{true, true, true, true, true})
	_, err := h.ctrl.Submit(ctx)
	require.NoError(t, err)

	p := h.ctrl.Progress()
	assert.Equal(t, 1, p.SessionsCompleted[ModeMacro])
	assert.Equal(t, 2, p.BestScore[ModeMacro])
	assert.Equal(t, StageMastery, p.HighestUnlockedStage)

	h.mu.Lock()
	defer h.mu.Unlock()
	require.Len(t, h.saved, 1)
	assert.Equal(t, p, h.saved[0])
}

func TestProgressLoadFailureStartsFresh(t *testing.T) {
	h := newHarness(t, &fakeSource{}, func(_ *Config, d *Deps) {
		d.LoadProgress = func(context.Context) (Progress, error) {
			return Progress{}, errors.New("corrupt")
		}
	})
	assert.Equal(t, NewProgress(), h.ctrl.Progress())
}

func TestNewRequiresSource(t *testing.T) {
	_, err := New(context.Background(), DefaultConfig(), Deps{})
	assert.Error(t, err)
}
