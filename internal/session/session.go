// Package session runs drill sessions: it fetches questions from the bank,
// records the learner's judgements under the micro or macro protocol, and
// reduces a finished run to a summary.
package session

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/syllogiz/internal/store"
	"github.com/abhisek/syllogiz/internal/syllogism"
)

// QuestionSource is the upstream question bank.
type QuestionSource interface {
	SampleMicro(ctx context.Context, limit int) ([]syllogism.Question, error)
	SampleMacro(ctx context.Context, limit int) ([]syllogism.Question, error)
}

// SummarySink receives finished runs.
type SummarySink interface {
	AppendSummary(ctx context.Context, rec store.SummaryRecord) error
}

// Ticker drives the elapsed-time tick.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ t *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.t.C }
func (t timeTicker) Stop()               { t.t.Stop() }

// NewTimeTicker returns a Ticker backed by time.Ticker.
func NewTimeTicker(d time.Duration) Ticker {
	return timeTicker{t: time.NewTicker(d)}
}

// Deps are the controller's collaborators. Only Source is required.
type Deps struct {
	Source       QuestionSource
	Sink         SummarySink
	LoadProgress ProgressLoader
	SaveProgress ProgressSaver
	Log          logrus.FieldLogger

	// Now, NewTicker, Rand and NewID default to the wall clock, real
	// tickers, a randomly seeded source and UUIDs.
	Now       func() time.Time
	NewTicker func(d time.Duration) Ticker
	Rand      *rand.Rand
	NewID     func() string

	// OnTick, if set, is called after every elapsed-time tick, outside the
	// controller's lock.
	OnTick func(elapsed time.Duration)
}

// Controller owns the state of one learner's drill runs. All methods are
// safe for concurrent use; at most one fetch result is ever applied per
// Fetch call, and only if no newer Fetch or Close happened meanwhile.
type Controller struct {
	cfg  Config
	deps Deps
	log  logrus.FieldLogger

	mu       sync.Mutex
	state    State
	progress Progress
	gen      uint64
	closed   bool
	stopTick func()
}

// New builds a controller and loads the learner's progress. A progress load
// failure is logged and the run starts from NewProgress.
func New(ctx context.Context, cfg Config, deps Deps) (*Controller, error) {
	if deps.Source == nil {
		return nil, errors.New("session: question source is required")
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NewTicker == nil {
		deps.NewTicker = NewTimeTicker
	}
	if deps.Rand == nil {
		deps.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	if cfg.FetchAttempts < 1 {
		cfg.FetchAttempts = 1
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}

	c := &Controller{cfg: cfg, deps: deps, log: deps.Log, progress: NewProgress()}
	if deps.LoadProgress != nil {
		p, err := deps.LoadProgress(ctx)
		if err != nil {
			c.log.WithError(err).Warn("could not load progress, starting fresh")
		} else {
			c.progress = p
		}
	}
	return c, nil
}

// Fetch loads a new run for mode, superseding any run or fetch in flight.
// On failure the phase becomes PhaseError with a user message and the
// previous questions and answers stay as they were.
func (c *Controller) Fetch(ctx context.Context, mode Mode) error {
	if _, err := ParseMode(string(mode)); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.gen++
	gen := c.gen
	c.stopTickLocked()
	c.state.Phase = PhaseLoading
	c.state.Err = nil
	c.state.Message = ""
	c.mu.Unlock()

	log := c.log.WithFields(logrus.Fields{"mode": mode, "generation": gen})
	rows, err := c.fetchWithRetry(ctx, mode, log)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		log.Debug("dropping stale fetch result")
		return ErrStale
	}

	var qs []syllogism.Question
	if err == nil {
		qs, err = c.pick(mode, rows, log)
	}
	if err != nil {
		c.state.Phase = PhaseError
		c.state.Err = err
		c.state.Message = UserMessage(err)
		log.WithError(err).Warn("question fetch failed")
		return err
	}

	now := c.deps.Now()
	c.state = State{
		SessionID:      c.deps.NewID(),
		Mode:           mode,
		Phase:          PhaseActive,
		Questions:      qs,
		Answers:        make([]*bool, len(qs)),
		Latencies:      make([]time.Duration, len(qs)),
		StartedAt:      now,
		LastDecisionAt: now,
	}
	c.startTickLocked(gen)
	log.WithFields(logrus.Fields{"session_id": c.state.SessionID, "questions": len(qs)}).Info("session started")
	return nil
}

func (c *Controller) fetchWithRetry(ctx context.Context, mode Mode, log logrus.FieldLogger) ([]syllogism.Question, error) {
	var lastErr error
	for attempt := range c.cfg.FetchAttempts {
		rows, err := c.fetchOnce(ctx, mode)
		if err == nil {
			return rows, nil
		}
		lastErr = err
		log.WithError(err).WithField("attempt", attempt+1).Warn("question fetch attempt failed")

		// No sleep after the last attempt or once the caller gave up.
		if attempt == c.cfg.FetchAttempts-1 || ctx.Err() != nil {
			break
		}

		wait := c.cfg.RetryWait << attempt
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, ctx.Err())
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}

// fetchOnce races one source call against the mode's timeout. The source
// call is not cancelled beyond its context; a late reply is discarded.
func (c *Controller) fetchOnce(ctx context.Context, mode Mode) ([]syllogism.Question, error) {
	actx, cancel := context.WithTimeout(ctx, c.cfg.timeout(mode))
	defer cancel()

	type result struct {
		rows []syllogism.Question
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		var r result
		if mode == ModeMacro {
			r.rows, r.err = c.deps.Source.SampleMacro(actx, c.cfg.MacroSample)
		} else {
			r.rows, r.err = c.deps.Source.SampleMicro(actx, c.cfg.MicroSample)
		}
		ch <- r
	}()

	select {
	case r := <-ch:
		if r.err == nil {
			return r.rows, nil
		}
		if errors.Is(r.err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrFetchTimeout
		}
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, r.err)
	case <-actx.Done():
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchFailed, ctx.Err())
		}
		return nil, ErrFetchTimeout
	}
}

// pick drops malformed rows and chooses the run's questions. Must be
// called with c.mu held.
func (c *Controller) pick(mode Mode, rows []syllogism.Question, log logrus.FieldLogger) ([]syllogism.Question, error) {
	valid := make([]syllogism.Question, 0, len(rows))
	for _, r := range rows {
		if err := syllogism.ValidateRow(r); err != nil {
			log.WithError(err).Warn("skipping malformed question row")
			continue
		}
		valid = append(valid, r)
	}

	if mode == ModeMacro {
		blocks := syllogism.GroupBlocks(valid)
		if len(blocks) == 0 {
			return nil, ErrNoQuestions
		}
		return blocks[c.deps.Rand.IntN(len(blocks))], nil
	}

	if len(valid) == 0 {
		return nil, ErrNoQuestions
	}
	c.deps.Rand.Shuffle(len(valid), func(i, j int) { valid[i], valid[j] = valid[j], valid[i] })
	if len(valid) > c.cfg.MicroCount && c.cfg.MicroCount > 0 {
		valid = valid[:c.cfg.MicroCount]
	}
	return valid, nil
}

// Answer records a micro judgement for the current question. Answering an
// already answered question is a silent no-op.
func (c *Controller) Answer(value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked(ModeMicro) {
		return ErrNotActive
	}
	i := c.state.Current
	if c.state.Answers[i] != nil {
		return nil
	}
	c.recordLocked(i, value)
	return nil
}

// Advance moves to the next micro question once the current one is
// answered. Advancing past the last question finishes the run and returns
// its summary; otherwise the summary is nil.
func (c *Controller) Advance(ctx context.Context) (*Summary, error) {
	c.mu.Lock()
	if !c.activeLocked(ModeMicro) {
		c.mu.Unlock()
		return nil, ErrNotActive
	}
	if c.state.Answers[c.state.Current] == nil {
		c.mu.Unlock()
		return nil, nil
	}
	if c.state.Current < len(c.state.Questions)-1 {
		c.state.Current++
		c.mu.Unlock()
		return nil, nil
	}
	sum := c.finishLocked()
	c.mu.Unlock()

	sum = c.persist(ctx, sum)
	return &sum, nil
}

// SetAnswer sets or overwrites the judgement for macro conclusion i.
func (c *Controller) SetAnswer(i int, value bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.activeLocked(ModeMacro) {
		return ErrNotActive
	}
	if i < 0 || i >= len(c.state.Answers) {
		return fmt.Errorf("conclusion %d out of range 0..%d", i, len(c.state.Answers)-1)
	}
	if c.state.Answers[i] != nil {
		v := value
		c.state.Answers[i] = &v
		return nil
	}
	c.recordLocked(i, value)
	return nil
}

// Submit finishes a macro run. Every conclusion must be answered.
func (c *Controller) Submit(ctx context.Context) (*Summary, error) {
	c.mu.Lock()
	if !c.activeLocked(ModeMacro) {
		c.mu.Unlock()
		return nil, ErrNotActive
	}
	for _, a := range c.state.Answers {
		if a == nil {
			c.mu.Unlock()
			return nil, ErrIncomplete
		}
	}
	sum := c.finishLocked()
	c.mu.Unlock()

	sum = c.persist(ctx, sum)
	return &sum, nil
}

func (c *Controller) activeLocked(m Mode) bool {
	return !c.closed && c.state.Phase == PhaseActive && c.state.Mode == m
}

// recordLocked writes a first answer for slot i with its decision latency.
func (c *Controller) recordLocked(i int, value bool) {
	now := c.deps.Now()
	v := value
	c.state.Answers[i] = &v
	c.state.Latencies[i] = now.Sub(c.state.LastDecisionAt)
	c.state.LastDecisionAt = now
}

func (c *Controller) finishLocked() Summary {
	c.stopTickLocked()
	c.state.Phase = PhaseFinished
	sum := BuildSummary(&c.state)
	c.state.Summary = &sum
	return sum.clone()
}

// persist sends the summary downstream and folds it into the progress.
// Failures are logged; the learner still sees the summary.
func (c *Controller) persist(ctx context.Context, sum Summary) Summary {
	log := c.log.WithFields(logrus.Fields{"session_id": sum.SessionID, "mode": sum.Mode})

	if c.deps.Sink != nil {
		if err := c.deps.Sink.AppendSummary(ctx, sum.Record()); err != nil {
			log.WithError(err).Error("failed to persist session summary")
		} else {
			sum.Persisted = true
		}
	}

	c.mu.Lock()
	c.progress.Apply(sum)
	p := c.progress.clone()
	if c.state.Summary != nil && c.state.SessionID == sum.SessionID {
		c.state.Summary.Persisted = sum.Persisted
	}
	c.mu.Unlock()

	if c.deps.SaveProgress != nil {
		if err := c.deps.SaveProgress(ctx, p); err != nil {
			log.WithError(err).Warn("failed to save progress")
		}
	}
	log.WithFields(logrus.Fields{"score": sum.Score, "correct": sum.Correct, "total": sum.TotalQuestions}).Info("session finished")
	return sum
}

// startTickLocked starts the elapsed-time goroutine for generation gen.
func (c *Controller) startTickLocked(gen uint64) {
	t := c.deps.NewTicker(c.cfg.TickInterval)
	done := make(chan struct{})
	var once sync.Once
	c.stopTick = func() {
		once.Do(func() {
			t.Stop()
			close(done)
		})
	}
	go func() {
		for {
			select {
			case <-done:
				return
			case <-t.C():
				c.tick(gen)
			}
		}
	}()
}

func (c *Controller) stopTickLocked() {
	if c.stopTick != nil {
		c.stopTick()
		c.stopTick = nil
	}
}

func (c *Controller) tick(gen uint64) {
	c.mu.Lock()
	if c.closed || gen != c.gen || c.state.Phase != PhaseActive {
		c.mu.Unlock()
		return
	}
	c.state.Elapsed += c.cfg.TickInterval
	elapsed := c.state.Elapsed
	cb := c.deps.OnTick
	c.mu.Unlock()

	if cb != nil {
		cb(elapsed)
	}
}

// Close tears the controller down: the tick stops and any fetch still in
// flight will be discarded. Close is idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	c.stopTickLocked()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Progress returns a copy of the learner's progress.
func (c *Controller) Progress() Progress {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.progress.clone()
}

func (p Progress) clone() Progress {
	p.SessionsCompleted = maps.Clone(p.SessionsCompleted)
	p.BestScore = maps.Clone(p.BestScore)
	return p
}
