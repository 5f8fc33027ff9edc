package drill

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/syllogiz/internal/logging"
	"github.com/abhisek/syllogiz/internal/router"
	"github.com/abhisek/syllogiz/internal/screens/summary"
	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/store"
	"github.com/abhisek/syllogiz/internal/syllogism"
)

type stubSource struct {
	micro, macro []syllogism.Question
	err          error
}

func (s *stubSource) SampleMicro(context.Context, int) ([]syllogism.Question, error) {
	return s.micro, s.err
}

func (s *stubSource) SampleMacro(context.Context, int) ([]syllogism.Question, error) {
	return s.macro, s.err
}

type stubSink struct{ recs []store.SummaryRecord }

func (s *stubSink) AppendSummary(_ context.Context, rec store.SummaryRecord) error {
	s.recs = append(s.recs, rec)
	return nil
}

// idleTicker never fires.
type idleTicker struct{}

func (idleTicker) C() <-chan time.Time { return nil }
func (idleTicker) Stop()               {}

func rows(n int, block string) []syllogism.Question {
	qs := make([]syllogism.Question, n)
	for i := range qs {
		id := block
		stimulus := "All cats are mammals. All mammals are animals."
		if block == "" {
			id = fmt.Sprintf("mb-%d", i)
			stimulus = fmt.Sprintf("stimulus %d", i)
		}
		qs[i] = syllogism.Question{
			ID:             fmt.Sprintf("q-%d", i),
			MacroBlockID:   id,
			StimulusText:   stimulus,
			ConclusionText: fmt.Sprintf("conclusion %d", i),
			IsCorrect:      i%2 == 0,
			LogicGroup:     syllogism.GroupCategorical,
			TrickType:      syllogism.TrickTransitiveChain,
			Explanation:    fmt.Sprintf("explanation %d", i),
		}
	}
	return qs
}

func newScreen(t *testing.T, mode session.Mode, src *stubSource) (*DrillScreen, *stubSink) {
	t.Helper()
	cfg := session.DefaultConfig()
	cfg.MicroCount = 3
	cfg.RetryWait = time.Millisecond
	sink := &stubSink{}
	ctrl, err := session.New(context.Background(), cfg, session.Deps{
		Source:    src,
		Sink:      sink,
		Log:       logging.Discard(),
		NewTicker: func(time.Duration) session.Ticker { return idleTicker{} },
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	s := New(ctrl, mode, nil)
	t.Cleanup(s.Close)
	return s, sink
}

// load runs the fetch synchronously.
func load(s *DrillScreen) {
	s.Update(s.fetch()())
}

func press(s *DrillScreen, k string) tea.Cmd {
	var msg tea.KeyPressMsg
	switch k {
	case "enter":
		msg = tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		msg = tea.KeyPressMsg{Code: tea.KeyDown}
	default:
		msg = tea.KeyPressMsg{Code: rune(k[0]), Text: k}
	}
	_, cmd := s.Update(msg)
	return cmd
}

// step presses a key and feeds the resulting Advance/Submit message back.
func step(t *testing.T, s *DrillScreen, k string) tea.Msg {
	t.Helper()
	cmd := press(s, k)
	if cmd == nil {
		t.Fatalf("expected a command for %q", k)
	}
	_, next := s.Update(cmd())
	if next == nil {
		return nil
	}
	return next()
}

func TestDrill_Titles(t *testing.T) {
	if New(nil, session.ModeMicro, nil).Title() != "Micro Drill" {
		t.Error("micro title")
	}
	if New(nil, session.ModeMacro, nil).Title() != "Macro Block" {
		t.Error("macro title")
	}
}

func TestDrill_LoadingView(t *testing.T) {
	s := New(nil, session.ModeMicro, nil)
	if !strings.Contains(s.View(80, 24), "Loading questions") {
		t.Error("expected loading view before the fetch returns")
	}
}

func TestDrill_MicroFlow(t *testing.T) {
	s, sink := newScreen(t, session.ModeMicro, &stubSource{micro: rows(5, "")})
	load(s)

	if s.state.Phase != session.PhaseActive {
		t.Fatalf("phase = %v, want active", s.state.Phase)
	}
	if len(s.state.Questions) != 3 {
		t.Fatalf("questions = %d, want 3", len(s.state.Questions))
	}
	if !strings.Contains(s.View(100, 30), "Question 1/3") {
		t.Errorf("expected question counter:\n%s", s.View(100, 30))
	}

	// Enter before answering does nothing.
	if cmd := press(s, "enter"); cmd != nil {
		t.Error("expected no command for an unanswered question")
	}

	for i := range 3 {
		press(s, "y")
		q := s.state.Questions[i]
		view := s.View(100, 30)
		if !strings.Contains(view, q.Explanation) {
			t.Errorf("question %d: explanation missing after answer", i)
		}
		want := "✗ Incorrect"
		if q.IsCorrect {
			want = "✓ Correct"
		}
		if !strings.Contains(view, want) {
			t.Errorf("question %d: expected %q", i, want)
		}

		msg := step(t, s, "enter")
		if i < 2 {
			if msg != nil {
				t.Fatalf("question %d: unexpected message %T", i, msg)
			}
			if s.state.Current != i+1 {
				t.Fatalf("current = %d, want %d", s.state.Current, i+1)
			}
			continue
		}
		replace, ok := msg.(router.ReplaceScreenMsg)
		if !ok {
			t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
		}
		if _, ok := replace.Screen.(*summary.SummaryScreen); !ok {
			t.Errorf("expected summary screen, got %T", replace.Screen)
		}
	}
	if len(sink.recs) != 1 {
		t.Errorf("expected one persisted summary, got %d", len(sink.recs))
	}
}

func TestDrill_MicroAnswerIsFinal(t *testing.T) {
	s, _ := newScreen(t, session.ModeMicro, &stubSource{micro: rows(3, "")})
	load(s)

	press(s, "n")
	press(s, "y")
	if a := s.state.Answers[0]; a == nil || *a {
		t.Errorf("first answer must stick, got %v", a)
	}
}

func TestDrill_MacroFlow(t *testing.T) {
	s, sink := newScreen(t, session.ModeMacro, &stubSource{macro: rows(5, "blk")})
	load(s)

	if len(s.state.Questions) != 5 {
		t.Fatalf("questions = %d, want 5", len(s.state.Questions))
	}

	// Two answers, then submit: rejected locally.
	press(s, "y")
	press(s, "n")
	if s.selected != 2 {
		t.Errorf("cursor = %d, want 2 after two answers", s.selected)
	}
	if msg := step(t, s, "enter"); msg != nil {
		t.Fatalf("incomplete submit produced %T", msg)
	}
	if !strings.Contains(s.View(100, 40), "Answer every conclusion") {
		t.Errorf("expected incomplete notice:\n%s", s.View(100, 40))
	}

	// Jump to slot 5 and back to 3.
	press(s, "5")
	if s.selected != 4 {
		t.Errorf("cursor = %d, want 4", s.selected)
	}
	press(s, "3")
	for _, k := range []string{"y", "n", "y"} {
		press(s, k)
	}
	if s.state.Answered() != 5 {
		t.Fatalf("answered = %d, want 5", s.state.Answered())
	}

	msg := step(t, s, "enter")
	if _, ok := msg.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if len(sink.recs) != 1 || sink.recs[0].Mode != string(session.ModeMacro) {
		t.Errorf("expected one macro summary, got %+v", sink.recs)
	}
}

func TestDrill_MacroOverwrite(t *testing.T) {
	s, _ := newScreen(t, session.ModeMacro, &stubSource{macro: rows(5, "blk")})
	load(s)

	press(s, "y")
	press(s, "1")
	press(s, "n")
	if a := s.state.Answers[0]; a == nil || *a {
		t.Errorf("macro answers can be changed before submit, got %v", a)
	}
}

func TestDrill_FetchErrorAndRetry(t *testing.T) {
	src := &stubSource{err: errors.New("pq: relation \"questions\" does not exist")}
	s, _ := newScreen(t, session.ModeMicro, src)
	load(s)

	if s.state.Phase != session.PhaseError {
		t.Fatalf("phase = %v, want error", s.state.Phase)
	}
	view := s.View(100, 30)
	if strings.Contains(view, "pq:") {
		t.Error("store error text must not reach the screen")
	}
	if !strings.Contains(view, "Could not load questions") {
		t.Errorf("expected generic message:\n%s", view)
	}

	src.err = nil
	src.micro = rows(3, "")
	cmd := press(s, "r")
	if cmd == nil {
		t.Fatal("expected retry command")
	}
	if s.state.Phase != session.PhaseLoading {
		t.Errorf("phase = %v, want loading during retry", s.state.Phase)
	}
	load(s)
	if s.state.Phase != session.PhaseActive {
		t.Errorf("phase = %v, want active after retry", s.state.Phase)
	}
}

func TestDrill_NoQuestions(t *testing.T) {
	s, _ := newScreen(t, session.ModeMacro, &stubSource{macro: rows(4, "blk")})
	load(s)
	if !strings.Contains(s.View(100, 30), "No questions available") {
		t.Errorf("expected no-questions message:\n%s", s.View(100, 30))
	}
}

func TestDrill_NilController(t *testing.T) {
	s := New(nil, session.ModeMicro, nil)
	load(s)
	if s.state.Phase != session.PhaseError {
		t.Fatalf("phase = %v, want error", s.state.Phase)
	}
	s.Close()
}

func TestDrill_ClosedFetchIgnored(t *testing.T) {
	s, _ := newScreen(t, session.ModeMicro, &stubSource{micro: rows(3, "")})
	s.Close()
	load(s)
	if s.state.Phase != session.PhaseLoading {
		t.Errorf("phase = %v, a closed drill must not change", s.state.Phase)
	}
}

func TestDrill_TickUpdatesStatus(t *testing.T) {
	s, _ := newScreen(t, session.ModeMicro, &stubSource{micro: rows(3, "")})
	if s.Status() != "" {
		t.Error("no clock while loading")
	}
	load(s)
	s.Update(TickMsg{Elapsed: 75 * time.Second})
	if !strings.Contains(s.Status(), "1:15") {
		t.Errorf("status = %q, want 1:15", s.Status())
	}
}

func TestDrill_KeyHints(t *testing.T) {
	s, _ := newScreen(t, session.ModeMicro, &stubSource{micro: rows(3, "")})
	load(s)
	if got := s.KeyHints()[0].Key; got != "Y" {
		t.Errorf("first hint = %q, want Y before answering", got)
	}
	press(s, "y")
	if got := s.KeyHints()[0].Key; got != "Enter" {
		t.Errorf("first hint = %q, want Enter after answering", got)
	}
}
