package session

import (
	"fmt"
	"time"

	"github.com/abhisek/syllogiz/internal/syllogism"
)

// Mode selects the drill protocol.
type Mode string

const (
	// ModeMicro serves independent questions one at a time.
	ModeMicro Mode = "micro"
	// ModeMacro serves one five-conclusion block answered in any order.
	ModeMacro Mode = "macro"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeMicro, ModeMacro:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want micro or macro)", s)
}

// Phase is the controller's lifecycle position.
type Phase int

const (
	PhaseIdle     Phase = iota // Nothing loaded yet
	PhaseLoading               // A fetch is in flight
	PhaseActive                // Questions are being answered
	PhaseFinished              // Summary computed; state frozen
	PhaseError                 // Last fetch failed; retry with Fetch
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	case PhaseError:
		return "error"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// State is the runtime state of one drill run. The controller owns it;
// callers get copies from Controller.Snapshot.
type State struct {
	// SessionID is the UUID for this run, assigned when questions arrive.
	SessionID string

	// Mode is the protocol of the loaded questions.
	Mode Mode

	// Phase is the current lifecycle phase.
	Phase Phase

	// Questions are the questions of this run. For macro mode they form one
	// block sharing a stimulus.
	Questions []syllogism.Question

	// Answers holds one slot per question; nil means unanswered.
	Answers []*bool

	// Latencies holds the decision latency recorded when each slot was
	// first answered. Only slots with a non-nil answer carry a value.
	Latencies []time.Duration

	// Current is the index of the question on screen (micro mode).
	Current int

	// StartedAt is when the questions were installed.
	StartedAt time.Time

	// LastDecisionAt is the reference point for the next latency.
	LastDecisionAt time.Time

	// Elapsed is advanced by the tick while the run is active.
	Elapsed time.Duration

	// Err is the last fetch error; Message is its user-facing text.
	Err     error
	Message string

	// Summary is set once the run finishes.
	Summary *Summary
}

// CurrentQuestion returns the question at Current, or nil.
func (s State) CurrentQuestion() *syllogism.Question {
	if s.Current < 0 || s.Current >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.Current]
}

// Answered returns how many slots hold an answer.
func (s State) Answered() int {
	n := 0
	for _, a := range s.Answers {
		if a != nil {
			n++
		}
	}
	return n
}

// clone returns a copy that shares no mutable slices with s.
func (s *State) clone() State {
	c := *s
	c.Questions = append([]syllogism.Question(nil), s.Questions...)
	c.Answers = make([]*bool, len(s.Answers))
	for i, a := range s.Answers {
		if a != nil {
			v := *a
			c.Answers[i] = &v
		}
	}
	c.Latencies = append([]time.Duration(nil), s.Latencies...)
	if s.Summary != nil {
		sum := s.Summary.clone()
		c.Summary = &sum
	}
	return c
}
