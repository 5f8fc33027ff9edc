// Package coach turns a finished drill run into a short LLM-written
// debrief. It only reads summaries; scores are never changed.
package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/abhisek/syllogiz/internal/llm"
	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/syllogism"
)

// ErrDisabled is returned when the service has no provider.
var ErrDisabled = errors.New("coach: no LLM provider configured")

// Debrief is the coach's take on one run.
type Debrief struct {
	SessionID   string
	Headline    string
	FocusGroups []syllogism.LogicGroup
	Tip         string
}

type debriefOutput struct {
	Headline    string   `json:"headline"`
	FocusGroups []string `json:"focus_groups"`
	Tip         string   `json:"tip"`
}

// Service generates debriefs. A nil *Service or one without a provider is
// valid and reports itself disabled.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      logrus.FieldLogger

	mu      sync.Mutex
	pending *Debrief
	err     error
	ready   bool
}

func NewService(provider llm.Provider, cfg Config, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{provider: provider, cfg: cfg, log: log}
}

// Enabled reports whether debriefs can be generated.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// Debrief asks the provider for a debrief of sum.
func (s *Service) Debrief(ctx context.Context, sum session.Summary) (*Debrief, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	ctx = llm.WithSession(llm.WithPurpose(ctx, llm.PurposeDebrief), sum.SessionID)

	req := llm.UserRequest(debriefSystemPrompt, buildDebriefMessage(sum), DebriefSchema, s.cfg.MaxTokens)
	req.Temperature = s.cfg.Temperature

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("debrief generation: %w", err)
	}

	d, err := ParseDebrief(resp.Content)
	if err != nil {
		return nil, err
	}
	d.SessionID = sum.SessionID
	if len(d.FocusGroups) == 0 {
		d.FocusGroups = WeakestGroups(sum, 1)
	}
	return d, nil
}

// ParseDebrief decodes a debrief response body. Unknown or repeated group
// names are dropped.
func ParseDebrief(content []byte) (*Debrief, error) {
	var out debriefOutput
	if err := json.Unmarshal(content, &out); err != nil {
		return nil, fmt.Errorf("parse debrief response: %w", err)
	}
	d := &Debrief{Headline: out.Headline, Tip: out.Tip}
	for _, name := range out.FocusGroups {
		g := syllogism.LogicGroup(name)
		if g.Valid() && !slices.Contains(d.FocusGroups, g) {
			d.FocusGroups = append(d.FocusGroups, g)
		}
	}
	return d, nil
}

// Request starts a debrief in the background. A later Request replaces
// the pending result.
func (s *Service) Request(ctx context.Context, sum session.Summary) {
	if !s.Enabled() {
		return
	}
	go func() {
		d, err := s.Debrief(ctx, sum)
		if err != nil {
			s.log.WithError(err).WithField("session_id", sum.SessionID).Warn("debrief failed")
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		s.pending, s.err, s.ready = d, err, true
	}()
}

// Consume returns the finished background debrief, if any, and clears the
// slot. done is false while the debrief is still being generated.
func (s *Service) Consume() (d *Debrief, done bool, err error) {
	if s == nil {
		return nil, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false, nil
	}
	d, err = s.pending, s.err
	s.pending, s.err, s.ready = nil, nil, false
	return d, true, err
}

// WeakestGroups returns up to n seen groups ordered by ascending accuracy.
func WeakestGroups(sum session.Summary, n int) []syllogism.LogicGroup {
	var seen []syllogism.LogicGroup
	for _, g := range syllogism.AllGroups {
		if sum.GroupAccuracy[g] != nil {
			seen = append(seen, g)
		}
	}
	slices.SortStableFunc(seen, func(a, b syllogism.LogicGroup) int {
		x, y := *sum.GroupAccuracy[a], *sum.GroupAccuracy[b]
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	})
	if len(seen) > n {
		seen = seen[:n]
	}
	return seen
}
