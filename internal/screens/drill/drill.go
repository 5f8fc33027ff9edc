package drill

import (
	"context"
	"errors"

	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syllogiz/internal/coach"
	"github.com/abhisek/syllogiz/internal/router"
	"github.com/abhisek/syllogiz/internal/screen"
	"github.com/abhisek/syllogiz/internal/screens/summary"
	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/ui/layout"
	"github.com/abhisek/syllogiz/internal/ui/theme"
)

var errUnavailable = errors.New("drill unavailable")

// DrillScreen runs one drill on a session.Controller and hands the result
// to the summary screen.
type DrillScreen struct {
	ctrl  *session.Controller
	mode  session.Mode
	coach *coach.Service

	state    session.State
	selected int    // macro slot under the cursor
	notice   string // local validation message, e.g. unanswered slots
	busy     bool   // Advance or Submit in flight
	spinner  spinner.Model
}

var _ screen.Screen = (*DrillScreen)(nil)
var _ screen.KeyHintProvider = (*DrillScreen)(nil)
var _ screen.StatusProvider = (*DrillScreen)(nil)
var _ screen.Closer = (*DrillScreen)(nil)

// New creates a drill screen. ctrl may be nil when the controller could not
// be built; the screen then shows the generic load error.
func New(ctrl *session.Controller, mode session.Mode, c *coach.Service) *DrillScreen {
	return &DrillScreen{
		ctrl:  ctrl,
		mode:  mode,
		coach: c,
		state: session.State{Mode: mode, Phase: session.PhaseLoading},
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary))),
	}
}

func (s *DrillScreen) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.fetch())
}

func (s *DrillScreen) Title() string {
	if s.mode == session.ModeMacro {
		return "Macro Block"
	}
	return "Micro Drill"
}

// Status shows the elapsed time while questions are on screen.
func (s *DrillScreen) Status() string {
	switch s.state.Phase {
	case session.PhaseActive, session.PhaseFinished:
		return "⏱ " + layout.FormatClock(int(s.state.Elapsed.Seconds()))
	}
	return ""
}

// Close stops the controller; a fetch still in flight is discarded.
func (s *DrillScreen) Close() {
	if s.ctrl != nil {
		s.ctrl.Close()
	}
}

func (s *DrillScreen) KeyHints() []layout.KeyHint {
	hint := func(b key.Binding) layout.KeyHint {
		h := b.Help()
		return layout.KeyHint{Key: h.Key, Description: h.Desc}
	}
	back := layout.KeyHint{Key: "Esc", Description: "Home"}

	switch s.state.Phase {
	case session.PhaseError:
		return []layout.KeyHint{hint(keys.Retry), back}
	case session.PhaseActive:
		if s.mode == session.ModeMacro {
			return []layout.KeyHint{hint(keys.Slot), hint(keys.True), hint(keys.False),
				{Key: "Enter", Description: "Submit"}, back}
		}
		if s.currentAnswered() {
			return []layout.KeyHint{hint(keys.Next), back}
		}
		return []layout.KeyHint{hint(keys.True), hint(keys.False), back}
	}
	return []layout.KeyHint{back}
}

func (s *DrillScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case fetchedMsg:
		if errors.Is(msg.err, session.ErrStale) || errors.Is(msg.err, session.ErrClosed) {
			return s, nil
		}
		s.selected = 0
		s.notice = ""
		if errors.Is(msg.err, errUnavailable) {
			s.state.Phase = session.PhaseError
			s.state.Message = session.UserMessage(msg.err)
			return s, nil
		}
		s.refresh()
		return s, nil

	case steppedMsg:
		s.busy = false
		if msg.err != nil {
			s.notice = noticeFor(msg.err)
			s.refresh()
			return s, nil
		}
		if msg.summary != nil {
			sum := *msg.summary
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: summary.New(sum, s.coach)}
			}
		}
		s.refresh()
		return s, nil

	case TickMsg:
		if s.state.Phase == session.PhaseActive {
			s.state.Elapsed = msg.Elapsed
		}
		return s, nil

	case spinner.TickMsg:
		if s.state.Phase != session.PhaseLoading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *DrillScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy {
		return s, nil
	}
	switch s.state.Phase {
	case session.PhaseError:
		if key.Matches(msg, keys.Retry) {
			s.state.Phase = session.PhaseLoading
			s.state.Message = ""
			return s, tea.Batch(s.spinner.Tick, s.fetch())
		}
	case session.PhaseActive:
		if s.mode == session.ModeMacro {
			return s.handleMacroKey(msg)
		}
		return s.handleMicroKey(msg)
	}
	return s, nil
}

func (s *DrillScreen) handleMicroKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.True):
		s.answer(true)
	case key.Matches(msg, keys.False):
		s.answer(false)
	case key.Matches(msg, keys.Next):
		if !s.currentAnswered() {
			return s, nil
		}
		s.busy = true
		ctrl := s.ctrl
		return s, func() tea.Msg {
			sum, err := ctrl.Advance(context.Background())
			return steppedMsg{summary: sum, err: err}
		}
	}
	return s, nil
}

func (s *DrillScreen) handleMacroKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	n := len(s.state.Questions)
	switch {
	case key.Matches(msg, keys.Up):
		s.selected = max(s.selected-1, 0)
	case key.Matches(msg, keys.Down):
		s.selected = min(s.selected+1, n-1)
	case key.Matches(msg, keys.Slot):
		if i := int(msg.String()[0] - '1'); i < n {
			s.selected = i
		}
	case key.Matches(msg, keys.True):
		s.setAnswer(true)
	case key.Matches(msg, keys.False):
		s.setAnswer(false)
	case key.Matches(msg, keys.Next):
		s.busy = true
		ctrl := s.ctrl
		return s, func() tea.Msg {
			sum, err := ctrl.Submit(context.Background())
			return steppedMsg{summary: sum, err: err}
		}
	}
	return s, nil
}

func (s *DrillScreen) answer(v bool) {
	if err := s.ctrl.Answer(v); err != nil {
		s.notice = noticeFor(err)
	}
	s.refresh()
}

// setAnswer fills the selected slot and moves the cursor to the next one.
func (s *DrillScreen) setAnswer(v bool) {
	if err := s.ctrl.SetAnswer(s.selected, v); err != nil {
		s.notice = noticeFor(err)
		return
	}
	s.notice = ""
	s.refresh()
	if s.selected < len(s.state.Questions)-1 {
		s.selected++
	}
}

func (s *DrillScreen) fetch() tea.Cmd {
	ctrl, mode := s.ctrl, s.mode
	return func() tea.Msg {
		if ctrl == nil {
			return fetchedMsg{err: errUnavailable}
		}
		return fetchedMsg{err: ctrl.Fetch(context.Background(), mode)}
	}
}

func (s *DrillScreen) refresh() {
	if s.ctrl != nil {
		s.state = s.ctrl.Snapshot()
	}
}

func (s *DrillScreen) currentAnswered() bool {
	i := s.state.Current
	return i >= 0 && i < len(s.state.Answers) && s.state.Answers[i] != nil
}

// noticeFor turns an action error into the inline message under the
// questions.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, session.ErrIncomplete):
		return session.UserMessage(err)
	case errors.Is(err, session.ErrNotActive), errors.Is(err, session.ErrClosed):
		return "This run is no longer active."
	}
	return "Something went wrong. Press Esc to go home."
}
