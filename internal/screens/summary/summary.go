package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/syllogiz/internal/coach"
	"github.com/abhisek/syllogiz/internal/router"
	"github.com/abhisek/syllogiz/internal/screen"
	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/syllogism"
	"github.com/abhisek/syllogiz/internal/ui/components"
	"github.com/abhisek/syllogiz/internal/ui/layout"
	"github.com/abhisek/syllogiz/internal/ui/theme"
)

// debriefPollInterval is how often the screen checks for the debrief.
const debriefPollInterval = 250 * time.Millisecond

// maxMissRows caps the missed-pattern list.
const maxMissRows = 5

type debriefPollMsg struct{}

// SummaryScreen displays the result of a finished run and, when a coach is
// configured, its debrief.
type SummaryScreen struct {
	summary session.Summary
	coach   *coach.Service

	spinner    spinner.Model
	waiting    bool
	debrief    *coach.Debrief
	debriefErr error
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen. c may be nil.
func New(sum session.Summary, c *coach.Service) *SummaryScreen {
	return &SummaryScreen{
		summary: sum,
		coach:   c,
		spinner: spinner.New(spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Secondary))),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	if !s.coach.Enabled() {
		return nil
	}
	s.coach.Request(context.Background(), s.summary)
	s.waiting = true
	return tea.Batch(s.spinner.Tick, pollDebrief())
}

func pollDebrief() tea.Cmd {
	return tea.Tick(debriefPollInterval, func(time.Time) tea.Msg { return debriefPollMsg{} })
}

func (s *SummaryScreen) Title() string {
	return "Results"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case debriefPollMsg:
		if !s.waiting {
			return s, nil
		}
		d, done, err := s.coach.Consume()
		if !done {
			return s, pollDebrief()
		}
		if d != nil && d.SessionID != s.summary.SessionID {
			// Left over from an earlier run whose screen was closed early.
			return s, pollDebrief()
		}
		s.waiting = false
		s.debrief, s.debriefErr = d, err
		return s, nil

	case spinner.TickMsg:
		if !s.waiting {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		if msg.String() == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	cw := components.ContentWidth(width)

	var sections []string

	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(headline(sum)))

	sections = append(sections, lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(fmt.Sprintf("Correct: %d/%d    Score: %s    Avg: %.1fs per decision    Time: %s",
			sum.Correct, sum.TotalQuestions, scoreText(sum),
			sum.AverageTimePerDecision, layout.FormatClock(int(sum.ElapsedSeconds)))))

	sections = append(sections, components.Card(s.renderGroups(cw-4), cw))

	if misses := renderMisses(sum.TrickMisses); misses != "" {
		sections = append(sections, components.Card(misses, cw))
	}

	if debrief := s.renderDebrief(); debrief != "" {
		sections = append(sections, components.Card(debrief, cw))
	}

	if !sum.Persisted {
		sections = append(sections, theme.Warning.Render("This result could not be saved."))
	}

	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

func headline(sum session.Summary) string {
	if sum.Mode == session.ModeMacro {
		switch sum.Score {
		case 2:
			return "Perfect block!"
		case 1:
			return "One slip. Close!"
		}
		return "Block complete"
	}
	return "Drill complete"
}

func scoreText(sum session.Summary) string {
	if sum.Mode == session.ModeMacro {
		return fmt.Sprintf("%d/%d", sum.Score, session.MacroBlockScore(5))
	}
	return fmt.Sprintf("%d", sum.Score)
}

func (s *SummaryScreen) renderGroups(width int) string {
	lines := []string{theme.Hint.Render("Accuracy by logic group")}
	for _, g := range syllogism.AllGroups {
		lines = append(lines, components.AccuracyBar{
			Label:      string(g),
			LabelWidth: 12,
			Ratio:      s.summary.GroupAccuracy[g],
			Width:      width,
		}.View())
	}
	return strings.Join(lines, "\n")
}

func renderMisses(misses []session.TrickMiss) string {
	if len(misses) == 0 {
		return ""
	}
	lines := []string{theme.Hint.Render("Patterns you missed")}
	for i, m := range misses {
		if i == maxMissRows {
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("and %d more", len(misses)-maxMissRows)))
			break
		}
		trick := string(m.Trick)
		if trick == "" {
			trick = "untagged"
		}
		lines = append(lines, theme.Incorrect.Render(fmt.Sprintf("✗ %d", m.Misses))+
			"  "+theme.Body.Render(trick)+
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(" ("+string(m.Group)+")"))
	}
	return strings.Join(lines, "\n")
}

func (s *SummaryScreen) renderDebrief() string {
	switch {
	case s.waiting:
		return s.spinner.View() + " " + theme.Hint.Render("Coach is reviewing your run...")
	case s.debriefErr != nil:
		return theme.Hint.Render("Coach debrief unavailable right now.")
	case s.debrief == nil:
		return ""
	}
	d := s.debrief
	lines := []string{
		theme.Selected.Render(d.Headline),
		"",
		theme.Body.Render(d.Tip),
	}
	if len(d.FocusGroups) > 0 {
		names := make([]string, len(d.FocusGroups))
		for i, g := range d.FocusGroups {
			names[i] = string(g)
		}
		lines = append(lines, "", theme.Warning.Render("Focus next: "+strings.Join(names, ", ")))
	}
	return strings.Join(lines, "\n")
}
