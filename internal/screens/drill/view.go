package drill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/ui/components"
	"github.com/abhisek/syllogiz/internal/ui/theme"
)

func (s *DrillScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	switch s.state.Phase {
	case session.PhaseIdle, session.PhaseLoading:
		return components.Center(s.spinner.View()+" "+theme.Hint.Render("Loading questions..."), width, height)
	case session.PhaseError:
		return components.Center(renderError(s.state.Message), width, height)
	}
	if s.mode == session.ModeMacro {
		return components.Center(s.renderMacro(cw), width, height)
	}
	return components.Center(s.renderMicro(cw), width, height)
}

func renderError(message string) string {
	if message == "" {
		message = session.UserMessage(errUnavailable)
	}
	return lipgloss.JoinVertical(lipgloss.Center,
		theme.Incorrect.Render(message),
		"",
		theme.Hint.Render("Press R to retry or Esc to go home"),
	)
}

func (s *DrillScreen) renderMicro(cw int) string {
	st := s.state
	q := st.CurrentQuestion()
	if q == nil {
		return ""
	}

	correct := 0
	for i, a := range st.Answers {
		if a != nil && *a == st.Questions[i].IsCorrect {
			correct++
		}
	}

	var b strings.Builder
	b.WriteString(infoLine(
		fmt.Sprintf("Question %d/%d", st.Current+1, len(st.Questions)),
		theme.Correct.Render(fmt.Sprintf("✓ %d", correct)),
		cw))
	b.WriteString("\n\n")
	b.WriteString(theme.Stimulus.Width(cw).Render(q.StimulusText))
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Conclusion"))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Width(cw).Bold(true).Foreground(theme.Text).Render(q.ConclusionText))
	b.WriteString("\n\n")

	if a := st.Answers[st.Current]; a != nil {
		b.WriteString(renderFeedback(*a, q.IsCorrect, q.Explanation, cw))
	} else {
		b.WriteString(theme.Hint.Render("Does it necessarily follow?  Y / N"))
	}

	if s.notice != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Warning.Render(s.notice))
	}
	return b.String()
}

func renderFeedback(answer, truth bool, explanation string, cw int) string {
	verdict := theme.Correct.Render("✓ Correct")
	if answer != truth {
		verdict = theme.Incorrect.Render("✗ Incorrect")
	}
	lines := []string{verdict + "  " + theme.Hint.Render(fmt.Sprintf("(you said %s)", followsText(answer)))}
	if explanation != "" {
		lines = append(lines, lipgloss.NewStyle().Width(cw).Foreground(theme.TextDim).Render(explanation))
	}
	return strings.Join(lines, "\n")
}

func (s *DrillScreen) renderMacro(cw int) string {
	st := s.state
	if len(st.Questions) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(infoLine(
		"Decide each conclusion",
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d/%d answered", st.Answered(), len(st.Questions))),
		cw))
	b.WriteString("\n\n")
	b.WriteString(theme.Stimulus.Width(cw).Render(st.Questions[0].StimulusText))
	b.WriteString("\n\n")

	for i, q := range st.Questions {
		mark := lipgloss.NewStyle().Foreground(theme.TextDim).Render("[ ]")
		if a := st.Answers[i]; a != nil {
			if *a {
				mark = theme.Correct.Render("[Y]")
			} else {
				mark = theme.Incorrect.Render("[N]")
			}
		}
		prefix, style := "  ", theme.Unselected
		if i == s.selected {
			prefix, style = "▸ ", theme.Selected
		}
		line := fmt.Sprintf("%s%d. ", prefix, i+1)
		text := lipgloss.NewStyle().Width(cw - lipgloss.Width(line) - 4).Render(q.ConclusionText)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, style.Render(line), mark, " ", style.Render(text)))
		b.WriteString("\n")
	}

	if s.notice != "" {
		b.WriteString("\n")
		b.WriteString(theme.Warning.Render(s.notice))
	}
	return b.String()
}

func infoLine(left, right string, cw int) string {
	l := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(left)
	gap := max(cw-lipgloss.Width(l)-lipgloss.Width(right), 1)
	return l + strings.Repeat(" ", gap) + right + "\n" +
		lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cw))
}

func followsText(v bool) string {
	if v {
		return "follows"
	}
	return "does not follow"
}
