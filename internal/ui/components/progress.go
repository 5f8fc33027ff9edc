package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/syllogiz/internal/ui/theme"
)

// AccuracyBar displays a labelled horizontal bar for a ratio in [0, 1].
// A nil ratio renders as "not seen" rather than as an empty bar.
type AccuracyBar struct {
	Label      string
	LabelWidth int
	Ratio      *float64
	Width      int
}

// View renders the bar.
func (p AccuracyBar) View() string {
	label := lipgloss.NewStyle().
		Foreground(theme.Text).
		Width(p.LabelWidth).
		Render(p.Label)

	const percentWidth = 6 // "  100%"
	barWidth := max(p.Width-lipgloss.Width(label)-2-percentWidth, 4)

	if p.Ratio == nil {
		return label + "  " + theme.Hint.Render("not seen")
	}

	filled := min(max(int(float64(barWidth)**p.Ratio+0.5), 0), barWidth)

	bar := theme.ProgressFilled.Render(strings.Repeat(" ", filled)) +
		theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))

	return label + "  " + bar + lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("  %3d%%", int(*p.Ratio*100+0.5)))
}
