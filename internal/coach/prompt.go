package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/syllogism"
)

const debriefSystemPrompt = `You coach adults preparing for aptitude tests that contain syllogism questions. Each question gives premises and a conclusion, and the learner judges whether the conclusion definitely follows. Be direct and specific. Never restate the score as a percentage.`

// maxMissLines caps how many trick types are listed in the prompt.
const maxMissLines = 5

func buildDebriefMessage(sum session.Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Mode: %s\n", sum.Mode)
	fmt.Fprintf(&b, "Correct: %d of %d\n", sum.Correct, sum.TotalQuestions)
	fmt.Fprintf(&b, "Average time per decision: %.1fs\n", sum.AverageTimePerDecision)

	b.WriteString("\nAccuracy by logic group:\n")
	for _, g := range syllogism.AllGroups {
		if acc := sum.GroupAccuracy[g]; acc != nil {
			fmt.Fprintf(&b, "- %s: %.0f%%\n", g, *acc*100)
		} else {
			fmt.Fprintf(&b, "- %s: not seen\n", g)
		}
	}

	b.WriteString("\nMissed patterns:\n")
	if len(sum.TrickMisses) == 0 {
		b.WriteString("None\n")
	}
	for i, m := range sum.TrickMisses {
		if i == maxMissLines {
			break
		}
		fmt.Fprintf(&b, "- %s (%s): %d\n", m.Trick, m.Group, m.Misses)
	}

	b.WriteString(`
Instructions:
1. Write a one sentence headline about this run.
2. Pick at most two logic groups to practise next, weakest first. Only pick groups that were seen.
3. Give one concrete tip that targets the most missed pattern. If nothing was missed, suggest how to get faster.`)

	return b.String()
}
