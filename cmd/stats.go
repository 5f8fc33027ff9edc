package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/syllogiz/internal/session"
	"github.com/abhisek/syllogiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show drill statistics and recent sessions",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Recent sessions to list")
	statsCmd.Flags().String("mode", "", "Only list sessions of this mode (micro or macro)")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	limit, _ := cmd.Flags().GetInt("limit")
	mode, _ := cmd.Flags().GetString("mode")
	out := cmd.OutOrStdout()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	total, inBlocks, err := st.QuestionRepo().Count(ctx)
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	fmt.Fprintf(out, "Question bank: %d questions (%d micro, %d in blocks)\n", total, total-inBlocks, inBlocks)

	load, _ := session.StoreProgress(st.ProgressRepo())
	progress, err := load(ctx)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	fmt.Fprintf(out, "Stage:         %s\n\n", stageLabel(progress.HighestUnlockedStage))

	stats, err := st.SummaryRepo().ModeStats(ctx)
	if err != nil {
		return fmt.Errorf("query mode stats: %w", err)
	}
	if len(stats) == 0 {
		fmt.Fprintln(out, "No finished sessions yet.")
		return nil
	}

	rule := strings.Repeat("─", 86)
	fmt.Fprintln(out, "By Mode")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-6s  %8s  %5s  %6s  %7s  %11s  %9s  %9s  %8s\n",
		"Mode", "Sessions", "Best", "Avg", "Sec/dec", "Categorical", "Relative", "Majority", "Complex")
	fmt.Fprintln(out, rule)
	for _, m := range stats {
		fmt.Fprintf(out, "%-6s  %8d  %5d  %6.1f  %7.1f  %11s  %9s  %9s  %8s\n",
			m.Mode, m.Sessions, m.BestScore, m.AverageScore, m.AverageTime,
			percent(m.CategoricalAccuracy), percent(m.RelativeAccuracy),
			percent(m.MajorityAccuracy), percent(m.ComplexAccuracy))
	}

	recent, err := st.SummaryRepo().QuerySummaries(ctx, store.QueryOpts{Limit: limit, Mode: mode})
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	fmt.Fprintln(out)
	printRecent(out, recent)
	return nil
}

func printRecent(out io.Writer, recent []store.SummaryRecord) {
	rule := strings.Repeat("─", 60)
	fmt.Fprintln(out, "Recent Sessions")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "%-19s  %-6s  %7s  %7s  %7s  %6s\n", "Finished", "Mode", "Score", "Correct", "Sec/dec", "Time")
	fmt.Fprintln(out, rule)
	for _, r := range recent {
		fmt.Fprintf(out, "%-19s  %-6s  %7d  %3d/%-3d  %7.1f  %6s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"),
			r.Mode, r.Score, r.Correct, r.TotalQuestions,
			r.AverageTimePerDecision, clock(r.ElapsedSeconds))
	}
}

func percent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *v*100)
}

func clock(seconds float64) string {
	s := int(seconds)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

func stageLabel(stage int) string {
	switch stage {
	case session.StageMacro:
		return "2 (blocks unlocked)"
	case session.StageMastery:
		return "3 (mastery)"
	default:
		return "1 (warm-up)"
	}
}
