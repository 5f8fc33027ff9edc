package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/syllogiz/internal/coach"
	"github.com/abhisek/syllogiz/internal/llm"
	"github.com/abhisek/syllogiz/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect coach debrief calls and check the configured provider",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded LLM calls, newest first",
	Example: "  syllogiz llm list --purpose debrief\n" +
		"  syllogiz llm list --session 6f1c...",
	RunE: runLLMList,
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one call with the drill run it was made for",
	Args:  cobra.ExactArgs(1),
	RunE:  runLLMView,
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage, estimated cost and debrief coverage",
	RunE:  runLLMStats,
}

var llmPingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Send one small request to the configured provider",
	RunE:  runLLMPing,
}

func init() {
	lf := llmListCmd.Flags()
	lf.IntP("limit", "n", 20, "Calls to show")
	lf.StringP("purpose", "p", "", "Only calls with this purpose (debrief, smoke-test)")
	lf.StringP("session", "s", "", "Only calls made for this drill session id")

	llmViewCmd.Flags().Bool("raw", false, "Print request and response bodies instead of the decoded debrief")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd, llmPingCmd)
}

func runLLMList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	purpose, _ := cmd.Flags().GetString("purpose")
	sessionID, _ := cmd.Flags().GetString("session")
	out := cmd.OutOrStdout()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	events, err := st.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{
		Limit:     limit,
		Purpose:   purpose,
		SessionID: sessionID,
	})
	if err != nil {
		return fmt.Errorf("query llm calls: %w", err)
	}
	if len(events) == 0 {
		fmt.Fprintln(out, "No LLM calls recorded.")
		return nil
	}

	rule := strings.Repeat("─", 92)
	fmt.Fprintf(out, "%-5s  %-16s  %-10s  %-8s  %-24s  %11s  %6s  %s\n",
		"ID", "When", "Purpose", "Session", "Model", "Tokens", "Ms", "")
	fmt.Fprintln(out, rule)
	for _, e := range events {
		fmt.Fprintf(out, "%-5d  %-16s  %-10s  %-8s  %-24s  %5d/%-5d  %6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			e.Purpose,
			shortID(e.SessionID),
			truncate(e.Model, 24),
			e.InputTokens, e.OutputTokens,
			e.LatencyMs,
			callStatus(e.Success))
	}
	return nil
}

func runLLMView(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid call id %q", args[0])
	}
	raw, _ := cmd.Flags().GetBool("raw")
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	e, err := st.EventRepo().GetLLMEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("load llm call: %w", err)
	}
	if e == nil {
		return fmt.Errorf("no llm call with id %d", id)
	}

	fmt.Fprintf(out, "Call %d  %s  %s\n", e.ID, callStatus(e.Success), e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  %s / %s, purpose %s\n", e.Provider, e.Model, e.Purpose)
	fmt.Fprintf(out, "  %d in / %d out tokens in %dms", e.InputTokens, e.OutputTokens, e.LatencyMs)
	if usd, ok := llm.EstimateCost(e.Model, e.InputTokens, e.OutputTokens); ok {
		fmt.Fprintf(out, ", about %s", formatCost(usd))
	}
	fmt.Fprintln(out)
	if e.ErrorMessage != "" {
		fmt.Fprintf(out, "  error: %s\n", e.ErrorMessage)
	}

	if e.SessionID != "" {
		runs, err := st.SummaryRepo().QuerySummaries(ctx, store.QueryOpts{SessionID: e.SessionID, Limit: 1})
		if err != nil {
			return fmt.Errorf("load drill run: %w", err)
		}
		fmt.Fprintln(out)
		if len(runs) == 0 {
			fmt.Fprintf(out, "Run %s was not saved.\n", e.SessionID)
		} else {
			r := runs[0]
			fmt.Fprintf(out, "Run %s: %s, score %d, %d/%d correct, %.1fs per decision\n",
				r.SessionID, r.Mode, r.Score, r.Correct, r.TotalQuestions, r.AverageTimePerDecision)
		}
	}

	if !raw && e.Purpose == llm.PurposeDebrief && e.Success {
		if d, err := coach.ParseDebrief([]byte(e.ResponseBody)); err == nil {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "Headline: %s\n", d.Headline)
			groups := make([]string, len(d.FocusGroups))
			for i, g := range d.FocusGroups {
				groups[i] = string(g)
			}
			fmt.Fprintf(out, "Focus:    %s\n", strings.Join(groups, ", "))
			fmt.Fprintf(out, "Tip:      %s\n", d.Tip)
			return nil
		}
	}
	printBody(out, "Request", e.RequestBody)
	printBody(out, "Response", e.ResponseBody)
	return nil
}

func printBody(out io.Writer, label, body string) {
	fmt.Fprintf(out, "\n%s\n%s\n", label, strings.Repeat("─", len(label)))
	if body == "" {
		body = "(empty)"
	}
	fmt.Fprintln(out, strings.TrimSpace(body))
}

func runLLMStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	byPurpose, err := st.EventRepo().LLMUsageByPurpose(ctx)
	if err != nil {
		return fmt.Errorf("query usage: %w", err)
	}
	if len(byPurpose) == 0 {
		fmt.Fprintln(out, "No LLM calls recorded.")
		return nil
	}
	fmt.Fprintf(out, "%-12s  %6s  %6s  %9s  %9s  %8s\n", "Purpose", "Calls", "Failed", "In", "Out", "Avg ms")
	for _, u := range byPurpose {
		fmt.Fprintf(out, "%-12s  %6d  %6d  %9d  %9d  %8.0f\n",
			u.Purpose, u.Requests, u.Failures, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
	}

	byModel, err := st.EventRepo().LLMUsageByModel(ctx)
	if err != nil {
		return fmt.Errorf("query model usage: %w", err)
	}
	var (
		total   float64
		unknown []string
	)
	fmt.Fprintln(out)
	for _, m := range byModel {
		usd, ok := llm.EstimateCost(m.Model, m.InputTokens, m.OutputTokens)
		if !ok {
			unknown = append(unknown, m.Model)
			continue
		}
		total += usd
		fmt.Fprintf(out, "%-32s  %4d calls  %s\n", truncate(m.Model, 32), m.Calls, formatCost(usd))
	}
	fmt.Fprintf(out, "Estimated total: %s\n", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(out, "No pricing for %s; not included.\n", strings.Join(unknown, ", "))
	}

	return printDebriefCoverage(cmd, st)
}

// printDebriefCoverage reports how many finished drill runs got a
// successful debrief.
func printDebriefCoverage(cmd *cobra.Command, st *store.Store) error {
	ctx := cmd.Context()
	debriefs, err := st.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Purpose: llm.PurposeDebrief})
	if err != nil {
		return fmt.Errorf("query debriefs: %w", err)
	}
	covered := map[string]bool{}
	for _, e := range debriefs {
		if e.Success && e.SessionID != "" {
			covered[e.SessionID] = true
		}
	}

	modes, err := st.SummaryRepo().ModeStats(ctx)
	if err != nil {
		return fmt.Errorf("query mode stats: %w", err)
	}
	runs := 0
	for _, m := range modes {
		runs += m.Sessions
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\nDebriefed runs: %d of %d finished\n", len(covered), runs)
	return nil
}

func runLLMPing(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	provider, err := llm.NewProvider(cmd.Context(), cfg.LLM, st.EventRepo(), log)
	if errors.Is(err, llm.ErrDisabled) {
		return errors.New("no LLM provider configured; set SYLLOGIZ_LLM_PROVIDER and its API key")
	}
	if err != nil {
		return err
	}

	ctx := llm.WithPurpose(cmd.Context(), llm.PurposeSmokeRun)
	start := time.Now()
	resp, err := provider.Generate(ctx, llm.UserRequest(
		"You answer with a single word.",
		"Reply with the word pong.",
		nil, 16,
	))
	if err != nil {
		return fmt.Errorf("%s: %w", provider.ModelID(), err)
	}

	fmt.Fprintf(out, "%s replied %q in %s (%d in / %d out tokens)\n",
		resp.Model, strings.TrimSpace(string(resp.Content)),
		time.Since(start).Round(time.Millisecond),
		resp.Usage.InputTokens, resp.Usage.OutputTokens)
	return nil
}

func shortID(id string) string {
	if id == "" {
		return "-"
	}
	return truncate(id, 8)
}

func callStatus(ok bool) string {
	if ok {
		return "ok"
	}
	return "failed"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
