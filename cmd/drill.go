package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/syllogiz/internal/app"
	"github.com/abhisek/syllogiz/internal/coach"
	"github.com/abhisek/syllogiz/internal/llm"
)

var drillCmd = &cobra.Command{
	Use:         "drill",
	Short:       "Start the drill TUI (same as running syllogiz without a command)",
	Annotations: map[string]string{annotationTUI: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	opts := app.Options{
		Source:   st.QuestionRepo(),
		Sink:     st.SummaryRepo(),
		Progress: st.ProgressRepo(),
		Drill:    cfg.Drill,
		Log:      log,
	}

	// The coach is optional; drills work without an LLM.
	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo(), log)
	switch {
	case err == nil:
		opts.Coach = coach.NewService(provider, coach.DefaultConfig(), log.WithField("component", "coach"))
	case errors.Is(err, llm.ErrDisabled):
		log.Debug("llm provider disabled, debriefs off")
	default:
		log.WithError(err).Warn("llm provider unavailable, debriefs off")
	}

	total, _, err := st.QuestionRepo().Count(ctx)
	if err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if total == 0 {
		log.Warn("question bank is empty")
		fmt.Fprintln(cmd.ErrOrStderr(), "The question bank is empty. Run `syllogiz seed` first.")
		return nil
	}

	return app.Run(ctx, opts)
}
