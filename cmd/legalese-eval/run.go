package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/Rob-Kornblum/legal-ease/internal/config"
	"github.com/Rob-Kornblum/legal-ease/internal/model"
	"github.com/Rob-Kornblum/legal-ease/internal/service"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var errRegression = errors.New("performance regression detected")

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Evaluate the sample set, save the run and check for regressions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := loadConfig(v)
			store, err := openHistory(ctx, cfg)
			if err != nil {
				return err
			}
			return evaluate(ctx, cfg, store, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("api-url", "", "simplification service base URL")
	cmd.Flags().String("samples", "", "YAML sample set")
	cmd.Flags().Float64("min-accuracy", 0, "fail when category accuracy is below this (0-1)")
	v.BindPFlags(cmd.Flags())
	return cmd
}

// evaluate runs the sample set, appends the run to store and reports the
// regression check. It returns errRegression when the check finds issues.
func evaluate(ctx context.Context, cfg *config.Config, store service.HistoryStore, out io.Writer) error {
	samples, err := service.LoadSamples(cfg.Eval.Samples)
	if err != nil {
		return err
	}

	api := service.NewSimplifyClient(cfg.API.BaseURL, cfg.API.Timeout, nil)
	ev := service.NewEvaluator(api)
	ev.OnResult(func(i, total int, r model.SampleResult) {
		fmt.Fprintf(out, "[%d/%d] %s\n", i, total, truncate(r.Input, 50))
		switch {
		case r.Err != "":
			fmt.Fprintf(out, "  ❌ API Error: %s\n", r.Err)
		case r.Correct:
			fmt.Fprintf(out, "  ✅ Expected: %s, Got: %s\n", r.ExpectedCategory, r.PredictedCategory)
		default:
			fmt.Fprintf(out, "  ❌ Expected: %s, Got: %s\n", r.ExpectedCategory, r.PredictedCategory)
		}
	})

	fmt.Fprintf(out, "Evaluating %d samples against %s\n\n", len(samples), cfg.API.BaseURL)
	report, err := ev.Run(ctx, samples)
	if err != nil {
		return err
	}

	run := report.Run
	fmt.Fprintf(out, "\nCategory Accuracy: %d/%d (%.1f%%)\n", run.CorrectCases, run.TotalCases, run.CategoryAccuracy*100)
	fmt.Fprintf(out, "Average Latency: %dms\n", run.AvgLatencyMS)
	if len(report.Confusion) > 0 {
		fmt.Fprintln(out, "\nMost Common Category Errors:")
		for _, c := range report.Confusion {
			fmt.Fprintf(out, "  %s -> %s: %d times\n", c.Expected, predicted(c.Predicted), c.Count)
		}
	}

	if err := store.Append(ctx, &run); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	history, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}

	fmt.Fprintln(out)
	if delta, ok := service.Trend(history); ok {
		fmt.Fprintf(out, "📈 Accuracy trend: %+.1f%% from last run\n", delta*100)
	}
	issues := service.CheckRegression(history, cfg.Eval.MinAccuracy)
	if len(issues) == 0 {
		fmt.Fprintln(out, "🎉 Performance looks good!")
		return nil
	}
	fmt.Fprintln(out, "⚠️  Performance issues detected:")
	for _, issue := range issues {
		fmt.Fprintf(out, "   - %s\n", issue)
	}
	return errRegression
}

func predicted(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
