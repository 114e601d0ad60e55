package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Rob-Kornblum/legal-ease/internal/model"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newHistoryCmd(v *viper.Viper) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print stored evaluation runs, newest last",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(v)
			store, err := openHistory(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			runs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if limit > 0 && len(runs) > limit {
				runs = runs[len(runs)-limit:]
			}
			printHistory(cmd.OutOrStdout(), runs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "show only the last n runs (0 for all)")
	return cmd
}

func printHistory(out io.Writer, runs []model.EvalRun) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No evaluation runs recorded.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tACCURACY\tCORRECT\tFAILED\tAVG LATENCY\tSERVICE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%.1f%%\t%d/%d\t%d\t%dms\t%s\n",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"), r.CategoryAccuracy*100,
			r.CorrectCases, r.TotalCases, r.FailedRequests, r.AvgLatencyMS, r.BaseURL)
	}
	w.Flush()
}
