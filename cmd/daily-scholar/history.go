package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/daily-scholar/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent pipeline runs from the ledger",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 10, "number of runs to show")
	historyCmd.Flags().Int64("papers", 0, "show the ranked papers of the given run id instead")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	store, err := history.NewStore(cfg.History)
	if err != nil {
		return fmt.Errorf("opening run ledger: %w", err)
	}
	defer store.Close()

	ctx := context.Background()

	if runID, _ := cmd.Flags().GetInt64("papers"); runID != 0 {
		papers, err := store.RunPapers(ctx, runID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RANK\tSCORE\tTITLE\tURL")
		for _, p := range papers {
			fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\n", p.Rank, p.Score, p.Title, p.URL)
		}
		return w.Flush()
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := store.RecentRuns(ctx, limit)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDAY\tPULLED\tRANKED\tANALYZED\tHITS\tFAILED\tFALLBACK\tSENT")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%v\t%v\n",
			r.ID, r.TargetDay.Format("2006-01-02"), r.Pulled, r.Ranked,
			r.Analyzed, r.CacheHits, r.FailedItems, r.Fallback, r.Dispatched)
	}
	return w.Flush()
}
