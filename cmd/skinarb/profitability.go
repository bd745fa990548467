package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/skinarb/skinarb/internal/apperrors"
	"github.com/skinarb/skinarb/internal/paths"
	"github.com/skinarb/skinarb/internal/profit"
)

func newProfitabilityCmd() *cobra.Command {
	var (
		history  bool
		minPct   float64
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "profitability",
		Short: "Inspect the last archived opportunities without touching the network",
		Long: `Reads the on-disk OpportunityArchive written by the most recent 'run'
pass and prints its current opportunities, optionally narrowed further or
alongside the ring-buffered history of prior passes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProfitability(profitabilityOptions{history: history, minPct: minPct, asJSON: asJSON})
		},
	}

	cmd.Flags().BoolVar(&history, "history", false, "Include the archive's prior-pass history")
	cmd.Flags().Float64Var(&minPct, "min-profit-pct", 0, "Narrow the displayed opportunities to at least this profit percentage")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print last_updated and the current opportunities (plus history with --history) as JSON instead of a table")

	return cmd
}

type profitabilityOptions struct {
	history bool
	minPct  float64
	asJSON  bool
}

func runProfitability(opts profitabilityOptions) error {
	p := paths.New()
	store := profit.NewArchiveStore(p.ProfitabilityFile())
	archive, err := store.Load()
	if err != nil {
		return apperrors.New(apperrors.KindPersistence, "", "failed to load opportunity archive", err)
	}

	current := filterByPercentage(archive.Current.Opportunities, opts.minPct)

	if opts.asJSON {
		out := map[string]interface{}{
			"last_updated": archive.LastUpdated,
			"current":      current,
		}
		if opts.history {
			out["history"] = archive.History
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if archive.Current.Timestamp.IsZero() {
		fmt.Println("no opportunity archive found yet; run 'skinarb run' first")
		return nil
	}

	fmt.Printf("Current pass: %s (%s mode, %d opportunities)\n", archive.Current.Timestamp.Format("2006-01-02 15:04:05"), archive.Current.Mode, len(current))
	for _, o := range current {
		fmt.Printf("  %-40s %-12s buy $%-8.2f net $%-8.2f profit %+.2f%% (%s)\n",
			o.ItemName, o.BuyVenue, o.BuyPrice, o.NetSteamPrice, o.ProfitPercentage*100, o.BuyURL)
	}

	if opts.history {
		fmt.Printf("\nHistory (%d prior passes):\n", len(archive.History))
		for _, snap := range archive.History {
			fmt.Printf("  %s: %d opportunities (%s)\n", snap.Timestamp.Format("2006-01-02 15:04:05"), snap.Total, snap.Mode)
		}
	}
	return nil
}

func filterByPercentage(opps []profit.Opportunity, minPct float64) []profit.Opportunity {
	if minPct <= 0 {
		return opps
	}
	out := make([]profit.Opportunity, 0, len(opps))
	for _, o := range opps {
		if o.ProfitPercentage >= minPct {
			out = append(out, o)
		}
	}
	return out
}
