package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/skinarb/skinarb/internal/apperrors"
	"github.com/skinarb/skinarb/internal/merge"
	"github.com/skinarb/skinarb/internal/orchestrator"
	"github.com/skinarb/skinarb/internal/persistence/postgres"
	"github.com/skinarb/skinarb/internal/profit"
	"github.com/skinarb/skinarb/internal/venue"
)

// nonSteamVenues lists every non-Steam adapter identifier register.go wires
// up, except the three dynamic-content venues (manncostore, rapidskins,
// steamid), which never produce a catalog. It is used only to seed SteamMarket's nameid_batch plan from whatever those
// venues' on-disk catalogs already contain (see seedSteamItemNames).
var nonSteamVenues = []string{
	"waxpeer", "skinport", "bitskins", "empire", "shadowpay", "csdeals",
	"cstrade", "lisskins", "marketcsgo", "tradeit", "skindeck", "skinout", "white",
}

func newRunCmd() *cobra.Command {
	var (
		venues       string
		preset       string
		minProfitPct float64
		minPrice     float64
		mode         string
		concurrency  float64
		maxResults   int
		dbDSN        string
		dbEnabled    bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one scrape-and-price pass across the selected venues",
		Long: `Fetches listings from every selected marketplace plus Steam, merges
them into the on-disk catalogs, computes arbitrage opportunities against
Steam's fee schedule, and archives the result.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), runOptions{
				venues:       venues,
				preset:       preset,
				minProfitPct: minProfitPct,
				minPrice:     minPrice,
				mode:         mode,
				concurrency:  concurrency,
				maxResults:   maxResults,
				dbDSN:        dbDSN,
				dbEnabled:    dbEnabled,
			})
		},
	}

	cmd.Flags().StringVar(&venues, "venues", "all", "Venue selection: \"all\", a group (fast|api|essential), or a comma-separated adapter list")
	cmd.Flags().StringVar(&preset, "preset", "", "Named filter preset from search_filters.yaml (overrides --min-profit-pct/--min-price)")
	cmd.Flags().Float64Var(&minProfitPct, "min-profit-pct", 0.10, "Minimum profit percentage for an opportunity to be reported")
	cmd.Flags().Float64Var(&minPrice, "min-price", 1.0, "Minimum buy price for an opportunity to be reported")
	cmd.Flags().StringVar(&mode, "mode", "complete", "Profit mode: fast (raw spread) or complete (fee-adjusted)")
	cmd.Flags().Float64Var(&concurrency, "concurrency-factor", 2.0, "Adapter concurrency cap as a multiple of NumCPU (clamped to [2,64])")
	cmd.Flags().IntVar(&maxResults, "max-results", 100, "Maximum opportunities kept per pass")
	cmd.Flags().StringVar(&dbDSN, "db-dsn", "", "Postgres DSN for the optional opportunity archive mirror")
	cmd.Flags().BoolVar(&dbEnabled, "db-enabled", false, "Mirror each pass's opportunities into Postgres in addition to the JSON archive")

	return cmd
}

type runOptions struct {
	venues       string
	preset       string
	minProfitPct float64
	minPrice     float64
	mode         string
	concurrency  float64
	maxResults   int
	dbDSN        string
	dbEnabled    bool
}

func runRun(parentCtx context.Context, opts runOptions) error {
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := loadCore()
	if err != nil {
		return apperrors.New(apperrors.KindConfig, "", "failed to load configuration", err)
	}

	steamNames := seedSteamItemNames(c)

	profitEngine := profit.NewEngine()
	reg, err := c.buildRegistry(profitEngine, steamNames)
	if err != nil {
		return apperrors.New(apperrors.KindConfig, "", "failed to register venue adapters", err)
	}

	selection := splitCSV(opts.venues)
	candidates, err := reg.Select(selection)
	if err != nil {
		return apperrors.New(apperrors.KindConfig, "", "invalid venue selection", err)
	}
	ids := make([]string, 0, len(candidates))
	for _, a := range candidates {
		if ov, present := c.scrapers.Adapters[a.Identifier()]; present && !ov.Enabled {
			log.Info().Str("venue", a.Identifier()).Msg("venue disabled in scrapers.yaml, skipping")
			continue
		}
		ids = append(ids, a.Identifier())
	}
	if len(ids) == 0 {
		return apperrors.New(apperrors.KindConfig, "", "no enabled venues matched the selection", nil)
	}

	proxies := c.buildProxyPool()
	engine := c.buildEngine(proxies)
	scheduler := venue.NewScheduler(engine, c.secrets, c.telemetry)

	mergeStoreFor := func(venueName string) *merge.Store {
		return merge.NewStore(c.paths.VenueDataFile(venueName))
	}

	orch := orchestrator.New(reg, scheduler, mergeStoreFor, c.telemetry, opts.concurrency)

	log.Info().Strs("venues", ids).Msg("starting scrape pass")
	if isInteractive() {
		fmt.Printf("Scanning %d venues...\n", len(ids))
	}
	summary, err := orch.Run(ctx, ids)
	if err != nil {
		return apperrors.New(apperrors.KindConfig, "", "orchestrator run failed", err)
	}

	nonSteamSnapshots, steamSnapshots, err := loadSnapshots(c, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to reload merged catalogs for profitability scan")
		os.Exit(4)
	}

	steamRef := profit.SteamReference(steamSnapshots)
	filters := resolveFilters(c, opts)
	opportunities := profitEngine.Scan(nonSteamSnapshots, steamRef, filters)

	archiveStore := profit.NewArchiveStore(c.paths.ProfitabilityFile())
	snap := profit.Snapshot{
		Timestamp:     time.Now(),
		Total:         len(opportunities),
		Mode:          filters.Mode,
		Opportunities: opportunities,
	}
	if _, err := archiveStore.Push(snap); err != nil {
		log.Error().Err(err).Msg("failed to persist opportunity archive")
		os.Exit(4)
	}

	if opts.dbEnabled {
		mirrorToPostgres(ctx, opts.dbDSN, summary.RunID, snap)
	}

	c.telemetry.SetOpportunitiesFound(len(opportunities))

	report := summary.ToSessionReport()
	report.OpportunitiesFound = len(opportunities)
	log.Info().Msg(report.Summary())
	fmt.Println(report.Summary())

	if code := summary.ExitCode(); code != 0 {
		os.Exit(code)
	}
	return nil
}

// seedSteamItemNames collects item names already present in non-Steam
// venues' on-disk catalogs from the previous pass, so this run's targeted
// Steam priceoverview lookups (SteamMarket) cover items actually seen
// elsewhere instead of an arbitrary or empty list. The broad paginated
// SteamListing adapter still builds coverage from nothing on a first run.
func seedSteamItemNames(c *core) []string {
	seen := make(map[string]struct{})
	for _, id := range nonSteamVenues {
		store := merge.NewStore(c.paths.VenueDataFile(id))
		catalog, err := store.Load()
		if err != nil {
			continue
		}
		for name := range catalog.Items {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func loadSnapshots(c *core, ids []string) (nonSteam, steam []*venue.VenueSnapshot, err error) {
	for _, id := range ids {
		store := merge.NewStore(c.paths.VenueDataFile(id))
		catalog, loadErr := store.Load()
		if loadErr != nil {
			return nil, nil, fmt.Errorf("load catalog for %s: %w", id, loadErr)
		}
		listings := make([]venue.Listing, 0, len(catalog.Items))
		for _, l := range catalog.Items {
			listings = append(listings, l)
		}
		snap := &venue.VenueSnapshot{Venue: id, Timestamp: catalog.UpdatedAt, Listings: listings}
		if id == "steam_market" || id == "steam_listing" {
			steam = append(steam, snap)
		} else {
			nonSteam = append(nonSteam, snap)
		}
	}
	return nonSteam, steam, nil
}

func resolveFilters(c *core, opts runOptions) profit.Filters {
	f := profit.Filters{
		Mode:                profit.Mode(opts.mode),
		MinProfitPercentage: opts.minProfitPct,
		MinPrice:            opts.minPrice,
		MaxResults:          opts.maxResults,
	}
	if opts.preset != "" {
		if p, ok := c.filters.Presets[opts.preset]; ok {
			f.Preset = &profit.PresetFilter{
				MinProfitPercentage: p.MinProfitPercentage,
				MinPrice:            p.MinPrice,
				MaxPrice:            p.MaxPrice,
			}
		} else {
			log.Warn().Str("preset", opts.preset).Msg("unknown search filter preset, falling back to numeric thresholds")
		}
	}
	return f
}

func mirrorToPostgres(ctx context.Context, dsn string, runID string, snap profit.Snapshot) {
	cfg := postgres.DefaultConfig()
	cfg.DSN = dsn
	cfg.Enabled = true
	mgr, err := postgres.NewManager(cfg)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to postgres opportunity archive mirror")
		return
	}
	defer mgr.Close()
	if err := mgr.Repo.InsertSnapshot(ctx, runID, snap); err != nil {
		log.Error().Err(err).Msg("failed to mirror opportunity snapshot into postgres")
	}
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
