// Command skinarb drives the scraping/arbitrage core from the CLI: a "run"
// subcommand for one scrape-and-price pass, a "profitability" subcommand for
// inspecting the last archived results offline, and a "serve" subcommand for
// the read-only operator HTTP surface. Grounded on the teacher's
// cmd/cryptorun/main.go root+subcommand tree and TTY-aware startup.
package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/skinarb/skinarb/internal/apperrors"
	"github.com/skinarb/skinarb/internal/secrets"
)

// isInteractive reports whether stdout is a TTY, deciding between the
// interactive progress banner and fully automation-friendly output (spec
// §6's CLI surface is scripted in CI; a banner line there is just noise).
func isInteractive() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

const version = "v0.1.0"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(secrets.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:     "skinarb",
		Short:   "Cross-venue CS:GO skin arbitrage scanner",
		Version: version,
		Long: `skinarb polls CS:GO skin marketplaces, normalizes listings, and
surfaces cross-venue arbitrage opportunities against Steam Community Market
after Steam's fee schedule.

Run 'skinarb run' for one scrape-and-price pass, 'skinarb profitability' to
inspect the last archived results without touching the network, or
'skinarb serve' to expose the read-only operator HTTP surface.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newProfitabilityCmd())
	rootCmd.AddCommand(newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to the CLI exit codes named in spec §6:
// 0 success, 2 configuration error, 3 partial failure, 4 fatal (config/IO).
// Partial-failure exits are raised directly by runRun via os.Exit, since
// that case carries no error value for cobra to propagate.
func exitCodeFor(err error) int {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperrors.KindConfig, apperrors.KindMissingAPIKey, apperrors.KindValidation:
			return 2
		}
		return 4
	}
	return 4
}
