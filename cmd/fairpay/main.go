/*
main.go - FairPay command line entry point

PURPOSE:

	Starts the award engine HTTP server and exposes the registry and the
	pay engine from the terminal. All commands share one bootstrap: load
	configuration, open the SQLite store, load the registry and top it up
	with the built-in seed awards.

COMMANDS:

	serve       Run the HTTP API
	calc        Calculate one week's pay
	awards      List awards in the registry
	documents   List pay guide documents
	scenarios   List sample weeks usable with calc --scenario
	ingest      Extract an award from a pay guide (needs GEMINI_API_KEY)

CONFIGURATION:

	Defaults < fairpay.yaml < environment < flags. See config/config.go.

EXAMPLES:

	fairpay serve --port 3000
	fairpay calc --award MA000004 --classification r1 --scenario weekend-casual
	fairpay documents --industry Hospitality
	fairpay ingest ./pay-guide.pdf

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration file and overrides
*/
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fairpay/award-engine/award"
	"github.com/fairpay/award-engine/catalog"
	"github.com/fairpay/award-engine/config"
	"github.com/fairpay/award-engine/store/sqlite"
)

var (
	// Global flags
	verbose    bool
	configPath string
	dbPath     string

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fairpay",
	Short: "FairPay - Australian Modern Award pay calculator",
	Long: `FairPay turns Modern Award pay guides into weekly pay breakdowns.

Awards live in a registry seeded with common awards and extended by
ingesting pay guide documents. A week of shifts is priced against an
award classification: base pay, weekend and public holiday penalties,
casual loading, allowances and superannuation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if dbPath != "" {
			cfg.Database.Path = dbPath
		}

		zc := zap.NewProductionConfig()
		level, err := zapcore.ParseLevel(cfg.Log.Level)
		if err != nil {
			level = zapcore.InfoLevel
		}
		if verbose {
			level = zapcore.DebugLevel
		}
		zc.Level = zap.NewAtomicLevelAt(level)
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "fairpay.yaml", "Configuration file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (\":memory:\" for none)")

	rootCmd.AddCommand(serveCmd, calcCmd, awardsCmd, documentsCmd, scenariosCmd, ingestCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// =============================================================================
// BOOTSTRAP
// =============================================================================

// openRegistry opens the store and returns a registry holding the stored
// awards plus any seed award not stored yet. The caller closes the store.
func openRegistry(ctx context.Context) (*award.Registry, *sqlite.Store, error) {
	path := cfg.Database.Path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	store, err := sqlite.New(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	reg := award.NewRegistry(store)
	if err := reg.Load(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load awards: %w", err)
	}
	seeded, err := reg.Seed(ctx, catalog.SeedAwards())
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to seed awards: %w", err)
	}

	logger.Debug("registry ready",
		zap.String("db", path),
		zap.Int("awards", reg.Len()),
		zap.Int("seeded", seeded))
	return reg, store, nil
}
