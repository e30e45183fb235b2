// Command grovereport runs the pathogen-risk consensus pipeline over one
// survey export and prints the verdict summary. Optionally it persists the
// run to a SQLite history database and writes per-preset sweep plots.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/verdant-data/canopy.report/internal/config"
	"github.com/verdant-data/canopy.report/internal/grove"
	"github.com/verdant-data/canopy.report/internal/grovedb"
	"github.com/verdant-data/canopy.report/internal/grove/monitor"
	"github.com/verdant-data/canopy.report/internal/ingest"
	"github.com/verdant-data/canopy.report/internal/version"
)

func main() {
	var (
		showVersion   = flag.Bool("version", false, "print build information and exit")
		inputPath     = flag.String("input", "", "survey CSV export to analyze (required)")
		configPath    = flag.String("config", "", "presets JSON config (default: built-in calibration trio)")
		minVotes      = flag.Int("min-votes", -1, "override the configured minimum vote count (-1 = use config)")
		dbPath        = flag.String("db", "", "SQLite run-history database (empty = do not persist)")
		migrationsDir = flag.String("migrations", "internal/grovedb/migrations", "schema migrations directory")
		plotDir       = flag.String("plots", "", "directory for per-preset sweep plots (empty = no plots)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *inputPath == "" {
		flag.Usage()
		log.Fatal("missing required -input flag")
	}

	cfg := config.DefaultRunConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadRunConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	votes := cfg.GetMinVotes()
	if *minVotes >= 0 {
		votes = *minVotes
	}

	records, stats, err := ingest.LoadSurvey(*inputPath)
	if err != nil {
		log.Fatalf("failed to load survey: %v", err)
	}
	log.Printf("loaded %d records from %s (%d rows dropped)", stats.Loaded, *inputPath, stats.Dropped)

	result, err := grove.RunConsensus(records, cfg.BuildPresets(), votes)
	if err != nil {
		log.Fatalf("consensus run failed: %v", err)
	}
	printSummary(result)

	if *dbPath != "" {
		db, err := grovedb.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open run database: %v", err)
		}
		defer db.Close()
		if err := db.MigrateUp(*migrationsDir); err != nil {
			log.Fatalf("failed to migrate run database: %v", err)
		}
		runID, err := db.SaveRun(result, *inputPath)
		if err != nil {
			log.Fatalf("failed to save run: %v", err)
		}
		log.Printf("run saved as %s in %s", runID, *dbPath)
	}

	if *plotDir != "" {
		paths, err := monitor.WriteSweepPlots(result, *plotDir)
		if err != nil {
			log.Fatalf("failed to write sweep plots: %v", err)
		}
		log.Printf("wrote %d sweep plots to %s", len(paths), *plotDir)
	}
}

func printSummary(result *grove.ConsensusResult) {
	for _, run := range result.Runs {
		note := ""
		if run.LowConfidence {
			note = " [low confidence]"
		}
		fmt.Printf("preset %-14s cutoff %6.2f  active-cluster %3d  at-risk %3d  isolated %3d%s\n",
			run.Preset, run.Threshold,
			run.TierCounts[grove.TierActiveCluster],
			run.TierCounts[grove.TierAtRisk],
			run.TierCounts[grove.TierIsolatedSuspect],
			note)
	}

	fmt.Printf("\nconsensus (min votes %d): %d records selected\n", result.MinVotes, len(result.SelectedIDs))
	if len(result.SelectedIDs) > 0 {
		fmt.Printf("  %s\n", strings.Join(result.SelectedIDs, ", "))
	}

	actionable := 0
	for _, v := range result.Verdicts() {
		if v.Tier >= grove.TierAtRisk {
			actionable++
		}
	}
	fmt.Printf("actionable under any preset: %d records\n", actionable)
}
