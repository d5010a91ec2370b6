package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grupokc/rpa-reclutamiento/browser"
	"github.com/grupokc/rpa-reclutamiento/config"
	"github.com/grupokc/rpa-reclutamiento/parser"
	"github.com/grupokc/rpa-reclutamiento/scraper"
	_ "github.com/grupokc/rpa-reclutamiento/scraper/occ"
	"github.com/grupokc/rpa-reclutamiento/services"
	"github.com/grupokc/rpa-reclutamiento/storage"
	"github.com/grupokc/rpa-reclutamiento/utils"
)

var version = "dev"

var (
	keyword      string
	targetCount  int
	batchSize    int
	verbose      bool
	exportFormat string
	outputFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "rpa-reclutamiento",
		Short:   "Two-phase candidate harvesting pipeline for talent-search platforms",
		Version: version,
		Long: `rpa-reclutamiento drives a browser through an authenticated talent
search, collects candidate stubs across location partitions (phase 1,
harvest), and enriches each stub from its profile detail page into an
append-only final store (phase 2, process). Both phases are resumable:
state lives entirely in the JSONL stores, so a run can be interrupted
and restarted at any point.`,
		Example: `  # Queue up to TARGET_COUNT stubs for a keyword
  rpa-reclutamiento harvest --keyword "data engineer"

  # Drain the pending queue into the final store
  rpa-reclutamiento process

  # Both phases back to back
  rpa-reclutamiento run --keyword "data engineer"

  # Export the final store
  rpa-reclutamiento export data/candidatos_completos.jsonl --format csv
  rpa-reclutamiento export data/candidatos_completos.jsonl --format postgres`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	harvestCmd := &cobra.Command{
		Use:   "harvest",
		Short: "Phase 1: collect candidate stubs into the pending queue",
		RunE:  func(cmd *cobra.Command, args []string) error { return runHarvest() },
	}
	harvestCmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Search keyword (position, skill, ...)")
	harvestCmd.Flags().IntVar(&targetCount, "target", 0, "Override TARGET_COUNT")

	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Phase 2: enrich pending candidates into the final store",
		RunE:  func(cmd *cobra.Command, args []string) error { return runProcess() },
	}
	processCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Override BATCH_SIZE")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run harvest then process in one session",
		RunE:  func(cmd *cobra.Command, args []string) error { return runBoth() },
	}
	runCmd.Flags().StringVarP(&keyword, "keyword", "k", "", "Search keyword (position, skill, ...)")
	runCmd.Flags().IntVar(&targetCount, "target", 0, "Override TARGET_COUNT")
	runCmd.Flags().IntVar(&batchSize, "batch-size", 0, "Override BATCH_SIZE")

	exportCmd := &cobra.Command{
		Use:   "export [store.jsonl]",
		Short: "Export a JSONL store to csv, toml, toon or postgres",
		Args:  cobra.ExactArgs(1),
		RunE:  func(cmd *cobra.Command, args []string) error { return runExport(args[0]) },
	}
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "Output format (csv, toml, toon, postgres)")
	exportCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (defaults to input name + format extension)")

	reportCmd := &cobra.Command{
		Use:   "report [store.jsonl]",
		Short: "Print coverage statistics for a store (default: final store)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runReport(path)
		},
	}

	rootCmd.AddCommand(harvestCmd, processCmd, runCmd, exportCmd, reportCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig applies CLI overrides on top of the environment config.
func loadConfig() *config.Config {
	cfg := config.Load()
	if targetCount > 0 {
		cfg.TargetCount = targetCount
	}
	if batchSize > 0 {
		cfg.BatchSize = batchSize
	}
	return cfg
}

// openSite validates credentials, opens the browser session, resolves the
// configured site adapter and logs in. The returned cleanup logs out and
// closes the session.
func openSite(cfg *config.Config, logger *utils.Logger) (scraper.Site, func(), error) {
	if err := cfg.ValidateCredentials(); err != nil {
		return nil, nil, err
	}

	factory, ok := scraper.Get(cfg.Site)
	if !ok {
		return nil, nil, fmt.Errorf("unknown site: %s", cfg.Site)
	}

	sess, err := browser.Open(browser.Config{
		ChromeBin:       cfg.ChromeBin,
		Headless:        cfg.Headless,
		NavigateTimeout: cfg.NavigateTimeout,
		ElementTimeout:  cfg.ElementTimeout,
		Logger:          logger,
	})
	if err != nil {
		return nil, nil, err
	}

	site := factory(sess, cfg, logger)
	if err := site.Login(); err != nil {
		sess.Close()
		return nil, nil, fmt.Errorf("login on %s: %w", site.Name(), err)
	}

	cleanup := func() {
		site.Logout()
		sess.Close()
	}
	return site, cleanup, nil
}

func runHarvest() error {
	logger := utils.NewLogger(verbose)
	cfg := loadConfig()

	logger.Info("=== Harvest phase starting ===")
	logger.Info("Config — site: %s | target: %d | partitions: %d | queue: %s",
		cfg.Site, cfg.TargetCount, len(cfg.Partitions), cfg.QueuePath)

	queue, err := storage.NewLineStore(cfg.QueuePath, logger)
	if err != nil {
		return err
	}

	site, cleanup, err := openSite(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	harvester := services.NewHarvester(site, queue, cfg, logger)
	added, err := harvester.Run(keyword)
	if err != nil {
		return err
	}
	logger.Info("Harvest finished — %d new stubs in %s", added, cfg.QueuePath)
	return nil
}

func runProcess() error {
	logger := utils.NewLogger(verbose)
	cfg := loadConfig()

	logger.Info("=== Process phase starting ===")
	logger.Info("Config — site: %s | batch size: %d | queue: %s | final: %s",
		cfg.Site, cfg.BatchSize, cfg.QueuePath, cfg.FinalPath)

	queue, err := storage.NewLineStore(cfg.QueuePath, logger)
	if err != nil {
		return err
	}
	final, err := storage.NewLineStore(cfg.FinalPath, logger)
	if err != nil {
		return err
	}

	site, cleanup, err := openSite(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	enricher := services.NewEnricher(site, parser.NewChain(logger), logger)
	worker := services.NewWorker(enricher, queue, final, cfg, logger)
	stats, err := worker.Run()
	if err != nil {
		return err
	}
	logger.Info("Process finished — %d accepted / %d rejected of %d pending in %d flushes",
		stats.Accepted, stats.Rejected, stats.Pending, stats.Flushes)
	return nil
}

func runBoth() error {
	logger := utils.NewLogger(verbose)
	cfg := loadConfig()

	logger.Info("=== Full pipeline starting ===")

	queue, err := storage.NewLineStore(cfg.QueuePath, logger)
	if err != nil {
		return err
	}
	final, err := storage.NewLineStore(cfg.FinalPath, logger)
	if err != nil {
		return err
	}

	site, cleanup, err := openSite(cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	harvester := services.NewHarvester(site, queue, cfg, logger)
	added, err := harvester.Run(keyword)
	if err != nil {
		return err
	}
	logger.Info("Harvest done (%d new stubs) — starting worker", added)

	enricher := services.NewEnricher(site, parser.NewChain(logger), logger)
	worker := services.NewWorker(enricher, queue, final, cfg, logger)
	stats, err := worker.Run()
	if err != nil {
		return err
	}
	logger.Info("Pipeline finished — %d accepted / %d rejected of %d pending",
		stats.Accepted, stats.Rejected, stats.Pending)
	return nil
}

func runExport(input string) error {
	logger := utils.NewLogger(verbose)
	cfg := loadConfig()

	store, err := storage.NewLineStore(input, logger)
	if err != nil {
		return err
	}
	// Last line per id wins when a crash ever duplicated an append.
	candidates, err := store.LoadLatest()
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		logger.Warn("Nothing to export from %s", input)
		return nil
	}
	logger.Info("Loaded %d candidates from %s", len(candidates), input)

	if exportFormat == "postgres" {
		pg, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.Write(candidates); err != nil {
			return err
		}
		logger.Info("Upserted %d candidates into PostgreSQL (table: candidates)", len(candidates))
		return nil
	}

	var exporter storage.Exporter
	switch exportFormat {
	case "csv":
		exporter = storage.NewCSVExporter()
	case "toml":
		exporter = storage.NewTOMLExporter()
	case "toon":
		exporter = storage.NewToonExporter()
	default:
		return fmt.Errorf("invalid export format: %s", exportFormat)
	}

	dest := outputFile
	if dest == "" {
		dest = strings.TrimSuffix(input, filepath.Ext(input)) + "." + exportFormat
	}
	if err := exporter.Export(candidates, dest); err != nil {
		return err
	}
	logger.Info("Exported %d candidates to %s", len(candidates), dest)
	return nil
}

func runReport(path string) error {
	logger := utils.NewLogger(verbose)
	cfg := loadConfig()
	if path == "" {
		path = cfg.FinalPath
	}

	store, err := storage.NewLineStore(path, logger)
	if err != nil {
		return err
	}
	candidates, err := store.LoadLatest()
	if err != nil {
		return err
	}

	svc := services.NewReportService(logger)
	svc.Print(svc.Generate(candidates))
	return nil
}
