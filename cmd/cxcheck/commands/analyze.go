package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Pythonidaer/new-years-project-sub002/internal/log"
	"github.com/Pythonidaer/new-years-project-sub002/internal/scanner"
	"github.com/Pythonidaer/new-years-project-sub002/internal/watch"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/cache"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/linter"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/report"
)

// errMismatches is returned with --fail-on-mismatch when any function
// disagrees with ESLint.
var errMismatches = errors.New("complexity mismatches found")

// analyzeOptions are the resolved settings for one analyze invocation.
type analyzeOptions struct {
	Root           string
	ESLintJSON     string
	ReportPath     string
	SARIFPath      string
	TopN           int
	Workers        int
	CrossCheck     bool
	NoCache        bool
	Watch          bool
	FailOnMismatch bool
}

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Compare heuristic totals with ESLint across a project",
	Long: `Scans a project for JavaScript and TypeScript files, runs ESLint's
complexity rule over them and compares every function's reported complexity
with the heuristic total. Mismatches are written to a JSON report and,
optionally, to a SARIF file.

Examples:
  cxcheck analyze
  cxcheck analyze ./src --sarif complexity.sarif
  cxcheck analyze --eslint-json eslint-report.json
  cxcheck analyze --watch`,
	Args: cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := analyzeOptions{
			Root:       ".",
			ReportPath: cfg.ReportPath,
			SARIFPath:  cfg.SARIFPath,
			TopN:       cfg.TopN,
			Workers:    cfg.Workers,
			CrossCheck: cfg.CrossCheck,
		}
		if len(args) > 0 {
			opts.Root = args[0]
		}

		flags := cmd.Flags()
		opts.ESLintJSON, _ = flags.GetString("eslint-json")
		opts.NoCache, _ = flags.GetBool("no-cache")
		opts.Watch, _ = flags.GetBool("watch")
		opts.FailOnMismatch, _ = flags.GetBool("fail-on-mismatch")
		if flags.Changed("report") {
			opts.ReportPath, _ = flags.GetString("report")
		}
		if flags.Changed("sarif") {
			opts.SARIFPath, _ = flags.GetString("sarif")
		}
		if flags.Changed("top") {
			opts.TopN, _ = flags.GetInt("top")
		}
		if flags.Changed("workers") {
			opts.Workers, _ = flags.GetInt("workers")
		}
		if flags.Changed("cross-check") {
			opts.CrossCheck, _ = flags.GetBool("cross-check")
		}
		if opts.Workers < 1 {
			return fmt.Errorf("workers must be at least 1")
		}
		if opts.TopN < 0 {
			return fmt.Errorf("top must not be negative")
		}

		return runAnalyze(cmd.Context(), opts)
	},
}

func runAnalyze(ctx context.Context, opts analyzeOptions) error {
	info, err := os.Stat(opts.Root)
	if err != nil {
		return fmt.Errorf("stat path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path must be a directory: %s", opts.Root)
	}

	analyzer := report.NewAnalyzer(newRunner(opts), logger)
	analyzer.Workers = opts.Workers
	analyzer.CrossCheck = opts.CrossCheck

	if !opts.NoCache && cfg.CachePath != "" {
		bc := cache.NewBoundaryCache(cfg.CacheSize, cfg.CachePath)
		if err := bc.Open(); err != nil {
			logger.Warn("ignoring unreadable boundary cache", "path", cfg.CachePath, "error", err)
			bc = cache.NewBoundaryCache(cfg.CacheSize, cfg.CachePath)
		}
		analyzer.Cache = bc
	}

	sc := scanner.New(scannerOptions())

	rep, err := analyzeOnce(ctx, sc, analyzer, opts)
	if err != nil {
		return err
	}
	if !opts.Watch {
		if opts.FailOnMismatch && rep.Summary.TotalMismatches > 0 {
			return errMismatches
		}
		return nil
	}

	return watchAndAnalyze(ctx, sc, analyzer, opts)
}

func newRunner(opts analyzeOptions) linter.Runner {
	if opts.ESLintJSON != "" {
		return linter.FileRunner{Path: opts.ESLintJSON}
	}
	return linter.NewESLintRunner(cfg.ESLintCommand, cfg.ESLintConfig)
}

func scannerOptions() scanner.Options {
	opts := scanner.DefaultOptions()
	opts.Extensions = cfg.Extensions
	opts.Exclude = cfg.Exclude
	return opts
}

// analyzeOnce scans, analyzes and writes every output for one run.
func analyzeOnce(ctx context.Context, sc *scanner.Scanner, analyzer *report.Analyzer, opts analyzeOptions) (*report.Report, error) {
	files, err := sc.Scan(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", opts.Root, err)
	}
	logger.Info("analyzing files", "count", len(files), "root", opts.Root)

	spinner := log.NewProgressSpinner(fmt.Sprintf("Checking %d files...", len(files)))
	spinner.Start()
	rep, err := analyzer.Run(ctx, files)
	spinner.Stop()
	if err != nil {
		return nil, err
	}

	if analyzer.Cache != nil {
		stats := analyzer.Cache.Stats()
		logger.Debug("boundary cache", "hits", stats.Hits, "misses", stats.Misses, "entries", stats.Entries)
		if err := analyzer.Cache.Flush(); err != nil {
			logger.Warn("saving boundary cache", "path", cfg.CachePath, "error", err)
		}
	}

	if err := report.WriteJSON(opts.ReportPath, *rep); err != nil {
		return nil, fmt.Errorf("writing report: %w", err)
	}
	logger.Info("report written", "path", opts.ReportPath, "mismatches", rep.Summary.TotalMismatches)

	if opts.SARIFPath != "" {
		if err := report.WriteSARIFFile(opts.SARIFPath, *rep); err != nil {
			return nil, fmt.Errorf("writing SARIF: %w", err)
		}
		logger.Info("SARIF written", "path", opts.SARIFPath)
	}

	report.PrintSummary(os.Stdout, *rep, opts.TopN, log.IsTerminal(os.Stdout))
	return rep, nil
}

// watchAndAnalyze re-runs the analysis whenever a source file changes.
func watchAndAnalyze(ctx context.Context, sc *scanner.Scanner, analyzer *report.Analyzer, opts analyzeOptions) error {
	w, err := watch.New(opts.Root, sc.Options().DefaultExcludes)
	if err != nil {
		return err
	}
	defer w.Close()

	outputs := make(map[string]bool)
	for _, p := range []string{opts.ReportPath, opts.SARIFPath, cfg.CachePath} {
		if p == "" {
			continue
		}
		if full, err := filepath.Abs(p); err == nil {
			outputs[full] = true
		}
	}

	w.Logger = logger
	w.Relevant = func(path string) bool {
		if full, err := filepath.Abs(path); err == nil && outputs[full] {
			return false
		}
		return sc.Relevant(opts.Root, path)
	}

	logger.Info("watching for changes", "root", opts.Root)
	return w.Run(ctx, func(ctx context.Context) {
		if _, err := analyzeOnce(ctx, sc, analyzer, opts); err != nil {
			logger.Error("analysis failed", "error", err)
		}
	})
}

func init() {
	f := analyzeCmd.Flags()
	f.String("eslint-json", "", "Read ESLint results from a JSON report instead of running ESLint")
	f.String("report", "", "Path of the JSON mismatch report")
	f.String("sarif", "", "Also write mismatches as SARIF to this path")
	f.Int("top", 20, "Number of mismatches to print")
	f.Int("workers", 4, "Files analyzed in parallel")
	f.Bool("cross-check", false, "Add a syntax tree count to every mismatch")
	f.Bool("no-cache", false, "Do not read or write the boundary cache")
	f.BoolP("watch", "w", false, "Re-run when source files change")
	f.Bool("fail-on-mismatch", false, "Exit non-zero when any mismatch is found")
	RootCmd.AddCommand(analyzeCmd)
}
