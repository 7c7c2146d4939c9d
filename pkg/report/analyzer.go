package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Pythonidaer/new-years-project-sub002/internal/log"
	"github.com/Pythonidaer/new-years-project-sub002/internal/scanner"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/astcheck"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/boundary"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/cache"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/decision"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/linter"
	"github.com/Pythonidaer/new-years-project-sub002/pkg/types"
)

// Analyzer runs the linter over a set of files, extracts decision points
// from each and compares the two totals per function.
type Analyzer struct {
	Linter     linter.Runner
	Cache      *cache.BoundaryCache
	Workers    int
	CrossCheck bool
	Logger     log.Logger

	now   func() time.Time
	runID func() string
}

// NewAnalyzer creates an Analyzer using runner as the reference.
func NewAnalyzer(runner linter.Runner, logger log.Logger) *Analyzer {
	if logger == nil {
		logger = log.Nop()
	}
	return &Analyzer{
		Linter:  runner,
		Workers: 1,
		Logger:  logger,
		now:     time.Now,
		runID:   uuid.NewString,
	}
}

// fileOutcome is the per-file result of a run.
type fileOutcome struct {
	comparisons []Comparison
	err         error
}

// Run analyses files. Files that cannot be read or parsed are logged,
// listed in Report.FileErrors and skipped; only a linter failure or a
// cancelled context aborts the run.
func (a *Analyzer) Run(ctx context.Context, files []scanner.FileInfo) (*Report, error) {
	paths := make([]string, len(files))
	for i, f := range files {
		paths[i] = f.FullPath
	}

	results, err := a.Linter.Run(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("running linter: %w", err)
	}
	byFile := indexComplexities(linter.Complexities(results))

	outcomes := make([]fileOutcome, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Workers, 1))
	for i, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			comparisons, err := a.analyzeFile(gctx, f, byFile[cleanPath(f.FullPath)])
			outcomes[i] = fileOutcome{comparisons: comparisons, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var comparisons []Comparison
	var fileErrors []FileError
	for i, o := range outcomes {
		if o.err != nil {
			a.Logger.Warn("skipping file", "file", files[i].Path, "error", o.err)
			fileErrors = append(fileErrors, FileError{File: files[i].Path, Error: o.err.Error()})
			continue
		}
		comparisons = append(comparisons, o.comparisons...)
	}

	report := BuildReport(comparisons)
	report.RunID = a.runID()
	report.GeneratedAt = a.now().UTC()
	report.Files = len(files) - len(fileErrors)
	report.FileErrors = fileErrors
	return &report, nil
}

// analyzeFile compares every function the linter reported in one file.
func (a *Analyzer) analyzeFile(ctx context.Context, f scanner.FileInfo, reported []linter.Complexity) ([]Comparison, error) {
	content, err := os.ReadFile(f.FullPath)
	if err != nil {
		return nil, err
	}

	functions, err := a.functions(ctx, content, f.Language)
	if err != nil {
		return nil, err
	}
	boundaries := types.BoundariesOf(functions)
	points := decision.ExtractWithFunctions(string(content), boundaries, functions)
	breakdown := decision.Breakdown(points, boundaries)

	var cross map[int]astcheck.Result
	if a.CrossCheck {
		if cross, err = astcheck.Check(ctx, content, f.Language); err != nil {
			a.Logger.Debug("cross-check failed", "file", f.Path, "error", err)
			cross = nil
		}
	}

	names := make(map[int]string, len(functions))
	for _, fn := range functions {
		if _, ok := names[fn.Start]; !ok {
			names[fn.Start] = fn.Name
		}
	}

	comparisons := make([]Comparison, 0, len(reported))
	for _, r := range reported {
		c := Comparison{
			FunctionName:     functionName(r.Name, names[r.Line]),
			File:             f.Path,
			Line:             r.Line,
			ActualComplexity: r.Value,
			CalculatedTotal:  1,
		}
		if fb, ok := breakdown[r.Line]; ok {
			b := fb.Boundary
			c.Boundary = &b
			c.CalculatedTotal = fb.Total
			c.DecisionPoints = fb.DecisionPoints
		}
		if res, ok := cross[r.Line]; ok {
			c.CrossCheck = &res
		}
		comparisons = append(comparisons, c)
	}
	return comparisons, nil
}

func (a *Analyzer) functions(ctx context.Context, content []byte, lang boundary.Language) ([]types.FunctionInfo, error) {
	if a.Cache != nil {
		return a.Cache.Lookup(ctx, content, lang)
	}
	return boundary.Find(ctx, content, lang)
}

// functionName prefers the linter's name, then the parsed one.
func functionName(reported, parsed string) string {
	switch {
	case reported != "":
		return reported
	case parsed != "":
		return parsed
	}
	return boundary.AnonymousName
}

// indexComplexities groups linter results by cleaned absolute path.
func indexComplexities(all []linter.Complexity) map[string][]linter.Complexity {
	out := make(map[string][]linter.Complexity)
	for _, c := range all {
		key := cleanPath(c.File)
		out[key] = append(out[key], c)
	}
	return out
}

func cleanPath(p string) string {
	if full, err := filepath.Abs(p); err == nil {
		return full
	}
	return filepath.Clean(p)
}
