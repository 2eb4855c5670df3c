package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/maxvaer/weakscan/internal/config"
	"github.com/maxvaer/weakscan/internal/fetch"
	"github.com/maxvaer/weakscan/internal/filter"
	"github.com/maxvaer/weakscan/internal/heuristic"
	"github.com/maxvaer/weakscan/internal/hook"
	"github.com/maxvaer/weakscan/internal/output"
	"github.com/maxvaer/weakscan/internal/pattern"
	"github.com/maxvaer/weakscan/internal/scanner"
	"github.com/maxvaer/weakscan/internal/targets"
	"github.com/maxvaer/weakscan/pkg/version"
	"go.uber.org/zap"
)

// Run executes the full scan pipeline: load targets and templates, scan every
// target, then hand the findings to the report writer, artifact files, hooks
// and dashboard. The banner and dashboard go to stderr, or os.Stderr when it
// is nil.
func Run(ctx context.Context, opts *config.Options, logger *zap.Logger, stderr io.Writer) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	// 1. Load target list.
	urls, err := targets.Load(opts.TargetsFile)
	if err != nil {
		return fmt.Errorf("loading targets: %w", err)
	}

	// 2. Load templates. A missing or broken directory never aborts the scan.
	patterns := pattern.Load(opts.TemplatesDir,
		pattern.WithLogger(logger),
		pattern.WithCreateMissing(opts.CreateMissing),
	)

	// 3. Create HTTP requester.
	req, err := fetch.NewRequester(fetch.Config{
		Timeout:         opts.Timeout,
		VerifyTLS:       opts.VerifyTLS,
		UserAgent:       opts.UserAgent,
		Headers:         opts.Headers,
		Proxy:           opts.Proxy,
		FollowRedirects: opts.FollowRedirects,
		MaxIdleConns:    opts.Threads,
	})
	if err != nil {
		return fmt.Errorf("creating requester: %w", err)
	}

	// 4. Build filter chain.
	chain := filter.NewChain()
	if len(opts.IncludeFlags) > 0 || len(opts.ExcludeFlags) > 0 {
		chain.Add(filter.NewFlagFilter(opts.IncludeFlags, opts.ExcludeFlags))
	}
	if opts.Unique {
		chain.Add(filter.NewDuplicateFilter())
	}

	// 5. Create output writer before scanning so a bad report path fails fast.
	out, err := createWriter(opts)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}
	defer out.Close()

	// 6. Print banner.
	if !opts.Silent {
		printBanner(stderr, opts, len(urls), patterns)
	}

	// 7. Scan.
	progress := output.NewProgress(len(urls), opts.Silent || opts.Debug)
	progress.Start()

	coord := scanner.New(req, heuristic.NewEngine(patterns), scanner.Config{
		Threads: opts.Threads,
		OnProcessed: func(o scanner.Outcome) {
			progress.Increment()
			if o.FetchErr != nil {
				progress.IncrementErrors()
			}
			if o.Finding != nil {
				progress.IncrementFlagged()
				logger.Debug("weak url",
					zap.String("url", o.Finding.URL),
					zap.String("flags", heuristic.Join(o.Finding.Flags, ",")),
				)
			}
		},
	}, logger)

	res := coord.Scan(ctx, urls)
	progress.Stop()

	logger.Debug("scan finished",
		zap.Int("processed", res.Total),
		zap.Int("flagged", len(res.Findings)),
		zap.Int("failed", res.Failed),
		zap.Duration("duration", res.Duration),
	)

	// 8. Filter, then write the report.
	reported, dropped := chain.Keep(res.Findings)
	for name, n := range dropped {
		logger.Debug("findings filtered", zap.String("filter", name), zap.Int("count", n))
	}

	stats := output.NewStats(res, len(reported), patterns.Len())
	if err := output.WriteAll(out, reported, stats); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	// 9. Hooks.
	if opts.OnFindingCmd != "" {
		hookRunner := hook.NewRunner(opts.OnFindingCmd, logger)
		for i := range reported {
			// Failures are logged by the runner and do not stop the others.
			_ = hookRunner.Run(ctx, &reported[i])
		}
	}

	// 10. Artifact files.
	var artifacts *output.Artifacts
	if opts.OutputPrefix != "" {
		a, err := output.WriteArtifacts(opts.OutputPrefix, reported)
		if err != nil {
			return fmt.Errorf("writing artifacts: %w", err)
		}
		artifacts = &a
	}

	// 11. Dashboard.
	if !opts.Silent {
		d := output.NewDashboard(stderr, opts.Color, opts.NoColor)
		d.Print(stats, reported)
		if artifacts != nil {
			d.Saved(*artifacts)
		}
	}

	return nil
}

func createWriter(opts *config.Options) (output.Writer, error) {
	var (
		w   output.Writer
		err error
	)
	switch opts.Format {
	case "json":
		w, err = output.NewJSONWriter(opts.ReportFile)
	case "csv":
		w, err = output.NewCSVWriter(opts.ReportFile)
	case "yaml":
		w, err = output.NewYAMLWriter(opts.ReportFile)
	case "markdown":
		w, err = output.NewMarkdownWriter(opts.ReportFile)
	default:
		w, err = output.NewTextWriter(opts.ReportFile, opts.NoColor, opts.Silent)
	}
	if err != nil {
		return nil, err
	}
	if opts.SortBy != "" {
		w = output.NewSortedWriter(w, opts.SortBy)
	}
	return w, nil
}

func printBanner(w io.Writer, opts *config.Options, targetCount int, patterns *pattern.Set) {
	accent := color.New(color.FgMagenta, color.Bold)
	dim := color.New(color.Faint)
	value := color.New(color.FgHiWhite)
	warn := color.New(color.FgYellow)
	if opts.NoColor {
		for _, c := range []*color.Color{accent, dim, value, warn} {
			c.DisableColor()
		}
	}

	accent.Fprint(w, `
 _      __         __
| | /| / /__ ___ _/ /__ ___ _______ ____
| |/ |/ / -_) _ '/  '_/(_-</ __/ _ '/ _ \
|__/|__/\__/\_,_/_/\_\/___/\__/\_,_/_//_/  `)
	dim.Fprintf(w, "v%s\n\n", version.Version)
	fmt.Fprintln(w, "    Weak URL Scanner")

	rule := strings.Repeat("─", 38)
	dim.Fprintf(w, "  %s\n", rule)
	row := func(label, v string) {
		dim.Fprintf(w, "  %-13s", label+":")
		value.Fprintln(w, v)
	}
	row("Targets", fmt.Sprintf("%d URLs", targetCount))
	row("Threads", fmt.Sprintf("%d", opts.Threads))
	row("Timeout", opts.Timeout.String())
	if patterns.Len() > 0 {
		row("Templates", fmt.Sprintf("%d (%s)", patterns.Len(), strings.Join(patterns.Names(), ", ")))
	} else {
		dim.Fprintf(w, "  %-13s", "Templates:")
		warn.Fprintf(w, "none found in %s\n", opts.TemplatesDir)
	}
	if opts.VerifyTLS {
		row("TLS", "verified")
	} else {
		row("TLS", "not verified")
	}
	if opts.Proxy != "" {
		row("Proxy", opts.Proxy)
	}
	if opts.OutputPrefix != "" {
		row("Artifacts", opts.OutputPrefix+"_*.txt")
	}
	dim.Fprintf(w, "  %s\n\n", rule)
}
