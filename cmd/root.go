package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/maxvaer/weakscan/internal/config"
	"github.com/maxvaer/weakscan/internal/runner"
	"github.com/maxvaer/weakscan/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	opts        = config.Default()
	cfgFile     string
	noRedirects bool
	autoMode    bool
)

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"INPUT", []string{"list", "gf", "create-gf"}},
	{"RATE-LIMIT", []string{"threads", "timeout"}},
	{"HTTP", []string{"header", "user-agent", "proxy", "no-redirects", "verify-tls"}},
	{"FILTERS", []string{"include-flag", "exclude-flag", "unique"}},
	{"OUTPUT", []string{"output", "report", "format", "sort", "on-finding", "color", "no-color"}},
	{"DEBUG", []string{"debug", "silent"}},
	{"CONFIGURATION", []string{"config", "auto"}},
}

var rootCmd = &cobra.Command{
	Use:     "weakscan -l <urls.txt> [flags]",
	Short:   "Concurrent weak URL scanner",
	Version: version.Version,
	Long: `weakscan fetches every URL in a list and flags the ones that look weak:
plain HTTP, missing clickjacking protection, sensitive-looking parameters,
fetch failures and matches against gf-style pattern templates.`,
	Example: `  weakscan -l urls.txt
  weakscan -l urls.txt -t 20 --timeout 10s --gf ~/.gf
  weakscan -l urls.txt -o acme --report acme.json --format json
  weakscan -l urls.txt --exclude-flag SCAN_ERROR --unique
  weakscan -l urls.txt --include-flag GF --sort flags --format markdown --report report.md
  weakscan -l urls.txt --on-finding "notify-send {url} {flags}"`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		file, err := loadSettings(cmd.Flags(), cfgFile)
		if err != nil {
			return err
		}
		if autoMode {
			opts.ApplyAuto()
		}
		opts.FollowRedirects = !noRedirects
		if opts.TargetsFile == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return config.ErrNoTargetList
		}
		if file != "" && !opts.Silent {
			fmt.Fprintf(os.Stderr, "[+] Loaded settings from %s\n", file)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger(os.Stderr, opts.Debug, opts.Silent, opts.NoColor)
		defer func() { _ = logger.Sync() }()

		// Scans always run to completion; there is no cancellation.
		return runner.Run(context.Background(), &opts, logger, cmd.ErrOrStderr())
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	def := config.Default()
	f := rootCmd.Flags()

	// Input
	f.StringVarP(&opts.TargetsFile, "list", "l", "", "File with one URL per line")
	f.StringVar(&opts.TemplatesDir, "gf", def.TemplatesDir, "Directory of gf pattern templates")
	f.BoolVar(&opts.CreateMissing, "create-gf", false, "Create the template directory if it does not exist")

	// Performance
	f.IntVarP(&opts.Threads, "threads", "t", def.Threads, "Number of concurrent workers")
	f.DurationVar(&opts.Timeout, "timeout", def.Timeout, "Per-URL fetch timeout")

	// HTTP
	f.StringSliceVarP(new([]string), "header", "H", nil, "Custom headers (Key: Value)")
	f.StringVar(&opts.UserAgent, "user-agent", "", "Fixed User-Agent (default: random browser UA per request)")
	f.StringVar(&opts.Proxy, "proxy", "", "HTTP/SOCKS proxy URL")
	f.BoolVar(&noRedirects, "no-redirects", false, "Do not follow HTTP redirects")
	f.BoolVar(&opts.VerifyTLS, "verify-tls", false, "Verify TLS certificates")

	// Filtering
	f.StringSliceVar(&opts.IncludeFlags, "include-flag", nil, "Only report findings with these flags (e.g. GF,INSECURE_HTTP)")
	f.StringSliceVar(&opts.ExcludeFlags, "exclude-flag", nil, "Hide findings with these flags (e.g. SCAN_ERROR)")
	f.BoolVar(&opts.Unique, "unique", false, "Report each URL at most once")

	// Output
	f.StringVarP(&opts.OutputPrefix, "output", "o", def.OutputPrefix, "Prefix for the weak URL and gf match files (empty to disable)")
	f.StringVar(&opts.ReportFile, "report", "", "Report file path (default: stdout)")
	f.StringVar(&opts.Format, "format", def.Format, "Report format: "+strings.Join(config.Formats, ", "))
	f.StringVar(&opts.SortBy, "sort", "", "Sort report: "+strings.Join(config.SortKeys, ", ")+" (buffers until scan completes)")
	f.StringVar(&opts.Color, "color", def.Color, "Dashboard accent color: "+strings.Join(config.Colors, ", "))
	f.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")

	// Hooks
	f.StringVar(&opts.OnFindingCmd, "on-finding", "", "Shell command to run for each reported finding (JSON on stdin; {url} {host} {scheme} {flags} expand to quoted WEAKSCAN_* variables)")

	// Debug
	f.BoolVarP(&opts.Debug, "debug", "d", false, "Log every finding and fetch error as it happens")
	f.BoolVarP(&opts.Silent, "silent", "s", false, "Suppress banner, progress and dashboard")

	// Configuration
	f.StringVar(&cfgFile, "config", "", "Config file (default: ./weakscan.yaml, then "+config.ConfigDir()+"/weakscan.yaml)")
	f.BoolVar(&autoMode, "auto", false, "Auto mode: default threads and template dir, normal reporting")

	// Custom help: categorized flags like httpx.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		if cmd != rootCmd {
			fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n\nFlags:\n%s\n", cmd.Short, cmd.UseLine(), cmd.LocalFlags().FlagUsages())
			return
		}
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintf(w, "\nCommands:\n   %-36s%s\n", templatesCmd.Name(), templatesCmd.Short)
		fmt.Fprintln(w)
	})

	// Parse headers from string slice into map in PreRun.
	rootCmd.PreRunE = chainPreRun(rootCmd.PreRunE, func(cmd *cobra.Command, args []string) error {
		raw, _ := f.GetStringSlice("header")
		headers, err := parseHeaders(raw)
		if err != nil {
			return err
		}
		opts.Headers = headers
		return nil
	})

	rootCmd.AddCommand(templatesCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// chainPreRun combines two PreRunE functions.
func chainPreRun(first, second func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if first != nil {
			if err := first(cmd, args); err != nil {
				return err
			}
		}
		return second(cmd, args)
	}
}

// parseHeaders turns "Key: Value" strings into a header map.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" {
			return nil, fmt.Errorf("invalid header format %q, expected 'Key: Value'", h)
		}
		headers[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
	}
	return headers, nil
}

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" && def != "[]" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && !strings.HasPrefix(ver, "v") {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
 _      __         __
| | /| / /__ ___ _/ /__ ___ _______ ____
| |/ |/ / -_) _ '/  '_/(_-</ __/ _ '/ _ \
|__/|__/\__/\_,_/_/\_\/___/\__/\_,_/_//_/  %s

`, ver)
}
