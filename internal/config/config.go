package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// AppName is used for the config file name, env prefix and XDG directory.
const AppName = "weakscan"

// Defaults applied by the CLI and by --auto.
const (
	DefaultThreads      = 10
	DefaultTimeout      = 7 * time.Second
	DefaultTemplatesDir = "./gf-templates/"
	DefaultOutputPrefix = "output"
	DefaultFormat       = "text"
	DefaultColor        = "magenta"
)

// Formats lists the supported report formats.
var Formats = []string{"text", "json", "csv", "yaml", "markdown"}

// Colors lists the accepted dashboard accent colors.
var Colors = []string{
	"black", "grey", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"light_grey", "dark_grey", "light_red", "light_green", "light_yellow",
	"light_blue", "light_magenta", "light_cyan",
}

// SortKeys lists the accepted values for --sort.
var SortKeys = []string{"url", "flags"}

// Options holds all configuration for a weakscan run.
type Options struct {
	// Input
	TargetsFile   string
	TemplatesDir  string
	CreateMissing bool // create TemplatesDir when it does not exist

	// Performance
	Threads int
	Timeout time.Duration

	// HTTP
	VerifyTLS       bool
	Headers         map[string]string
	UserAgent       string // empty = random from the built-in pool
	Proxy           string
	FollowRedirects bool

	// Report filtering
	IncludeFlags []string
	ExcludeFlags []string
	Unique       bool // report each URL at most once

	// Output
	OutputPrefix string // artifact prefix, empty disables artifact files
	ReportFile   string // empty = stdout
	Format       string
	SortBy       string
	NoColor      bool
	Color        string // dashboard accent, one of Colors
	Debug        bool
	Silent       bool

	// Hooks
	OnFindingCmd string
}

// ConfigDir returns the XDG config directory searched for weakscan.yaml.
// On Linux: ~/.config/weakscan
// On macOS: ~/Library/Application Support/weakscan
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Default returns Options populated with the built-in defaults.
func Default() Options {
	return Options{
		TemplatesDir:    DefaultTemplatesDir,
		Threads:         DefaultThreads,
		Timeout:         DefaultTimeout,
		FollowRedirects: true,
		OutputPrefix:    DefaultOutputPrefix,
		Format:          DefaultFormat,
		Color:           DefaultColor,
	}
}

// ApplyAuto resets the tunables to their defaults, mirroring "auto mode":
// all checks run with the stock thread count and template directory, with
// normal (non-debug, non-silent) reporting.
func (o *Options) ApplyAuto() {
	o.Threads = DefaultThreads
	o.TemplatesDir = DefaultTemplatesDir
	o.Debug = false
	o.Silent = false
}

// Validate checks the options for configuration errors. It does not touch
// the filesystem; a missing target file is reported by the loader.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.TargetsFile) == "" {
		return ErrNoTargetList
	}
	if o.Threads < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidThreads, o.Threads)
	}
	if o.Timeout <= 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidTimeout, o.Timeout)
	}
	if !contains(Formats, o.Format) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidFormat, o.Format, strings.Join(Formats, ", "))
	}
	if o.SortBy != "" && !contains(SortKeys, o.SortBy) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidSort, o.SortBy, strings.Join(SortKeys, ", "))
	}
	if !contains(Colors, o.Color) {
		return fmt.Errorf("%w: %q (want one of %s)", ErrInvalidColor, o.Color, strings.Join(Colors, ", "))
	}
	if len(o.IncludeFlags) > 0 && len(o.ExcludeFlags) > 0 {
		return ErrConflictingFlagFilters
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
