package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/maxvaer/weakscan/internal/scanner"
)

// Dashboard prints the end-of-scan summary.
type Dashboard struct {
	w      io.Writer
	accent *color.Color
	warn   *color.Color
}

// accentColors maps the --color names to terminal attributes.
var accentColors = map[string]color.Attribute{
	"black":         color.FgBlack,
	"grey":          color.FgHiBlack,
	"red":           color.FgRed,
	"green":         color.FgGreen,
	"yellow":        color.FgYellow,
	"blue":          color.FgBlue,
	"magenta":       color.FgMagenta,
	"cyan":          color.FgCyan,
	"white":         color.FgHiWhite,
	"light_grey":    color.FgWhite,
	"dark_grey":     color.FgHiBlack,
	"light_red":     color.FgHiRed,
	"light_green":   color.FgHiGreen,
	"light_yellow":  color.FgHiYellow,
	"light_blue":    color.FgHiBlue,
	"light_magenta": color.FgHiMagenta,
	"light_cyan":    color.FgHiCyan,
}

// NewDashboard creates a dashboard writing to w with the named accent color.
// Unknown names fall back to magenta.
func NewDashboard(w io.Writer, accent string, noColor bool) *Dashboard {
	attr, ok := accentColors[accent]
	if !ok {
		attr = color.FgMagenta
	}
	d := &Dashboard{
		w:      w,
		accent: color.New(attr),
		warn:   color.New(color.FgYellow),
	}
	if noColor {
		d.accent.DisableColor()
		d.warn.DisableColor()
	}
	return d
}

// Print writes the summary counters and a per-flag breakdown.
func (d *Dashboard) Print(stats Stats, findings []scanner.Finding) {
	rule := strings.Repeat("=", 37)

	d.accent.Fprintln(d.w, "\n===== Weak URL Scanner Dashboard =====")
	d.accent.Fprintf(d.w, "Total URLs scanned: %d\n", stats.TotalURLs)
	d.accent.Fprintf(d.w, "Weak URLs found:    %d\n", stats.Flagged)
	if stats.Filtered > 0 {
		d.accent.Fprintf(d.w, "Filtered out:       %d\n", stats.Filtered)
	}
	if stats.Failed > 0 {
		d.warn.Fprintf(d.w, "Fetch errors:       %d\n", stats.Failed)
	}
	d.accent.Fprintf(d.w, "Templates loaded:   %d\n", stats.Templates)
	d.accent.Fprintf(d.w, "Duration:           %s (%.1f URLs/s)\n", stats.Duration.Round(time.Millisecond), stats.URLsPerSec)

	ptrs := make([]*scanner.Finding, len(findings))
	for i := range findings {
		ptrs[i] = &findings[i]
	}
	if rows := breakdownRows(flagCounts(ptrs)); len(rows) > 0 {
		d.accent.Fprintln(d.w, "Flags:")
		for _, row := range rows {
			fmt.Fprintf(d.w, "  %-40s %s\n", row[0], row[1])
		}
	}
	d.accent.Fprintln(d.w, rule)
}

// Saved reports where the artifact files were written.
func (d *Dashboard) Saved(a Artifacts) {
	d.accent.Fprintf(d.w, "\n[+] Saved weak URLs in %s\n", a.WeakURLs)
	d.accent.Fprintf(d.w, "[+] Saved GF matched URLs in %s\n", a.Matched)
}
