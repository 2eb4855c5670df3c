package output

import (
	"io"
	"os"
	"time"

	"github.com/maxvaer/weakscan/internal/heuristic"
	"github.com/maxvaer/weakscan/internal/scanner"
)

// Stats holds aggregate scan statistics.
type Stats struct {
	TotalURLs  int           `json:"total_urls" yaml:"total_urls"`
	Flagged    int           `json:"flagged" yaml:"flagged"`
	Failed     int           `json:"failed" yaml:"failed"`
	Filtered   int           `json:"filtered,omitempty" yaml:"filtered,omitempty"`
	Templates  int           `json:"templates" yaml:"templates"`
	Duration   time.Duration `json:"-" yaml:"-"`
	URLsPerSec float64       `json:"urls_per_sec" yaml:"urls_per_sec"`
}

// NewStats derives Stats from a scan result. reported is the number of
// findings left after report filters.
func NewStats(res *scanner.Result, reported, templates int) Stats {
	s := Stats{
		TotalURLs: res.Total,
		Flagged:   reported,
		Failed:    res.Failed,
		Filtered:  len(res.Findings) - reported,
		Templates: templates,
		Duration:  res.Duration,
	}
	if res.Duration.Seconds() > 0 {
		s.URLsPerSec = float64(res.Total) / res.Duration.Seconds()
	}
	return s
}

// Writer is implemented by each output format.
type Writer interface {
	WriteHeader() error
	WriteFinding(finding *scanner.Finding) error
	WriteFooter(stats Stats) error
	Close() error
}

// WriteAll streams a complete result through w.
func WriteAll(w Writer, findings []scanner.Finding, stats Stats) error {
	if err := w.WriteHeader(); err != nil {
		return err
	}
	for i := range findings {
		if err := w.WriteFinding(&findings[i]); err != nil {
			return err
		}
	}
	return w.WriteFooter(stats)
}

// openOutput returns stdout when path is empty, otherwise a created file.
// The closer is nil for stdout.
func openOutput(path string) (io.Writer, io.Closer, error) {
	if path == "" {
		return os.Stdout, nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

// flagCounts tallies how often each flag was raised, keyed by flag.
func flagCounts(findings []*scanner.Finding) map[heuristic.Flag]int {
	counts := make(map[heuristic.Flag]int)
	for _, f := range findings {
		for _, flag := range f.Flags {
			counts[flag]++
		}
	}
	return counts
}
