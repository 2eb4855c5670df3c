package output

import (
	"sort"

	"github.com/maxvaer/weakscan/internal/scanner"
)

// SortedWriter buffers findings and replays them sorted when WriteFooter is
// called. It wraps any other Writer.
type SortedWriter struct {
	inner    Writer
	sortBy   string
	findings []*scanner.Finding
}

// NewSortedWriter wraps inner and buffers findings for sorted replay.
// sortBy is "url" or "flags" (most flags first).
func NewSortedWriter(inner Writer, sortBy string) *SortedWriter {
	return &SortedWriter{inner: inner, sortBy: sortBy}
}

func (w *SortedWriter) WriteHeader() error {
	return w.inner.WriteHeader()
}

func (w *SortedWriter) WriteFinding(finding *scanner.Finding) error {
	cpy := *finding
	w.findings = append(w.findings, &cpy)
	return nil
}

func (w *SortedWriter) WriteFooter(stats Stats) error {
	sort.SliceStable(w.findings, func(i, j int) bool {
		a, b := w.findings[i], w.findings[j]
		switch w.sortBy {
		case "flags":
			if len(a.Flags) != len(b.Flags) {
				return len(a.Flags) > len(b.Flags)
			}
			return a.URL < b.URL
		case "url":
			return a.URL < b.URL
		default:
			return false
		}
	})
	for _, f := range w.findings {
		if err := w.inner.WriteFinding(f); err != nil {
			return err
		}
	}
	return w.inner.WriteFooter(stats)
}

func (w *SortedWriter) Close() error {
	return w.inner.Close()
}
