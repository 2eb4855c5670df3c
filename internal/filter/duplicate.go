package filter

import (
	"strings"
	"sync"

	"github.com/maxvaer/weakscan/internal/scanner"
)

// DuplicateFilter collapses findings for the same URL. Target lists are not
// deduplicated on input, so a URL listed twice is scanned twice; this filter
// keeps only the first finding reported for it.
//
// URLs are compared after trimming a trailing slash, so "https://a/" and
// "https://a" count as the same target.
type DuplicateFilter struct {
	mu   sync.Mutex
	seen map[string]int
}

// NewDuplicateFilter returns an empty duplicate filter.
func NewDuplicateFilter() *DuplicateFilter {
	return &DuplicateFilter{seen: make(map[string]int)}
}

func (d *DuplicateFilter) Name() string { return "duplicate" }

func (d *DuplicateFilter) ShouldFilter(finding *scanner.Finding) bool {
	key := strings.TrimSuffix(finding.URL, "/")

	d.mu.Lock()
	d.seen[key]++
	count := d.seen[key]
	d.mu.Unlock()

	return count > 1
}
