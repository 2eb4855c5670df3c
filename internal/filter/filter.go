package filter

import "github.com/maxvaer/weakscan/internal/scanner"

// Filter decides whether a finding should be left out of the report.
type Filter interface {
	Name() string
	ShouldFilter(finding *scanner.Finding) bool
}

// Chain applies multiple filters in order, short-circuiting on the first match.
type Chain struct {
	filters []Filter
}

// NewChain returns an empty filter chain.
func NewChain() *Chain {
	return &Chain{}
}

// Add appends a filter to the chain.
func (c *Chain) Add(f Filter) {
	c.filters = append(c.filters, f)
}

// Apply runs every filter against the finding. Returns true and the filter
// name if the finding should be filtered out.
func (c *Chain) Apply(finding *scanner.Finding) (bool, string) {
	for _, f := range c.filters {
		if f.ShouldFilter(finding) {
			return true, f.Name()
		}
	}
	return false, ""
}

// Keep returns the findings that pass the chain, in their original order,
// along with a count of dropped findings per filter name.
func (c *Chain) Keep(findings []scanner.Finding) ([]scanner.Finding, map[string]int) {
	dropped := make(map[string]int)
	if len(c.filters) == 0 {
		return findings, dropped
	}
	kept := make([]scanner.Finding, 0, len(findings))
	for i := range findings {
		if filtered, name := c.Apply(&findings[i]); filtered {
			dropped[name]++
			continue
		}
		kept = append(kept, findings[i])
	}
	return kept, dropped
}
