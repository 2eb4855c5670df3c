package heuristic

import (
	"github.com/maxvaer/weakscan/internal/fetch"
	"github.com/maxvaer/weakscan/internal/pattern"
)

// Engine evaluates every check for a target. It holds only the read-only
// pattern set and is safe for concurrent use.
type Engine struct {
	Patterns *pattern.Set
}

// NewEngine returns an Engine matching against patterns (may be nil).
func NewEngine(patterns *pattern.Set) *Engine {
	return &Engine{Patterns: patterns}
}

// Evaluate runs all checks and returns the flags in check order:
// protocol, then fetch failure or security header, then sensitive
// parameters, then template matches. fetchErr takes precedence over resp.
func (e *Engine) Evaluate(rawURL string, resp *fetch.Response, fetchErr error) []Flag {
	var flags []Flag

	if f, ok := CheckProtocol(rawURL); ok {
		flags = append(flags, f)
	}

	if fetchErr != nil {
		flags = append(flags, CheckFetchFailure(fetchErr))
	} else if f, ok := CheckSecurityHeader(resp); ok {
		flags = append(flags, f)
	}

	if f, ok := CheckSensitiveParams(rawURL); ok {
		flags = append(flags, f)
	}

	return append(flags, MatchTemplates(rawURL, e.Patterns)...)
}
