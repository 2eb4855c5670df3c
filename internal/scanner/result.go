package scanner

import (
	"time"

	"github.com/maxvaer/weakscan/internal/heuristic"
)

// State is the lifecycle position of a single target.
type State int

const (
	StateQueued State = iota
	StateFetching
	StateEvaluated
	StateRecorded  // terminal: at least one flag, Finding stored
	StateDiscarded // terminal: no flags
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StateFetching:
		return "fetching"
	case StateEvaluated:
		return "evaluated"
	case StateRecorded:
		return "recorded"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Finding is a target together with the non-empty set of flags raised for it.
type Finding struct {
	URL   string           `json:"url" yaml:"url"`
	Flags []heuristic.Flag `json:"flags" yaml:"flags"`
}

// HasFlag reports whether f was raised for this finding.
func (fd Finding) HasFlag(f heuristic.Flag) bool {
	for _, flag := range fd.Flags {
		if flag == f {
			return true
		}
	}
	return false
}

// TemplateMatches returns only the GF:<template> flags.
func (fd Finding) TemplateMatches() []heuristic.Flag {
	var out []heuristic.Flag
	for _, f := range fd.Flags {
		if f.IsTemplate() {
			out = append(out, f)
		}
	}
	return out
}

// Outcome describes one processed target. Finding is nil when the target
// was discarded.
type Outcome struct {
	Target   string
	State    State
	Finding  *Finding
	FetchErr error
}

// Result is the complete output of a scan.
type Result struct {
	Findings []Finding
	Total    int // targets processed, flagged or not
	Failed   int // targets whose fetch failed
	Duration time.Duration
}

// Discarded returns how many targets produced no flags.
func (r *Result) Discarded() int {
	return r.Total - len(r.Findings)
}
