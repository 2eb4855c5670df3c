package filter

import (
	"strings"

	"github.com/maxvaer/weakscan/internal/heuristic"
	"github.com/maxvaer/weakscan/internal/scanner"
)

// FlagFilter includes or excludes findings based on the flags they carry.
//
// An entry matches a flag when the two are equal, ignoring case, or when the
// entry names a flag family: "GF" matches every GF:<template> flag and
// "SCAN_ERROR" matches every SCAN_ERROR:<kind> flag.
type FlagFilter struct {
	include []string
	exclude []string
}

// NewFlagFilter creates a flag filter. If include is non-empty, only findings
// carrying at least one included flag pass through. If exclude is non-empty,
// findings carrying any excluded flag are filtered.
func NewFlagFilter(include, exclude []string) *FlagFilter {
	return &FlagFilter{include: normalize(include), exclude: normalize(exclude)}
}

func (f *FlagFilter) Name() string { return "flag" }

func (f *FlagFilter) ShouldFilter(finding *scanner.Finding) bool {
	if len(f.include) > 0 {
		return !anyMatch(f.include, finding.Flags) // filter if NOT included
	}
	if len(f.exclude) > 0 {
		return anyMatch(f.exclude, finding.Flags)
	}
	return false
}

func anyMatch(entries []string, flags []heuristic.Flag) bool {
	for _, flag := range flags {
		for _, e := range entries {
			if matches(e, flag) {
				return true
			}
		}
	}
	return false
}

func matches(entry string, flag heuristic.Flag) bool {
	s := string(flag)
	if strings.EqualFold(entry, s) {
		return true
	}
	return len(s) > len(entry) && s[len(entry)] == ':' && strings.EqualFold(entry, s[:len(entry)])
}

func normalize(entries []string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}
