// Package heuristic holds the stateless URL checks. Each check is independent;
// Engine runs all of them for every target and unions the flags.
package heuristic

import (
	"strings"

	"github.com/maxvaer/weakscan/internal/fetch"
	"github.com/maxvaer/weakscan/internal/pattern"
)

// sensitiveKeywords are matched as case-insensitive substrings of the whole
// URL, so path segments can trigger them too.
var sensitiveKeywords = []string{
	"password",
	"token",
	"api_key",
	"secret",
	"auth",
	"session",
	"admin",
	"aws_",
	"db_",
}

// SensitiveKeywords returns a copy of the keyword list used by
// CheckSensitiveParams.
func SensitiveKeywords() []string {
	out := make([]string, len(sensitiveKeywords))
	copy(out, sensitiveKeywords)
	return out
}

// CheckProtocol flags plain-HTTP URLs. The prefix match is case-sensitive.
func CheckProtocol(rawURL string) (Flag, bool) {
	if strings.HasPrefix(rawURL, "http://") {
		return FlagInsecureHTTP, true
	}
	return "", false
}

// CheckSecurityHeader flags a response without X-Frame-Options. A nil
// response (fetch failed) is never flagged here.
func CheckSecurityHeader(resp *fetch.Response) (Flag, bool) {
	if resp == nil {
		return "", false
	}
	if len(resp.Header.Values("X-Frame-Options")) == 0 {
		return FlagMissingClickjacking, true
	}
	return "", false
}

// CheckSensitiveParams flags URLs containing any sensitive keyword. At most
// one flag is raised however many keywords match.
func CheckSensitiveParams(rawURL string) (Flag, bool) {
	lower := strings.ToLower(rawURL)
	for _, k := range sensitiveKeywords {
		if strings.Contains(lower, k) {
			return FlagSensitiveParamLeak, true
		}
	}
	return "", false
}

// MatchTemplates returns one GF:<name> flag per template with a matching
// pattern, in template order.
func MatchTemplates(rawURL string, set *pattern.Set) []Flag {
	var flags []Flag
	for _, t := range set.Templates() {
		if t.Match(rawURL) {
			flags = append(flags, TemplateFlag(t.Name))
		}
	}
	return flags
}

// CheckFetchFailure returns the SCAN_ERROR flag for a failed fetch.
func CheckFetchFailure(err error) Flag {
	return ScanErrorFlag(fetch.KindOf(err).String())
}
