package heuristic

import "strings"

// Flag is a single heuristic result tag.
type Flag string

const (
	FlagInsecureHTTP        Flag = "INSECURE_HTTP"
	FlagMissingClickjacking Flag = "MISSING_CLICKJACKING_PROTECTION"
	FlagSensitiveParamLeak  Flag = "SENSITIVE_PARAM_LEAK"

	templatePrefix  = "GF:"
	scanErrorPrefix = "SCAN_ERROR:"
)

// TemplateFlag returns the flag raised when template name matches.
func TemplateFlag(name string) Flag {
	return Flag(templatePrefix + name)
}

// ScanErrorFlag returns the flag raised for a failed fetch of the given kind.
func ScanErrorFlag(kind string) Flag {
	return Flag(scanErrorPrefix + kind)
}

// IsTemplate reports whether f was raised by a template match.
func (f Flag) IsTemplate() bool {
	return strings.HasPrefix(string(f), templatePrefix)
}

// Template returns the template name of a GF flag, or "" for any other flag.
func (f Flag) Template() string {
	name, ok := strings.CutPrefix(string(f), templatePrefix)
	if !ok {
		return ""
	}
	return name
}

// IsScanError reports whether f records a fetch failure.
func (f Flag) IsScanError() bool {
	return strings.HasPrefix(string(f), scanErrorPrefix)
}

// Join renders flags as a comma-separated list.
func Join(flags []Flag, sep string) string {
	parts := make([]string, len(flags))
	for i, f := range flags {
		parts[i] = string(f)
	}
	return strings.Join(parts, sep)
}
